package platform

import (
	"encoding/json"
	"strings"

	"github.com/satriahrh/convoport/internal/domain/catalog"
)

// Wire types mirror the platform's camelCase JSON. Kept separate from the
// domain records so API field drift stays contained in this package.

type wireProject struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	UseCase   string `json:"useCase"`
	CreatedAt string `json:"createdAt"`
}

func (w wireProject) toDomain() *catalog.Project {
	return &catalog.Project{
		ID:        catalog.ProjectID(w.ProjectID),
		Name:      w.Name,
		UseCase:   catalog.UseCase(w.UseCase),
		CreatedAt: w.CreatedAt,
	}
}

type wireDeployment struct {
	DeploymentID string `json:"deploymentId"`
	ProjectID    string `json:"projectId"`
	Name         string `json:"name"`
	CreatedAt    string `json:"createdAt"`
}

func (w wireDeployment) toDomain() *catalog.Deployment {
	return &catalog.Deployment{
		ID:        catalog.DeploymentID(w.DeploymentID),
		ProjectID: catalog.ProjectID(w.ProjectID),
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
	}
}

type wireAgent struct {
	AgentID   string `json:"agentId"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
}

func (w wireAgent) toDomain() *catalog.Agent {
	return &catalog.Agent{
		ID:        catalog.AgentID(w.AgentID),
		ProjectID: catalog.ProjectID(w.ProjectID),
		Name:      w.Name,
	}
}

type wireMessage struct {
	Role string          `json:"role"`
	Text json.RawMessage `json:"text"`
}

// flattenText handles the platform's two message text encodings: a plain
// string or a list of {"text": ...} segments.
func flattenText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var segments []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &segments); err == nil {
		parts := make([]string, 0, len(segments))
		for _, seg := range segments {
			parts = append(parts, seg.Text)
		}
		return strings.Join(parts, "\n")
	}
	return string(raw)
}

func toMessages(wire []wireMessage) []catalog.Message {
	if len(wire) == 0 {
		return nil
	}
	out := make([]catalog.Message, 0, len(wire))
	for _, m := range wire {
		out = append(out, catalog.Message{Role: m.Role, Text: flattenText(m.Text)})
	}
	return out
}

type wireChatSession struct {
	ChatSessionID string        `json:"chatSessionId"`
	ProjectID     string        `json:"projectId"`
	Name          string        `json:"name"`
	CreatedAt     string        `json:"createdAt"`
	ChatHistory   []wireMessage `json:"chatHistory"`
}

func (w wireChatSession) toDomain() *catalog.ChatSession {
	return &catalog.ChatSession{
		ID:        catalog.ChatSessionID(w.ChatSessionID),
		ProjectID: catalog.ProjectID(w.ProjectID),
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
		History:   toMessages(w.ChatHistory),
	}
}

type wireConversation struct {
	ConversationID string        `json:"deploymentConversationId"`
	DeploymentID   string        `json:"deploymentId"`
	Name           string        `json:"name"`
	CreatedAt      string        `json:"createdAt"`
	History        []wireMessage `json:"history"`
}

func (w wireConversation) toDomain() *catalog.Conversation {
	return &catalog.Conversation{
		ID:           catalog.ConversationID(w.ConversationID),
		DeploymentID: catalog.DeploymentID(w.DeploymentID),
		Name:         w.Name,
		CreatedAt:    w.CreatedAt,
		History:      toMessages(w.History),
	}
}
