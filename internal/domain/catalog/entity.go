package catalog

// ProjectID identifier type
type ProjectID string

// DeploymentID identifier type
type DeploymentID string

// AgentID identifier type
type AgentID string

// ChatSessionID identifier type
type ChatSessionID string

// ConversationID identifier type
type ConversationID string

// UseCase enum: the platform mode a project was created for
type UseCase string

const (
	UseCaseChatLLM UseCase = "CHAT_LLM"
	UseCaseAIAgent UseCase = "AI_AGENT"
)

// Project is a vendor-owned resource record, consumed read-only.
type Project struct {
	ID        ProjectID `json:"project_id"`
	Name      string    `json:"name"`
	UseCase   UseCase   `json:"use_case,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
}

// Deployment is a published assistant/agent instance that holds conversations.
type Deployment struct {
	ID        DeploymentID `json:"deployment_id"`
	ProjectID ProjectID    `json:"project_id,omitempty"`
	Name      string       `json:"name"`
	CreatedAt string       `json:"created_at,omitempty"`
}

// Agent belongs to an AI_AGENT project.
type Agent struct {
	ID        AgentID   `json:"agent_id"`
	ProjectID ProjectID `json:"project_id,omitempty"`
	Name      string    `json:"name"`
}

// Message is one turn of a conversation. Text is flattened by the client
// adapter; the platform may deliver it as a string or a list of segments.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatSession is a project-scoped chat (the platform's copilot chats).
// History is only populated by Get calls; list calls return summaries.
type ChatSession struct {
	ID        ChatSessionID `json:"chat_session_id"`
	ProjectID ProjectID     `json:"project_id,omitempty"`
	Name      string        `json:"name"`
	CreatedAt string        `json:"created_at,omitempty"`
	History   []Message     `json:"chat_history,omitempty"`
}

// Conversation is a deployment-scoped exchange.
type Conversation struct {
	ID           ConversationID `json:"deployment_conversation_id"`
	DeploymentID DeploymentID   `json:"deployment_id,omitempty"`
	Name         string         `json:"name"`
	CreatedAt    string         `json:"created_at,omitempty"`
	History      []Message      `json:"history,omitempty"`
}
