// Package platform implements catalog.Client against the hosted chat/agent
// platform's HTTP API. Authentication is a bearer API key; every operation
// is a single blocking request with the caller's context.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/satriahrh/convoport/internal/domain/catalog"
)

const DefaultBaseURL = "https://api.abacus.ai/api/v0"

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API base URL (used against test servers and
// self-hosted deployments).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// envelope is the platform's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   string          `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, op string, query url.Values, body io.Reader, contentType string, result any) error {
	u := c.baseURL + "/" + op
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, catalog.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, catalog.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, truncate(data, 200))
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		return fmt.Errorf("%s: %s", op, msg)
	}
	if result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return fmt.Errorf("%s: decode result: %w", op, err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, op string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, op, query, nil, "", result)
}

func (c *Client) post(ctx context.Context, op string, payload, result any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", op, err)
	}
	return c.do(ctx, http.MethodPost, op, nil, bytes.NewReader(data), "application/json", result)
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// ListProjects implements catalog.Client.
func (c *Client) ListProjects(ctx context.Context) ([]*catalog.Project, error) {
	var wire []wireProject
	if err := c.get(ctx, "listProjects", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]*catalog.Project, 0, len(wire))
	for _, p := range wire {
		out = append(out, p.toDomain())
	}
	return out, nil
}

// DescribeProject implements catalog.Client.
func (c *Client) DescribeProject(ctx context.Context, id catalog.ProjectID) (*catalog.Project, error) {
	q := url.Values{"projectId": {string(id)}}
	var wire wireProject
	if err := c.get(ctx, "describeProject", q, &wire); err != nil {
		return nil, err
	}
	return wire.toDomain(), nil
}

// ListDeployments implements catalog.Client. An empty project id lists
// deployments across the whole account.
func (c *Client) ListDeployments(ctx context.Context, projectID catalog.ProjectID) ([]*catalog.Deployment, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("projectId", string(projectID))
	}
	var wire []wireDeployment
	if err := c.get(ctx, "listDeployments", q, &wire); err != nil {
		return nil, err
	}
	out := make([]*catalog.Deployment, 0, len(wire))
	for _, d := range wire {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// ListAgents implements catalog.Client.
func (c *Client) ListAgents(ctx context.Context, projectID catalog.ProjectID) ([]*catalog.Agent, error) {
	q := url.Values{"projectId": {string(projectID)}}
	var wire []wireAgent
	if err := c.get(ctx, "listAgents", q, &wire); err != nil {
		return nil, err
	}
	out := make([]*catalog.Agent, 0, len(wire))
	for _, a := range wire {
		out = append(out, a.toDomain())
	}
	return out, nil
}

// ListChatSessions implements catalog.Client. The listing carries summaries
// only; chat history requires GetChatSession.
func (c *Client) ListChatSessions(ctx context.Context) ([]*catalog.ChatSession, error) {
	var wire []wireChatSession
	if err := c.get(ctx, "listChatSessions", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]*catalog.ChatSession, 0, len(wire))
	for _, s := range wire {
		out = append(out, s.toDomain())
	}
	return out, nil
}

// GetChatSession implements catalog.Client.
func (c *Client) GetChatSession(ctx context.Context, id catalog.ChatSessionID) (*catalog.ChatSession, error) {
	q := url.Values{"chatSessionId": {string(id)}}
	var wire wireChatSession
	if err := c.get(ctx, "getChatSession", q, &wire); err != nil {
		return nil, err
	}
	return wire.toDomain(), nil
}

// ExportChatSession implements catalog.Client.
func (c *Client) ExportChatSession(ctx context.Context, id catalog.ChatSessionID) (string, error) {
	q := url.Values{"chatSessionId": {string(id)}}
	var html string
	if err := c.get(ctx, "exportChatSession", q, &html); err != nil {
		return "", err
	}
	if strings.TrimSpace(html) == "" {
		return "", catalog.ErrEmptyExport
	}
	return html, nil
}

// ListConversations implements catalog.Client.
func (c *Client) ListConversations(ctx context.Context, deploymentID catalog.DeploymentID) ([]*catalog.Conversation, error) {
	q := url.Values{}
	if deploymentID != "" {
		q.Set("deploymentId", string(deploymentID))
	}
	var wire []wireConversation
	if err := c.get(ctx, "listDeploymentConversations", q, &wire); err != nil {
		return nil, err
	}
	out := make([]*catalog.Conversation, 0, len(wire))
	for _, v := range wire {
		out = append(out, v.toDomain())
	}
	return out, nil
}

// GetConversation implements catalog.Client.
func (c *Client) GetConversation(ctx context.Context, id catalog.ConversationID) (*catalog.Conversation, error) {
	q := url.Values{"deploymentConversationId": {string(id)}}
	var wire wireConversation
	if err := c.get(ctx, "getDeploymentConversation", q, &wire); err != nil {
		return nil, err
	}
	return wire.toDomain(), nil
}

// ExportConversation implements catalog.Client.
func (c *Client) ExportConversation(ctx context.Context, id catalog.ConversationID) (string, error) {
	q := url.Values{"deploymentConversationId": {string(id)}}
	var wire struct {
		HTML string `json:"conversationExportHtml"`
	}
	if err := c.get(ctx, "exportDeploymentConversation", q, &wire); err != nil {
		return "", err
	}
	if strings.TrimSpace(wire.HTML) == "" {
		return "", catalog.ErrEmptyExport
	}
	return wire.HTML, nil
}

// CreateConversation implements catalog.Client.
func (c *Client) CreateConversation(ctx context.Context, deploymentID catalog.DeploymentID) (*catalog.Conversation, error) {
	payload := map[string]string{"deploymentId": string(deploymentID)}
	var wire wireConversation
	if err := c.post(ctx, "createDeploymentConversation", payload, &wire); err != nil {
		return nil, err
	}
	return wire.toDomain(), nil
}

// SendMessage implements catalog.Client. It returns the assistant's reply.
func (c *Client) SendMessage(ctx context.Context, id catalog.ConversationID, message string) (string, error) {
	payload := map[string]string{
		"deploymentConversationId": string(id),
		"message":                  message,
	}
	var wire struct {
		Response string `json:"response"`
	}
	if err := c.post(ctx, "createDeploymentConversationMessage", payload, &wire); err != nil {
		return "", err
	}
	return wire.Response, nil
}

// UploadDocument implements catalog.Client. The file is streamed as
// multipart form data; the returned string is the platform's upload id.
func (c *Client) UploadDocument(ctx context.Context, deploymentID catalog.DeploymentID, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("deploymentId", string(deploymentID)); err != nil {
		return "", fmt.Errorf("uploadDocument: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("uploadDocument: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("uploadDocument: read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("uploadDocument: %w", err)
	}

	var wire struct {
		UploadID string `json:"uploadId"`
	}
	if err := c.do(ctx, http.MethodPost, "uploadDocument", nil, &buf, mw.FormDataContentType(), &wire); err != nil {
		return "", err
	}
	return wire.UploadID, nil
}

var _ catalog.Client = (*Client)(nil)
