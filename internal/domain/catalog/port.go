package catalog

import (
	"context"
	"io"
)

// Client port (interface over the hosted platform API)
//
// Listing a scope that holds nothing returns an empty slice, not an error.
// Export operations return rendered HTML; ErrEmptyExport signals the endpoint
// answered without a body so callers can switch to local rendering.
type Client interface {
	ListProjects(ctx context.Context) ([]*Project, error)
	DescribeProject(ctx context.Context, id ProjectID) (*Project, error)

	// ListDeployments with an empty project id lists across the account.
	ListDeployments(ctx context.Context, projectID ProjectID) ([]*Deployment, error)
	ListAgents(ctx context.Context, projectID ProjectID) ([]*Agent, error)

	ListChatSessions(ctx context.Context) ([]*ChatSession, error)
	GetChatSession(ctx context.Context, id ChatSessionID) (*ChatSession, error)
	ExportChatSession(ctx context.Context, id ChatSessionID) (string, error)

	ListConversations(ctx context.Context, deploymentID DeploymentID) ([]*Conversation, error)
	GetConversation(ctx context.Context, id ConversationID) (*Conversation, error)
	ExportConversation(ctx context.Context, id ConversationID) (string, error)

	CreateConversation(ctx context.Context, deploymentID DeploymentID) (*Conversation, error)
	SendMessage(ctx context.Context, id ConversationID, message string) (string, error)
	UploadDocument(ctx context.Context, deploymentID DeploymentID, filename string, r io.Reader) (string, error)
}
