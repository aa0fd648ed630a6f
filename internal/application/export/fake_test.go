package export

import (
	"context"
	"errors"
	"io"

	"github.com/satriahrh/convoport/internal/domain/catalog"
	"github.com/satriahrh/convoport/internal/domain/export"
)

// fakePlatform implements catalog.Client with overridable behavior per test.
type fakePlatform struct {
	projects      []*catalog.Project
	deployments   map[catalog.ProjectID][]*catalog.Deployment
	agents        map[catalog.ProjectID][]*catalog.Agent
	sessions      []*catalog.ChatSession
	conversations map[catalog.DeploymentID][]*catalog.Conversation

	exportSession func(id catalog.ChatSessionID) (string, error)
	getSession    func(id catalog.ChatSessionID) (*catalog.ChatSession, error)
	exportConvo   func(id catalog.ConversationID) (string, error)
	getConvo      func(id catalog.ConversationID) (*catalog.Conversation, error)
}

var errNotStubbed = errors.New("not stubbed")

func (f *fakePlatform) ListProjects(context.Context) ([]*catalog.Project, error) {
	return f.projects, nil
}

func (f *fakePlatform) DescribeProject(_ context.Context, id catalog.ProjectID) (*catalog.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakePlatform) ListDeployments(_ context.Context, projectID catalog.ProjectID) ([]*catalog.Deployment, error) {
	return f.deployments[projectID], nil
}

func (f *fakePlatform) ListAgents(_ context.Context, projectID catalog.ProjectID) ([]*catalog.Agent, error) {
	return f.agents[projectID], nil
}

func (f *fakePlatform) ListChatSessions(context.Context) ([]*catalog.ChatSession, error) {
	return f.sessions, nil
}

func (f *fakePlatform) GetChatSession(_ context.Context, id catalog.ChatSessionID) (*catalog.ChatSession, error) {
	if f.getSession != nil {
		return f.getSession(id)
	}
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakePlatform) ExportChatSession(_ context.Context, id catalog.ChatSessionID) (string, error) {
	if f.exportSession != nil {
		return f.exportSession(id)
	}
	return "<html>export " + string(id) + "</html>", nil
}

func (f *fakePlatform) ListConversations(_ context.Context, deploymentID catalog.DeploymentID) ([]*catalog.Conversation, error) {
	return f.conversations[deploymentID], nil
}

func (f *fakePlatform) GetConversation(_ context.Context, id catalog.ConversationID) (*catalog.Conversation, error) {
	if f.getConvo != nil {
		return f.getConvo(id)
	}
	for _, convos := range f.conversations {
		for _, c := range convos {
			if c.ID == id {
				return c, nil
			}
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakePlatform) ExportConversation(_ context.Context, id catalog.ConversationID) (string, error) {
	if f.exportConvo != nil {
		return f.exportConvo(id)
	}
	return "<html>convo " + string(id) + "</html>", nil
}

func (f *fakePlatform) CreateConversation(context.Context, catalog.DeploymentID) (*catalog.Conversation, error) {
	return nil, errNotStubbed
}

func (f *fakePlatform) SendMessage(context.Context, catalog.ConversationID, string) (string, error) {
	return "", errNotStubbed
}

func (f *fakePlatform) UploadDocument(context.Context, catalog.DeploymentID, string, io.Reader) (string, error) {
	return "", errNotStubbed
}

var _ catalog.Client = (*fakePlatform)(nil)

// memIndex is an in-memory export.Index.
type memIndex struct {
	seen map[string]bool
}

func newMemIndex() *memIndex { return &memIndex{seen: map[string]bool{}} }

func (m *memIndex) key(id string, kind export.Kind) string { return id + "/" + string(kind) }

func (m *memIndex) Has(_ context.Context, id string, kind export.Kind) (bool, error) {
	return m.seen[m.key(id, kind)], nil
}

func (m *memIndex) Record(_ context.Context, a *export.Artifact) error {
	m.seen[m.key(a.ResourceID, a.Kind)] = true
	return nil
}

func (m *memIndex) List(context.Context, int) ([]*export.Artifact, error) {
	return nil, nil
}

var _ export.Index = (*memIndex)(nil)
