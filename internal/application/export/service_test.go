package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/satriahrh/convoport/internal/application"
	"github.com/satriahrh/convoport/internal/domain/catalog"
	"github.com/satriahrh/convoport/internal/infra/exportdir"
)

func testSessions(n int) []*catalog.ChatSession {
	out := make([]*catalog.ChatSession, 0, n)
	names := []string{"GPU Cost Crisis", "Churn Model", "Data Cleanup", "Ad Spend", "Forecast"}
	for i := 0; i < n; i++ {
		out = append(out, &catalog.ChatSession{
			ID:        catalog.ChatSessionID([]string{"s1", "s2", "s3", "s4", "s5"}[i]),
			Name:      names[i],
			CreatedAt: "2024-03-01T10:00:00Z",
			History: []catalog.Message{
				{Role: "user", Text: "question"},
				{Role: "assistant", Text: "answer"},
			},
		})
	}
	return out
}

func newTestService(t *testing.T, fake *fakePlatform) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	return &Service{
		Platform:  fake,
		Artifacts: exportdir.New(dir),
		Clock:     application.FixedClock{T: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		Log:       zap.NewNop(),
	}, dir
}

func listFiles(t *testing.T, dir, ext string) []string {
	t.Helper()
	var names []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ext {
			names = append(names, filepath.Base(path))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(names)
	return names
}

func TestSessionsWritesPairPerSession(t *testing.T) {
	fake := &fakePlatform{sessions: testSessions(3)}
	svc, dir := newTestService(t, fake)

	sum, err := svc.Sessions(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Found)
	assert.Equal(t, 3, sum.Exported)
	assert.Equal(t, 0, sum.Fallbacks)
	assert.Equal(t, 0, sum.Failed)

	htmls := listFiles(t, dir, ".html")
	jsons := listFiles(t, dir, ".json")
	assert.Len(t, htmls, 3)
	assert.Len(t, jsons, 3)

	// Unique names keyed by the immutable id.
	seen := map[string]bool{}
	for _, n := range htmls {
		assert.False(t, seen[n], "duplicate artifact name %s", n)
		seen[n] = true
	}
	assert.Contains(t, htmls, "2024-03-01T10_00_00Z__GPU_Cost_Crisis__s1.html")
}

func TestSessionsFallbackOnExportFailure(t *testing.T) {
	fake := &fakePlatform{sessions: testSessions(3)}
	fake.exportSession = func(id catalog.ChatSessionID) (string, error) {
		if id == "s2" {
			return "", errors.New("export endpoint down")
		}
		return "<html>export</html>", nil
	}
	svc, dir := newTestService(t, fake)

	sum, err := svc.Sessions(context.Background(), Options{})
	require.NoError(t, err)

	// The failing session is rescued by the local renderer: all N HTML files
	// exist and exactly one primary failure shows up in the summary.
	assert.Len(t, listFiles(t, dir, ".html"), 3)
	assert.Equal(t, 3, sum.Exported)
	assert.Equal(t, 1, sum.Fallbacks)
	assert.Equal(t, 0, sum.Failed)

	data, err := os.ReadFile(filepath.Join(dir, "chat_sessions", "2024-03-01T10_00_00Z__Churn_Model__s2.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h3>USER</h3>")
}

func TestSessionsBothPathsFailing(t *testing.T) {
	fake := &fakePlatform{sessions: testSessions(2)}
	fake.exportSession = func(catalog.ChatSessionID) (string, error) {
		return "", errors.New("export down")
	}
	fake.getSession = func(catalog.ChatSessionID) (*catalog.ChatSession, error) {
		return nil, errors.New("get down")
	}
	svc, dir := newTestService(t, fake)

	sum, err := svc.Sessions(context.Background(), Options{})
	require.NoError(t, err)

	// No HTML, but raw JSON still written; both failures reported and the
	// second item was still attempted.
	assert.Empty(t, listFiles(t, dir, ".html"))
	assert.Len(t, listFiles(t, dir, ".json"), 2)
	assert.Equal(t, 2, sum.Failed)
	require.Len(t, sum.Failures, 2)
	assert.Equal(t, "s1", sum.Failures[0].ResourceID)
	assert.Equal(t, "s2", sum.Failures[1].ResourceID)
}

func TestSessionsZeroMessagesStillExported(t *testing.T) {
	fake := &fakePlatform{sessions: []*catalog.ChatSession{{
		ID:        "s_empty",
		Name:      "Empty",
		CreatedAt: "2024-03-01T10:00:00Z",
	}}}
	fake.exportSession = func(catalog.ChatSessionID) (string, error) {
		return "", catalog.ErrEmptyExport
	}
	svc, dir := newTestService(t, fake)

	sum, err := svc.Sessions(context.Background(), Options{})
	require.NoError(t, err)

	// An empty session still yields the full HTML/JSON pair.
	assert.Equal(t, 1, sum.Exported)
	assert.Len(t, listFiles(t, dir, ".html"), 1)
	assert.Len(t, listFiles(t, dir, ".json"), 1)
}

func TestSessionsNamesStableAcrossRuns(t *testing.T) {
	fake := &fakePlatform{sessions: testSessions(3)}
	svc, dir := newTestService(t, fake)

	_, err := svc.Sessions(context.Background(), Options{})
	require.NoError(t, err)
	first := listFiles(t, dir, ".html")

	_, err = svc.Sessions(context.Background(), Options{})
	require.NoError(t, err)
	second := listFiles(t, dir, ".html")

	assert.Equal(t, first, second)
}

func TestSessionsSkipExisting(t *testing.T) {
	fake := &fakePlatform{sessions: testSessions(3)}
	svc, _ := newTestService(t, fake)
	svc.Index = newMemIndex()

	sum, err := svc.Sessions(context.Background(), Options{SkipExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Exported)

	sum, err = svc.Sessions(context.Background(), Options{SkipExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Exported)
	assert.Equal(t, 3, sum.Skipped)
}

func TestDeploymentEmptyExportPlaceholder(t *testing.T) {
	fake := &fakePlatform{
		conversations: map[catalog.DeploymentID][]*catalog.Conversation{
			"dep_1": {{ID: "c1", Name: "Untitled", CreatedAt: "2024-02-02T00:00:00Z"}},
		},
	}
	fake.exportConvo = func(catalog.ConversationID) (string, error) {
		return "", catalog.ErrEmptyExport
	}
	svc, dir := newTestService(t, fake)

	sum, err := svc.Deployment(context.Background(), "dep_1", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Exported)
	assert.Equal(t, 1, sum.Fallbacks)

	files := listFiles(t, dir, ".html")
	require.Len(t, files, 1)
	data, err := os.ReadFile(filepath.Join(dir, "deployment_dep_1", files[0]))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Empty Export")
}

func TestAllDeploymentsScopesByProjectAndDeployment(t *testing.T) {
	fake := &fakePlatform{
		projects: []*catalog.Project{
			{ID: "p1", Name: "Support Bot", UseCase: catalog.UseCaseAIAgent},
			{ID: "p2", Name: "Research", UseCase: catalog.UseCaseChatLLM},
		},
		deployments: map[catalog.ProjectID][]*catalog.Deployment{
			"p1": {{ID: "d1", ProjectID: "p1", Name: "Prod"}},
			"p2": {{ID: "d2", ProjectID: "p2", Name: "Staging"}},
		},
		conversations: map[catalog.DeploymentID][]*catalog.Conversation{
			"d1": {{ID: "c1", Name: "Hello", CreatedAt: "2024-01-01T00:00:00Z"}},
			"d2": {{ID: "c2", Name: "World", CreatedAt: "2024-01-02T00:00:00Z"}},
		},
	}
	svc, dir := newTestService(t, fake)

	sum, err := svc.AllDeployments(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Exported)

	assert.FileExists(t, filepath.Join(dir, "Support_Bot", "Prod_d1",
		"2024-01-01T00_00_00Z__Hello__c1.html"))
	assert.FileExists(t, filepath.Join(dir, "Research", "Staging_d2",
		"2024-01-02T00_00_00Z__World__c2.html"))
}

func TestProjectsBranchesOnUseCase(t *testing.T) {
	fake := &fakePlatform{
		projects: []*catalog.Project{
			{ID: "p1", Name: "Copilot", UseCase: catalog.UseCaseChatLLM},
			{ID: "p2", Name: "Agents", UseCase: catalog.UseCaseAIAgent},
			{ID: "p3", Name: "Vision", UseCase: catalog.UseCase("FORECASTING")},
		},
		sessions: testSessions(1),
		agents: map[catalog.ProjectID][]*catalog.Agent{
			"p2": {{ID: "a1", ProjectID: "p2", Name: "Helper"}},
		},
		deployments: map[catalog.ProjectID][]*catalog.Deployment{
			"p2": {{ID: "d1", ProjectID: "p2", Name: "Prod"}},
		},
		conversations: map[catalog.DeploymentID][]*catalog.Conversation{
			"d1": {{ID: "c1", Name: "Chat", CreatedAt: "2024-01-01T00:00:00Z"}},
		},
	}
	svc, dir := newTestService(t, fake)

	sum, err := svc.Projects(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Exported)

	// CHAT_LLM project exported the session pair into its project scope.
	assert.FileExists(t, filepath.Join(dir, "Copilot_p1",
		"2024-03-01T10_00_00Z__GPU_Cost_Crisis__s1.html"))
	// AI_AGENT project embedded the agent name in the conversation file.
	assert.FileExists(t, filepath.Join(dir, "Agents_p2",
		"2024-01-01T00_00_00Z__Helper__Chat__c1.html"))
}
