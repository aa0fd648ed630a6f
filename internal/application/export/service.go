// Package export implements the export drivers: enumerate platform
// resources, render each conversation to HTML (platform export endpoint
// first, local rendering as fallback) and persist artifacts to disk.
package export

import (
	"context"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/convoport/internal/application"
	"github.com/satriahrh/convoport/internal/domain/catalog"
	"github.com/satriahrh/convoport/internal/domain/export"
	"github.com/satriahrh/convoport/internal/render"
	"github.com/satriahrh/convoport/internal/sanitize"
)

// progressEvery controls periodic progress logging on long listings; the
// first progressHead items and the last item are always logged.
const (
	progressEvery = 50
	progressHead  = 5
)

// Service implements the export use-cases. An individual item failing never
// aborts the pass over its siblings.
type Service struct {
	Platform  catalog.Client
	Artifacts export.Writer
	Index     export.Index  // optional; enables skip-existing
	Mirror    export.Mirror // optional; off-host artifact copies
	Clock     application.Clock
	Log       *zap.Logger
}

// Options tune a single export pass.
type Options struct {
	// SkipExisting skips resources whose ids are already in the index.
	SkipExisting bool
}

// Failure records one item that produced no HTML artifact.
type Failure struct {
	ResourceID string `json:"resource_id"`
	Name       string `json:"name,omitempty"`
	Reason     string `json:"reason"`
}

// Summary is the best-effort outcome of one export pass.
type Summary struct {
	Found     int       `json:"found"`
	Exported  int       `json:"exported"`
	Fallbacks int       `json:"fallbacks"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

func (s *Summary) fail(id, name string, err error) {
	s.Failed++
	s.Failures = append(s.Failures, Failure{ResourceID: id, Name: name, Reason: err.Error()})
}

// htmlProducer yields a rendered HTML document.
type htmlProducer func(ctx context.Context) (string, error)

// renderHTML runs the two-step strategy: primary producer first, fallback on
// any failure. It reports whether the fallback was used.
func renderHTML(ctx context.Context, primary, fallback htmlProducer) (string, bool, error) {
	html, err := primary(ctx)
	if err == nil {
		return html, false, nil
	}
	fb, ferr := fallback(ctx)
	if ferr != nil {
		return "", true, fmt.Errorf("export failed (%v); fallback failed: %w", err, ferr)
	}
	return fb, true, nil
}

// stamp returns the resource timestamp, or the current time when the
// platform omitted one.
func (s *Service) stamp(createdAt string) string {
	if createdAt != "" {
		return createdAt
	}
	return s.Clock.Now().UTC().Format(time.RFC3339)
}

// keep records the artifact in the index and mirrors it when configured.
// Both are best-effort: a bookkeeping failure does not undo a written file.
func (s *Service) keep(ctx context.Context, scope string, a *export.Artifact) {
	if a == nil {
		return
	}
	if s.Index != nil {
		if err := s.Index.Record(ctx, a); err != nil {
			s.Log.Warn("index record failed", zap.String("resource", a.ResourceID), zap.Error(err))
		}
	}
	if s.Mirror != nil {
		key := path.Join(scope, path.Base(a.Path))
		if _, err := s.Mirror.MirrorFile(ctx, a.Path, key); err != nil {
			s.Log.Warn("mirror upload failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *Service) shouldSkip(ctx context.Context, opts Options, id string) bool {
	if !opts.SkipExisting || s.Index == nil {
		return false
	}
	ok, err := s.Index.Has(ctx, id, export.KindHTML)
	if err != nil {
		s.Log.Warn("index lookup failed", zap.String("resource", id), zap.Error(err))
		return false
	}
	return ok
}

func (s *Service) progress(idx, total int, name string) {
	if idx <= progressHead || idx%progressEvery == 0 || idx == total {
		s.Log.Info("exporting",
			zap.Int("item", idx),
			zap.Int("total", total),
			zap.String("name", name),
		)
	}
}

// Sessions exports every chat session in the account as an HTML/JSON pair
// under the chat_sessions scope. Zero-message sessions still produce both
// files.
func (s *Service) Sessions(ctx context.Context, opts Options) (*Summary, error) {
	sessions, err := s.Platform.ListChatSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}

	sum := &Summary{Found: len(sessions)}
	for idx, cs := range sessions {
		s.progress(idx+1, len(sessions), cs.Name)
		s.exportSession(ctx, opts, "chat_sessions", cs, sum)
	}
	return sum, nil
}

// exportSession writes one session's JSON and HTML artifacts into scope.
func (s *Service) exportSession(ctx context.Context, opts Options, scope string, cs *catalog.ChatSession, sum *Summary) {
	id := string(cs.ID)
	if s.shouldSkip(ctx, opts, id) {
		sum.Skipped++
		return
	}

	name := cs.Name
	if name == "" {
		name = "session_" + id
	}
	stamp := s.stamp(cs.CreatedAt)

	// Raw JSON first: full fidelity survives even when both HTML paths fail.
	jsonArt, jsonErr := s.Artifacts.WriteJSON(scope, stamp, name, id, cs)
	if jsonErr != nil {
		s.Log.Warn("json artifact failed", zap.String("session", id), zap.Error(jsonErr))
	} else {
		s.keep(ctx, scope, jsonArt)
	}

	html, usedFallback, err := renderHTML(ctx,
		func(ctx context.Context) (string, error) {
			return s.Platform.ExportChatSession(ctx, cs.ID)
		},
		func(ctx context.Context) (string, error) {
			full, err := s.Platform.GetChatSession(ctx, cs.ID)
			if err != nil {
				return "", err
			}
			return render.Transcript(name, id, full.CreatedAt, full.History), nil
		},
	)
	if usedFallback {
		sum.Fallbacks++
	}
	if err != nil {
		s.Log.Warn("session export failed", zap.String("session", id), zap.Error(err))
		sum.fail(id, cs.Name, err)
		return
	}

	htmlArt, werr := s.Artifacts.WriteHTML(scope, stamp, name, id, html)
	if werr != nil {
		sum.fail(id, cs.Name, werr)
		return
	}
	s.keep(ctx, scope, htmlArt)
	sum.Exported++
}

// conversationScope builds the per-deployment output directory.
func conversationScope(projectName string, d *catalog.Deployment) string {
	deploy := sanitize.Filename(d.Name)
	if d.Name == "" {
		deploy = "deployment"
	}
	scope := fmt.Sprintf("%s_%s", deploy, d.ID)
	if projectName != "" {
		scope = path.Join(sanitize.Filename(projectName), scope)
	}
	return scope
}

// exportConversation writes one conversation's HTML artifact into scope.
// namePrefix (agent name, may be empty) is embedded in the file name.
func (s *Service) exportConversation(ctx context.Context, opts Options, scope, namePrefix string, c *catalog.Conversation, sum *Summary) {
	id := string(c.ID)
	if s.shouldSkip(ctx, opts, id) {
		sum.Skipped++
		return
	}

	name := c.Name
	if name == "" {
		name = "convo_" + id
	}
	if namePrefix != "" {
		name = namePrefix + "__" + name
	}

	html, usedFallback, err := renderHTML(ctx,
		func(ctx context.Context) (string, error) {
			return s.Platform.ExportConversation(ctx, c.ID)
		},
		func(ctx context.Context) (string, error) {
			full, err := s.Platform.GetConversation(ctx, c.ID)
			if err != nil {
				return "", err
			}
			if len(full.History) == 0 {
				return render.EmptyExport(id), nil
			}
			return render.Transcript(name, id, full.CreatedAt, full.History), nil
		},
	)
	if usedFallback {
		sum.Fallbacks++
	}
	if err != nil {
		s.Log.Warn("conversation export failed", zap.String("conversation", id), zap.Error(err))
		sum.fail(id, c.Name, err)
		return
	}

	a, werr := s.Artifacts.WriteHTML(scope, s.stamp(c.CreatedAt), name, id, html)
	if werr != nil {
		sum.fail(id, c.Name, werr)
		return
	}
	s.keep(ctx, scope, a)
	sum.Exported++
}

// Deployment exports every conversation held by one deployment.
func (s *Service) Deployment(ctx context.Context, deploymentID catalog.DeploymentID, opts Options) (*Summary, error) {
	convos, err := s.Platform.ListConversations(ctx, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("list conversations for %s: %w", deploymentID, err)
	}

	scope := "deployment_" + string(deploymentID)
	sum := &Summary{Found: len(convos)}
	for idx, c := range convos {
		s.progress(idx+1, len(convos), c.Name)
		s.exportConversation(ctx, opts, scope, "", c, sum)
	}
	return sum, nil
}

// AllDeployments walks projects -> deployments -> conversations and exports
// everything, one scope directory per deployment.
func (s *Service) AllDeployments(ctx context.Context, opts Options) (*Summary, error) {
	projects, err := s.Platform.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	sum := &Summary{}
	for _, p := range projects {
		deployments, err := s.Platform.ListDeployments(ctx, p.ID)
		if err != nil {
			s.Log.Warn("list deployments failed",
				zap.String("project", string(p.ID)), zap.Error(err))
			sum.fail(string(p.ID), p.Name, err)
			continue
		}
		for _, d := range deployments {
			convos, err := s.Platform.ListConversations(ctx, d.ID)
			if err != nil {
				s.Log.Warn("list conversations failed",
					zap.String("deployment", string(d.ID)), zap.Error(err))
				sum.fail(string(d.ID), d.Name, err)
				continue
			}
			scope := conversationScope(p.Name, d)
			sum.Found += len(convos)
			for idx, c := range convos {
				s.progress(idx+1, len(convos), c.Name)
				s.exportConversation(ctx, opts, scope, "", c, sum)
			}
		}
	}
	return sum, nil
}

// Projects exports per project, branching on the project's platform mode:
// CHAT_LLM projects export chat sessions, AI_AGENT projects export agent
// deployment conversations. Unknown modes are skipped with a warning.
func (s *Service) Projects(ctx context.Context, opts Options) (*Summary, error) {
	projects, err := s.Platform.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	sum := &Summary{}
	for _, p := range projects {
		projName := p.Name
		if projName == "" {
			projName = "project_" + string(p.ID)
		}
		scope := fmt.Sprintf("%s_%s", sanitize.Filename(projName), p.ID)

		switch p.UseCase {
		case catalog.UseCaseChatLLM:
			sessions, err := s.Platform.ListChatSessions(ctx)
			if err != nil {
				sum.fail(string(p.ID), p.Name, err)
				continue
			}
			sum.Found += len(sessions)
			for idx, cs := range sessions {
				s.progress(idx+1, len(sessions), cs.Name)
				s.exportSession(ctx, opts, scope, cs, sum)
			}

		case catalog.UseCaseAIAgent:
			s.exportAgentProject(ctx, opts, scope, p, sum)

		default:
			s.Log.Warn("skipping project with unknown use case",
				zap.String("project", string(p.ID)),
				zap.String("use_case", string(p.UseCase)),
			)
		}
	}
	return sum, nil
}

func (s *Service) exportAgentProject(ctx context.Context, opts Options, scope string, p *catalog.Project, sum *Summary) {
	agents, err := s.Platform.ListAgents(ctx, p.ID)
	if err != nil {
		sum.fail(string(p.ID), p.Name, err)
		return
	}
	if len(agents) == 0 {
		s.Log.Info("no agents in project", zap.String("project", string(p.ID)))
		return
	}

	deployments, err := s.Platform.ListDeployments(ctx, p.ID)
	if err != nil {
		sum.fail(string(p.ID), p.Name, err)
		return
	}

	// Agent name goes into the file name; conversations hang off deployments.
	agentName := sanitize.Filename(agents[0].Name)
	if agents[0].Name == "" {
		agentName = "agent_" + string(agents[0].ID)
	}

	for _, d := range deployments {
		convos, err := s.Platform.ListConversations(ctx, d.ID)
		if err != nil {
			s.Log.Warn("list conversations failed",
				zap.String("deployment", string(d.ID)), zap.Error(err))
			sum.fail(string(d.ID), d.Name, err)
			continue
		}
		sum.Found += len(convos)
		for idx, c := range convos {
			s.progress(idx+1, len(convos), c.Name)
			s.exportConversation(ctx, opts, scope, agentName, c, sum)
		}
	}
}
