// Package discover implements the diagnostic probes that help an operator
// find where chat data lives in their account's resource hierarchy. Probes
// only read; nothing is persisted.
package discover

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/convoport/internal/domain/catalog"
)

const (
	sessionSamples = 3
	listSamples    = 5
)

type Service struct {
	Platform catalog.Client
	Log      *zap.Logger
}

// Probe is the outcome of one list/describe call.
type Probe struct {
	Name    string   `json:"name"`
	Count   int      `json:"count"`
	Err     string   `json:"error,omitempty"`
	Samples []string `json:"samples,omitempty"`
}

// Report aggregates all probes from one discovery pass.
type Report struct {
	Probes        []Probe `json:"probes"`
	FoundAnything bool    `json:"found_anything"`
}

// Run executes the fixed probe battery. Individual probe errors are captured
// in the report; the battery always completes.
func (s *Service) Run(ctx context.Context) *Report {
	r := &Report{}
	r.add(s.probeSessions(ctx))
	projects, projectProbe := s.probeProjects(ctx)
	r.add(projectProbe)
	r.add(s.probeDeployments(ctx))
	r.add(s.probeAgents(ctx, projects))
	s.Log.Info("discovery pass complete",
		zap.Int("probes", len(r.Probes)),
		zap.Bool("found_anything", r.FoundAnything))
	return r
}

func (r *Report) add(p Probe) {
	if p.Count > 0 {
		r.FoundAnything = true
	}
	r.Probes = append(r.Probes, p)
}

func (s *Service) probeSessions(ctx context.Context) Probe {
	p := Probe{Name: "chat sessions"}
	sessions, err := s.Platform.ListChatSessions(ctx)
	if err != nil {
		p.Err = err.Error()
		return p
	}
	p.Count = len(sessions)
	for i, cs := range sessions {
		if i == sessionSamples {
			p.Samples = append(p.Samples, fmt.Sprintf("... and %d more", len(sessions)-sessionSamples))
			break
		}
		name := cs.Name
		if name == "" {
			name = "Untitled"
		}
		p.Samples = append(p.Samples, fmt.Sprintf("%s (id=%s, created=%s)", name, cs.ID, orUnknown(cs.CreatedAt)))
	}
	return p
}

func (s *Service) probeProjects(ctx context.Context) ([]*catalog.Project, Probe) {
	p := Probe{Name: "projects"}
	projects, err := s.Platform.ListProjects(ctx)
	if err != nil {
		p.Err = err.Error()
		return nil, p
	}
	p.Count = len(projects)
	for i, proj := range projects {
		if i == listSamples {
			break
		}
		p.Samples = append(p.Samples, fmt.Sprintf("%s (id=%s, use_case=%s)", proj.Name, proj.ID, orUnknown(string(proj.UseCase))))
	}
	return projects, p
}

func (s *Service) probeDeployments(ctx context.Context) Probe {
	p := Probe{Name: "deployments"}
	deployments, err := s.Platform.ListDeployments(ctx, "")
	if err != nil {
		p.Err = err.Error()
		return p
	}
	p.Count = len(deployments)
	for i, d := range deployments {
		if i == listSamples {
			break
		}
		line := fmt.Sprintf("%s (id=%s)", d.Name, d.ID)
		convos, err := s.Platform.ListConversations(ctx, d.ID)
		switch {
		case err != nil:
			line += " - could not check conversations"
		case len(convos) > 0:
			line += fmt.Sprintf(" - %d conversation(s)", len(convos))
		default:
			line += " - no conversations"
		}
		p.Samples = append(p.Samples, line)
	}
	return p
}

func (s *Service) probeAgents(ctx context.Context, projects []*catalog.Project) Probe {
	p := Probe{Name: "agents"}
	for i, proj := range projects {
		if i == listSamples {
			break
		}
		agents, err := s.Platform.ListAgents(ctx, proj.ID)
		if err != nil {
			p.Err = err.Error()
			continue
		}
		p.Count += len(agents)
		for _, a := range agents {
			p.Samples = append(p.Samples, fmt.Sprintf("%s (id=%s, project=%s)", a.Name, a.ID, proj.ID))
		}
	}
	return p
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// Match is one search hit.
type Match struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Where string `json:"where"`
}

// Search looks for a chat session or conversation by id or name fragment,
// checking direct lookup first, then the session list, then the
// project/deployment hierarchy.
func (s *Service) Search(ctx context.Context, term string) []Match {
	var matches []Match
	needle := strings.ToLower(term)

	if cs, err := s.Platform.GetChatSession(ctx, catalog.ChatSessionID(term)); err == nil {
		matches = append(matches, Match{
			Kind: "chat_session", ID: string(cs.ID), Name: cs.Name, Where: "direct lookup",
		})
	}

	if sessions, err := s.Platform.ListChatSessions(ctx); err == nil {
		for _, cs := range sessions {
			if containsFold(string(cs.ID), needle) || containsFold(cs.Name, needle) {
				matches = append(matches, Match{
					Kind: "chat_session", ID: string(cs.ID), Name: cs.Name, Where: "session list",
				})
			}
		}
	}

	projects, err := s.Platform.ListProjects(ctx)
	if err != nil {
		return dedupe(matches)
	}
	for _, p := range projects {
		deployments, err := s.Platform.ListDeployments(ctx, p.ID)
		if err != nil {
			continue
		}
		for _, d := range deployments {
			convos, err := s.Platform.ListConversations(ctx, d.ID)
			if err != nil {
				continue
			}
			for _, c := range convos {
				if containsFold(string(c.ID), needle) || containsFold(c.Name, needle) {
					matches = append(matches, Match{
						Kind: "conversation", ID: string(c.ID), Name: c.Name,
						Where: fmt.Sprintf("project %s / deployment %s", p.ID, d.ID),
					})
				}
			}
		}
	}
	return dedupe(matches)
}

func containsFold(haystack, needle string) bool {
	return needle != "" && strings.Contains(strings.ToLower(haystack), needle)
}

func dedupe(in []Match) []Match {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, m := range in {
		key := m.Kind + "/" + m.ID + "/" + m.Where
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}
