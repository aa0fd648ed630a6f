package export

import "time"

// Kind enum for artifact files
type Kind string

const (
	KindHTML Kind = "html"
	KindJSON Kind = "json"
)

// Artifact is one locally written export file. Artifacts are created once
// and never mutated or deleted by the tool. The name embeds the resource's
// immutable id, so two resources sharing a display name cannot collide and
// re-exports of an unchanged resource produce the same name.
type Artifact struct {
	ResourceID string    `json:"resource_id"`
	Kind       Kind      `json:"kind"`
	Path       string    `json:"path"`
	WrittenAt  time.Time `json:"written_at"`
}
