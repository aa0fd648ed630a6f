package export

import "context"

// Writer port (interface for artifact persistence)
//
// Scope is a relative directory under the export root, used to keep
// projects/deployments from colliding. Stamp and name are sanitized by the
// implementation; id is written verbatim.
type Writer interface {
	WriteHTML(scope, stamp, name, id, html string) (*Artifact, error)
	WriteJSON(scope, stamp, name, id string, v any) (*Artifact, error)
}

// Index port (interface for the local export index)
//
// The index records which resource ids already have artifacts on disk so a
// re-run can skip them.
type Index interface {
	Has(ctx context.Context, resourceID string, kind Kind) (bool, error)
	Record(ctx context.Context, a *Artifact) error
	List(ctx context.Context, limit int) ([]*Artifact, error)
}

// Mirror port (interface for optional off-host artifact copies)
type Mirror interface {
	MirrorFile(ctx context.Context, localPath, key string) (string, error)
}
