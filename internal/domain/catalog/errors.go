package catalog

import "errors"

// ErrEmptyExport indicates the platform's export endpoint answered 2xx but
// without a usable body; callers should fall back to local rendering.
var ErrEmptyExport = errors.New("platform returned empty export")

// ErrUnauthorized indicates the API key was rejected (HTTP 401/403).
var ErrUnauthorized = errors.New("platform rejected api key")

// ErrNotFound indicates the requested resource does not exist (HTTP 404).
var ErrNotFound = errors.New("platform resource not found")
