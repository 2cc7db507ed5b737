package graphiso

import "errors"

// Errors
//
// Invalid-argument errors are surfaced before any mutation takes place.
// ErrSearchCorrupt is an invariant violation inside the matcher itself and
// means the query result is unusable, not merely negative.
var (
	ErrNilVertex          = errors.New("nil vertex")
	ErrNilEdge            = errors.New("nil edge")
	ErrNotEditable        = errors.New("graph is not in the edit layout")
	ErrSelfLoop           = errors.New("edge requires two distinct vertices")
	ErrMissingEndpoint    = errors.New("edge endpoint is not in the graph")
	ErrDuplicateEdge      = errors.New("edge already exists between endpoints")
	ErrVertexNotFound     = errors.New("vertex not found")
	ErrEdgeNotFound       = errors.New("edge not found")
	ErrSeedTooLarge       = errors.New("seed mapping larger than pattern vertex count")
	ErrBadSeed            = errors.New("seed mapping is not injective")
	ErrSearchCorrupt      = errors.New("matcher search state is corrupt")
	ErrBadGraphExpr       = errors.New("bad graph expression")
	ErrUnsupportedPayload = errors.New("payload type not supported by this operation")
	ErrBadCatalogParam    = errors.New("bad catalog param")
	ErrCatalogReadOnly    = errors.New("catalog is read-only")
	ErrBadEncoding        = errors.New("bad graph encoding")
)
