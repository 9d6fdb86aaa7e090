package interfaces

import "context"

// DocumentSource loads the raw text of a stored document. Storage and file
// I/O live behind this interface.
type DocumentSource interface {
	Load(ctx context.Context, id string) (string, error)
}

// StyledRange is a style descriptor over a byte range of a document body.
type StyledRange struct {
	Start int
	End   int
	Style string
}

// Rendering is what a Presenter receives after a document is parsed and
// highlighted.
type Rendering struct {
	DocumentID  string
	Body        string
	Frontmatter map[string]any
	Ranges      []StyledRange
	// Fresh is false when a debounced edit was skipped and Ranges are the
	// last accepted result.
	Fresh bool
}

// Presenter displays a rendering, for example an editor surface or a
// terminal preview.
type Presenter interface {
	Present(ctx context.Context, r Rendering) error
}
