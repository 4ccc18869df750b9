package driven

import "context"

// Exporter writes a summarised document out of the system, for example as
// plain text or a paginated PDF. Implementations live outside the core
// pipeline; the returned handle is an opaque stored-file reference.
type Exporter interface {
	Export(ctx context.Context, title, body string) (string, error)
}
