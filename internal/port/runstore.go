package port

import "ngramlm/internal/domain"

// RunStore records evaluation runs. It never holds model tables.
type RunStore interface {
	PutRun(run domain.Run) error

	GetRun(id string) (domain.Run, error)

	// ListRuns returns runs newest first.
	ListRuns() ([]domain.Run, error)

	DeleteRun(id string) error

	Close() error
}
