package catalog

import "context"

// CourseStore manages catalog entries.
type CourseStore interface {
	Create(ctx context.Context, c *Course) error
	Find(ctx context.Context, courseID int64) (*Course, error)
	List(ctx context.Context) ([]*Course, error)
}

// InteractionStore manages engagement records.
type InteractionStore interface {
	Create(ctx context.Context, i *Interaction) error
	List(ctx context.Context) ([]*Interaction, error)
	// CoursesTaken returns the distinct course ids a user has interacted with.
	CoursesTaken(ctx context.Context, userID string) ([]int64, error)
}
