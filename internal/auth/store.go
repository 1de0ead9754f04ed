package auth

import "context"

// UserStore is the persistent record of user identities and password
// credentials. Email uniqueness is enforced by the store itself, not only by
// callers checking first: concurrent signups racing past the existence check
// must still collapse to a single identity.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}
