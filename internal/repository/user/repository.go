package user

import "context"

// User is an auth_users row. Profile rows are created alongside so the user
// id always resolves to a profile.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

type Repository interface {
	Create(ctx context.Context, email, passwordHash, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
