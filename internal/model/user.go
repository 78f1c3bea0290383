package model

import "time"

// User is the stored account record. PasswordHash never leaves this package
// in a serializable form; callers hand out Projection instead.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserProjection is the public view of a User and the signing payload for
// issued tokens.
type UserProjection struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Projection() UserProjection {
	return UserProjection{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken is the single active renewal credential for a user. The store
// keeps at most one row per user id; login and refresh replace the value.
type RefreshToken struct {
	UserID    int64
	Token     string
	UpdatedAt time.Time
}
