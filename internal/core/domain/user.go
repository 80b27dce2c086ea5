package domain

import "time"

// User is a console operator account. Local accounts exist so the gateway can
// issue sessions on its own; most organizations authenticate against the
// backend and only hit this path for break-glass access.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Paid         bool      `json:"paid"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSnapshot is the cached, read-only user record stored alongside the
// token in the session store. It is what the console shell renders before
// any backend round-trip completes.
type UserSnapshot struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Role        Role   `json:"role,omitempty"`
}

// Snapshot derives the cacheable view of a user.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}

// Session is the pair of values owned by the session store: the raw bearer
// token and the cached user snapshot. Both are read together at bootstrap.
type Session struct {
	Token string       `json:"token"`
	User  UserSnapshot `json:"user"`
}
