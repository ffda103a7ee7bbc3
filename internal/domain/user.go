package domain

import "time"

// User represents a registered user. User credential storage and profile
// CRUD live in an external collaborator service; only the identity fields
// consumed by this backend are modeled here.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID and
// the role codes carried in its claims.
type TokenVerifier interface {
	Verify(token string) (userID string, roles []string, err error)
}
