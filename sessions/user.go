package sessions

import (
	"github.com/jrsteele09/go-church-admin/token"
)

// User is the identity projection persisted under the "user" key. It is
// always derived from the access token, never taken from a server response.
type User struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Role  token.Role `json:"role"`
}

// UserFromClaims projects decoded claims onto a User.
func UserFromClaims(c *token.Claims) *User {
	if c == nil {
		return nil
	}
	return &User{
		ID:    c.SubjectID,
		Email: c.Email,
		Role:  c.Role,
	}
}
