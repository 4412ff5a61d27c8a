package domain

import (
	"strings"
	"time"
)

// Session is the identity of the logged-in user. A nil *Session means
// nobody is logged in.
type Session struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Label is what the header control shows for this session.
func (s *Session) Label() string {
	if s == nil {
		return "Login"
	}
	if s.DisplayName != "" {
		return s.DisplayName
	}
	if at := strings.Index(s.Email, "@"); at > 0 {
		return s.Email[:at]
	}
	return s.Email
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) Session() *Session {
	return &Session{UserID: u.ID, Email: u.Email, DisplayName: u.Name}
}

const RoleUser = "user"
