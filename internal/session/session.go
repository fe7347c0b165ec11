// Package session is the placeholder login used by the dashboard. It accepts
// any non-empty credentials and never talks to a server.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrMissingCredentials is returned when a login field is blank.
var ErrMissingCredentials = errors.New("username, password and team ID are required")

// User is the signed-in canvasser.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	TeamID    string    `json:"team_id"`
	LoginDate time.Time `json:"login_date"`
}

// Initials returns up to two upper-cased leading characters of the username.
func (u *User) Initials() string {
	r := []rune(strings.ToUpper(u.Username))
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}

// Manager holds the session state for one interactive client. It is passed
// explicitly to whatever renders user-specific sections.
type Manager struct {
	user *User
	now  func() time.Time
}

// NewManager creates a signed-out manager.
func NewManager() *Manager {
	return &Manager{now: time.Now}
}

// Login signs in with any non-empty credentials. The password is not checked.
func (m *Manager) Login(username, password, teamID string) (*User, error) {
	username = strings.TrimSpace(username)
	teamID = strings.TrimSpace(teamID)
	if username == "" || password == "" || teamID == "" {
		return nil, ErrMissingCredentials
	}

	m.user = &User{
		ID:        uuid.New(),
		Username:  username,
		TeamID:    teamID,
		LoginDate: m.now(),
	}
	return m.user, nil
}

// Restore signs in as an existing user, e.g. one decoded from a token.
func (m *Manager) Restore(u *User) {
	m.user = u
}

// Logout clears the current user.
func (m *Manager) Logout() {
	m.user = nil
}

// IsAuthenticated reports whether a user is signed in.
func (m *Manager) IsAuthenticated() bool {
	return m.user != nil
}

// CurrentUser returns the signed-in user, or nil.
func (m *Manager) CurrentUser() *User {
	return m.user
}
