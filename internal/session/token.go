package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTTL = 30 * 24 * time.Hour

// ErrInvalidToken is returned for tokens that fail to parse or verify.
var ErrInvalidToken = errors.New("invalid session token")

type claims struct {
	Username  string `json:"username"`
	TeamID    string `json:"team_id"`
	LoginDate int64  `json:"login_date"`
	jwt.RegisteredClaims
}

// Codec turns a User into a signed token and back, so a stateless client
// (browser cookie, CLI config file) can carry its stub session.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec signing with secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue signs a token for u.
func (c *Codec) Issue(u *User) (string, error) {
	cl := claims{
		Username:  u.Username,
		TeamID:    u.TeamID,
		LoginDate: u.LoginDate.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        u.ID.String(),
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(u.LoginDate),
			ExpiresAt: jwt.NewNumericDate(u.LoginDate.Add(tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return token, nil
}

// Parse verifies a token and returns the user it carries.
func (c *Codec) Parse(token string) (*User, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(cl.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad id", ErrInvalidToken)
	}

	return &User{
		ID:        id,
		Username:  cl.Username,
		TeamID:    cl.TeamID,
		LoginDate: time.Unix(cl.LoginDate, 0),
	}, nil
}
