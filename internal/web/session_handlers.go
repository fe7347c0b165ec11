package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/evcraddock/reach/internal/session"
)

const sessionCookie = "reach_session"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TeamID   string `json:"team_id"`
}

type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user,omitempty"`
	Token         string        `json:"token,omitempty"`
}

// sessionFor builds the request's session from a bearer token or the
// session cookie. Bad or missing tokens yield a signed-out manager.
func (s *Server) sessionFor(r *http.Request) *session.Manager {
	m := session.NewManager()

	token := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	} else if c, err := r.Cookie(sessionCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		return m
	}

	if u, err := s.codec.Parse(token); err == nil {
		m.Restore(u)
	}
	return m
}

// login runs the stub login and issues a token for the new user.
func (s *Server) login(req loginRequest) (*session.User, string, error) {
	m := session.NewManager()
	u, err := m.Login(req.Username, req.Password, req.TeamID)
	if err != nil {
		return nil, "", err
	}
	token, err := s.codec.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   30 * 24 * 60 * 60,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// apiLogin handles POST /api/session.
func (s *Server) apiLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	u, token, err := s.login(req)
	if errors.Is(err, session.ErrMissingCredentials) {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("starting session: %v", err), http.StatusInternalServerError)
		return
	}

	s.setSessionCookie(w, r, token)
	apiJSON(w, sessionResponse{Authenticated: true, User: u, Token: token}, http.StatusOK)
}

// apiSession handles GET /api/session.
func (s *Server) apiSession(w http.ResponseWriter, r *http.Request) {
	m := s.sessionFor(r)
	apiJSON(w, sessionResponse{
		Authenticated: m.IsAuthenticated(),
		User:          m.CurrentUser(),
	}, http.StatusOK)
}

// apiLogout handles DELETE /api/session. Tokens are stateless, so this only
// clears the browser cookie; API clients drop their copy.
func (s *Server) apiLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	apiJSON(w, sessionResponse{Authenticated: false}, http.StatusOK)
}
