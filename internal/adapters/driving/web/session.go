package web

import (
	"crypto/sha256"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName = "contestcal_session"

	keyUserID = "user_id"
	keyEmail  = "email"
	keyState  = "oauth_state"

	sessionMaxAge = 30 * 24 * 60 * 60
)

// sessionUser is the identity carried by a logged-in session.
type sessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionManager struct {
	store *sessions.CookieStore
}

// newSessionManager derives fixed-length signing and encryption keys from
// secret.
func newSessionManager(secret string, secure bool) *sessionManager {
	hashKey := sha256.Sum256([]byte("contestcal/session/hash:" + secret))
	blockKey := sha256.Sum256([]byte("contestcal/session/block:" + secret))

	store := sessions.NewCookieStore(hashKey[:], blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionManager{store: store}
}

// get returns the request's session. A cookie that fails to decode yields
// a fresh session.
func (m *sessionManager) get(r *http.Request) *sessions.Session {
	sess, err := m.store.Get(r, sessionName)
	if err != nil {
		sess, _ = m.store.New(r, sessionName)
	}
	return sess
}

func (m *sessionManager) user(r *http.Request) (sessionUser, bool) {
	sess := m.get(r)
	id, _ := sess.Values[keyUserID].(string)
	if id == "" {
		return sessionUser{}, false
	}
	email, _ := sess.Values[keyEmail].(string)
	return sessionUser{ID: id, Email: email}, true
}

func newState() string {
	return uuid.NewString()
}
