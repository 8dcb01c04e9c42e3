package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/logger"
)

// contestJSON is one added contest in a sync response.
type contestJSON struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Start    string `json:"start"`
}

// syncResponse is the manual sync response body.
type syncResponse struct {
	Message              string        `json:"message"`
	NewContestsAdded     int           `json:"new_contests_added"`
	TotalContestsChecked int           `json:"total_contests_checked"`
	NewContests          []contestJSON `json:"new_contests"`
}

type checkAuthResponse struct {
	IsLoggedIn bool         `json:"is_logged_in"`
	User       *sessionUser `json:"user,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := s.newState()

	sess := s.sessions.get(r)
	sess.Values[keyState] = state
	if err := sess.Save(r, w); err != nil {
		logger.Error("Saving session: %v", err)
		writeError(w, http.StatusInternalServerError, "Could not start login.")
		return
	}

	http.Redirect(w, r, s.deps.Consent.AuthURL(state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(r)
	expected, _ := sess.Values[keyState].(string)
	state := r.URL.Query().Get("state")
	if expected == "" || state != expected {
		logger.Warn("OAuth callback state mismatch")
		writeError(w, http.StatusBadRequest, "State mismatch, possible CSRF attack.")
		return
	}
	delete(sess.Values, keyState)

	if providerErr := r.URL.Query().Get("error"); providerErr != "" {
		logger.Warn("OAuth consent denied: %s", providerErr)
		writeError(w, http.StatusUnauthorized, "Authentication failed.")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization code.")
		return
	}

	profile, refreshToken, err := s.deps.Consent.Complete(r.Context(), code)
	if err != nil {
		logger.Error("OAuth callback: %v", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed.")
		return
	}

	if err := s.deps.Users.RegisterConsent(r.Context(), profile, refreshToken); err != nil {
		logger.Error("OAuth callback: %v", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed.")
		return
	}

	sess.Values[keyUserID] = profile.ID
	sess.Values[keyEmail] = profile.Email
	if err := sess.Save(r, w); err != nil {
		logger.Error("Saving session: %v", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed.")
		return
	}

	logger.Info("User %s logged in", profile.ID)
	http.Redirect(w, r, s.opts.FrontendURL, http.StatusFound)
}

func (s *Server) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessions.user(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, checkAuthResponse{IsLoggedIn: false})
		return
	}
	writeJSON(w, http.StatusOK, checkAuthResponse{IsLoggedIn: true, User: &user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(r)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		logger.Error("Clearing session: %v", err)
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully."})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessions.user(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	outcome, err := s.deps.Syncer.SyncUser(r.Context(), user.ID)
	if err != nil {
		status, message := syncErrorStatus(err)
		logger.Error("Manual sync for %s failed: %v", user.ID, err)
		writeJSON(w, status, errorResponse{Error: message, Kind: domain.ErrorKind(err)})
		return
	}

	writeJSON(w, http.StatusOK, newSyncResponse(outcome))
}

// syncErrorStatus maps a sync failure to a status code and user message.
func syncErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrAuthExpired):
		return http.StatusUnauthorized, "Could not authenticate with Google. Please try logging in again."
	case errors.Is(err, domain.ErrSyncInProgress):
		return http.StatusConflict, "A sync is already running for this account."
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Google Calendar rate limit reached. Try again later."
	default:
		return http.StatusInternalServerError, "Sync failed."
	}
}

func newSyncResponse(outcome domain.SyncOutcome) syncResponse {
	added := make([]contestJSON, 0, len(outcome.AddedContests))
	for _, c := range outcome.AddedContests {
		added = append(added, contestJSON{
			Platform: string(c.Platform),
			Title:    c.Title,
			URL:      c.URL,
			Start:    c.Start.UTC().Format(time.RFC3339),
		})
	}
	return syncResponse{
		Message:              outcome.Message(),
		NewContestsAdded:     outcome.EventsAdded,
		TotalContestsChecked: outcome.ContestsChecked,
		NewContests:          added,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
