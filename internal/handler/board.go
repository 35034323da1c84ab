package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Shivanand-hulikatti/activity-board/internal/board"
)

// BoardHandler serves the server-rendered board. Each browser gets its own
// board through the session cookie; form posts are replayed as the events
// the board would have seen in a browser.
type BoardHandler struct {
	sessions *board.Sessions
	logger   *slog.Logger
}

// NewBoardHandler constructs a BoardHandler.
func NewBoardHandler(sessions *board.Sessions, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{sessions: sessions, logger: logger}
}

func (h *BoardHandler) session(w http.ResponseWriter, r *http.Request) *board.Controller {
	var id string
	if c, err := r.Cookie(board.SessionCookie); err == nil {
		id = c.Value
	}

	id, ctrl, created := h.sessions.Get(r.Context(), id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     board.SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ctrl
}

// Index handles GET /
// Renders the caller's board.
func (h *BoardHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := ctrl.Render(w); err != nil {
		h.logger.Error("failed to render board", "error", err)
	}
}

// Signup handles POST /board/signup
// Fills the form with the posted fields, submits it, and redirects back to
// the board.
func (h *BoardHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}

	ctrl := h.session(w, r)
	ctrl.Fill(r.PostForm.Get("email"), r.PostForm.Get("activity"))

	if err := ctrl.Submit(r.Context()); err != nil {
		// The board already shows the outcome.
		h.logger.Debug("board signup did not succeed", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Unregister handles POST /board/unregister
// The delete button posts its activity and email; the click is dispatched
// through the board's delegated handler.
func (h *BoardHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}

	ctrl := h.session(w, r)
	err := ctrl.ClickDelete(r.Context(), r.Form.Get("activity"), r.Form.Get("email"))
	switch {
	case errors.Is(err, board.ErrNoControl):
		h.logger.Warn("delete click on a participant the board does not show",
			"activity", r.Form.Get("activity"),
			"email", r.Form.Get("email"),
		)
	case err != nil:
		h.logger.Debug("board unregister did not succeed", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
