package handlers

import (
	"errors"
	"net/http"

	"tendersdz/internal/api"
	"tendersdz/internal/auth"
)

type loginData struct {
	Next     string
	Username string
}

// LoginPageHandler показывает форму входа; с активной сессией сразу ведет на next
func (h *Handler) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	next := auth.SafeNext(r.URL.Query().Get("next"))
	if h.Auth.IsAuthenticated() {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login", "Sign in", "", loginData{Next: next})
}

// LoginHandler обрабатывает POST /login
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	username := formValue(r, "username")
	next := auth.SafeNext(r.PostFormValue("next"))

	err := h.Auth.Login(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		msg := api.UserMessage(err, "Login failed")
		if errors.Is(err, auth.ErrCredentialsRequired) {
			msg = "Email and password are required"
		} else {
			h.logUnexpected(r, err, "login failed")
		}
		h.render(w, r, http.StatusOK, "login", "Sign in", msg, loginData{Next: next, Username: username})
		return
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// LogoutHandler сбрасывает сессию локально и ведет на вход
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context()); err != nil {
		h.Logger.Error("logout failed", "error", err)
		http.Error(w, "Failed to clear session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, h.LoginPath, http.StatusSeeOther)
}
