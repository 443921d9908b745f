package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"vocabdrill/internal/service"
	"vocabdrill/internal/validation"
)

// MyPageHandler serves the account settings page
type MyPageHandler struct {
	authService *service.AuthService
	middleware  *Middleware
	templates   *template.Template
}

// NewMyPageHandler creates a new account settings handler
func NewMyPageHandler(authService *service.AuthService, middleware *Middleware, templates *template.Template) *MyPageHandler {
	return &MyPageHandler{
		authService: authService,
		middleware:  middleware,
		templates:   templates,
	}
}

// ShowMyPage renders the account settings page
func (h *MyPageHandler) ShowMyPage(w http.ResponseWriter, r *http.Request) {
	h.renderMyPage(w, r, "", "")
}

// UpdateNickname changes the user's display name
func (h *MyPageHandler) UpdateNickname(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	nickname := r.FormValue("nickname")
	if verr := validation.ValidateNickname(nickname); verr != nil {
		h.renderMyPage(w, r, validationMessage(verr), "")
		return
	}

	if err := h.authService.UpdateNickname(user.ID, nickname); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to update nickname", err)
		return
	}
	user.Nickname = nickname
	h.renderMyPage(w, r, "", "Nickname updated")
}

// UpdateUsername changes the user's login name
func (h *MyPageHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	username := r.FormValue("username")
	if verr := validation.ValidateUsername(username); verr != nil {
		h.renderMyPage(w, r, validationMessage(verr), "")
		return
	}

	err := h.authService.UpdateUsername(user.ID, username)
	if errors.Is(err, service.ErrUsernameTaken) {
		h.renderMyPage(w, r, "Username is already taken", "")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to update username", err)
		return
	}
	user.Username = username
	h.renderMyPage(w, r, "", "Username updated")
}

// ChangePassword verifies the current password and sets a new one
func (h *MyPageHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	current := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	if newPassword != r.FormValue("confirm_password") {
		h.renderMyPage(w, r, "New passwords do not match", "")
		return
	}
	if verr := validation.ValidatePassword(newPassword); verr != nil {
		h.renderMyPage(w, r, validationMessage(verr), "")
		return
	}

	err := h.authService.ChangePassword(user.ID, current, newPassword)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.renderMyPage(w, r, "Current password is incorrect", "")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to change password", err)
		return
	}
	h.renderMyPage(w, r, "", "Password changed")
}

func (h *MyPageHandler) renderMyPage(w http.ResponseWriter, r *http.Request, errMsg, success string) {
	data := MyPageViewData{
		Title:     "My Page - VocabDrill",
		User:      GetUserFromContext(r.Context()),
		Error:     errMsg,
		Success:   success,
		CSRFToken: h.middleware.CSRFToken(r),
	}
	if err := h.templates.ExecuteTemplate(w, "mypage.tmpl", data); err != nil {
		log.Printf("Error rendering mypage.tmpl: %v", err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
