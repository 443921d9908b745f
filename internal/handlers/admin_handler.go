package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"vocabdrill/internal/service"
	"vocabdrill/internal/validation"
)

// AdminHandler serves the admin pages
type AdminHandler struct {
	authService    *service.AuthService
	contactService *service.ContactService
	statsService   *service.StatsService
	middleware     *Middleware
	templates      *template.Template
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *service.AuthService, contactService *service.ContactService, statsService *service.StatsService, middleware *Middleware, templates *template.Template) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		contactService: contactService,
		statsService:   statsService,
		middleware:     middleware,
		templates:      templates,
	}
}

// ShowUsers renders the user management page
func (h *AdminHandler) ShowUsers(w http.ResponseWriter, r *http.Request) {
	h.renderUsers(w, r, "")
}

// CreateUser adds a new account
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	nickname := r.FormValue("nickname")
	isAdmin := r.FormValue("is_admin") == "on"

	if verr := validation.ValidateUsername(username); verr != nil {
		h.renderUsers(w, r, validationMessage(verr))
		return
	}
	if verr := validation.ValidatePassword(password); verr != nil {
		h.renderUsers(w, r, validationMessage(verr))
		return
	}

	_, err := h.authService.CreateUser(username, password, nickname, isAdmin)
	if errors.Is(err, service.ErrUsernameTaken) {
		h.renderUsers(w, r, "Username is already taken")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create user", err)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// DeleteUser removes an account
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin := GetUserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID", "", err)
		return
	}
	if id == admin.ID {
		h.renderUsers(w, r, "You cannot delete your own account")
		return
	}

	if err := h.authService.DeleteUser(id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.renderUsers(w, r, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to delete user", err)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// ShowMessages renders the most recent contact messages
func (h *AdminHandler) ShowMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contactService.Recent(50)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load messages", err)
		return
	}

	data := AdminMessagesViewData{
		Title:     "Messages - VocabDrill",
		User:      GetUserFromContext(r.Context()),
		Messages:  messages,
		CSRFToken: h.middleware.CSRFToken(r),
	}
	h.render(w, "admin_messages.tmpl", data)
}

func (h *AdminHandler) renderUsers(w http.ResponseWriter, r *http.Request, errMsg string) {
	users, err := h.authService.ListUsers()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to list users", err)
		return
	}

	activity, err := h.statsService.WeeklyActivity()
	if err != nil {
		log.Printf("Failed to load weekly activity: %v", err)
		activity = map[int64]int{}
	}

	rows := make([]AdminUserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, AdminUserRow{User: u, WeeklyAttempts: activity[u.ID]})
	}

	data := AdminUsersViewData{
		Title:     "Users - VocabDrill",
		User:      GetUserFromContext(r.Context()),
		Users:     rows,
		Error:     errMsg,
		CSRFToken: h.middleware.CSRFToken(r),
	}
	h.render(w, "admin_users.tmpl", data)
}

func (h *AdminHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
