package handlers

import (
	"html/template"
	"log"
	"net/http"

	"vocabdrill/internal/service"
	"vocabdrill/internal/validation"
)

// ContactHandler serves the contact form
type ContactHandler struct {
	contactService *service.ContactService
	middleware     *Middleware
	templates      *template.Template
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *service.ContactService, middleware *Middleware, templates *template.Template) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		middleware:     middleware,
		templates:      templates,
	}
}

// ShowContact renders the contact form
func (h *ContactHandler) ShowContact(w http.ResponseWriter, r *http.Request) {
	h.renderContact(w, r, "", "")
}

// Submit stores the message and notifies the site operator
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	body := r.FormValue("body")
	if verr := validation.ValidateContactBody(body); verr != nil {
		h.renderContact(w, r, validationMessage(verr), "")
		return
	}

	var userID *int64
	name := r.FormValue("name")
	if user != nil {
		userID = &user.ID
		if name == "" {
			name = user.DisplayName()
		}
	}

	if _, err := h.contactService.Submit(r.Context(), userID, name, body); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to submit contact message", err)
		return
	}
	h.renderContact(w, r, "", "Thanks, your message has been sent")
}

func (h *ContactHandler) renderContact(w http.ResponseWriter, r *http.Request, errMsg, success string) {
	data := ContactViewData{
		Title:     "Contact - VocabDrill",
		User:      GetUserFromContext(r.Context()),
		Error:     errMsg,
		Success:   success,
		CSRFToken: h.middleware.CSRFToken(r),
	}
	if err := h.templates.ExecuteTemplate(w, "contact.tmpl", data); err != nil {
		log.Printf("Error rendering contact.tmpl: %v", err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
