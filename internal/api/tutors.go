package api

import (
	"net/http"

	"github.com/estradax/learnway/internal/model"
	"github.com/estradax/learnway/internal/service"
)

type TutorsHandler struct {
	users *service.UserService
}

func NewTutorsHandler(users *service.UserService) *TutorsHandler {
	return &TutorsHandler{users: users}
}

// List is the public tutor directory.
func (h *TutorsHandler) List(w http.ResponseWriter, r *http.Request) {
	tutors, err := h.users.ListTutors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if tutors == nil {
		tutors = []*model.User{}
	}

	writeJSON(w, tutors, http.StatusOK)
}
