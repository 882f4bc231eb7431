package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/estradax/learnway/internal/fault"
	"github.com/estradax/learnway/internal/model"
	"github.com/estradax/learnway/internal/service"
	"github.com/gorilla/mux"
)

type RequestsHandler struct {
	lifecycle *service.LifecycleService
}

func NewRequestsHandler(lifecycle *service.LifecycleService) *RequestsHandler {
	return &RequestsHandler{lifecycle: lifecycle}
}

type createRequestBody struct {
	TutorID            int64  `json:"tutor_id"`
	StudentName        string `json:"student_name"`
	StudentEmail       string `json:"student_email"`
	StudentPhone       string `json:"student_phone"`
	Subject            string `json:"subject"`
	DurationMinutes    int    `json:"duration_minutes"`
	PreferredSlot      string `json:"preferred_slot"`
	Message            string `json:"message"`
	Negotiate          bool   `json:"negotiate"`
	ProposedPriceCents *int64 `json:"proposed_price_cents"`
	PriceReason        string `json:"price_reason"`
}

func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r)
	if !ok {
		writeError(w, fault.New(fault.Unauthenticated, "authentication required"))
		return
	}

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fault.New(fault.ValidationFailed, "invalid request body"))
		return
	}

	req, err := h.lifecycle.Create(r.Context(), callerID, service.CreateRequestInput{
		TutorID:            body.TutorID,
		StudentName:        body.StudentName,
		StudentEmail:       body.StudentEmail,
		StudentPhone:       body.StudentPhone,
		Subject:            body.Subject,
		DurationMinutes:    body.DurationMinutes,
		PreferredSlot:      body.PreferredSlot,
		Message:            body.Message,
		Negotiate:          body.Negotiate,
		ProposedPriceCents: body.ProposedPriceCents,
		PriceReason:        body.PriceReason,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, req, http.StatusCreated)
}

func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r)
	if !ok {
		writeError(w, fault.New(fault.Unauthenticated, "authentication required"))
		return
	}

	requests, err := h.lifecycle.ListForUser(r.Context(), callerID)
	if err != nil {
		writeError(w, err)
		return
	}

	if requests == nil {
		requests = []*model.EngagementRequest{}
	}

	writeJSON(w, requests, http.StatusOK)
}

func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID, requestID, err := callerAndRequestID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	req, err := h.lifecycle.Get(r.Context(), callerID, requestID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, req, http.StatusOK)
}

type decisionBody struct {
	Status    string `json:"status"`
	FixedDate string `json:"fixed_date"`
}

func (h *RequestsHandler) Decide(w http.ResponseWriter, r *http.Request) {
	callerID, requestID, err := callerAndRequestID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body decisionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fault.New(fault.ValidationFailed, "invalid request body"))
		return
	}

	req, err := h.lifecycle.Decide(r.Context(), callerID, requestID, service.Decision{
		Status:    body.Status,
		FixedDate: body.FixedDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, req, http.StatusOK)
}

func (h *RequestsHandler) Pay(w http.ResponseWriter, r *http.Request) {
	callerID, requestID, err := callerAndRequestID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	req, err := h.lifecycle.Pay(r.Context(), callerID, requestID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, req, http.StatusOK)
}

type summaryBody struct {
	Summary string `json:"summary"`
}

func (h *RequestsHandler) SubmitSummary(w http.ResponseWriter, r *http.Request) {
	callerID, requestID, err := callerAndRequestID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body summaryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fault.New(fault.ValidationFailed, "invalid request body"))
		return
	}

	req, err := h.lifecycle.SubmitSummary(r.Context(), callerID, requestID, body.Summary)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, req, http.StatusOK)
}

func (h *RequestsHandler) MarkComplete(w http.ResponseWriter, r *http.Request) {
	callerID, requestID, err := callerAndRequestID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	req, err := h.lifecycle.MarkComplete(r.Context(), callerID, requestID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, req, http.StatusOK)
}

// callerAndRequestID pulls the authenticated caller and the {id} path
// variable out of the request.
func callerAndRequestID(r *http.Request) (int64, int64, error) {
	callerID, ok := CallerID(r)
	if !ok {
		return 0, 0, fault.New(fault.Unauthenticated, "authentication required")
	}

	requestID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || requestID <= 0 {
		return 0, 0, fault.New(fault.ValidationFailed, "invalid request id")
	}

	return callerID, requestID, nil
}
