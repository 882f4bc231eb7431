package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/estradax/learnway/internal/api"
	"github.com/estradax/learnway/internal/config"
	"github.com/estradax/learnway/internal/model"
	"github.com/estradax/learnway/internal/service"
	"github.com/estradax/learnway/internal/service/mock"
	"go.uber.org/zap"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}

	store := mock.NewStore()
	logger := zap.NewNop()

	users := service.NewUserService(store.Users, logger)
	lifecycle := service.NewLifecycleService(store.Users, store.Requests, logger)
	conversations := service.NewConversationService(store.Requests, store.Messages, logger)

	handler := api.SetupRoutes(cfg, "test", "now", users, lifecycle, conversations, logger)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()

	var v T
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

type authPayload struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func signup(t *testing.T, srv *httptest.Server, name, email string, isTutor bool) authPayload {
	t.Helper()

	res := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/signup", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "long enough password",
		"is_tutor": isTutor,
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d", email, res.StatusCode)
	}
	return decode[authPayload](t, res)
}

func wantStatus(t *testing.T, res *http.Response, want int) {
	t.Helper()

	if res.StatusCode != want {
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		t.Fatalf("expected status %d, got %d: %s", want, res.StatusCode, body)
	}
}

func TestHealthAndVersion(t *testing.T) {
	srv := setupServer(t)

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	wantStatus(t, res, http.StatusOK)
	res.Body.Close()

	res, err = http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatalf("get version: %v", err)
	}
	wantStatus(t, res, http.StatusOK)
	res.Body.Close()
}

func TestAuthRequired(t *testing.T) {
	srv := setupServer(t)

	res := doJSON(t, http.MethodGet, srv.URL+"/v1/requests", "", nil)
	wantStatus(t, res, http.StatusUnauthorized)
	res.Body.Close()

	res = doJSON(t, http.MethodGet, srv.URL+"/v1/requests", "not-a-jwt", nil)
	wantStatus(t, res, http.StatusUnauthorized)
	res.Body.Close()
}

func TestSignupAndSignin(t *testing.T) {
	srv := setupServer(t)

	auth := signup(t, srv, "Alice", "alice@example.com", false)
	if auth.Token == "" || auth.User == nil || auth.User.ID == 0 {
		t.Fatalf("incomplete signup response: %+v", auth)
	}

	res := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/signin", "", map[string]any{
		"email":    "alice@example.com",
		"password": "long enough password",
	})
	wantStatus(t, res, http.StatusOK)
	res.Body.Close()

	res = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/signin", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	wantStatus(t, res, http.StatusUnauthorized)
	res.Body.Close()
}

func TestTutorsListing(t *testing.T) {
	srv := setupServer(t)

	signup(t, srv, "Alice", "alice@example.com", false)
	signup(t, srv, "Bob", "bob@example.com", true)

	res, err := http.Get(srv.URL + "/v1/tutors")
	if err != nil {
		t.Fatalf("get tutors: %v", err)
	}
	wantStatus(t, res, http.StatusOK)
	tutors := decode[[]*model.User](t, res)

	if len(tutors) != 1 || tutors[0].Name != "Bob" {
		t.Fatalf("expected only Bob in tutor listing, got %+v", tutors)
	}
}

func TestRequestLifecycleOverHTTP(t *testing.T) {
	srv := setupServer(t)

	student := signup(t, srv, "Alice", "alice@example.com", false)
	tutor := signup(t, srv, "Bob", "bob@example.com", true)

	// Student opens a request.
	res := doJSON(t, http.MethodPost, srv.URL+"/v1/requests", student.Token, map[string]any{
		"tutor_id":         tutor.User.ID,
		"student_name":     "Alice",
		"student_email":    "alice@example.com",
		"subject":          "Physics",
		"duration_minutes": 90,
	})
	wantStatus(t, res, http.StatusCreated)
	created := decode[*model.EngagementRequest](t, res)
	if created.Status != model.RequestStatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}

	base := fmt.Sprintf("%s/v1/requests/%d", srv.URL, created.ID)

	// Payment before approval is a precondition failure.
	res = doJSON(t, http.MethodPost, base+"/payment", student.Token, nil)
	wantStatus(t, res, http.StatusConflict)
	res.Body.Close()

	// Student cannot decide their own request.
	res = doJSON(t, http.MethodPost, base+"/decision", student.Token, map[string]any{
		"status": "approved", "fixed_date": "2025-01-10",
	})
	wantStatus(t, res, http.StatusForbidden)
	res.Body.Close()

	// Tutor approves with a date.
	res = doJSON(t, http.MethodPost, base+"/decision", tutor.Token, map[string]any{
		"status": "approved", "fixed_date": "2025-01-10",
	})
	wantStatus(t, res, http.StatusOK)
	approved := decode[*model.EngagementRequest](t, res)
	if approved.Status != model.RequestStatusApproved || approved.FixedDate == nil {
		t.Fatalf("approval not applied: %+v", approved)
	}

	// Re-deciding conflicts.
	res = doJSON(t, http.MethodPost, base+"/decision", tutor.Token, map[string]any{"status": "rejected"})
	wantStatus(t, res, http.StatusConflict)
	res.Body.Close()

	// Student pays.
	res = doJSON(t, http.MethodPost, base+"/payment", student.Token, nil)
	wantStatus(t, res, http.StatusOK)
	paid := decode[*model.EngagementRequest](t, res)
	if !paid.IsPaid {
		t.Fatal("expected request to be paid")
	}

	// Tutor cannot complete before the student.
	res = doJSON(t, http.MethodPost, base+"/completion", tutor.Token, nil)
	wantStatus(t, res, http.StatusConflict)
	res.Body.Close()

	// Student confirms.
	res = doJSON(t, http.MethodPost, base+"/completion", student.Token, nil)
	wantStatus(t, res, http.StatusOK)
	res.Body.Close()

	// Tutor still blocked without a summary.
	res = doJSON(t, http.MethodPost, base+"/completion", tutor.Token, nil)
	wantStatus(t, res, http.StatusConflict)
	res.Body.Close()

	res = doJSON(t, http.MethodPost, base+"/summary", tutor.Token, map[string]any{
		"summary": "Covered chapters 1-3",
	})
	wantStatus(t, res, http.StatusOK)
	res.Body.Close()

	res = doJSON(t, http.MethodPost, base+"/completion", tutor.Token, nil)
	wantStatus(t, res, http.StatusOK)
	completed := decode[*model.EngagementRequest](t, res)
	if !completed.IsCompleted || completed.CompletedAt == nil {
		t.Fatalf("expected completed request: %+v", completed)
	}

	// Both parties see the request in their listings.
	for _, token := range []string{student.Token, tutor.Token} {
		res = doJSON(t, http.MethodGet, srv.URL+"/v1/requests", token, nil)
		wantStatus(t, res, http.StatusOK)
		list := decode[[]*model.EngagementRequest](t, res)
		if len(list) != 1 {
			t.Fatalf("expected one listed request, got %d", len(list))
		}
	}
}

func TestThirdPartyForbidden(t *testing.T) {
	srv := setupServer(t)

	student := signup(t, srv, "Alice", "alice@example.com", false)
	tutor := signup(t, srv, "Bob", "bob@example.com", true)
	stranger := signup(t, srv, "Carol", "carol@example.com", false)

	res := doJSON(t, http.MethodPost, srv.URL+"/v1/requests", student.Token, map[string]any{
		"tutor_id":         tutor.User.ID,
		"student_name":     "Alice",
		"student_email":    "alice@example.com",
		"subject":          "Physics",
		"duration_minutes": 60,
	})
	wantStatus(t, res, http.StatusCreated)
	created := decode[*model.EngagementRequest](t, res)

	base := fmt.Sprintf("%s/v1/requests/%d", srv.URL, created.ID)

	res = doJSON(t, http.MethodGet, base, stranger.Token, nil)
	wantStatus(t, res, http.StatusForbidden)
	res.Body.Close()

	res = doJSON(t, http.MethodGet, base+"/messages", stranger.Token, nil)
	wantStatus(t, res, http.StatusForbidden)
	res.Body.Close()
}

func TestConversationOverHTTP(t *testing.T) {
	srv := setupServer(t)

	student := signup(t, srv, "Alice", "alice@example.com", false)
	tutor := signup(t, srv, "Bob", "bob@example.com", true)

	res := doJSON(t, http.MethodPost, srv.URL+"/v1/requests", student.Token, map[string]any{
		"tutor_id":         tutor.User.ID,
		"student_name":     "Alice",
		"student_email":    "alice@example.com",
		"subject":          "Physics",
		"duration_minutes": 60,
	})
	wantStatus(t, res, http.StatusCreated)
	created := decode[*model.EngagementRequest](t, res)

	base := fmt.Sprintf("%s/v1/requests/%d/messages", srv.URL, created.ID)

	res = doJSON(t, http.MethodPost, base, student.Token, map[string]any{"content": "Hi, can we start next week?"})
	wantStatus(t, res, http.StatusCreated)
	res.Body.Close()

	res = doJSON(t, http.MethodPost, base, tutor.Token, map[string]any{"content": "Sure, Monday works."})
	wantStatus(t, res, http.StatusCreated)
	res.Body.Close()

	// Empty content is a validation failure.
	res = doJSON(t, http.MethodPost, base, student.Token, map[string]any{"content": "   "})
	wantStatus(t, res, http.StatusBadRequest)
	res.Body.Close()

	res = doJSON(t, http.MethodGet, base, student.Token, nil)
	wantStatus(t, res, http.StatusOK)
	messages := decode[[]*model.ConversationMessage](t, res)

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Content != "Hi, can we start next week?" {
		t.Errorf("messages not oldest-first: %q", messages[0].Content)
	}
}

func TestInvalidRequestID(t *testing.T) {
	srv := setupServer(t)

	student := signup(t, srv, "Alice", "alice@example.com", false)

	res := doJSON(t, http.MethodGet, srv.URL+"/v1/requests/abc", student.Token, nil)
	wantStatus(t, res, http.StatusBadRequest)
	res.Body.Close()

	res = doJSON(t, http.MethodGet, srv.URL+"/v1/requests/12345", student.Token, nil)
	wantStatus(t, res, http.StatusNotFound)
	res.Body.Close()
}
