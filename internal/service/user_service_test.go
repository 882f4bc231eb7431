package service_test

import (
	"context"
	"testing"

	"github.com/estradax/learnway/internal/fault"
	"github.com/estradax/learnway/internal/service"
	"github.com/estradax/learnway/internal/service/mock"
	"go.uber.org/zap"
)

func newUserFixture(t *testing.T) (*service.UserService, *mock.Store) {
	t.Helper()

	store := mock.NewStore()
	svc := service.NewUserService(store.Users, zap.NewNop())
	return svc, store
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, service.RegisterInput{
		Name:     "Dana",
		Email:    "Dana@Example.com",
		Password: "correct horse",
		IsTutor:  true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected user id to be assigned")
	}
	if user.Email != "dana@example.com" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "correct horse" || user.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}

	got, err := svc.Authenticate(ctx, "dana@example.com", "correct horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, got.ID)
	}

	_, err = svc.Authenticate(ctx, "dana@example.com", "wrong password")
	requireKind(t, err, fault.Unauthenticated)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "correct horse")
	requireKind(t, err, fault.Unauthenticated)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   service.RegisterInput
	}{
		{"missing name", service.RegisterInput{Email: "a@b.c", Password: "long enough"}},
		{"missing email", service.RegisterInput{Name: "Dana", Password: "long enough"}},
		{"short password", service.RegisterInput{Name: "Dana", Email: "a@b.c", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			requireKind(t, err, fault.ValidationFailed)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	in := service.RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "long enough"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, in)
	requireKind(t, err, fault.ValidationFailed)
}

func TestListTutors(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, service.RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "long enough", IsTutor: true}); err != nil {
		t.Fatalf("register tutor: %v", err)
	}
	if _, err := svc.Register(ctx, service.RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "long enough"}); err != nil {
		t.Fatalf("register student: %v", err)
	}

	tutors, err := svc.ListTutors(ctx)
	if err != nil {
		t.Fatalf("list tutors: %v", err)
	}
	if len(tutors) != 1 || !tutors[0].IsTutor {
		t.Fatalf("expected exactly the tutor account, got %d", len(tutors))
	}
}
