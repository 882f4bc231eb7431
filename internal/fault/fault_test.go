package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := New(NotFound, "request not found")
	if KindOf(err) != NotFound {
		t.Errorf("expected NotFound, got %s", KindOf(err))
	}

	// Kind survives wrapping.
	wrapped := fmt.Errorf("handler: %w", err)
	if KindOf(wrapped) != NotFound {
		t.Errorf("expected NotFound through wrap, got %s", KindOf(wrapped))
	}

	// Non-fault errors are internal.
	if KindOf(errors.New("disk on fire")) != Internal {
		t.Error("plain errors must map to Internal")
	}
}

func TestIsKind(t *testing.T) {
	err := Errorf(ValidationFailed, "duration %d is not positive", -5)
	if !IsKind(err, ValidationFailed) {
		t.Error("expected ValidationFailed")
	}
	if IsKind(err, PreconditionFailed) {
		t.Error("did not expect PreconditionFailed")
	}
}
