package model

import "testing"

func TestRoleOf(t *testing.T) {
	req := &EngagementRequest{StudentID: 10, TutorID: 20}

	tests := []struct {
		userID int64
		want   Role
	}{
		{10, RoleStudent},
		{20, RoleTutor},
		{30, RoleNone},
		{0, RoleNone},
		{-1, RoleNone},
	}

	for _, tt := range tests {
		if got := req.RoleOf(tt.userID); got != tt.want {
			t.Errorf("RoleOf(%d) = %s, want %s", tt.userID, got, tt.want)
		}
	}
}

func TestStatusHelpers(t *testing.T) {
	req := &EngagementRequest{Status: RequestStatusPending}
	if !req.IsPending() || req.IsApproved() {
		t.Error("pending request misreported")
	}

	req.Status = RequestStatusApproved
	if req.IsPending() || !req.IsApproved() {
		t.Error("approved request misreported")
	}

	req.Status = RequestStatusRejected
	if req.IsPending() || req.IsApproved() {
		t.Error("rejected request misreported")
	}
}
