package app

import (
	"testing"

	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

func TestNewEnforcer(t *testing.T) {
	// Arrange
	e, err := newEnforcer()
	if err != nil {
		t.Fatalf("newEnforcer error = %v", err)
	}

	tests := []struct {
		name string
		sub  string
		obj  string
		act  string
		want bool
	}{
		{"user generates codes", constant.RoleUser, constant.PermOTPCodes, constant.PermActWrite, true},
		{"user reads own identity", constant.RoleUser, constant.PermSelfIdentity, constant.PermActRead, true},
		{"user cannot read config", constant.RoleUser, constant.PermOTPConfig, constant.PermActRead, false},
		{"user cannot delete users", constant.RoleUser, constant.PermAdminUsers, constant.PermActDelete, false},
		{"user cannot read audit", constant.RoleUser, constant.PermAuditEvents, constant.PermActRead, false},
		{"admin updates config", constant.RoleAdmin, constant.PermOTPConfig, constant.PermActWrite, true},
		{"admin deletes users", constant.RoleAdmin, constant.PermAdminUsers, constant.PermActDelete, true},
		{"admin reads audit", constant.RoleAdmin, constant.PermAuditEvents, constant.PermActRead, true},
		{"admin inherits user", constant.RoleAdmin, constant.PermOTPCodes, constant.PermActWrite, true},
		{"unknown role", "GUEST", constant.PermOTPCodes, constant.PermActRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := e.Enforce(tt.sub, tt.obj, tt.act)

			// Assert
			if err != nil {
				t.Fatalf("Enforce error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Enforce(%s, %s, %s) = %v, want %v", tt.sub, tt.obj, tt.act, got, tt.want)
			}
		})
	}
}
