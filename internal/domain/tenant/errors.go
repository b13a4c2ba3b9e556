package tenant

import (
	ierr "github.com/flexcargo/flexcargo/internal/errors"
)

type ErrorCode string

const (
	ErrTenantDefault  ErrorCode = "T0000"
	ErrTenantNotFound ErrorCode = "T0001"
	ErrTenantInactive ErrorCode = "T0002"
)

type Error struct {
	Code       ErrorCode
	LogMessage string
	Message    string
	Details    map[string]any
	Marker     *ierr.Sentinel
}

func NewError(t Error) error {
	if t.Message == "" {
		t.Message = "An unexpected error occurred"
	}

	if t.Marker == nil {
		t.Marker = ierr.ErrSystem
	}

	if t.LogMessage == "" {
		t.LogMessage = t.Message
	}

	if t.Code == "" {
		t.Code = ErrTenantDefault
	}

	return ierr.NewError(t.LogMessage).
		WithHintf("%s - %s", t.Code, t.Message).
		WithReportableDetails(t.Details).
		Mark(t.Marker)
}

func NewTenantNotFoundError(id string) error {
	return NewError(Error{
		Code:       ErrTenantNotFound,
		LogMessage: "tenant not found",
		Message:    "tenant not found",
		Details:    map[string]any{"tenant_id": id},
		Marker:     ierr.ErrNotFound,
	})
}

func NewTenantInactiveError(id string) error {
	return NewError(Error{
		Code:       ErrTenantInactive,
		LogMessage: "tenant is not active",
		Message:    "tenant is not active",
		Details:    map[string]any{"tenant_id": id},
		Marker:     ierr.ErrPermissionDenied,
	})
}
