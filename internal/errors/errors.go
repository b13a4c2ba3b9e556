package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// Sentinel classifies an error. Errors built with the builder are marked with
// one sentinel and matched with errors.Is, so the original message and hints
// survive wrapping.
type Sentinel struct {
	Code    string
	Message string
	status  int
}

func (s *Sentinel) Error() string {
	return s.Code + ": " + s.Message
}

const (
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeDatabase         = "database_error"
	ErrCodeSystemError      = "system_error"

	ErrCodeTenantNotProvisioned       = "tenant_not_provisioned"
	ErrCodeStoreUnavailable           = "store_unavailable"
	ErrCodeFormatConfigurationMissing = "format_configuration_missing"
)

var (
	ErrNotFound         = &Sentinel{ErrCodeNotFound, "resource not found", http.StatusNotFound}
	ErrAlreadyExists    = &Sentinel{ErrCodeAlreadyExists, "resource already exists", http.StatusConflict}
	ErrValidation       = &Sentinel{ErrCodeValidation, "validation error", http.StatusBadRequest}
	ErrInvalidOperation = &Sentinel{ErrCodeInvalidOperation, "invalid operation", http.StatusBadRequest}
	ErrPermissionDenied = &Sentinel{ErrCodePermissionDenied, "permission denied", http.StatusForbidden}
	ErrDatabase         = &Sentinel{ErrCodeDatabase, "database error", http.StatusInternalServerError}
	ErrSystem           = &Sentinel{ErrCodeSystemError, "system error", http.StatusInternalServerError}

	// document numbering
	ErrTenantNotProvisioned       = &Sentinel{ErrCodeTenantNotProvisioned, "tenant sequence not provisioned", http.StatusUnprocessableEntity}
	ErrStoreUnavailable           = &Sentinel{ErrCodeStoreUnavailable, "sequence store unavailable", http.StatusServiceUnavailable}
	ErrFormatConfigurationMissing = &Sentinel{ErrCodeFormatConfigurationMissing, "sequence format configuration missing", http.StatusInternalServerError}
)

// checked in order, the first match decides the status
var sentinels = []*Sentinel{
	ErrTenantNotProvisioned,
	ErrStoreUnavailable,
	ErrFormatConfigurationMissing,
	ErrNotFound,
	ErrAlreadyExists,
	ErrValidation,
	ErrInvalidOperation,
	ErrPermissionDenied,
	ErrDatabase,
	ErrSystem,
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsTenantNotProvisioned reports a missing counter row for the tenant
func IsTenantNotProvisioned(err error) bool {
	return errors.Is(err, ErrTenantNotProvisioned)
}

// IsStoreUnavailable reports a failed read or write of a counter row
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsFormatConfigurationMissing reports a sequence type without a format rule
func IsFormatConfigurationMissing(err error) bool {
	return errors.Is(err, ErrFormatConfigurationMissing)
}

// CodeFromErr returns the code of the first matching sentinel, or the
// system error code for unclassified errors
func CodeFromErr(err error) string {
	if s := sentinelOf(err); s != nil {
		return s.Code
	}
	return ErrCodeSystemError
}

// HTTPStatusFromErr maps a marked error to its response status, 500 when unmarked
func HTTPStatusFromErr(err error) int {
	if s := sentinelOf(err); s != nil {
		return s.status
	}
	return http.StatusInternalServerError
}

func sentinelOf(err error) *Sentinel {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s
		}
	}
	return nil
}
