package errors

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder chains hints and details onto an error. It is not an error
// itself: finish every chain with Mark.
//
//	ierr.WithError(err).
//		WithHint("Branch was not found").
//		WithReportableDetails(map[string]any{"branch_id": id}).
//		Mark(ierr.ErrNotFound)
type ErrorBuilder struct {
	err error
}

func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithMessage prefixes the internal message, never shown to clients
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint sets the message rendered in API responses
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails attaches details for logs and Sentry. They are
// stored as a safe JSON detail and never rendered to clients.
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	encoded, err := json.Marshal(details)
	if err != nil {
		return b
	}
	b.err = errors.WithSafeDetails(b.err, reportableDetailsFormat, errors.Safe(string(encoded)))
	return b
}

func (b *ErrorBuilder) Mark(reference *Sentinel) error {
	return errors.Mark(b.err, reference)
}

const reportableDetailsFormat = "__json__:%s"

// ReportableDetails collects the details attached with WithReportableDetails
func ReportableDetails(err error) map[string]any {
	details := make(map[string]any)
	for _, d := range errors.GetAllSafeDetails(err) {
		for _, payload := range d.SafeDetails {
			encoded, ok := strings.CutPrefix(payload, "__json__:")
			if !ok {
				continue
			}
			var m map[string]any
			if err := json.Unmarshal([]byte(encoded), &m); err != nil {
				continue
			}
			for k, v := range m {
				details[k] = v
			}
		}
	}
	return details
}

// Hint returns the first non-empty hint on err
func Hint(err error) string {
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return ""
}
