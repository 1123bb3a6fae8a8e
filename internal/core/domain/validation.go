package domain

import "sort"

// Field tags used by journal conversion results.
const (
	FieldSourceAccountID        = "source_account_id"
	FieldSourceAccountName      = "source_account_name"
	FieldDestinationAccountID   = "destination_account_id"
	FieldDestinationAccountName = "destination_account_name"
	FieldTransactionType        = "transaction_type"
	FieldTransactions           = "transactions"
)

// ValidationResult accumulates validation failures per logical field so callers
// can render every problem at once. An empty result means valid.
type ValidationResult struct {
	Errors map[string][]string `json:"errors"`
}

// NewValidationResult returns an empty (valid) result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{Errors: make(map[string][]string)}
}

// Add records a failure message for field.
func (r *ValidationResult) Add(field, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string][]string)
	}
	r.Errors[field] = append(r.Errors[field], message)
}

// Merge copies every failure from other into r.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for field, messages := range other.Errors {
		for _, m := range messages {
			r.Add(field, m)
		}
	}
}

// IsValid reports whether no failure was recorded.
func (r *ValidationResult) IsValid() bool {
	return r == nil || len(r.Errors) == 0
}

// Messages returns the failures recorded for field.
func (r *ValidationResult) Messages(field string) []string {
	if r == nil {
		return nil
	}
	return r.Errors[field]
}

// Fields returns the failing fields in sorted order.
func (r *ValidationResult) Fields() []string {
	if r == nil {
		return nil
	}
	fields := make([]string, 0, len(r.Errors))
	for f := range r.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Count returns the total number of recorded messages.
func (r *ValidationResult) Count() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, messages := range r.Errors {
		n += len(messages)
	}
	return n
}
