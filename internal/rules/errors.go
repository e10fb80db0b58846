package rules

import (
	"errors"
	"fmt"
)

// Rejection reasons reported by the field validator.
const (
	ReasonRequired    = "required"
	ReasonNotString   = "not_a_string"
	ReasonNotNumber   = "not_a_number"
	ReasonNotPositive = "not_a_positive_integer"
	ReasonInvalidDate = "invalid_date"
	ReasonInvalidTime = "invalid_time"
)

// Violation codes reported by the business rule guards.
const (
	CodeClosedDay           = "closed_day"
	CodePastReservation     = "past_reservation"
	CodeOutsideOpenHours    = "outside_business_hours"
	CodeInvalidInitialState = "invalid_initial_status"
	CodeUnknownStatus       = "unknown_status"
	CodeFinished            = "reservation_finished"
)

// ValidationError reports a malformed or missing field in a submitted record.
type ValidationError struct {
	Field   string
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RuleViolation reports a structurally valid record that breaks a business rule.
type RuleViolation struct {
	Code    string
	Message string
}

func (e *RuleViolation) Error() string {
	return e.Message
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: ReasonRequired, Message: fmt.Sprintf("%s field required", field)}
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsRuleViolation unwraps err into a *RuleViolation.
func AsRuleViolation(err error) (*RuleViolation, bool) {
	var rv *RuleViolation
	ok := errors.As(err, &rv)
	return rv, ok
}
