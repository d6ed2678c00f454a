package shared

import "fmt"

// Error codes shared with the interface layer. The mapping from code to
// HTTP status lives in interfaces/http/dto and is purely mechanical.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeBusinessRule        = "BUSINESS_RULE_VIOLATION"
	CodeCreditLimitExceeded = "CREDIT_LIMIT_EXCEEDED"
	CodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	CodeInvalidTransition   = "INVALID_STATE_TRANSITION"
	CodeNotFound            = "ENTITY_NOT_FOUND"
	CodeDuplicate           = "DUPLICATE_ENTITY"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
)

// DomainError is implemented by every typed domain failure.
type DomainError interface {
	error
	ErrorCode() string
}

// ValidationError signals malformed input or an illegal state for an
// attempted mutation.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a validation error for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) ErrorCode() string { return CodeValidation }

// BusinessRuleViolation signals a well-formed request that a business rule
// rejects.
type BusinessRuleViolation struct {
	Rule    string
	Message string
}

// NewBusinessRuleViolation creates a business rule violation
func NewBusinessRuleViolation(rule, message string) *BusinessRuleViolation {
	return &BusinessRuleViolation{Rule: rule, Message: message}
}

func (e *BusinessRuleViolation) Error() string { return e.Message }

func (e *BusinessRuleViolation) ErrorCode() string { return CodeBusinessRule }

// CreditLimitExceededError is raised when a charge would push a client's
// debt past their credit limit.
type CreditLimitExceededError struct {
	Requested string
	Available string
}

func NewCreditLimitExceededError(requested, available string) *CreditLimitExceededError {
	return &CreditLimitExceededError{Requested: requested, Available: available}
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("charge of %s would exceed available credit %s", e.Requested, e.Available)
}

func (e *CreditLimitExceededError) ErrorCode() string { return CodeCreditLimitExceeded }

// InsufficientFundsError is raised when an operation requires more funds
// than the account holds.
type InsufficientFundsError struct {
	Required  string
	Available string
}

func NewInsufficientFundsError(required, available string) *InsufficientFundsError {
	return &InsufficientFundsError{Required: required, Available: available}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s", e.Required, e.Available)
}

func (e *InsufficientFundsError) ErrorCode() string { return CodeInsufficientFunds }

// InvalidStateTransitionError carries the from/to states of an illegal
// status transition.
type InvalidStateTransitionError struct {
	Entity string
	From   string
	To     string
}

func NewInvalidStateTransitionError(entity, from, to string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{Entity: entity, From: from, To: to}
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.Entity, e.From, e.To)
}

func (e *InvalidStateTransitionError) ErrorCode() string { return CodeInvalidTransition }

// EntityNotFoundError carries the type and identifier of a missing entity.
type EntityNotFoundError struct {
	EntityType string
	EntityID   string
}

func NewEntityNotFoundError(entityType, entityID string) *EntityNotFoundError {
	return &EntityNotFoundError{EntityType: entityType, EntityID: entityID}
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.EntityType, e.EntityID)
}

func (e *EntityNotFoundError) ErrorCode() string { return CodeNotFound }

// DuplicateEntityError carries the uniqueness constraint that was violated.
type DuplicateEntityError struct {
	EntityType string
	Field      string
	Value      string
}

func NewDuplicateEntityError(entityType, field, value string) *DuplicateEntityError {
	return &DuplicateEntityError{EntityType: entityType, Field: field, Value: value}
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.EntityType, e.Field, e.Value)
}

func (e *DuplicateEntityError) ErrorCode() string { return CodeDuplicate }

// ConcurrencyConflictError is returned by the persistence layer when a
// version-checked update loses a race.
type ConcurrencyConflictError struct {
	EntityType string
	EntityID   string
}

func NewConcurrencyConflictError(entityType, entityID string) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{EntityType: entityType, EntityID: entityID}
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified by another process", e.EntityType, e.EntityID)
}

func (e *ConcurrencyConflictError) ErrorCode() string { return CodeConcurrencyConflict }

// UnauthorizedError signals a failed authentication or an access attempt
// outside the caller's tenant.
type UnauthorizedError struct {
	Message string
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func (e *UnauthorizedError) Error() string { return e.Message }

func (e *UnauthorizedError) ErrorCode() string { return CodeUnauthorized }
