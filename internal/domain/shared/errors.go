package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                  = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists             = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput              = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict       = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized              = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden                 = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState              = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock         = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInsufficientBatchQuantity = NewDomainError("INSUFFICIENT_BATCH_QUANTITY", "Insufficient quantity remaining in batches")
	ErrNoBatchFound              = NewDomainError("NO_BATCH_FOUND", "No stock batch exists for this product")
	ErrCreditLimitExceeded       = NewDomainError("CREDIT_LIMIT_EXCEEDED", "Credit limit exceeded")
	ErrInvalidAccountType        = NewDomainError("INVALID_ACCOUNT_TYPE", "Account does not support credit payment")
	ErrSplitMismatch             = NewDomainError("SPLIT_MISMATCH", "Split payment parts do not add up to the grand total")
	ErrBatchAlreadyConsumed      = NewDomainError("BATCH_ALREADY_CONSUMED", "Batch has already been partially consumed")
)
