package dto

import (
	"net/http"
	"strings"
)

// Error codes returned to clients. Format: ERR_<DESCRIPTION>.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"

	ErrCodeInsufficientStock         = "ERR_INSUFFICIENT_STOCK"
	ErrCodeInsufficientBatchQuantity = "ERR_INSUFFICIENT_BATCH_QUANTITY"
	ErrCodeNoBatchFound              = "ERR_NO_BATCH_FOUND"
	ErrCodeBatchAlreadyConsumed      = "ERR_BATCH_ALREADY_CONSUMED"
	ErrCodeCreditLimitExceeded       = "ERR_CREDIT_LIMIT_EXCEEDED"
	ErrCodeInvalidAccountType        = "ERR_INVALID_ACCOUNT_TYPE"
	ErrCodeSplitMismatch             = "ERR_SPLIT_MISMATCH"
	ErrCodeQuotationExpired          = "ERR_QUOTATION_EXPIRED"
)

// errorCodeHTTPStatus maps client error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,

	ErrCodeInsufficientStock:         http.StatusBadRequest,
	ErrCodeInsufficientBatchQuantity: http.StatusBadRequest,
	ErrCodeNoBatchFound:              http.StatusNotFound,
	ErrCodeBatchAlreadyConsumed:      http.StatusBadRequest,
	ErrCodeCreditLimitExceeded:       http.StatusBadRequest,
	ErrCodeInvalidAccountType:        http.StatusBadRequest,
	ErrCodeSplitMismatch:             http.StatusBadRequest,
	ErrCodeQuotationExpired:          http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a client error code,
// defaulting to 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain error codes to client error codes.
// Domain codes not listed here fall through to the INVALID_ prefix rule
// in NormalizeErrorCode.
var domainCodeMapping = map[string]string{
	"NOT_FOUND":                   ErrCodeNotFound,
	"ALREADY_EXISTS":              ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT":        ErrCodeConcurrencyConflict,
	"INVALID_STATE":               ErrCodeInvalidState,
	"UNAUTHORIZED":                ErrCodeUnauthorized,
	"FORBIDDEN":                   ErrCodeForbidden,
	"INSUFFICIENT_STOCK":          ErrCodeInsufficientStock,
	"INSUFFICIENT_BATCH_QUANTITY": ErrCodeInsufficientBatchQuantity,
	"NO_BATCH_FOUND":              ErrCodeNoBatchFound,
	"BATCH_ALREADY_CONSUMED":      ErrCodeBatchAlreadyConsumed,
	"BATCH_OVERFLOW":              ErrCodeValidation,
	"CREDIT_LIMIT_EXCEEDED":       ErrCodeCreditLimitExceeded,
	"INVALID_ACCOUNT_TYPE":        ErrCodeInvalidAccountType,
	"SPLIT_MISMATCH":              ErrCodeSplitMismatch,
	"QUOTATION_EXPIRED":           ErrCodeQuotationExpired,
	"CUSTOMER_REQUIRED":           ErrCodeValidation,
	"SUPPLIER_REQUIRED":           ErrCodeValidation,
	"INTERNAL_ERROR":              ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code into the client
// format. Unmapped INVALID_* codes collapse into ERR_VALIDATION;
// anything else unknown passes through unchanged.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeValidation
	}
	return code
}
