package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
)

// Aliases used by call sites that predate the numbered codes.
const (
	CodeUnknown      = ErrorCode("")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
)

// Safety data sheet error codes
const (
	ErrCodeSDSValidation ErrorCode = "SDS_001"
	ErrCodeSDSState      ErrorCode = "SDS_002"
	ErrCodeSDSIncomplete ErrorCode = "SDS_003"
	ErrCodeSDSPersist    ErrorCode = "SDS_004"
	ErrCodeSDSRender     ErrorCode = "SDS_005"
	ErrCodeSDSNotFound   ErrorCode = "SDS_006"
	ErrCodeSDSSession    ErrorCode = "SDS_007"
	ErrCodeSDSArchive    ErrorCode = "SDS_008"
)

// PubChem data source error codes
const (
	ErrCodePubChemNotFound  ErrorCode = "PUBCHEM_001"
	ErrCodePubChemTransport ErrorCode = "PUBCHEM_002"
	ErrCodePubChemStatus    ErrorCode = "PUBCHEM_003"
	ErrCodePubChemDecode    ErrorCode = "PUBCHEM_004"
	ErrCodePubChemShape     ErrorCode = "PUBCHEM_005"
	ErrCodePubChemTimeout   ErrorCode = "PUBCHEM_006"
)

// Messaging and storage error codes
const (
	ErrCodeMessagePublish ErrorCode = "MSG_001"
	ErrCodeMessageConsume ErrorCode = "MSG_002"
	ErrCodeStorageError   ErrorCode = "STO_001"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusForbidden,

	ErrCodeSDSValidation: http.StatusUnprocessableEntity,
	ErrCodeSDSState:      http.StatusConflict,
	ErrCodeSDSIncomplete: http.StatusConflict,
	ErrCodeSDSPersist:    http.StatusInternalServerError,
	ErrCodeSDSRender:     http.StatusInternalServerError,
	ErrCodeSDSNotFound:   http.StatusNotFound,
	ErrCodeSDSSession:    http.StatusNotFound,
	ErrCodeSDSArchive:    http.StatusInternalServerError,

	ErrCodePubChemNotFound:  http.StatusNotFound,
	ErrCodePubChemTransport: http.StatusBadGateway,
	ErrCodePubChemStatus:    http.StatusBadGateway,
	ErrCodePubChemDecode:    http.StatusBadGateway,
	ErrCodePubChemShape:     http.StatusBadGateway,
	ErrCodePubChemTimeout:   http.StatusGatewayTimeout,

	ErrCodeMessagePublish: http.StatusInternalServerError,
	ErrCodeMessageConsume: http.StatusInternalServerError,
	ErrCodeStorageError:   http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",

	ErrCodeSDSValidation: "step input is invalid",
	ErrCodeSDSState:      "step is not the current wizard step",
	ErrCodeSDSIncomplete: "wizard has unfinished steps",
	ErrCodeSDSPersist:    "failed to save safety data sheet",
	ErrCodeSDSRender:     "failed to render safety data sheet",
	ErrCodeSDSNotFound:   "safety data sheet not found",
	ErrCodeSDSSession:    "wizard session not found",
	ErrCodeSDSArchive:    "failed to archive safety data sheet",

	ErrCodePubChemNotFound:  "compound not found in PubChem",
	ErrCodePubChemTransport: "PubChem request failed",
	ErrCodePubChemStatus:    "PubChem returned an error status",
	ErrCodePubChemDecode:    "failed to decode PubChem response",
	ErrCodePubChemShape:     "PubChem annotation has unexpected shape",
	ErrCodePubChemTimeout:   "PubChem request timed out",

	ErrCodeMessagePublish: "failed to publish message",
	ErrCodeMessageConsume: "failed to consume message",
	ErrCodeStorageError:   "object storage error",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
