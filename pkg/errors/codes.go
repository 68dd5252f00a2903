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
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
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
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Short aliases used throughout the codebase.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("UNKNOWN")

	// Domain specific aliases
	CodeBillNotFound       = ErrCodeBillNotFound
	CodeLegislatorNotFound = ErrCodeLegislatorNotFound
	CodeStatsNotBuilt      = ErrCodeStatsNotBuilt
	CodeSessionInvalid     = ErrCodeSessionInvalid
)

// Bill Module Error Codes
const (
	ErrCodeBillNotFound       ErrorCode = "BILL_001"
	ErrCodeBillAlreadyExists  ErrorCode = "BILL_002"
	ErrCodeBillNumberInvalid  ErrorCode = "BILL_003"
	ErrCodeBillParseFailed    ErrorCode = "BILL_004"
	ErrCodeBillRecordMalformed ErrorCode = "BILL_005"
	ErrCodeActionLogParseFailed ErrorCode = "BILL_006"
	ErrCodeBillTypeUnsupported ErrorCode = "BILL_007"
)

// Legislator Module Error Codes
const (
	ErrCodeLegislatorNotFound    ErrorCode = "LEG_001"
	ErrCodeLegislatorAmbiguous   ErrorCode = "LEG_002"
	ErrCodeLegislatorNameInvalid ErrorCode = "LEG_003"
	ErrCodeRosterLoadFailed      ErrorCode = "LEG_004"
)

// Statistics Module Error Codes
const (
	ErrCodeStatsNotBuilt        ErrorCode = "STATS_001"
	ErrCodeStatsBuildFailed     ErrorCode = "STATS_002"
	ErrCodeStatsBuildInProgress ErrorCode = "STATS_003"
	ErrCodeSessionInvalid       ErrorCode = "STATS_004"
	ErrCodeChamberInvalid       ErrorCode = "STATS_005"
)

// Feed / Data Source Error Codes
const (
	ErrCodeFeedUnavailable  ErrorCode = "FEED_001"
	ErrCodeFeedRateLimited  ErrorCode = "FEED_002"
	ErrCodeFeedAuthFailed   ErrorCode = "FEED_003"
	ErrCodeFeedParseError   ErrorCode = "FEED_004"
	ErrCodeFeedFetchFailed  ErrorCode = "FEED_005"
	ErrCodeManifestInvalid  ErrorCode = "FEED_006"
	ErrCodeArchiveCorrupted ErrorCode = "FEED_007"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeBillNotFound:         http.StatusNotFound,
	ErrCodeBillAlreadyExists:    http.StatusConflict,
	ErrCodeBillNumberInvalid:    http.StatusBadRequest,
	ErrCodeBillParseFailed:      http.StatusInternalServerError,
	ErrCodeBillRecordMalformed:  http.StatusBadGateway,
	ErrCodeActionLogParseFailed: http.StatusInternalServerError,
	ErrCodeBillTypeUnsupported:  http.StatusBadRequest,

	ErrCodeLegislatorNotFound:    http.StatusNotFound,
	ErrCodeLegislatorAmbiguous:   http.StatusConflict,
	ErrCodeLegislatorNameInvalid: http.StatusBadRequest,
	ErrCodeRosterLoadFailed:      http.StatusInternalServerError,

	ErrCodeStatsNotBuilt:        http.StatusServiceUnavailable,
	ErrCodeStatsBuildFailed:     http.StatusInternalServerError,
	ErrCodeStatsBuildInProgress: http.StatusConflict,
	ErrCodeSessionInvalid:       http.StatusBadRequest,
	ErrCodeChamberInvalid:       http.StatusBadRequest,

	ErrCodeFeedUnavailable:  http.StatusServiceUnavailable,
	ErrCodeFeedRateLimited:  http.StatusTooManyRequests,
	ErrCodeFeedAuthFailed:   http.StatusBadGateway,
	ErrCodeFeedParseError:   http.StatusBadGateway,
	ErrCodeFeedFetchFailed:  http.StatusBadGateway,
	ErrCodeManifestInvalid:  http.StatusBadGateway,
	ErrCodeArchiveCorrupted: http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
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
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeBillNotFound:         "bill not found",
	ErrCodeBillAlreadyExists:    "bill already exists",
	ErrCodeBillNumberInvalid:    "invalid bill number",
	ErrCodeBillParseFailed:      "failed to parse bill document",
	ErrCodeBillRecordMalformed:  "malformed bill record",
	ErrCodeActionLogParseFailed: "failed to parse action log",
	ErrCodeBillTypeUnsupported:  "unsupported bill type",

	ErrCodeLegislatorNotFound:    "legislator not found",
	ErrCodeLegislatorAmbiguous:   "legislator name is ambiguous",
	ErrCodeLegislatorNameInvalid: "invalid legislator name",
	ErrCodeRosterLoadFailed:      "failed to load legislator roster",

	ErrCodeStatsNotBuilt:        "statistics not built yet",
	ErrCodeStatsBuildFailed:     "statistics build failed",
	ErrCodeStatsBuildInProgress: "statistics build already in progress",
	ErrCodeSessionInvalid:       "invalid general assembly session",
	ErrCodeChamberInvalid:       "invalid chamber",

	ErrCodeFeedUnavailable:  "data feed unavailable",
	ErrCodeFeedRateLimited:  "data feed rate limited",
	ErrCodeFeedAuthFailed:   "data feed authentication failed",
	ErrCodeFeedParseError:   "failed to parse feed response",
	ErrCodeFeedFetchFailed:  "failed to fetch feed data",
	ErrCodeManifestInvalid:  "invalid bulk-data manifest",
	ErrCodeArchiveCorrupted: "bulk-data archive corrupted",
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
