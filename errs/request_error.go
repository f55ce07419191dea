package errs

import (
	"fmt"

	"github.com/willonboy/ztapi/wire"
)

// RequestError is the typed error surfaced by the request/response pipeline:
// a numeric code, a human message, an optional wire response (present for
// HTTP-level failures), and an optional underlying cause. It is the error
// type the send/parse path returns — requests never carry arbitrary
// key/value context, only code/message/response/cause.
type RequestError struct {
	Code     int
	Message  string
	Response *wire.Response
	Err      error
}

// Well-known request error codes (see the framework's data model).
const (
	CodeInvalidURL             = 80000001
	CodeEncodingFailure        = 80000002
	CodeRequestConstruction    = 80000003
	CodeResponseDecodeFailure  = 80000004
	CodePluginRethrowNoReplace = 80000005 // internal/defensive, never expected
	CodeFactoryConstruction    = 80000006
	CodeInvalidRetryDelay      = 80000007
	CodeXPathMissingRequired   = 80020001
	CodeXPathTypeMismatch      = 80020002
)

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (code %d): %s", e.Message, e.Code, e.Err.Error())
	}

	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is compares by code, allowing errors.Is(err, errs.ErrInvalidURL) style checks.
func (e *RequestError) Is(target error) bool {
	t, ok := target.(*RequestError)
	if !ok {
		return false
	}

	return e.Code == t.Code
}

// StatusCode reports the HTTP status: for HTTP-level failures the code IS
// the status; for construction/parse/engine errors it falls back to 0.
func (e *RequestError) StatusCode() int {
	if e.Response != nil {
		return e.Response.StatusCode
	}

	if e.Code >= 100 && e.Code < 600 {
		return e.Code
	}

	return 0
}

// ResponseBody renders the error as a code/message(/cause) map.
func (e *RequestError) ResponseBody() any {
	body := map[string]any{
		"code":    e.Code,
		"message": e.Message,
	}

	if e.Err != nil {
		body["cause"] = e.Err.Error()
	}

	return body
}

// NewRequestError builds a RequestError with the given well-known code.
func NewRequestError(code int, message string, cause error) *RequestError {
	return &RequestError{Code: code, Message: message, Err: cause}
}

// NewHTTPStatusError builds a RequestError for an HTTP-level failure: code is
// the server's status, and response is preserved for inspection.
func NewHTTPStatusError(message string, response *wire.Response) *RequestError {
	return &RequestError{Code: response.StatusCode, Message: message, Response: response}
}

// Sentinel RequestErrors for errors.Is comparisons against well-known codes.
var (
	ErrInvalidURL            = &RequestError{Code: CodeInvalidURL}
	ErrEncodingFailure       = &RequestError{Code: CodeEncodingFailure}
	ErrRequestConstruction   = &RequestError{Code: CodeRequestConstruction}
	ErrResponseDecodeFailure = &RequestError{Code: CodeResponseDecodeFailure}
	ErrInvalidRetryDelay     = &RequestError{Code: CodeInvalidRetryDelay}
	ErrXPathMissingRequired  = &RequestError{Code: CodeXPathMissingRequired}
	ErrXPathTypeMismatch     = &RequestError{Code: CodeXPathTypeMismatch}
)

// IsRequestCode reports whether err is a *RequestError with the given code.
func IsRequestCode(err error, code int) bool {
	var re *RequestError
	if !As(err, &re) {
		return false
	}

	return re.Code == code
}
