package errs

// StatusCodeOf extracts the HTTP status code carried by err, if the error
// chain contains a *RequestError produced from a wire response (an
// HTTP-level failure, as opposed to a construction/encoding/engine error).
func StatusCodeOf(err error) (int, bool) {
	var re *RequestError
	if !As(err, &re) || re.Response == nil {
		return 0, false
	}

	return re.Response.StatusCode, true
}

// IsRetryableStatus reports whether code is conventionally safe to retry:
// 429 (rate limited) or any 5xx server error. 4xx codes other than 429
// indicate a request the server will never accept unchanged, so retrying
// them is never appropriate.
func IsRetryableStatus(code int) bool {
	return code == 429 || (code >= 500 && code < 600)
}
