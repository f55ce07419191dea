package request

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Encoding selects how a descriptor's parameters are placed on the wire.
type Encoding int

const (
	// EncodingURLQuery appends parameters to the URL as a query string.
	EncodingURLQuery Encoding = iota
	// EncodingJSONBody serializes parameters as a JSON request body.
	EncodingJSONBody
)

// DefaultEncoding returns the default encoding for method, per spec: GET,
// HEAD, and DELETE default to URL-query; everything else defaults to
// JSON-body.
func DefaultEncoding(method string) Encoding {
	switch strings.ToUpper(method) {
	case "GET", "HEAD", "DELETE":
		return EncodingURLQuery
	default:
		return EncodingJSONBody
	}
}

// unreserved is the RFC 3986 unreserved character set: letters, digits,
// and -._~. Everything else is percent-encoded.
func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	default:
		return false
	}
}

// percentEncode percent-encodes s over the RFC 3986 unreserved set.
func percentEncode(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}

	return b.String()
}

// renderScalar renders a single JSON-representable value per the
// URL-query scalar rendering rules: null -> "", bool -> "1"/"0",
// numbers -> shortest unambiguous decimal, string -> as-is (caller
// percent-encodes), object/array -> JSON text (caller percent-encodes).
func renderScalar(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case bool:
		if val {
			return "1", nil
		}

		return "0", nil
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return formatFloat(val), nil
	case float32:
		return formatFloat(float64(val)), nil
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}

		return string(b), nil
	default:
		// Fall back to JSON for any other JSON-representable type
		// (e.g. json.Number, custom numeric types).
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}

		return strings.Trim(string(b), `"`), nil
	}
}

// formatFloat renders a float64 without a trailing ".0" when the value is
// integral, matching "shortest unambiguous decimal" for integers expressed
// as doubles.
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

// EncodeQuery builds a "k=v&k=v" query string from params in declaration
// order. Nested/list values are JSON-encoded then percent-encoded, per the
// object/array scalar rule.
func EncodeQuery(params []Parameter) (string, error) {
	pairs := make([]string, 0, len(params))

	for _, p := range params {
		rendered, err := renderScalar(p.Value)
		if err != nil {
			return "", fmt.Errorf("encode query param %q: %w", p.Key, err)
		}

		pairs = append(pairs, percentEncode(p.Key)+"="+percentEncode(rendered))
	}

	return strings.Join(pairs, "&"), nil
}

// EncodeJSONBody builds a canonical JSON object from params. Duplicate
// keys: last write wins. Bools render as JSON booleans (not 0/1).
//
// encoding/json sorts map keys alphabetically regardless of params' order;
// that's acceptable here because JSON-body key ordering isn't part of the
// framework's observable contract — only header/parameter *item* ordering
// ahead of encoding is (see EncodeQuery).
func EncodeJSONBody(params []Parameter) ([]byte, error) {
	obj := make(map[string]any, len(params))

	for _, p := range params {
		obj[p.Key] = p.Value
	}

	b, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encode json body: %w", err)
	}

	return b, nil
}
