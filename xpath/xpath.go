// Package xpath implements the slash-path JSON projector: given a decoded
// JSON value, a "/"-delimited path, and a target type, navigate to and
// type-check a single node.
package xpath

import (
	"strconv"
	"strings"

	"github.com/willonboy/ztapi/errs"
)

// Type tags recognized by a Projection.
type Type int

const (
	TypeAny Type = iota
	TypeString
	TypeInteger
	TypeDouble
	TypeBool
	TypeObject
	TypeArray
)

// Projection describes one path→typed-value extraction to run against a
// decoded JSON root.
type Projection struct {
	Path     string
	Type     Type
	Optional bool
}

// segments splits a path into its non-empty components, tolerating leading,
// trailing, and repeated slashes.
func segments(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// Eval navigates root by p.Path and type-checks the terminal node against
// p.Type. A missing key, an out-of-range index, or a type mismatch produces
// (nil, nil) when p.Optional, or a typed *errs.RequestError otherwise.
func Eval(root any, p Projection) (any, error) {
	current := root

	for _, seg := range segments(p.Path) {
		next, ok := step(current, seg)
		if !ok {
			if p.Optional {
				return nil, nil
			}

			return nil, errs.NewRequestError(errs.CodeXPathMissingRequired, "xpath: missing required path "+p.Path, nil)
		}

		current = next
	}

	value, ok := coerce(current, p.Type)
	if !ok {
		if p.Optional {
			return nil, nil
		}

		return nil, errs.NewRequestError(errs.CodeXPathTypeMismatch, "xpath: type mismatch at path "+p.Path, nil)
	}

	return value, nil
}

// step descends one segment into current: a map key lookup, or an integer
// index into a slice.
func step(current any, seg string) (any, bool) {
	switch node := current.(type) {
	case map[string]any:
		v, ok := node[seg]

		return v, ok
	case []any:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(node) {
			return nil, false
		}

		return node[idx], true
	default:
		return nil, false
	}
}

// coerce type-checks and converts value against the requested tag. JSON
// numbers decode as float64 via encoding/json; TypeInteger additionally
// requires the float to be integral so "double accepts integer literals,
// integer does not accept fractional doubles" holds.
func coerce(value any, t Type) (any, bool) {
	switch t {
	case TypeAny:
		return value, true
	case TypeString:
		s, ok := value.(string)

		return s, ok
	case TypeBool:
		b, ok := value.(bool)

		return b, ok
	case TypeObject:
		m, ok := value.(map[string]any)

		return m, ok
	case TypeArray:
		a, ok := value.([]any)

		return a, ok
	case TypeDouble:
		f, ok := value.(float64)

		return f, ok
	case TypeInteger:
		f, ok := value.(float64)
		if !ok || f != float64(int64(f)) {
			return nil, false
		}

		return int64(f), true
	default:
		return nil, false
	}
}

// Project runs every projection in configs against root and returns a
// path→value map. An optional projection that yields nil is left out of
// the map. The first required projection to fail aborts the whole parse
// and its error is returned.
func Project(root any, configs []Projection) (map[string]any, error) {
	out := make(map[string]any, len(configs))

	for _, p := range configs {
		v, err := Eval(root, p)
		if err != nil {
			return nil, err
		}

		if v == nil && p.Optional {
			continue
		}

		out[p.Path] = v
	}

	return out, nil
}
