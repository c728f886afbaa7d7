package router

import (
	"fmt"
	"strings"
)

// WildcardParam is the Param key holding the remainder matched by "*".
const WildcardParam = "*"

type segmentKind uint8

const (
	segmentLiteral segmentKind = iota
	segmentParam
	segmentWildcard
)

type segment struct {
	kind  segmentKind
	value string // literal text or param name
}

// pattern is a route path compiled into segments once at registration.
type pattern struct {
	raw      string
	norm     string
	segments []segment
}

// normalizePath drops trailing slashes and adds a missing leading one,
// so "api/x", "/api/x" and "/api/x/" compare equal.
func normalizePath(p string) string {
	p = strings.TrimRight(p, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func splitPath(p string) []string {
	if p == "/" {
		return nil
	}
	return strings.Split(p[1:], "/")
}

func compilePattern(raw string) (pattern, error) {
	norm := normalizePath(raw)
	parts := splitPath(norm)

	p := pattern{
		raw:      raw,
		norm:     norm,
		segments: make([]segment, 0, len(parts)),
	}
	seen := make(map[string]struct{})

	for _, part := range parts {
		switch {
		case part == "*":
			p.segments = append(p.segments, segment{kind: segmentWildcard})
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" || strings.ContainsAny(name, ":*") {
				return pattern{}, fmt.Errorf("%w: bad parameter %q in %q", ErrInvalidPattern, part, raw)
			}
			if _, dup := seen[name]; dup {
				return pattern{}, fmt.Errorf("%w: duplicate parameter %q in %q", ErrInvalidPattern, name, raw)
			}
			seen[name] = struct{}{}
			p.segments = append(p.segments, segment{kind: segmentParam, value: name})
		default:
			p.segments = append(p.segments, segment{kind: segmentLiteral, value: part})
		}
	}

	return p, nil
}

// match reports whether path matches the whole pattern. Captured values are
// written to params only when the match succeeds.
func (p pattern) match(path string, params map[string]string) bool {
	return matchSegments(p.segments, splitPath(normalizePath(path)), params)
}

func matchSegments(pat []segment, parts []string, params map[string]string) bool {
	if len(pat) == 0 {
		return len(parts) == 0
	}

	s := pat[0]
	switch s.kind {
	case segmentWildcard:
		// Greedy: try the longest remainder first, give back on failure.
		for n := len(parts); n >= 0; n-- {
			if matchSegments(pat[1:], parts[n:], params) {
				params[WildcardParam] = strings.Join(parts[:n], "/")
				return true
			}
		}
		return false

	case segmentParam:
		if len(parts) == 0 || parts[0] == "" {
			return false
		}
		if !matchSegments(pat[1:], parts[1:], params) {
			return false
		}
		params[s.value] = parts[0]
		return true

	default:
		if len(parts) == 0 || parts[0] != s.value {
			return false
		}
		return matchSegments(pat[1:], parts[1:], params)
	}
}
