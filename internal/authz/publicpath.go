// Package authz holds the shared authentication policy used by both filter
// tiers: the public-path table consulted by the gateway pre-filter and by the
// service-tier route policy. Keeping one table avoids the drift that results
// from duplicating path literals per service.
package authz

import (
	"strings"
)

// PatternKind selects how a PathPattern matches a request path.
type PatternKind int

const (
	// Exact matches the whole path literally.
	Exact PatternKind = iota
	// Prefix matches the pattern itself and any path below it. Matching is
	// segment-aware: "/a/b" covers "/a/b" and "/a/b/c", never "/a/bc".
	Prefix
	// Template matches segment-by-segment; a "{id}" segment matches exactly
	// one all-digit segment.
	Template
)

// PathPattern is one entry of the public-path table. Method is optional;
// empty means any method.
type PathPattern struct {
	Kind    PatternKind
	Method  string
	Pattern string
}

// Matches reports whether a request with the given method and path is
// covered by this pattern.
func (p PathPattern) Matches(method, path string) bool {
	if p.Method != "" && p.Method != method {
		return false
	}

	switch p.Kind {
	case Exact:
		return path == p.Pattern
	case Prefix:
		prefix := strings.TrimSuffix(p.Pattern, "/")

		return path == prefix || strings.HasPrefix(path, prefix+"/")
	case Template:
		return matchTemplate(p.Pattern, path)
	default:
		return false
	}
}

func matchTemplate(pattern, path string) bool {
	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")
	if len(patSegs) != len(pathSegs) {
		return false
	}

	for i, seg := range patSegs {
		if seg == "{id}" {
			if !isNumeric(pathSegs[i]) {
				return false
			}

			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}

	return true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Table is an ordered set of public-path patterns.
type Table []PathPattern

// IsPublic reports whether any pattern covers the request.
func (t Table) IsPublic(method, path string) bool {
	for _, p := range t {
		if p.Matches(method, path) {
			return true
		}
	}

	return false
}

// PublicPaths is the platform's public-path table. The gateway short-circuits
// these to pass-through with no token check; the service tier keeps its own
// explicit per-route policy and stays authoritative, so a change here only
// ever widens or narrows the advisory pre-filter.
func PublicPaths() Table {
	return Table{
		{Kind: Exact, Pattern: "/auth/login"},
		{Kind: Exact, Pattern: "/auth/signup"},
		{Kind: Exact, Pattern: "/auth/send-code"},
		{Kind: Exact, Pattern: "/auth/verify-code"},
		{Kind: Exact, Pattern: "/auth/check-username"},
		{Kind: Exact, Pattern: "/auth/check-nickname"},
		{Kind: Exact, Pattern: "/health"},
		{Kind: Exact, Method: "GET", Pattern: "/api/posts"},
		{Kind: Template, Method: "GET", Pattern: "/api/posts/{id}"},
		{Kind: Template, Method: "GET", Pattern: "/api/posts/{id}/comments"},
		{Kind: Prefix, Method: "GET", Pattern: "/api/posts/category"},
		{Kind: Prefix, Method: "GET", Pattern: "/api/posts/tag"},
		{Kind: Exact, Method: "GET", Pattern: "/api/posts/categories"},
		{Kind: Exact, Method: "GET", Pattern: "/api/posts/tags"},
		{Kind: Prefix, Pattern: "/api/search"},
	}
}
