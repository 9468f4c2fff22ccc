package dispatcher

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"orrery/pkg/logger"
)

// matching describes how well a route fit an incoming request.
type matching int

const (
	methodNotAllowed matching = iota
	notFound
	matchedPartial
	matched
)

// ErrRouteNotValid is returned (and panicked with, in NewRoute) when a
// route's path cannot be compiled into per-segment regular
// expressions.
var ErrRouteNotValid = fmt.Errorf("invalid expression provided for route")

// Route is one path pattern plus the HTTP methods and handler bound
// to it. Path segments are compiled to anchored regexps, so a
// registered path like `/ships/[a-zA-Z0-9-]+` matches any ship id
// without the router needing its own templating syntax.
type Route struct {
	methods map[string]bool
	segments []*regexp.Regexp
	handler  http.Handler
	log      logger.Logger
}

// routeMatch carries the outcome of matching a single Route (or, via
// Router.Match, the best Route found) against a request: which
// handler should run, how the match went, and for a Route's own
// match(), how many segments lined up, used to prefer the most
// specific of several routes that could all partially match.
type routeMatch struct {
	handler http.Handler
	match   matching
	length  int
}

// compileSegments splits path on '/' and anchors each non-empty
// segment as `^segment$` so that e.g. `ships` never matches
// `shipsyard`.
func compileSegments(path string) ([]*regexp.Regexp, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return []*regexp.Regexp{}, nil
	}

	tokens := strings.Split(path, "/")
	segments := make([]*regexp.Regexp, 0, len(tokens))

	for _, token := range tokens {
		if !strings.HasPrefix(token, "^") {
			token = "^" + token
		}
		if !strings.HasSuffix(token, "$") {
			token += "$"
		}

		exp, err := regexp.Compile(token)
		if err != nil {
			return segments, ErrRouteNotValid
		}
		segments = append(segments, exp)
	}

	return segments, nil
}

// NewRoute compiles path and returns a Route with no methods and a
// NoOp handler. Panics if path cannot be compiled.
func NewRoute(path string, log logger.Logger) *Route {
	segments, err := compileSegments(path)
	if err != nil {
		log.Trace(logger.Error, "dispatcher", fmt.Sprintf("could not compile route %q (err: %v)", path, err))
		panic(ErrRouteNotValid)
	}

	return &Route{
		methods:  make(map[string]bool),
		segments: segments,
		handler:  http.Handler(NoOp(log)),
		log:      log,
	}
}

func (r *Route) Handler() http.Handler {
	return r.handler
}

// Methods registers the given HTTP verbs (case-insensitively) as
// valid for this route and returns it for chaining.
func (r *Route) Methods(methods ...string) *Route {
	for method := range filterMethods(methods, r.log) {
		r.methods[method] = true
	}
	return r
}

// HandlerFunc sets the route's handler and returns it for chaining.
func (r *Route) HandlerFunc(f func(http.ResponseWriter, *http.Request)) *Route {
	r.handler = http.HandlerFunc(f)
	return r
}

// match reports how well req fits this route: its path segments and,
// if those line up, its HTTP method.
func (r *Route) match(req *http.Request) routeMatch {
	path := req.URL.String()
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}

	m := routeMatch{length: r.matchSegments(path)}
	if m.length == 0 {
		m.match = notFound
		return m
	}

	if !r.methods[req.Method] {
		m.match = methodNotAllowed
		return m
	}

	m.match = matchedPartial
	if m.length == len(r.segments) {
		m.match = matched
	}
	m.handler = r.handler

	return m
}

// matchSegments returns how many of the route's compiled segments
// match the corresponding token of uri, stopping at the first
// mismatch. A route only fully matches when this equals its segment
// count, so a shorter registered route never shadows a longer,
// more-specific one sharing the same prefix.
func (r *Route) matchSegments(uri string) int {
	uri = strings.Trim(uri, "/")
	if uri == "" {
		if len(r.segments) == 0 {
			return 1
		}
		return 0
	}

	tokens := strings.Split(uri, "/")
	if len(r.segments) > len(tokens) {
		return 0
	}

	length := 0
	for i := 0; i < len(r.segments); i++ {
		if !r.segments[i].MatchString(tokens[i]) {
			break
		}
		length++
	}

	return length
}
