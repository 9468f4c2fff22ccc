package dispatcher

import (
	"net/http"

	"orrery/pkg/logger"
)

// Router dispatches requests to the Route whose path and method best
// fit them, falling back to a not-found or method-not-allowed handler
// when nothing registered fits.
type Router struct {
	notFoundHandler         http.Handler
	methodNotAllowedHandler http.Handler
	routes                  []*Route
	log                     logger.Logger
}

// NewRouter returns an empty Router with default not-found and
// method-not-allowed handlers.
func NewRouter(log logger.Logger) *Router {
	return &Router{
		notFoundHandler:         NotFound(log),
		methodNotAllowedHandler: NotAllowed(log),
		routes:                  make([]*Route, 0),
		log:                     log,
	}
}

// addRoute registers and returns a new empty Route for path, which
// defaults to "/" when empty.
func (r *Router) addRoute(path string) *Route {
	if len(path) == 0 {
		path = "/"
	}

	route := NewRoute(path, r.log)
	r.routes = append(r.routes, route)

	return route
}

// HandleFunc registers path with f and returns the created Route so
// its methods can be chained.
func (r *Router) HandleFunc(path string, f func(http.ResponseWriter, *http.Request)) *Route {
	return r.addRoute(path).HandlerFunc(f)
}

// ServeHTTP routes req to the best matching Route's handler, or to
// the not-found/method-not-allowed handler when nothing fits.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var m routeMatch
	r.Match(req, &m)
	m.handler.ServeHTTP(w, req)
}

// Match finds the registered route that matches req most precisely
// (i.e. the longest run of matching path segments) and populates m
// with its outcome. It always returns true: when nothing matches,
// m.handler is set to the router's not-found (or method-not-allowed)
// handler so callers can always invoke m.handler directly.
func (r *Router) Match(req *http.Request, m *routeMatch) bool {
	best := routeMatch{match: notFound}

	for _, route := range r.routes {
		candidate := route.match(req)
		if candidate.length > best.length ||
			(candidate.length == best.length && candidate.match > best.match) {
			best = candidate
		}
	}

	*m = best

	switch m.match {
	case matched:
		// handler already set on best
	case methodNotAllowed:
		m.handler = r.methodNotAllowedHandler
	default:
		m.match = notFound
		m.handler = r.notFoundHandler
	}

	return true
}
