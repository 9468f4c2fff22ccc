package dispatcher

import (
	"fmt"
	"net/http"

	"orrery/pkg/logger"
)

// NotFound answers with a 404, logging the URL that missed every
// registered route.
func NotFound(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Trace(logger.Warning, "dispatcher", fmt.Sprintf("no route matched %q", r.URL))
		http.NotFound(w, r)
	}
}

// NotAllowed answers with a 405: the path matched a route but not
// with one of its registered methods.
func NotAllowed(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Trace(logger.Warning, "dispatcher", fmt.Sprintf("method %q not allowed on %q", r.Method, r.URL))
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// NoOp answers with a 200 and no body. Useful as a placeholder handler
// for a route that's registered but not implemented yet.
func NoOp(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Trace(logger.Warning, "dispatcher", fmt.Sprintf("handling %q with the no-op handler", r.URL))
	}
}

// WithSafetyNet recovers from a panic raised by next, logs it, and
// answers with a 500 rather than crashing the server.
func WithSafetyNet(log logger.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Trace(logger.Error, "dispatcher", fmt.Sprintf("recovered from panic (err: %v)", err))
				http.Error(w, "Unexpected error while processing request", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	}
}
