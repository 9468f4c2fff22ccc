package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"orrery/pkg/logger"
)

var supportedMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true,
	"DELETE": true, "CONNECT": true, "OPTIONS": true,
	"TRACE": true, "PATCH": true,
}

func filterMethods(methods []string, log logger.Logger) map[string]bool {
	filtered := make(map[string]bool, len(methods))

	for _, m := range methods {
		upper := strings.ToUpper(m)
		if !supportedMethods[upper] {
			log.Trace(logger.Error, "handlers", fmt.Sprintf("ignoring unsupported HTTP method %q", m))
			continue
		}
		filtered[upper] = true
	}

	return filtered
}

// Methods wraps next so it only runs for requests using one of the
// given HTTP verbs; anything else gets a 404.
func Methods(log logger.Logger, methods []string, next http.HandlerFunc) http.HandlerFunc {
	allowed := filterMethods(methods, log)

	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed[r.Method] {
			log.Trace(logger.Error, "handlers", fmt.Sprintf("rejecting method %q on %q", r.Method, r.URL.String()))
			http.NotFound(w, r)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// Method is Methods for a single verb.
func Method(log logger.Logger, method string, next http.HandlerFunc) http.HandlerFunc {
	return Methods(log, []string{method}, next)
}
