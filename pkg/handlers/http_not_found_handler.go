package handlers

import (
	"fmt"
	"net/http"

	"orrery/pkg/logger"
)

// NotFound logs the offending URL and answers with a 404. Used as the
// catch-all for routes that exist in the API surface's shape but
// aren't wired to a handler yet.
func NotFound(log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Trace(logger.Warning, "handlers", fmt.Sprintf("no route matched %q", r.URL))
		http.NotFound(w, r)
	}
}
