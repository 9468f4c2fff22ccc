package handlers

import (
	"fmt"
	"net/http"

	"orrery/pkg/logger"
)

// WithSafetyNet recovers from any panic raised by next, logs it, and
// answers the client with a 500 instead of letting the panic take the
// whole server down.
func WithSafetyNet(log logger.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Trace(logger.Error, "handlers", fmt.Sprintf("recovered from panic (err: %v)", err))
				http.Error(w, InternalServerErrorString(), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	}
}
