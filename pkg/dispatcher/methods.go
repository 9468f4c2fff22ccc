package dispatcher

import (
	"fmt"
	"strings"

	"orrery/pkg/logger"
)

var supportedHTTPMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true,
	"DELETE": true, "CONNECT": true, "OPTIONS": true,
	"TRACE": true, "PATCH": true,
}

// filterMethods upper-cases each method and drops anything that isn't
// a real HTTP verb, logging the ones it drops.
func filterMethods(methods []string, log logger.Logger) map[string]bool {
	filtered := make(map[string]bool, len(methods))

	for _, m := range methods {
		upper := strings.ToUpper(m)
		if !supportedHTTPMethods[upper] {
			log.Trace(logger.Error, "dispatcher", fmt.Sprintf("ignoring unsupported HTTP method %q", m))
			continue
		}
		filtered[upper] = true
	}

	return filtered
}
