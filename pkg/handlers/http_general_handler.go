package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"orrery/pkg/logger"
)

// Filter is a generic key/values pair an EndpointDesc can translate
// into whatever query mechanism backs it; this package has no
// opinion on how it's interpreted.
type Filter struct {
	Key     string
	Options Values
}

// EndpointDesc describes a read-only collection endpoint: how to
// parse filters out of the request's route variables, and how to
// fetch the data those filters describe.
type EndpointDesc interface {
	Route() string
	ParseFilters(vars RouteVars) []Filter
	Data(filters []Filter) (interface{}, error)
}

func marshalAndSend(data interface{}, w http.ResponseWriter) error {
	out, err := json.Marshal(data)
	if err != nil {
		http.Error(w, InternalServerErrorString(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(out)
	return err
}

// ServeRoute builds a handler that extracts route variables, asks
// endpoint to turn them into filters, fetches the matching data and
// writes it back as JSON. Panics if the route variables themselves
// can't be parsed; wrap the returned handler with WithSafetyNet.
func ServeRoute(endpoint EndpointDesc, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeName := trimSlashes(endpoint.Route())
		route := "/" + routeName

		vars, err := extractRouteVars(route, r)
		if err != nil {
			panic(fmt.Errorf("error serving route %q (err: %v)", routeName, err))
		}

		filters := endpoint.ParseFilters(vars)

		data, err := endpoint.Data(filters)
		if err != nil {
			log.Trace(logger.Error, "handlers", fmt.Sprintf("could not fetch data for route %q (err: %v)", routeName, err))
			http.Error(w, InternalServerErrorString(), http.StatusInternalServerError)
			return
		}

		if err := marshalAndSend(data, w); err != nil {
			log.Trace(logger.Error, "handlers", fmt.Sprintf("error serving route %q (err: %v)", routeName, err))
		}
	}
}
