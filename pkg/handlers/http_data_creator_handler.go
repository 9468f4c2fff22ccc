package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"orrery/pkg/logger"
)

// CreationEndpointDesc describes a write endpoint: which form key
// carries the payload, how to create the resource(s) it describes,
// and which route clients should use to fetch what was created.
type CreationEndpointDesc interface {
	Route() string
	AccessRoute() string
	DataKey() string
	Create(data RouteData) ([]string, error)
}

func notifyCreation(resourcePaths string, w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(resourcePaths))
}

// ServeCreationRoute builds a handler that extracts the posted data,
// delegates creation to endpoint, and responds with the access paths
// of whatever got created. Panics if the route data can't be parsed;
// wrap the returned handler with WithSafetyNet.
func ServeCreationRoute(endpoint CreationEndpointDesc, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeName := trimSlashes(endpoint.Route())
		route := "/" + routeName

		data, err := extractRouteData(endpoint.DataKey(), r)
		if err != nil {
			panic(fmt.Errorf("could not fetch data for route %q (err: %v)", routeName, err))
		}
		vars, err := extractRouteVars(route, r)
		if err != nil {
			panic(fmt.Errorf("could not fetch route elements for route %q (err: %v)", routeName, err))
		}
		data.RouteElems = vars.RouteElems

		created, err := endpoint.Create(data)
		if err != nil {
			log.Trace(logger.Error, "handlers", fmt.Sprintf("could not create resource on route %q (err: %v)", routeName, err))
			http.Error(w, InternalServerErrorString(), http.StatusInternalServerError)
			return
		}

		accessRoute := endpoint.AccessRoute()
		paths := make([]string, len(created))
		for i, name := range created {
			paths[i] = fmt.Sprintf("/%s/%s", accessRoute, name)
		}

		out, err := json.Marshal(paths)
		if err != nil {
			panic(fmt.Errorf("could not marshal %d created resource(s) (err: %v)", len(created), err))
		}

		notifyCreation(string(out), w)
	}
}
