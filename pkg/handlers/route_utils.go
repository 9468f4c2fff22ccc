package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// InternalServerErrorString is the body sent to clients on a 500; it
// never leaks the underlying error so internals aren't exposed over
// HTTP.
func InternalServerErrorString() string {
	return "Unexpected server error"
}

func trimSlashes(route string) string {
	return strings.Trim(route, "/")
}

func splitRouteElements(route string) []string {
	route = trimSlashes(route)
	if route == "" {
		return []string{}
	}
	return strings.Split(route, "/")
}

func extractRoute(r *http.Request, prefix string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("cannot strip prefix %q from nil request", prefix)
	}

	route := r.URL.String()
	if !strings.HasPrefix(route, prefix) {
		return "", fmt.Errorf("route %q does not start with prefix %q", route, prefix)
	}

	return strings.TrimPrefix(route, prefix), nil
}

// ExtractRouteVars splits whatever remains of the request's path after
// `route` is stripped off into path elements and query parameters.
// Exported so handlers outside this package (internal/routes) can
// reuse the same split ServeRoute relies on internally.
func ExtractRouteVars(route string, r *http.Request) (RouteVars, error) {
	return extractRouteVars(route, r)
}

func extractRouteVars(route string, r *http.Request) (RouteVars, error) {
	vars := RouteVars{
		RouteElems: []string{},
		Params:     map[string]Values{},
	}

	extra, err := extractRoute(r, route)
	if err != nil {
		return vars, fmt.Errorf("could not extract vars from route %q (err: %v)", route, err)
	}

	path, query, hasQuery := strings.Cut(extra, "?")
	vars.RouteElems = splitRouteElements(path)
	if !hasQuery {
		return vars, nil
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return vars, fmt.Errorf("could not parse query parameters in route %q (err: %v)", route, err)
	}

	for key, values := range params {
		if values == nil {
			values = []string{}
		}
		vars.Params[key] = values
	}

	return vars, nil
}

// extractRouteData reads every form value posted under dataKey. It
// requires the request body to be form-encodable; non-form requests
// simply yield an empty Data slice rather than an error.
func extractRouteData(dataKey string, r *http.Request) (RouteData, error) {
	data := RouteData{RouteElems: []string{}}

	if err := r.ParseForm(); err != nil {
		return data, fmt.Errorf("could not parse form data for key %q (err: %v)", dataKey, err)
	}

	if values, ok := r.Form[dataKey]; ok {
		data.Data = append(data.Data, values...)
	}

	return data, nil
}
