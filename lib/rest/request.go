package rest

import (
	"context"
	"net/http"

	"vapi.io/vapi/lib/apiversion"
)

type key int

const (
	PathParamsKey key = iota
	apiVersionKey
)

// WithPathParams add path params to request context (r = WithPathParams(r, pathParams))
func WithPathParams(r *http.Request, pathParams map[string]string) *http.Request {
	ctx := context.WithValue(r.Context(), PathParamsKey, pathParams)
	return r.WithContext(ctx)
}

// WithAPIVersion attaches the API version the route was selected under (r = WithAPIVersion(r, version))
func WithAPIVersion(r *http.Request, version apiversion.Version) *http.Request {
	ctx := context.WithValue(r.Context(), apiVersionKey, version)
	return r.WithContext(ctx)
}

// MatchedVersion returns the API version the route was selected under,
// i.e. the requested version or the assumed default when the request carried none
//
// Returns an empty Version for version-neutral matches without a requested version.
func MatchedVersion(r *http.Request) apiversion.Version {
	v, _ := r.Context().Value(apiVersionKey).(apiversion.Version)
	return v
}

func PathParams(r *http.Request) map[string]string {
	return r.Context().Value(PathParamsKey).(map[string]string)
}

func PathParam(r *http.Request, name string) string {
	return r.Context().Value(PathParamsKey).(map[string]string)[name]
}

// QueryParams returns all the query parameters values by name
func QueryParams(r *http.Request, name string) []string {
	return r.URL.Query()[name]
}

// QueryParam returns the (first) Query parameter value by its name
func QueryParam(r *http.Request, name string) string {
	return r.URL.Query().Get(name)
}

// BodyParam returns the body of the request
// (once for typically a POST or a PUT)
// and returns the value of the given name or an error
func BodyParam(r *http.Request, name string) (string, error) {
	// Parse the form data
	if err := r.ParseForm(); err != nil {
		return "", err
	}

	// Return the value of the given name
	return r.PostFormValue(name), nil
}

func HeaderParam(r *http.Request, name string) string {
	return r.Header.Get(name)
}
