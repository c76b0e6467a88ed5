package rest

import (
	"net/http"
	"strings"

	"vapi.io/vapi/lib/apiversion"
)

// RouteFunction is a function that can be called when a route is matched
type RouteFunction func(w http.ResponseWriter, r *http.Request)

// Route binds a HTTP Method, Path, Consumes combination to a RouteFunction
type Route struct {
	Method   string
	Path     string // webservice root path + described path
	Function RouteFunction

	// Consumes holds the MIME types the route accepts in request bodies
	Consumes []string
	// Produces holds the MIME types the route can write in responses
	Produces []string

	// Versions holds the API versions the route is declared for.
	// An empty set means the route is version-neutral and serves any requested version
	Versions apiversion.Versions

	// Deprecated holds the API versions the route still serves but advertises as deprecated
	Deprecated apiversion.Versions

	// cached values for dispatching
	relativePath string
	pathParts    []string
	pathExpr     *pathExpression // cached compilation of relativePath as RegExp

	// indicate route path has custom verb
	hasCustomVerb bool

	// indicate route is registered under the keyed-entity path convention,
	// i.e. also addressable as /users(42) with query options
	keyedPath bool

	// set during route matching
	paramCount  int
	staticCount int
}

func tokenizePath(path string) []string {
	if "/" == path {
		return nil
	}
	return strings.Split(strings.Trim(path, "/"), "/")
}

func (r *Route) postBuild() {
	r.pathParts = tokenizePath(r.Path)
	r.hasCustomVerb = hasCustomVerb(r.Path)
}

// matchesVersion returns true if the route declares the given version,
// either as supported or as deprecated
func (r *Route) matchesVersion(requested apiversion.Version) bool {
	return r.Versions.Contains(requested) || r.Deprecated.Contains(requested)
}

// matchesContentType returns true if the route can consume content with the given mime type
func (r *Route) matchesContentType(mimeTypes string) bool {
	if len(r.Consumes) == 0 {
		// did not specify what it can consume, so it matches anything
		return true
	}
	if len(mimeTypes) == 0 {
		// idempotent methods with (most-likely or guaranteed) empty content match missing Content-Type
		m := r.Method
		if m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions || m == http.MethodDelete {
			return true
		}
		// proceed with default
		mimeTypes = MIME_JSON
	}
	for _, mimeType := range strings.Split(mimeTypes, ",") {
		if i := strings.IndexByte(mimeType, ';'); i >= 0 {
			mimeType = mimeType[:i]
		}
		mimeType = strings.TrimSpace(mimeType)
		for _, consumable := range r.Consumes {
			if consumable == "*/*" || consumable == mimeType {
				return true
			}
		}
	}
	return false
}

// matchesAccept returns true if the route produces a mime type acceptable by the request
func (r *Route) matchesAccept(mimeTypesWithQuality string) bool {
	for _, mimeType := range strings.Split(mimeTypesWithQuality, ",") {
		if i := strings.IndexByte(mimeType, ';'); i >= 0 {
			mimeType = mimeType[:i]
		}
		mimeType = strings.TrimSpace(mimeType)
		if mimeType == "*/*" {
			return true
		}
		for _, producible := range r.Produces {
			if producible == "*/*" || producible == mimeType {
				return true
			}
		}
	}
	return false
}

// for debugging
func (r *Route) String() string {
	return r.Method + " " + r.Path
}
