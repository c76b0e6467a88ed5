package rest

import (
	"strings"

	"vapi.io/vapi/lib/apiversion"
	"vapi.io/vapi/lib/logger"
)

// RouteBuilder is a helper to construct Route
type RouteBuilder struct {
	rootPath    string
	currentPath string
	produces    []string
	consumes    []string
	httpMethod  string
	function    RouteFunction
	versions    apiversion.Versions
	deprecated  apiversion.Versions
	keyedPath   bool
}

// To bind the route to a function
// If this route is matched with the incoming HTTP request then call this function with the ResponseWriter, *Request pair
// Required
func (b *RouteBuilder) To(function RouteFunction) *RouteBuilder {
	b.function = function
	return b
}

// Method specifies what HTTP method to match
// Required
func (b *RouteBuilder) Method(method string) *RouteBuilder {
	b.httpMethod = method
	return b
}

func (b *RouteBuilder) servicePath(path string) *RouteBuilder {
	b.rootPath = path
	return b
}

// Path specifies the relative (w.r.t WebService root path) URL path to match
func (b *RouteBuilder) Path(path string) *RouteBuilder {
	b.currentPath = path
	return b
}

func (b *RouteBuilder) copyDefaults(rootProduces, rootConsumes []string, rootVersions apiversion.Versions) {
	if len(b.produces) == 0 {
		b.produces = rootProduces
	}
	if len(b.consumes) == 0 {
		b.consumes = rootConsumes
	}
	if len(b.versions) == 0 {
		b.versions = rootVersions
	}
}

// Produces specifies what MIME types can be produced ; the matched one will appear in the Content-Type Http header
func (b *RouteBuilder) Produces(mimeTypes ...string) *RouteBuilder {
	b.produces = mimeTypes
	return b
}

// Consumes specifies what MIME types can be consumed ; the Accept Http header must match any of these
func (b *RouteBuilder) Consumes(mimeTypes ...string) *RouteBuilder {
	b.consumes = mimeTypes
	return b
}

// Version declares the API versions the route serves
// A route without declared versions is version-neutral and serves any requested version
func (b *RouteBuilder) Version(versions ...string) *RouteBuilder {
	for _, each := range versions {
		b.versions = append(b.versions, apiversion.MustParse(each))
	}
	return b
}

// DeprecatedVersion declares API versions the route still serves but advertises as deprecated
func (b *RouteBuilder) DeprecatedVersion(versions ...string) *RouteBuilder {
	for _, each := range versions {
		b.deprecated = append(b.deprecated, apiversion.MustParse(each))
	}
	return b
}

// KeyedPath marks the route as addressable via the keyed-entity path convention.
// A route with path /users/{id} then also matches /users(42) together with
// the $select, $filter, $top, $skip and $orderby query options
func (b *RouteBuilder) KeyedPath() *RouteBuilder {
	b.keyedPath = true
	return b
}

// Build creates a new Route using the specification details collected by the RouteBuilder
func (b *RouteBuilder) Build() Route {
	pathExpr, err := newPathExpression(b.currentPath)
	if err != nil {
		logger.Fatalf("invalid path: %s, error: %v", b.currentPath, err)
	}
	if b.function == nil {
		logger.Fatalf("no function specified for route: %s", b.currentPath)
	}
	route := Route{
		Method:       b.httpMethod,
		Path:         concatPath(b.rootPath, b.currentPath),
		Function:     b.function,
		Consumes:     b.consumes,
		Produces:     b.produces,
		Versions:     b.versions,
		Deprecated:   b.deprecated,
		relativePath: b.currentPath,
		pathExpr:     pathExpr,
		keyedPath:    b.keyedPath,
	}
	route.postBuild()
	return route
}

// merge two paths using the current (package global) merge path strategy.
func concatPath(rootPath, routePath string) string {
	return strings.TrimRight(rootPath, "/") + "/" + strings.TrimLeft(routePath, "/")
}
