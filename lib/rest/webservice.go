package rest

import (
	"net/http"

	"vapi.io/vapi/lib/apiversion"
	"vapi.io/vapi/lib/logger"
)

// WebService holds a collection of Route values that bind a HTTP Method + URL Path to a function
type WebService struct {
	rootPath string
	pathExpr *pathExpression // cached compilation of rootPath as RegExp
	routes   []Route
	produces []string
	consumes []string

	// apiVersions are the default versions for routes of this service
	// that do not declare their own
	apiVersions apiversion.Versions
}

// RootPath returns the RootPath associated with this WebService. Default "/"
func (w *WebService) RootPath() string {
	return w.rootPath
}

// Path specifies the root URL template path of the WebService
// All Routes will be relative to this path
func (w *WebService) Path(root string) *WebService {
	w.rootPath = root
	if len(w.rootPath) == 0 {
		w.rootPath = "/"
	}
	w.compilePathExpression()
	return w
}

// Produces specifies that this WebService can produce one or more MIME types.
// Http requests must have one of these values set for the Accept header.
func (w *WebService) Produces(contentTypes ...string) *WebService {
	w.produces = contentTypes
	return w
}

// Consumes specifies that this WebService can consume one or more MIME types.
// Http requests must have one of these values set for the Content-Type header.
func (w *WebService) Consumes(accepts ...string) *WebService {
	w.consumes = accepts
	return w
}

// APIVersion declares the default API versions for routes of this service
func (w *WebService) APIVersion(versions ...string) *WebService {
	for _, each := range versions {
		w.apiVersions = append(w.apiVersions, apiversion.MustParse(each))
	}
	return w
}

// Versions returns all the distinct API versions declared on the service and its routes
func (w *WebService) Versions() apiversion.Versions {
	var all apiversion.Versions
	add := func(vs apiversion.Versions) {
		for _, each := range vs {
			if !all.Contains(each) {
				all = append(all, each)
			}
		}
	}
	add(w.apiVersions)
	for i := range w.routes {
		add(w.routes[i].Versions)
	}
	return all
}

// DeprecatedVersions returns all the distinct deprecated API versions declared on routes of the service
func (w *WebService) DeprecatedVersions() apiversion.Versions {
	var all apiversion.Versions
	for i := range w.routes {
		for _, each := range w.routes[i].Deprecated {
			if !all.Contains(each) {
				all = append(all, each)
			}
		}
	}
	return all
}

// Route creates a new Route using the RouteBuilder and adds it to the ordered list of Routes.
func (w *WebService) Route(builder *RouteBuilder) *WebService {
	builder.copyDefaults(w.produces, w.consumes, w.apiVersions)
	w.routes = append(w.routes, builder.Build())
	return w
}

// Method creates a new RouteBuilder and initializes its http method
func (w *WebService) Method(httpMethod string) *RouteBuilder {
	return new(RouteBuilder).servicePath(w.rootPath).Method(httpMethod)
}

// GET is a shortcut for .Method(http.MethodGet).Path(subPath)
func (w *WebService) GET(subPath string) *RouteBuilder {
	return w.Method(http.MethodGet).Path(subPath)
}

// POST is a shortcut for .Method(http.MethodPost).Path(subPath)
func (w *WebService) POST(subPath string) *RouteBuilder {
	return w.Method(http.MethodPost).Path(subPath)
}

// PUT is a shortcut for .Method(http.MethodPut).Path(subPath)
func (w *WebService) PUT(subPath string) *RouteBuilder {
	return w.Method(http.MethodPut).Path(subPath)
}

// PATCH is a shortcut for .Method(http.MethodPatch).Path(subPath)
func (w *WebService) PATCH(subPath string) *RouteBuilder {
	return w.Method(http.MethodPatch).Path(subPath)
}

// DELETE is a shortcut for .Method(http.MethodDelete).Path(subPath)
func (w *WebService) DELETE(subPath string) *RouteBuilder {
	return w.Method(http.MethodDelete).Path(subPath)
}

// Routes returns the Routes associated with this WebService
func (w *WebService) Routes() []Route {
	result := make([]Route, len(w.routes))
	copy(result, w.routes)
	return result
}

// compilePathExpression ensures that the path is compiled into a RegEx for those Routes that need it
func (w *WebService) compilePathExpression() {
	compiled, err := newPathExpression(w.rootPath)
	if err != nil {
		logger.Fatalf("invalid path: %s, %v", w.rootPath, err)
	}
	w.pathExpr = compiled
}
