package handler

import (
	"flag"
	"fmt"
	"net/http"
	"strings"

	"vapi.io/vapi/app/vapi-server/storage"
	"vapi.io/vapi/lib/httpserver/filters"
	"vapi.io/vapi/lib/logger"
	"vapi.io/vapi/lib/rest"
)

var (
	assumeDefaultVersion = flag.Bool("apiVersion.assumeDefault", true, "Whether requests without an API version are served by the highest declared version. "+
		"If disabled, such requests are rejected with 400")
	sunsetLink = flag.String("apiVersion.sunsetLink", "", "Optional template for the Link header advertised on responses served under a deprecated API version. "+
		"The {version} placeholder is replaced with the requested version. For example: https://docs.example.com/sunset/{version}")
	jwtSecret = flag.String("auth.jwtSecret", "", "Optional HMAC secret for validating Bearer tokens on API requests. Authentication is disabled if empty")
)

// APIServerHandler holds the different http.Handlers used by the API server
type APIServerHandler struct {
	// FullHandlerChain is the one that is eventually served with
	FullHandlerChain http.Handler

	// Container dispatches requests to versioned routes
	Container *rest.Container

	// Director is here so that we can properly handle fall through and proxy cases
	Director http.Handler
}

// NewAPIServerHandler builds the handler chain serving the versioned APIs.
// The users resource is backed by store; a nil store turns the resource into 503 responses
func NewAPIServerHandler(name string, store *storage.UserStore) *APIServerHandler {
	container := rest.NewContainer().Router(rest.QueryPathRouter{
		VersionRouter: rest.VersionRouter{
			AssumeDefaultVersion: *assumeDefaultVersion,
			SunsetLink:           *sunsetLink,
		},
	})

	d := director{
		name:      name,
		container: container,
	}
	a := &APIServerHandler{
		FullHandlerChain: buildHandlerChain(d),
		Container:        container,
		Director:         d,
	}
	a.installAPIs(store)
	return a
}

// RequestHandler adapts the handler chain to the httpserver contract
func (a *APIServerHandler) RequestHandler(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Path == "/" {
		_, _ = fmt.Fprintf(w, "ok")
		return true
	}
	if !strings.HasPrefix(r.URL.Path, "/apis") {
		return false
	}
	a.FullHandlerChain.ServeHTTP(w, r)
	return true
}

func (a *APIServerHandler) installAPIs(store *storage.UserStore) {
	logger.Infof("installing vapi-server APIs...")

	users := &usersAPI{store: store}

	ws := new(rest.WebService)
	ws.Path("/apis").Produces(rest.MIME_JSON)

	// Version 1.0 is still served but deprecated in favor of 2.0
	ws.Route(ws.GET("/users").To(users.listV1).DeprecatedVersion("1.0"))
	ws.Route(ws.GET("/users/{userId:[0-9]+}").To(users.getV1).DeprecatedVersion("1.0"))
	ws.Route(ws.POST("/users").To(users.create).DeprecatedVersion("1.0"))

	ws.Route(ws.GET("/users").To(users.listV2).Version("2.0"))
	ws.Route(ws.GET("/users/{userId:[0-9]+}").To(users.getV2).Version("2.0").KeyedPath())
	ws.Route(ws.POST("/users").To(users.create).Version("2.0"))
	ws.Route(ws.PUT("/users/{userId:[0-9]+}").To(users.update).Version("2.0"))
	ws.Route(ws.DELETE("/users/{userId:[0-9]+}").To(users.remove).Version("2.0"))

	a.Container.Add(ws)
}

// ServeHTTP makes it an http.Handler
func (a *APIServerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.FullHandlerChain.ServeHTTP(w, r)
}

type director struct {
	name      string
	container *rest.Container
}

func (d director) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	for _, ws := range d.container.RegisteredWebServices() {
		if !strings.HasPrefix(path, ws.RootPath()) {
			continue
		}
		// ensure an exact match or a path boundary match
		if len(path) == len(ws.RootPath()) || path[len(ws.RootPath())] == '/' || path[len(ws.RootPath())] == '(' {
			logger.Infof("%v: %v %q satisfied by web service %v", d.name, r.Method, path, ws.RootPath())
			d.container.Dispatch(w, r)
			return
		}
	}
	http.NotFound(w, r)
}

func buildHandlerChain(apiHandler http.Handler) http.Handler {
	handler := apiHandler

	handler = filters.WithJWTAuth(handler, []byte(*jwtSecret))
	handler = filters.WithRequestInfo(handler)
	return handler
}
