package rest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func keyedTestService() *WebService {
	ws := new(WebService)
	ws.
		Path("/apis").
		Produces(MIME_JSON)

	ws.Route(ws.GET("/users").To(mockRouteFunction).Version("2.0"))
	ws.Route(ws.GET("/users/{userId:[0-9]+}").To(mockRouteFunction).DeprecatedVersion("1.0"))
	ws.Route(ws.GET("/users/{userId:[0-9]+}").To(mockRouteFunction).Version("2.0").KeyedPath())
	ws.Route(ws.DELETE("/users/{userId:[0-9]+}").To(mockRouteFunction).Version("2.0").KeyedPath())
	return ws
}

func TestSplitKeyedTokens(t *testing.T) {

	cases := []struct {
		name     string
		tokens   []string
		exp      []string
		expKeyed bool
	}{
		{
			name:     "Plain tokens untouched",
			tokens:   []string{"apis", "users", "42"},
			exp:      []string{"apis", "users", "42"},
			expKeyed: false,
		},
		{
			name:     "Keyed token split in two",
			tokens:   []string{"apis", "users(42)"},
			exp:      []string{"apis", "users", "42"},
			expKeyed: true,
		},
		{
			name:     "Quoted key unquoted",
			tokens:   []string{"apis", "users('jane')"},
			exp:      []string{"apis", "users", "jane"},
			expKeyed: true,
		},
		{
			name:     "Empty key",
			tokens:   []string{"users()"},
			exp:      []string{"users", ""},
			expKeyed: true,
		},
		{
			name:     "Keyed token in the middle",
			tokens:   []string{"apis", "users(42)", "orders"},
			exp:      []string{"apis", "users", "42", "orders"},
			expKeyed: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, keyed := splitKeyedTokens(c.tokens)
			if keyed != c.expKeyed {
				t.Errorf("keyed = %v; want %v", keyed, c.expKeyed)
			}
			if !reflect.DeepEqual(got, c.exp) {
				t.Errorf("tokens = %v; want %v", got, c.exp)
			}
		})
	}
}

func TestQueryPathSelectRoute(t *testing.T) {
	services := []*WebService{keyedTestService()}

	cases := []struct {
		name       string
		method     string
		target     string
		expKeyed   bool
		expVersion string
		expCode    int // 0 means selection must succeed
	}{
		{
			name:       "Keyed form selects the keyed route",
			method:     http.MethodGet,
			target:     "/apis/users(42)?api-version=2.0",
			expKeyed:   true,
			expVersion: "2.0",
		},
		{
			name:       "Keyed form without a version assumes the highest",
			method:     http.MethodGet,
			target:     "/apis/users(42)",
			expKeyed:   true,
			expVersion: "2.0",
		},
		{
			name:       "Keyed form with query options",
			method:     http.MethodGet,
			target:     "/apis/users(42)?$select=name&api-version=2.0",
			expKeyed:   true,
			expVersion: "2.0",
		},
		{
			name:    "Keyed form does not address unkeyed versions",
			method:  http.MethodGet,
			target:  "/apis/users(42)?api-version=1.0",
			expCode: http.StatusBadRequest,
		},
		{
			name:       "Plain path is routed by version",
			method:     http.MethodGet,
			target:     "/apis/users/42?api-version=1.0",
			expVersion: "1.0",
		},
		{
			name:    "Keyed form on unknown resource",
			method:  http.MethodGet,
			target:  "/apis/widgets(1)?api-version=2.0",
			expCode: http.StatusNotFound,
		},
		{
			name:    "Keyed form with wrong method",
			method:  http.MethodPost,
			target:  "/apis/users(42)?api-version=2.0",
			expCode: http.StatusMethodNotAllowed,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			router := QueryPathRouter{
				VersionRouter: VersionRouter{AssumeDefaultVersion: true},
			}
			req := httptest.NewRequest(c.method, c.target, nil)

			_, route, err := router.SelectRoute(services, req)
			if c.expCode != 0 {
				var se ServiceError
				if !errors.As(err, &se) {
					t.Fatalf("expected ServiceError, got %v", err)
				}
				if se.Code != c.expCode {
					t.Errorf("error code = %d; want %d", se.Code, c.expCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if route.keyedPath != c.expKeyed {
				t.Errorf("keyedPath = %v; want %v", route.keyedPath, c.expKeyed)
			}
			if c.expVersion != "" {
				if got := route.Versions.Strings(); len(got) > 0 && got[len(got)-1] == c.expVersion {
					return
				}
				if got := route.Deprecated.Strings(); len(got) > 0 && got[len(got)-1] == c.expVersion {
					return
				}
				t.Errorf("selected route does not serve version %s: %v %v", c.expVersion, route.Versions, route.Deprecated)
			}
		})
	}
}

func TestDetectKeyedRouteAmbiguity(t *testing.T) {
	router := QueryPathRouter{
		VersionRouter: VersionRouter{AssumeDefaultVersion: true},
	}

	// a version declared as both supported and deprecated is one registration, not two
	ws := new(WebService)
	ws.Path("/apis").Produces(MIME_JSON)
	ws.Route(ws.GET("/users/{userId:[0-9]+}").To(mockRouteFunction).Version("2.0").DeprecatedVersion("2.0").KeyedPath())

	req := httptest.NewRequest(http.MethodGet, "/apis/users(42)?api-version=2.0", nil)
	_, route, err := router.SelectRoute([]*WebService{ws}, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !route.keyedPath {
		t.Errorf("expected the keyed route to be selected")
	}

	// two distinct keyed routes under the same version remain ambiguous
	dup := new(WebService)
	dup.Path("/apis").Produces(MIME_JSON)
	dup.Route(dup.GET("/users/{userId:[0-9]+}").To(mockRouteFunction).Version("2.0").KeyedPath())
	dup.Route(dup.GET("/users/{userId:[0-9]+}").To(mockRouteFunction).Version("2.0").KeyedPath())

	req = httptest.NewRequest(http.MethodGet, "/apis/users(42)?api-version=2.0", nil)
	_, _, err = router.SelectRoute([]*WebService{dup}, req)
	var se ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if se.Code != http.StatusInternalServerError {
		t.Errorf("error code = %d; want %d", se.Code, http.StatusInternalServerError)
	}
}

func TestQueryPathExtractParameters(t *testing.T) {
	ws := keyedTestService()
	router := QueryPathRouter{
		VersionRouter: VersionRouter{AssumeDefaultVersion: true},
	}
	req := httptest.NewRequest(http.MethodGet, "/apis/users(42)?api-version=2.0", nil)
	selectedService, route, err := router.SelectRoute([]*WebService{ws}, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	params := router.ExtractParameters(route, selectedService, "/apis/users(42)")
	if params["userId"] != "42" {
		t.Errorf("userId = %q; want %q", params["userId"], "42")
	}

	// the plain form extracts the same parameter
	params = router.ExtractParameters(route, selectedService, "/apis/users/42")
	if params["userId"] != "42" {
		t.Errorf("userId = %q; want %q", params["userId"], "42")
	}
}

func TestQueryOptions(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/apis/users(42)?$select=name,email&$top=2&api-version=2.0&foo=bar", nil)
	exp := map[string]string{
		"$select": "name,email",
		"$top":    "2",
	}
	if got := QueryOptions(req); !reflect.DeepEqual(got, exp) {
		t.Errorf("QueryOptions = %v; want %v", got, exp)
	}
}
