package rest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vapi.io/vapi/lib/apiversion"
)

func versionedTestService() *WebService {
	ws := new(WebService)
	ws.
		Path("/apis").
		Produces(MIME_JSON)

	ws.Route(ws.GET("/things").To(mockRouteFunction).DeprecatedVersion("1.0"))
	ws.Route(ws.GET("/things").To(mockRouteFunction).Version("2.0"))
	ws.Route(ws.GET("/ping").To(mockRouteFunction))
	return ws
}

func TestSelectRouteByVersion(t *testing.T) {
	services := []*WebService{versionedTestService()}

	cases := []struct {
		name          string
		method        string
		target        string
		header        map[string]string
		assumeDefault bool
		expVersion    string // "" means the selected route must be version-neutral
		expCode       int    // 0 means selection must succeed
	}{
		{
			name:          "Query parameter selects deprecated 1.0",
			method:        http.MethodGet,
			target:        "/apis/things?api-version=1.0",
			assumeDefault: true,
			expVersion:    "1.0",
		},
		{
			name:          "Header selects 2.0",
			method:        http.MethodGet,
			target:        "/apis/things",
			header:        map[string]string{HEADER_APIVersion: "2.0"},
			assumeDefault: true,
			expVersion:    "2.0",
		},
		{
			name:          "Accept media type parameter selects 1.0",
			method:        http.MethodGet,
			target:        "/apis/things",
			header:        map[string]string{HEADER_Accept: "application/json;v=1.0"},
			assumeDefault: true,
			expVersion:    "1.0",
		},
		{
			name:          "Unversioned request assumes highest declared version",
			method:        http.MethodGet,
			target:        "/apis/things",
			assumeDefault: true,
			expVersion:    "2.0",
		},
		{
			name:          "Unversioned request rejected without default",
			method:        http.MethodGet,
			target:        "/apis/things",
			assumeDefault: false,
			expCode:       http.StatusBadRequest,
		},
		{
			name:          "Unsupported version",
			method:        http.MethodGet,
			target:        "/apis/things?api-version=3.5",
			assumeDefault: true,
			expCode:       http.StatusBadRequest,
		},
		{
			name:          "Malformed version",
			method:        http.MethodGet,
			target:        "/apis/things?api-version=banana",
			assumeDefault: true,
			expCode:       http.StatusBadRequest,
		},
		{
			name:          "Version-neutral route serves any version",
			method:        http.MethodGet,
			target:        "/apis/ping?api-version=3.5",
			assumeDefault: true,
			expVersion:    "",
		},
		{
			name:          "Method mismatch still reported as 405",
			method:        http.MethodPost,
			target:        "/apis/things?api-version=2.0",
			assumeDefault: true,
			expCode:       http.StatusMethodNotAllowed,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			router := VersionRouter{AssumeDefaultVersion: c.assumeDefault}
			req := httptest.NewRequest(c.method, c.target, nil)
			for k, v := range c.header {
				req.Header.Set(k, v)
			}

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
			if c.expVersion == "" {
				if len(route.Versions) != 0 || len(route.Deprecated) != 0 {
					t.Errorf("expected a version-neutral route, got %v %v", route.Versions, route.Deprecated)
				}
				return
			}
			v := apiversion.MustParse(c.expVersion)
			if !route.Versions.Contains(v) && !route.Deprecated.Contains(v) {
				t.Errorf("selected route does not serve version %s: %v %v", c.expVersion, route.Versions, route.Deprecated)
			}
		})
	}
}

func TestSelectRouteAmbiguousVersion(t *testing.T) {
	ws := new(WebService)
	ws.Path("/apis").Produces(MIME_JSON)
	ws.Route(ws.GET("/dups").To(mockRouteFunction).Version("2.0"))
	ws.Route(ws.GET("/dups").To(mockRouteFunction).Version("2.0"))

	router := VersionRouter{AssumeDefaultVersion: true}
	req := httptest.NewRequest(http.MethodGet, "/apis/dups?api-version=2.0", nil)

	_, _, err := router.SelectRoute([]*WebService{ws}, req)
	var se ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if se.Code != http.StatusInternalServerError {
		t.Errorf("error code = %d; want %d", se.Code, http.StatusInternalServerError)
	}
}

func TestRequestedVersion(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/apis/things", nil)
	v, err := RequestedVersion(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Empty() {
		t.Errorf("expected empty version for request without one, got %s", v)
	}

	req = httptest.NewRequest(http.MethodGet, "/apis/things?api-version=2.1", nil)
	req.Header.Set(HEADER_APIVersion, "1.0")
	v, err = RequestedVersion(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the query parameter takes priority over the header
	if v.String() != "2.1" {
		t.Errorf("RequestedVersion = %s; want 2.1", v)
	}
}

func TestReportVersions(t *testing.T) {
	ws := versionedTestService()
	router := VersionRouter{
		AssumeDefaultVersion: true,
		SunsetLink:           "https://docs.example.com/sunset/{version}",
	}
	req := httptest.NewRequest(http.MethodGet, "/apis/things?api-version=1.0", nil)
	_, route, err := router.SelectRoute([]*WebService{ws}, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := httptest.NewRecorder()
	router.ReportVersions(w, ws, route, req)

	if got := w.Header().Get(HEADER_APISupportedVersions); got != "2.0" {
		t.Errorf("%s = %q; want %q", HEADER_APISupportedVersions, got, "2.0")
	}
	if got := w.Header().Get(HEADER_APIDeprecatedVersions); got != "1.0" {
		t.Errorf("%s = %q; want %q", HEADER_APIDeprecatedVersions, got, "1.0")
	}
	exp := `<https://docs.example.com/sunset/1.0>; rel="sunset"`
	if got := w.Header().Get("Link"); got != exp {
		t.Errorf("Link = %q; want %q", got, exp)
	}
}
