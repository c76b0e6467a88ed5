package rest

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/valyala/fasttemplate"
	"vapi.io/vapi/lib/apiversion"
)

// VersionRouter matches routes the way CurlyRouter does and additionally
// eliminates candidates by the API version requested by the client.
//
// Routes declare the versions they serve via RouteBuilder.Version.
// Routes without declared versions are version-neutral and serve any request.
// The requested version is read from the api-version query parameter,
// the X-API-Version header or the "v" parameter of the Accept media type,
// in that order.
type VersionRouter struct {
	CurlyRouter

	// AssumeDefaultVersion selects the highest declared version
	// when the request does not carry one. When false such requests
	// are rejected with 400
	AssumeDefaultVersion bool

	// SunsetLink is an optional template for the Link header advertised on
	// responses served under a deprecated version, e.g.
	// "https://docs.example.com/sunset/{version}"
	SunsetLink string
}

func (v VersionRouter) SelectRoute(
	webServices []*WebService,
	httpRequest *http.Request) (selectedService *WebService, selected *Route, err error) {

	requestTokens := tokenizePath(httpRequest.URL.Path)

	detectedService := v.detectWebService(requestTokens, webServices)
	if detectedService == nil {
		return nil, nil, NewError(http.StatusNotFound, "404: page not found")
	}
	candidateRoutes := v.selectRoutes(detectedService, requestTokens)
	if len(candidateRoutes) == 0 {
		return detectedService, nil, NewError(http.StatusNotFound, "404: page not found")
	}
	selectedRoute, err := v.detectVersionedRoute(candidateRoutes.routes(), httpRequest)
	if selectedRoute == nil {
		return detectedService, nil, err
	}
	return detectedService, selectedRoute, err
}

// detectVersionedRoute runs the elimination chain with a version stage
// between the method and content negotiation stages
func (v VersionRouter) detectVersionedRoute(candidates []*Route, httpRequest *http.Request) (*Route, error) {
	candidates, err := filterByMethod(candidates, httpRequest)
	if err != nil {
		return nil, err
	}
	candidates, err = v.filterByVersion(candidates, httpRequest)
	if err != nil {
		return nil, err
	}
	candidates, err = filterByContentType(candidates, httpRequest)
	if err != nil {
		return nil, err
	}
	candidates, err = filterByAccept(candidates, httpRequest)
	if err != nil {
		return nil, err
	}
	return selectBestCandidate(candidates)
}

// filterByVersion keeps the candidates serving the requested API version.
// Candidates declaring the requested version win over version-neutral ones
func (v VersionRouter) filterByVersion(candidates []*Route, httpRequest *http.Request) ([]*Route, error) {
	requested, err := RequestedVersion(httpRequest)
	if err != nil {
		return nil, err
	}
	declared := declaredVersions(candidates)
	if requested.Empty() {
		if len(declared) == 0 {
			// nothing to eliminate, all candidates are version-neutral
			return candidates, nil
		}
		if !v.AssumeDefaultVersion {
			return nil, NewError(http.StatusBadRequest,
				fmt.Sprintf("400: an API version is required; supported versions: %s", strings.Join(declared.Strings(), ", ")))
		}
		requested = declared.Highest()
	}

	var exact, neutral []*Route
	for _, each := range candidates {
		switch {
		case each.matchesVersion(requested):
			exact = append(exact, each)
		case len(each.Versions) == 0 && len(each.Deprecated) == 0:
			neutral = append(neutral, each)
		}
	}
	if len(exact) > 0 {
		return exact, nil
	}
	if len(neutral) > 0 {
		return neutral, nil
	}
	return nil, NewError(http.StatusBadRequest,
		fmt.Sprintf("400: unsupported API version %q; supported versions: %s", requested, strings.Join(declared.Strings(), ", ")))
}

// selectBestCandidate scans the remaining candidates keeping the best match
// so far and reports an ambiguity when a distinct route ranks equally.
// The candidates arrive sorted by precedence, so the first one is the best match
func selectBestCandidate(candidates []*Route) (*Route, error) {
	best := candidates[0]
	for _, each := range candidates[1:] {
		if each.staticCount == best.staticCount && each.paramCount == best.paramCount {
			return nil, NewError(http.StatusInternalServerError,
				fmt.Sprintf("500: request matches multiple routes: %s, %s", best, each))
		}
	}
	return best, nil
}

// declaredVersions returns the distinct versions declared across the candidates
func declaredVersions(candidates []*Route) apiversion.Versions {
	var all apiversion.Versions
	add := func(vs apiversion.Versions) {
		for _, each := range vs {
			if !all.Contains(each) {
				all = append(all, each)
			}
		}
	}
	for _, each := range candidates {
		add(each.Versions)
		add(each.Deprecated)
	}
	return all
}

// RequestedVersion returns the API version the request asks for
//
// Returns an empty Version if the request does not carry one and
// a 400 ServiceError if the version text is malformed.
func RequestedVersion(httpRequest *http.Request) (apiversion.Version, error) {
	s := httpRequest.URL.Query().Get(QUERY_APIVersion)
	if s == "" {
		s = httpRequest.Header.Get(HEADER_APIVersion)
	}
	if s == "" {
		s = acceptVersionParam(httpRequest.Header.Get(HEADER_Accept))
	}
	if s == "" {
		return apiversion.Version{}, nil
	}
	v, err := apiversion.Parse(s)
	if err != nil {
		return apiversion.Version{}, NewError(http.StatusBadRequest, fmt.Sprintf("400: invalid API version %q", s))
	}
	return v, nil
}

// acceptVersionParam extracts the "v" media type parameter from an Accept header,
// e.g. "application/json;v=2.0"
func acceptVersionParam(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		_, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if v := params["v"]; v != "" {
			return v
		}
	}
	return ""
}

// ReportVersions implements VersionReporter.
// It advertises the supported and deprecated versions of the matched service and
// a sunset link when the request was served under a deprecated version
func (v VersionRouter) ReportVersions(w http.ResponseWriter, webService *WebService, route *Route, httpRequest *http.Request) {
	if supported := webService.Versions(); len(supported) > 0 {
		w.Header().Set(HEADER_APISupportedVersions, strings.Join(supported.Strings(), ", "))
	}
	deprecated := webService.DeprecatedVersions()
	if len(deprecated) > 0 {
		w.Header().Set(HEADER_APIDeprecatedVersions, strings.Join(deprecated.Strings(), ", "))
	}
	if v.SunsetLink == "" {
		return
	}
	requested, err := RequestedVersion(httpRequest)
	if err != nil || requested.Empty() {
		return
	}
	if route.Deprecated.Contains(requested) {
		link := fasttemplate.ExecuteString(v.SunsetLink, "{", "}", map[string]any{
			"version": requested.String(),
		})
		w.Header().Set("Link", fmt.Sprintf("<%s>; rel=%q", link, "sunset"))
	}
}
