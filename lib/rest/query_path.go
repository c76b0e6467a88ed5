package rest

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"vapi.io/vapi/lib/apiversion"
)

// QueryPathRouter extends VersionRouter with the keyed-entity path convention.
//
// Routes registered with RouteBuilder.KeyedPath are additionally addressable
// with the entity key in parentheses and resource query options, e.g.
//
//	GET /apis/users(42)?$select=name&api-version=2.0
//
// matches a keyed route with path /apis/users/{id}. Requests that do not use
// the keyed form are routed by the embedded VersionRouter unchanged.
type QueryPathRouter struct {
	VersionRouter
}

// queryOptionNames are the resource query options recognized on keyed-entity routes
var queryOptionNames = []string{"$select", "$filter", "$top", "$skip", "$orderby"}

var keyedTokenRegex = regexp.MustCompile(`^([^(){}/]+)\(([^()]*)\)$`)

func (q QueryPathRouter) SelectRoute(
	webServices []*WebService,
	httpRequest *http.Request) (selectedService *WebService, selected *Route, err error) {

	requestTokens := tokenizePath(httpRequest.URL.Path)
	rewrittenTokens, keyed := splitKeyedTokens(requestTokens)
	if !keyed {
		return q.VersionRouter.SelectRoute(webServices, httpRequest)
	}

	detectedService := q.detectWebService(rewrittenTokens, webServices)
	if detectedService == nil {
		return nil, nil, NewError(http.StatusNotFound, "404: page not found")
	}
	candidateRoutes := q.selectRoutes(detectedService, rewrittenTokens)

	// the keyed form only addresses routes registered under the convention
	keyedCandidates := make([]*Route, 0, len(candidateRoutes))
	for _, each := range candidateRoutes {
		if each.keyedPath {
			keyedCandidates = append(keyedCandidates, each)
		}
	}
	if len(keyedCandidates) == 0 {
		return detectedService, nil, NewError(http.StatusNotFound, "404: page not found")
	}
	selectedRoute, err := q.detectKeyedRoute(keyedCandidates, httpRequest)
	if selectedRoute == nil {
		return detectedService, nil, err
	}
	return detectedService, selectedRoute, err
}

// detectKeyedRoute picks the best keyed candidate for the requested API version.
// The candidates are grouped by declared version; the grouping only lives for this call
func (q QueryPathRouter) detectKeyedRoute(candidates []*Route, httpRequest *http.Request) (*Route, error) {
	candidates, err := filterByMethod(candidates, httpRequest)
	if err != nil {
		return nil, err
	}
	requested, err := RequestedVersion(httpRequest)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]*Route)
	var groupVersions apiversion.Versions
	var neutral []*Route
	for _, each := range candidates {
		// declaredVersions returns the distinct versions of the route, so a version
		// listed as both supported and deprecated lands the route in its group once
		declared := declaredVersions([]*Route{each})
		if len(declared) == 0 {
			neutral = append(neutral, each)
			continue
		}
		for _, ver := range declared {
			groups[ver.String()] = append(groups[ver.String()], each)
			if !groupVersions.Contains(ver) {
				groupVersions = append(groupVersions, ver)
			}
		}
	}

	if requested.Empty() {
		if len(groups) == 0 {
			return q.negotiate(neutral, httpRequest)
		}
		if !q.AssumeDefaultVersion {
			return nil, NewError(http.StatusBadRequest,
				fmt.Sprintf("400: an API version is required; supported versions: %s", strings.Join(groupVersions.Strings(), ", ")))
		}
		requested = groupVersions.Highest()
	}
	group := groups[requested.String()]
	if group == nil {
		group = neutral
	}
	if len(group) == 0 {
		return nil, NewError(http.StatusBadRequest,
			fmt.Sprintf("400: unsupported API version %q; supported versions: %s", requested, strings.Join(groupVersions.Strings(), ", ")))
	}
	return q.negotiate(group, httpRequest)
}

// negotiate runs the remaining content negotiation stages and picks the best candidate
func (q QueryPathRouter) negotiate(candidates []*Route, httpRequest *http.Request) (*Route, error) {
	candidates, err := filterByContentType(candidates, httpRequest)
	if err != nil {
		return nil, err
	}
	candidates, err = filterByAccept(candidates, httpRequest)
	if err != nil {
		return nil, err
	}
	return selectBestCandidate(candidates)
}

// ExtractParameters implements PathProcessor.
// For routes matched through the keyed-entity form the entity key is extracted
// as an ordinary path parameter; other routes use the default extraction
func (q QueryPathRouter) ExtractParameters(route *Route, webService *WebService, urlPath string) map[string]string {
	if route.keyedPath {
		tokens := tokenizePath(urlPath)
		if rewritten, keyed := splitKeyedTokens(tokens); keyed {
			urlPath = "/" + strings.Join(rewritten, "/")
		}
	}
	return defaultPathProcessor{}.ExtractParameters(route, webService, urlPath)
}

// splitKeyedTokens rewrites path tokens of the form "users(42)" into the pair
// "users", "42". Returns the rewritten tokens and whether any token used the keyed form.
// Single quotes around the key are stripped: "users('jane')" addresses key jane
func splitKeyedTokens(tokens []string) ([]string, bool) {
	keyed := false
	rewritten := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		m := keyedTokenRegex.FindStringSubmatch(token)
		if m == nil {
			rewritten = append(rewritten, token)
			continue
		}
		keyed = true
		key := m[2]
		if len(key) >= 2 && key[0] == '\'' && key[len(key)-1] == '\'' {
			key = key[1 : len(key)-1]
		}
		rewritten = append(rewritten, m[1], key)
	}
	return rewritten, keyed
}

// QueryOptions returns the resource query options of the request,
// e.g. $select and $filter on /users(42)?$select=name
func QueryOptions(httpRequest *http.Request) map[string]string {
	opts := make(map[string]string)
	query := httpRequest.URL.Query()
	for _, name := range queryOptionNames {
		if v := query.Get(name); v != "" {
			opts[name] = v
		}
	}
	return opts
}
