package rest

const (
	MIME_JSON = "application/json"
	MIME_XML  = "application/xml"
	MIME_TEXT = "text/plain"

	HEADER_Allow       = "Allow"
	HEADER_Accept      = "Accept"
	HEADER_ContentType = "Content-Type"

	// HEADER_APIVersion carries the requested API version when
	// the api-version query parameter is absent
	HEADER_APIVersion = "X-API-Version"

	// HEADER_APISupportedVersions and HEADER_APIDeprecatedVersions advertise
	// the versions served resp. deprecated for the matched service
	HEADER_APISupportedVersions  = "api-supported-versions"
	HEADER_APIDeprecatedVersions = "api-deprecated-versions"

	// QUERY_APIVersion is the query parameter holding the requested API version
	QUERY_APIVersion = "api-version"
)
