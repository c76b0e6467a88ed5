package buildinfo

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

var version = flag.Bool("version", false, "Show version of the app and terminate")

// Version must be set via -ldflags '-X vapi.io/vapi/lib/buildinfo.Version=vapi-server-...'
var Version string

// Init must be called after flag.Parse()
func Init() {
	if Version == "" {
		Version = "vapi-server-unknown"
	}
	if *version {
		fmt.Printf("%s\n", Version)
		os.Exit(0)
	}
}

// ShortVersion returns the trimmed version of the app without the app name prefix.
func ShortVersion() string {
	v := strings.TrimPrefix(Version, "vapi-server-")
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}
	return v
}
