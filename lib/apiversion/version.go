package apiversion

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Version unambiguously identifies a single API version
//
// A version is either numeric ("1", "1.0", "2.1-beta"), date-based
// ("2023-01-01"), or a combination of both ("2023-01-01.1.0").
// "1" and "1.0" denote the same version.
type Version struct {
	// GroupDate is the date-based part of the version. Zero when absent
	GroupDate time.Time

	// Major and Minor hold the numeric part of the version
	Major int
	Minor int

	// Status is the optional pre-release status, e.g. "beta" in "1.0-beta".
	// An empty status denotes a released version, which ranks higher
	// than any status of the same numeric version
	Status string

	hasNumeric bool
}

const groupDateFormat = "2006-01-02"

var versionRegex = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})?\.?(\d+(\.\d+)?)?(-([A-Za-z][A-Za-z0-9]*))?$`)

// Parse parses s as an API version
func Parse(s string) (Version, error) {
	var v Version
	m := versionRegex.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return v, fmt.Errorf("invalid API version %q", s)
	}
	if m[1] != "" {
		t, err := time.Parse(groupDateFormat, m[1])
		if err != nil {
			return v, fmt.Errorf("invalid date in API version %q: %w", s, err)
		}
		v.GroupDate = t
	}
	if m[2] != "" {
		v.hasNumeric = true
		major, minor := m[2], "0"
		if i := strings.IndexByte(m[2], '.'); i >= 0 {
			major, minor = m[2][:i], m[2][i+1:]
		}
		var err error
		if v.Major, err = strconv.Atoi(major); err != nil {
			return v, fmt.Errorf("invalid major version in %q: %w", s, err)
		}
		if v.Minor, err = strconv.Atoi(minor); err != nil {
			return v, fmt.Errorf("invalid minor version in %q: %w", s, err)
		}
	}
	v.Status = m[5]
	return v, nil
}

// MustParse parses s as an API version and panics on error
//
// It is intended for version literals in route registration code.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Errorf("BUG: %w", err))
	}
	return v
}

// Empty returns true if v holds no version information
func (v Version) Empty() bool {
	return v.GroupDate.IsZero() && !v.hasNumeric && v.Status == ""
}

func (v Version) String() string {
	var b strings.Builder
	if !v.GroupDate.IsZero() {
		b.WriteString(v.GroupDate.Format(groupDateFormat))
		if v.hasNumeric {
			b.WriteByte('.')
		}
	}
	if v.hasNumeric {
		fmt.Fprintf(&b, "%d.%d", v.Major, v.Minor)
	}
	if v.Status != "" {
		b.WriteByte('-')
		b.WriteString(v.Status)
	}
	return b.String()
}

// Compare returns -1, 0 or 1 if v is lower, equal or higher than other
//
// Versions order by group date, then by major.minor, then by status.
// A released version ranks higher than any pre-release status
// of the same numeric version.
func (v Version) Compare(other Version) int {
	if c := v.GroupDate.Compare(other.GroupDate); c != 0 {
		return c
	}
	if v.Major != other.Major {
		return intCompare(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return intCompare(v.Minor, other.Minor)
	}
	return statusCompare(v.Status, other.Status)
}

// Equal returns true if v and other denote the same API version
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

func intCompare(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func statusCompare(a, b string) int {
	if a == b {
		return 0
	}
	// released version (empty status) ranks highest
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Versions holds a set of API versions declared on a route or service
type Versions []Version

// Contains returns true if vs contains v
func (vs Versions) Contains(v Version) bool {
	for _, each := range vs {
		if each.Equal(v) {
			return true
		}
	}
	return false
}

// Highest returns the highest version in vs
//
// Returns an empty Version if vs is empty.
func (vs Versions) Highest() Version {
	var highest Version
	for i, each := range vs {
		if i == 0 || each.Compare(highest) > 0 {
			highest = each
		}
	}
	return highest
}

// Strings returns sorted string forms of vs for response headers and error messages
func (vs Versions) Strings() []string {
	sorted := make(Versions, len(vs))
	copy(sorted, vs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	ss := make([]string, len(sorted))
	for i, each := range sorted {
		ss[i] = each.String()
	}
	return ss
}
