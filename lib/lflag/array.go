package lflag

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// NewArrayString returns new ArrayString with the given name and description.
func NewArrayString(name, description string) *ArrayString {
	description += "\nSupports an array of values separated by comma or specified via multiple flags"
	var a ArrayString
	flag.Var(&a, name, description)
	return &a
}

// NewArrayBool returns new ArrayBool with the given name and description.
func NewArrayBool(name, description string) *ArrayBool {
	description += "\nSupports array of values separated by comma or specified via multiple flags"
	var a ArrayBool
	flag.Var(&a, name, description)
	return &a
}

// ArrayString is a flag that holds an array of strings
//
// It may be set either by specifying multiple flags with the given name
// passed to NewArrayString or by joining flag values by comma.
type ArrayString []string

// String implements flag.Value interface
func (a *ArrayString) String() string {
	return strings.Join(*a, ",")
}

// Set implements flag.Value interface
func (a *ArrayString) Set(value string) error {
	if value == "" {
		*a = append(*a, "")
		return nil
	}
	*a = append(*a, strings.Split(value, ",")...)
	return nil
}

// GetOptionalArg returns optional arg under the given argIdx.
//
// If the array contains a single value, then this value is returned
// for any argIdx. This allows setting a single command-line flag value,
// which is applied to all the -httpListenAddr entries.
func (a *ArrayString) GetOptionalArg(argIdx int) string {
	x := *a
	if argIdx >= len(x) {
		if len(x) == 1 {
			return x[0]
		}
		return ""
	}
	return x[argIdx]
}

// ArrayBool is a flag that holds an array of booleans
type ArrayBool []bool

// IsBoolFlag implements flag.Value interface
func (a *ArrayBool) IsBoolFlag() bool { return true }

// String implements flag.Value interface
func (a *ArrayBool) String() string {
	formattedResults := make([]string, len(*a))
	for i, v := range *a {
		formattedResults[i] = strconv.FormatBool(v)
	}
	return strings.Join(formattedResults, ",")
}

// Set implements flag.Value interface
func (a *ArrayBool) Set(value string) error {
	values := strings.Split(value, ",")
	for _, v := range values {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("cannot parse %q as bool: %w", v, err)
		}
		*a = append(*a, b)
	}
	return nil
}

// GetOptionalArg returns optional arg under the given argIdx.
func (a *ArrayBool) GetOptionalArg(argIdx int) bool {
	x := *a
	if argIdx >= len(x) {
		if len(x) == 1 {
			return x[0]
		}
		return false
	}
	return x[argIdx]
}
