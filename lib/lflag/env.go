package lflag

import (
	"os"
	"regexp"
)

var envVarRegex = regexp.MustCompile(`%{[^}]+}`)

// ReplaceString replaces all the %{ENV_VAR} placeholders in s with the values
// of the corresponding environment variables
//
// Placeholders for missing environment variables are left as is.
func ReplaceString(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		envVarName := match[2 : len(match)-1]
		if v, ok := os.LookupEnv(envVarName); ok {
			return v
		}
		return match
	})
}
