package lflag

import (
	"strings"
	"sync"
)

var (
	secretFlags     = make(map[string]bool)
	secretFlagsLock sync.Mutex
)

// RegisterSecretFlag registers flagName as secret
//
// The value of the secret flag is not exposed at /flags and /metrics pages.
func RegisterSecretFlag(flagName string) {
	lname := strings.ToLower(flagName)
	secretFlagsLock.Lock()
	secretFlags[lname] = true
	secretFlagsLock.Unlock()
}

// IsSecretFlag returns true of the given flagName contains flag with secret value, which shouldn't be exposed
func IsSecretFlag(flagName string) bool {
	if strings.Contains(flagName, "pass") || strings.Contains(flagName, "key") || strings.Contains(flagName, "secret") || strings.Contains(flagName, "token") {
		return true
	}
	secretFlagsLock.Lock()
	ok := secretFlags[flagName]
	secretFlagsLock.Unlock()
	return ok
}
