package lflag

import (
	"testing"
)

func TestReplaceString(t *testing.T) {
	t.Setenv("LFLAG_TEST_VAR", "secret")

	cases := []struct {
		name  string
		input string
		exp   string
	}{
		{
			name:  "No placeholders",
			input: "plain value",
			exp:   "plain value",
		},
		{
			name:  "Known variable",
			input: "token=%{LFLAG_TEST_VAR}",
			exp:   "token=secret",
		},
		{
			name:  "Missing variable left as is",
			input: "token=%{LFLAG_TEST_MISSING}",
			exp:   "token=%{LFLAG_TEST_MISSING}",
		},
		{
			name:  "Multiple placeholders",
			input: "%{LFLAG_TEST_VAR}:%{LFLAG_TEST_VAR}",
			exp:   "secret:secret",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ReplaceString(c.input); got != c.exp {
				t.Errorf("ReplaceString(%q) = %q; want %q", c.input, got, c.exp)
			}
		})
	}
}
