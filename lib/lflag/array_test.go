package lflag

import (
	"reflect"
	"testing"
)

func TestArrayStringSet(t *testing.T) {

	cases := []struct {
		name   string
		values []string
		exp    ArrayString
	}{
		{
			name:   "Single value",
			values: []string{":8428"},
			exp:    ArrayString{":8428"},
		},
		{
			name:   "Comma separated",
			values: []string{":8428,:8429"},
			exp:    ArrayString{":8428", ":8429"},
		},
		{
			name:   "Repeated flag",
			values: []string{":8428", ":8429"},
			exp:    ArrayString{":8428", ":8429"},
		},
		{
			name:   "Empty value",
			values: []string{""},
			exp:    ArrayString{""},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var a ArrayString
			for _, v := range c.values {
				if err := a.Set(v); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			if !reflect.DeepEqual(a, c.exp) {
				t.Errorf("array = %v; want %v", a, c.exp)
			}
		})
	}
}

func TestArrayStringGetOptionalArg(t *testing.T) {
	a := ArrayString{"foo", "bar"}
	if got := a.GetOptionalArg(1); got != "bar" {
		t.Errorf("GetOptionalArg(1) = %q; want %q", got, "bar")
	}
	if got := a.GetOptionalArg(5); got != "" {
		t.Errorf("GetOptionalArg(5) = %q; want empty", got)
	}

	// a single value applies to all the indexes
	single := ArrayString{"foo"}
	if got := single.GetOptionalArg(5); got != "foo" {
		t.Errorf("GetOptionalArg(5) = %q; want %q", got, "foo")
	}
}

func TestArrayBoolSet(t *testing.T) {
	var a ArrayBool
	if err := a.Set("true,false,true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exp := ArrayBool{true, false, true}
	if !reflect.DeepEqual(a, exp) {
		t.Errorf("array = %v; want %v", a, exp)
	}
	if err := a.Set("maybe"); err == nil {
		t.Errorf("expected error for non-bool value")
	}

	single := ArrayBool{true}
	if !single.GetOptionalArg(3) {
		t.Errorf("single value must apply to all the indexes")
	}
}
