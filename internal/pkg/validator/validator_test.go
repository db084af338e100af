package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"fail_fast", "best_effort"}
	if !IsInSlice("fail_fast", slice) {
		t.Errorf("IsInSlice('fail_fast') = false, want true")
	}
	if IsInSlice("retry", slice) {
		t.Errorf("IsInSlice('retry') = true, want false")
	}
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		input   string
		want    int
		wantErr string
	}{
		{"2", 2, ""},
		{" 12 ", 12, ""},
		{"", 0, "is required"},
		{"feb", 0, "must be an integer"},
	}
	for _, c := range cases {
		got, err := ParseInt("month", c.input)
		if c.wantErr == "" {
			if err != nil {
				t.Errorf("ParseInt(%q) unexpected error %v", c.input, err.Message)
			}
			if got != c.want {
				t.Errorf("ParseInt(%q) = %d, want %d", c.input, got, c.want)
			}
			continue
		}
		if err == nil || err.Message != c.wantErr || err.Field != "month" {
			t.Errorf("ParseInt(%q) error = %v, want %q", c.input, err, c.wantErr)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "is required"},
		{Field: "year", Message: "is required"},
	}
	got := errs.Error()
	want := "month: is required; year: is required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "must be between 1 and 12"},
		{Field: "policy", Message: "must be 'fail_fast' or 'best_effort'"},
	}
	got := errs.ToMap()
	want := map[string]string{"month": "must be between 1 and 12", "policy": "must be 'fail_fast' or 'best_effort'"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
