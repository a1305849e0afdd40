package coroutine

import (
	"testing"
)

func TestStatus_String(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		status Status
		want   string
	}{
		{Ready, `Ready`},
		{Running, `Running`},
		{Suspended, `Suspended`},
		{Dead, `Dead`},
		{Status(99), `Unknown`},
	} {
		if got := tc.status.String(); got != tc.want {
			t.Errorf(`Status(%d).String() = %q, want %q`, tc.status, got, tc.want)
		}
	}
}

func TestStatus_stableValues(t *testing.T) {
	t.Parallel()

	// The numeric values are part of the API contract, and must not change.
	for _, tc := range []struct {
		status Status
		want   Status
	}{
		{Ready, 0},
		{Running, 1},
		{Suspended, 2},
		{Dead, 3},
	} {
		if tc.status != tc.want {
			t.Errorf(`%v = %d, want %d`, tc.status, tc.status, tc.want)
		}
	}
}
