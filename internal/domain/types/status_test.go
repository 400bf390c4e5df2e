package types

import "testing"

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"REQUESTED", "ASSIGNED", "EN_ROUTE", "COMPLETED", "CANCELLED"} {
		s, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("ParseStatus(%q): unexpected error: %v", raw, err)
		}
		if s.String() != raw {
			t.Fatalf("ParseStatus(%q) = %q", raw, s)
		}
	}

	if _, err := ParseStatus("DRIVING"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusRequested, StatusAssigned, true},
		{StatusRequested, StatusCancelled, true},
		{StatusRequested, StatusEnRoute, false},
		{StatusRequested, StatusCompleted, false},
		{StatusAssigned, StatusEnRoute, true},
		{StatusAssigned, StatusCancelled, true},
		{StatusAssigned, StatusCompleted, false},
		{StatusAssigned, StatusRequested, false},
		{StatusEnRoute, StatusCompleted, true},
		{StatusEnRoute, StatusCancelled, true},
		{StatusEnRoute, StatusAssigned, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusRequested, false},
		{StatusCancelled, StatusAssigned, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %t, want %t", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalAndActive(t *testing.T) {
	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Fatal("COMPLETED and CANCELLED must be terminal")
	}
	if StatusRequested.Terminal() || StatusAssigned.Terminal() || StatusEnRoute.Terminal() {
		t.Fatal("non-terminal status reported as terminal")
	}

	if StatusRequested.Active() {
		t.Fatal("REQUESTED must not be active")
	}
	if !StatusAssigned.Active() || !StatusEnRoute.Active() {
		t.Fatal("ASSIGNED and EN_ROUTE must be active")
	}
	if StatusCompleted.Active() || StatusCancelled.Active() {
		t.Fatal("terminal status reported as active")
	}
}
