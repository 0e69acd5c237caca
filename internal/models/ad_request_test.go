package models

import "testing"

func TestIsValidAdRequestTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{AdRequestStatusPending, AdRequestStatusAccepted, true},
		{AdRequestStatusPending, AdRequestStatusRejected, true},

		// Terminal states
		{AdRequestStatusAccepted, AdRequestStatusRejected, false},
		{AdRequestStatusRejected, AdRequestStatusAccepted, false},
		{AdRequestStatusAccepted, AdRequestStatusAccepted, false},
		{AdRequestStatusRejected, AdRequestStatusPending, false},

		// Unknown
		{"nonexistent", AdRequestStatusAccepted, false},
		{AdRequestStatusPending, "nonexistent", false},
		{AdRequestStatusPending, AdRequestStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidAdRequestTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidAdRequestTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllAdRequestStatusesHaveTransitionEntry(t *testing.T) {
	for _, status := range AllAdRequestStatuses {
		if _, ok := ValidAdRequestTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidAdRequestTransitions map", status)
		}
	}
}

func TestTerminalAdRequestStatuses(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{AdRequestStatusPending, false},
		{AdRequestStatusAccepted, true},
		{AdRequestStatusRejected, true},
		{"unknown", false},
	}

	for _, tt := range tests {
		if got := IsTerminalAdRequestStatus(tt.status); got != tt.terminal {
			t.Errorf("IsTerminalAdRequestStatus(%q) = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestIsValidAdRequestStatus(t *testing.T) {
	if !IsValidAdRequestStatus(AdRequestStatusPending) {
		t.Error("pending should be valid")
	}
	if IsValidAdRequestStatus("cancelled") {
		t.Error("cancelled should not be valid")
	}
}
