package models

import "testing"

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		if !IsValidOrderStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}

	for _, status := range []string{"", "Pending", "teleported", "done"} {
		if IsValidOrderStatus(status) {
			t.Fatalf("expected %q to be invalid", status)
		}
	}
}
