package scheduler

import "testing"

func TestValidateDuplication(t *testing.T) {
	if err := ValidateDuplication(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateDuplication(3, 3); err == nil {
		t.Fatalf("expected error for identical source and target")
	}
	if err := ValidateDuplication(0, 2); err == nil {
		t.Fatalf("expected error for missing source agent")
	}
	if err := ValidateDuplication(1, 0); err == nil {
		t.Fatalf("expected error for missing target agent")
	}
}
