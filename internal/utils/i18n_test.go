package utils

import "testing"

func TestT_Fallback(t *testing.T) {
	if got := T("fr", "health.ok"); got != "ok" {
		t.Fatalf("fallback to en failed: %s", got)
	}
}

func TestT_UnknownKey(t *testing.T) {
	if got := T("zh", "no.such.key"); got != "no.such.key" {
		t.Fatalf("want key back, got %s", got)
	}
}

func TestTf(t *testing.T) {
	got := Tf("en", "validation.oneof", "metric_a", "A, B, C, D, E")
	if got != "metric_a must be one of A, B, C, D, E" {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestOneofMessagesUseDisplayNames(t *testing.T) {
	for _, f := range []string{"metric_a", "metric_b", "metric_c"} {
		if !HasT("validation.oneof." + f) {
			t.Fatalf("missing oneof message for %s", f)
		}
	}
	if got := Tf("en", "validation.oneof.metric_a", "A, B"); got != "Metric A must be one of A, B" {
		t.Fatalf("unexpected message: %s", got)
	}
}
