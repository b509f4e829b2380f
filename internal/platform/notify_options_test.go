package platform

import "testing"

func TestOptionsTimeout(t *testing.T) {
	if got := (Options{}).timeout(); got != DefaultTimeout {
		t.Fatalf("zero timeout = %d, want %d", got, DefaultTimeout)
	}
	if got := (Options{Timeout: 1200}).timeout(); got != 1200 {
		t.Fatalf("explicit timeout = %d", got)
	}
}
