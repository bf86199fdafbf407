package postgres

import (
	"reflect"
	"testing"
)

func TestSplitActionsEmptyStringIsNil(t *testing.T) {
	if got := splitActions(""); got != nil {
		t.Fatalf("expected nil for an empty actions column, got %v", got)
	}
}

func TestSplitActionsSplitsOnSemicolon(t *testing.T) {
	got := splitActions("move a0-b0@0;attack b0xc0@1")
	want := []string{"move a0-b0@0", "attack b0xc0@1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
