package utils

import (
	"reflect"
	"testing"
)

func TestStringToInt(t *testing.T) {
	if got := StringToInt("42"); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := StringToInt("abc"); got != 0 {
		t.Errorf("expected 0 on invalid input, got %d", got)
	}
	if got := StringToInt(""); got != 0 {
		t.Errorf("expected 0 on empty input, got %d", got)
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("go, web , ,backend")
	want := []string{"go", "web", "backend"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := SplitTags(""); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
