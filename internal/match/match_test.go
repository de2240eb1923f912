package match

import (
	"reflect"
	"testing"
)

var directory = []string{
	"Tech Innovations Inc",
	"Global Solutions Ltd",
	"Cloud Services International",
	"AI Research Labs",
}

func TestClosestExactShortCircuits(t *testing.T) {
	got := Closest("Global Solutions Ltd", directory, DefaultLimit, DefaultCutoff)
	if !reflect.DeepEqual(got, []string{"Global Solutions Ltd"}) {
		t.Errorf("got %v, want the exact entry alone", got)
	}
}

func TestClosestExactIgnoresCaseAndSpace(t *testing.T) {
	got := Closest("  global solutions ltd ", directory, DefaultLimit, DefaultCutoff)
	if !reflect.DeepEqual(got, []string{"Global Solutions Ltd"}) {
		t.Errorf("got %v, want the exact entry alone", got)
	}
}

func TestClosestRanksTypoFirst(t *testing.T) {
	got := Closest("Globl Solutions", directory, DefaultLimit, DefaultCutoff)
	if len(got) == 0 {
		t.Fatal("expected at least one candidate")
	}
	if got[0] != "Global Solutions Ltd" {
		t.Errorf("top candidate = %q, want %q", got[0], "Global Solutions Ltd")
	}
}

func TestClosestCutoffFiltersNoise(t *testing.T) {
	got := Closest("zzzzqqqq", directory, DefaultLimit, DefaultCutoff)
	if len(got) != 0 {
		t.Errorf("got %v, want no candidates", got)
	}
}

func TestClosestHonorsLimit(t *testing.T) {
	dir := []string{"acme one", "acme two", "acme three", "acme four"}
	got := Closest("acme", dir, 2, 0.1)
	if len(got) != 2 {
		t.Errorf("got %d candidates, want 2", len(got))
	}
}

func TestClosestKeepsDirectoryOrderOnTies(t *testing.T) {
	dir := []string{"abcd x", "abcd y"}
	got := Closest("abcd", dir, DefaultLimit, 0.1)
	if !reflect.DeepEqual(got, []string{"abcd x", "abcd y"}) {
		t.Errorf("got %v, want directory order preserved", got)
	}
}

func TestRatioIdentical(t *testing.T) {
	if r := Ratio("abc", "abc"); r != 1 {
		t.Errorf("Ratio of identical strings = %v, want 1", r)
	}
}

func TestRatioDisjoint(t *testing.T) {
	if r := Ratio("abc", "xyz"); r != 0 {
		t.Errorf("Ratio of disjoint strings = %v, want 0", r)
	}
}

func TestRatioKnownValue(t *testing.T) {
	// 15 matching chars over lengths 15 + 20.
	r := Ratio("globl solutions", "global solutions ltd")
	want := 2.0 * 15 / 35
	if r != want {
		t.Errorf("Ratio = %v, want %v", r, want)
	}
}
