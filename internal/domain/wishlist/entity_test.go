package wishlist

import (
	"sort"
	"testing"
)

func TestAdd_Idempotent(t *testing.T) {
	ids := Add(nil, "p1")
	ids = Add(ids, "p1")
	if len(ids) != 1 {
		t.Fatalf("expected one entry, got %v", ids)
	}
}

func TestToggle_Involution(t *testing.T) {
	start := []string{"a", "b"}

	for _, id := range []string{"a", "z"} {
		got := Toggle(Toggle(start, id), id)

		x := append([]string(nil), got...)
		y := append([]string(nil), start...)
		sort.Strings(x)
		sort.Strings(y)
		if len(x) != len(y) {
			t.Fatalf("toggle(%s) twice changed membership: %v", id, got)
		}
		for i := range x {
			if x[i] != y[i] {
				t.Fatalf("toggle(%s) twice changed membership: %v", id, got)
			}
		}
	}
}

func TestMerge_SetUnion(t *testing.T) {
	merged := Merge([]string{"b", "c"}, []string{"a", "b"})

	sort.Strings(merged)
	want := []string{"a", "b", "c"}
	if len(merged) != len(want) {
		t.Fatalf("got %v want %v", merged, want)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Fatalf("got %v want %v", merged, want)
		}
	}
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	ids := Remove([]string{"a"}, "b")
	if len(ids) != 1 || ids[0] != "a" {
		t.Fatalf("unexpected: %v", ids)
	}
}

func TestDecodeLocal_Malformed(t *testing.T) {
	if got := DecodeLocal([]byte("nope")); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
	got := DecodeLocal([]byte(`["a","a",null,"b",7]`))
	if len(got) != 3 {
		t.Fatalf("expected a,b,7 got %v", got)
	}
}

func TestDecodeRemote(t *testing.T) {
	got := DecodeRemote([]any{"x", "y", "x"})
	if len(got) != 2 {
		t.Fatalf("expected dedup, got %v", got)
	}
	if len(DecodeRemote("str")) != 0 {
		t.Fatalf("non-list must decode empty")
	}
}
