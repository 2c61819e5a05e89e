package catalog_test

import (
	"testing"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
)

func withNames(names ...string) []catalog.Assessment {
	out := make([]catalog.Assessment, 0, len(names))
	for i, n := range names {
		out = append(out, catalog.Assessment{ID: string(rune('a' + i)), Name: n})
	}
	return out
}

func TestAllocateNameUnused(t *testing.T) {
	got := catalog.AllocateName("Quiz", withNames("Midterm", "Final"), "")
	if got != "Quiz" {
		t.Fatalf("got %q, want Quiz", got)
	}
}

func TestAllocateNameCollision(t *testing.T) {
	got := catalog.AllocateName("Quiz", withNames("Quiz"), "")
	if got != "Quiz #2" {
		t.Fatalf("got %q, want Quiz #2", got)
	}
	got = catalog.AllocateName("Quiz", withNames("Quiz", "Quiz #2", "Quiz #3"), "")
	if got != "Quiz #4" {
		t.Fatalf("got %q, want Quiz #4", got)
	}
}

func TestAllocateNameFillsGap(t *testing.T) {
	// #2 was deleted; the smallest free suffix wins.
	got := catalog.AllocateName("Quiz", withNames("Quiz", "Quiz #3"), "")
	if got != "Quiz #2" {
		t.Fatalf("got %q, want Quiz #2", got)
	}
}

func TestAllocateNameExcludesEdited(t *testing.T) {
	siblings := []catalog.Assessment{
		{ID: "a1", Name: "Quiz"},
		{ID: "a2", Name: "Midterm"},
	}
	// Editing a1: its own current name must not count as taken.
	if got := catalog.AllocateName("Quiz", siblings, "a1"); got != "Quiz" {
		t.Fatalf("got %q, want Quiz", got)
	}
	// A different assessment still collides.
	if got := catalog.AllocateName("Quiz", siblings, "a2"); got != "Quiz #2" {
		t.Fatalf("got %q, want Quiz #2", got)
	}
}

func TestAllocateNameDeterministic(t *testing.T) {
	siblings := withNames("Quiz", "Quiz #2")
	first := catalog.AllocateName("Quiz", siblings, "")
	second := catalog.AllocateName("Quiz", siblings, "")
	if first != second {
		t.Fatalf("not deterministic: %q vs %q", first, second)
	}
}

func TestAllocateNameEmptyBase(t *testing.T) {
	if got := catalog.AllocateName("", nil, ""); got != "Assessment" {
		t.Fatalf("got %q, want Assessment", got)
	}
}
