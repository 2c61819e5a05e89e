package attainment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/attainment"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
)

func TestLoadWeightGraphOrdering(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewInMemoryStore()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	must(store.PutCourse(ctx, catalog.Course{ID: "c1", ProgramID: "p1", Code: "SE101"}))
	must(store.PutLearningOutcome(ctx, catalog.LearningOutcome{ID: "loB", CourseID: "c1", Code: "LO2"}))
	must(store.PutLearningOutcome(ctx, catalog.LearningOutcome{ID: "loA", CourseID: "c1", Code: "LO1"}))

	// Same date: name breaks the tie. Earlier date sorts first regardless
	// of insertion order.
	must(store.PutAssessment(ctx, catalog.Assessment{
		ID: "a-late", CourseID: "c1", Name: "Quiz #2", Date: "2026-05-01", MaxScore: dec("10"),
	}))
	must(store.PutAssessment(ctx, catalog.Assessment{
		ID: "a-b", CourseID: "c1", Name: "Quiz", Date: "2026-03-01", MaxScore: dec("10"),
	}))
	must(store.PutAssessment(ctx, catalog.Assessment{
		ID: "a-a", CourseID: "c1", Name: "Midterm", Date: "2026-03-01", MaxScore: dec("10"),
	}))

	must(store.UpsertLOMapping(ctx, catalog.AssessmentLOMapping{AssessmentID: "a-a", LearningOutcomeID: "loB", Weight: 30}))
	must(store.UpsertLOMapping(ctx, catalog.AssessmentLOMapping{AssessmentID: "a-a", LearningOutcomeID: "loA", Weight: 70}))

	g, err := attainment.LoadWeightGraph(ctx, store, "c1")
	if err != nil {
		t.Fatal(err)
	}

	wantOrder := []string{"a-a", "a-b", "a-late"}
	if len(g.Nodes) != len(wantOrder) {
		t.Fatalf("got %d nodes, want %d", len(g.Nodes), len(wantOrder))
	}
	for i, want := range wantOrder {
		if g.Nodes[i].Assessment.ID != want {
			t.Errorf("nodes[%d] = %s, want %s", i, g.Nodes[i].Assessment.ID, want)
		}
	}

	// LO edges come back ordered by LO code, not insertion order.
	edges := g.Nodes[0].LOEdges
	if len(edges) != 2 || edges[0].LearningOutcomeID != "loA" || edges[1].LearningOutcomeID != "loB" {
		t.Errorf("LO edges out of order: %+v", edges)
	}
}

func TestLoadWeightGraphToleratesBareNodes(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewInMemoryStore()

	if err := store.PutCourse(ctx, catalog.Course{ID: "c1"}); err != nil {
		t.Fatal(err)
	}
	// Assessment with zero LO mappings is still included.
	if err := store.PutAssessment(ctx, catalog.Assessment{
		ID: "a1", CourseID: "c1", Name: "Quiz", Date: "2026-01-01", MaxScore: dec("10"),
	}); err != nil {
		t.Fatal(err)
	}
	// LO with zero PO mappings: its edge exists, PO edge list is empty.
	if err := store.PutLearningOutcome(ctx, catalog.LearningOutcome{ID: "lo1", CourseID: "c1", Code: "LO1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.PutAssessment(ctx, catalog.Assessment{
		ID: "a2", CourseID: "c1", Name: "Final", Date: "2026-06-01", MaxScore: dec("10"),
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertLOMapping(ctx, catalog.AssessmentLOMapping{AssessmentID: "a2", LearningOutcomeID: "lo1", Weight: 100}); err != nil {
		t.Fatal(err)
	}

	g, err := attainment.LoadWeightGraph(ctx, store, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(g.Nodes))
	}
	var bare, mapped *attainment.Node
	for i := range g.Nodes {
		switch g.Nodes[i].Assessment.ID {
		case "a1":
			bare = &g.Nodes[i]
		case "a2":
			mapped = &g.Nodes[i]
		}
	}
	if bare == nil || len(bare.LOEdges) != 0 {
		t.Errorf("unmapped assessment should carry zero LO edges: %+v", bare)
	}
	if mapped == nil || len(mapped.LOEdges) != 1 || len(mapped.LOEdges[0].POEdges) != 0 {
		t.Errorf("LO without PO mappings should carry an empty PO edge list: %+v", mapped)
	}
}

func TestLoadWeightGraphMissingCourse(t *testing.T) {
	store := catalog.NewInMemoryStore()
	_, err := attainment.LoadWeightGraph(context.Background(), store, "missing")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
