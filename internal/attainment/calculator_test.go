package attainment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/attainment"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func graded(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// seedCourse builds the canonical fixture: one course with two assessments,
// one LO fed by both, and one PO fed by the LO at full weight.
func seedCourse(t *testing.T) catalog.Store {
	t.Helper()
	ctx := context.Background()
	store := catalog.NewInMemoryStore()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	must(store.PutProgram(ctx, catalog.Program{ID: "p1", Name: "Software Engineering"}))
	must(store.PutProgramOutcome(ctx, catalog.ProgramOutcome{ID: "po1", ProgramID: "p1", Code: "PO1", Active: true}))
	must(store.PutCourse(ctx, catalog.Course{ID: "c1", ProgramID: "p1", Code: "SE101", Year: 1}))
	must(store.PutLearningOutcome(ctx, catalog.LearningOutcome{ID: "lo1", CourseID: "c1", Code: "LO1", Active: true}))
	must(store.PutUser(ctx, catalog.User{ID: "s1", Username: "student1", Role: catalog.RoleStudent}))

	must(store.PutAssessment(ctx, catalog.Assessment{
		ID: "a1", CourseID: "c1", Type: catalog.TypeMidterm, Name: "Midterm",
		WeightInCourse: 40, MaxScore: dec("50"), Date: "2026-03-10",
	}))
	must(store.PutAssessment(ctx, catalog.Assessment{
		ID: "a2", CourseID: "c1", Type: catalog.TypeFinal, Name: "Final",
		WeightInCourse: 60, MaxScore: dec("100"), Date: "2026-06-01",
	}))

	must(store.UpsertLOMapping(ctx, catalog.AssessmentLOMapping{AssessmentID: "a1", LearningOutcomeID: "lo1", Weight: 50}))
	must(store.UpsertPOMapping(ctx, catalog.LOPOMapping{LearningOutcomeID: "lo1", ProgramOutcomeID: "po1", Weight: 100}))

	return store
}

func TestComputeAttainmentConcreteScenario(t *testing.T) {
	ctx := context.Background()
	store := seedCourse(t)

	// weight 40, max 50, raw 40 -> contribution 40/50*40 = 32
	// LO weight 50 -> 16; PO weight 100 -> 16
	if err := store.UpsertResult(ctx, catalog.StudentAssessmentResult{
		StudentID: "s1", AssessmentID: "a1", RawScore: graded(dec("40")),
	}); err != nil {
		t.Fatal(err)
	}

	rep, err := attainment.ComputeAttainment(ctx, store, "s1", "c1")
	if err != nil {
		t.Fatal(err)
	}

	if got := rep.PerAssessment["a1"]; !got.Equal(dec("32")) {
		t.Errorf("per_assessment[a1] = %s, want 32", got)
	}
	if got := rep.PerLO["lo1"]; !got.Equal(dec("16")) {
		t.Errorf("per_lo[lo1] = %s, want 16", got)
	}
	if got := rep.PerPO["po1"]; !got.Equal(dec("16")) {
		t.Errorf("per_po[po1] = %s, want 16", got)
	}
	// a2 is ungraded: undefined, not zero.
	if _, ok := rep.PerAssessment["a2"]; ok {
		t.Error("ungraded assessment must be absent from per_assessment")
	}
}

func TestComputeSumsAcrossAssessments(t *testing.T) {
	ctx := context.Background()
	store := seedCourse(t)

	// Both assessments feed lo1 at weight 50. Contributions 10 and 20
	// become 5 + 10 = 15 on the LO.
	if err := store.UpsertLOMapping(ctx, catalog.AssessmentLOMapping{AssessmentID: "a2", LearningOutcomeID: "lo1", Weight: 50}); err != nil {
		t.Fatal(err)
	}
	// a1: 12.5/50*40 = 10; a2 reweighted to 40 so 50/100*40 = 20.
	a2, err := store.GetAssessment(ctx, "a2")
	if err != nil {
		t.Fatal(err)
	}
	a2.WeightInCourse = 40
	if err := store.PutAssessment(ctx, a2); err != nil {
		t.Fatal(err)
	}

	if err := store.UpsertResult(ctx, catalog.StudentAssessmentResult{
		StudentID: "s1", AssessmentID: "a1", RawScore: graded(dec("12.5")),
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertResult(ctx, catalog.StudentAssessmentResult{
		StudentID: "s1", AssessmentID: "a2", RawScore: graded(dec("50")),
	}); err != nil {
		t.Fatal(err)
	}

	rep, err := attainment.ComputeAttainment(ctx, store, "s1", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if got := rep.PerAssessment["a1"]; !got.Equal(dec("10")) {
		t.Errorf("per_assessment[a1] = %s, want 10", got)
	}
	if got := rep.PerAssessment["a2"]; !got.Equal(dec("20")) {
		t.Errorf("per_assessment[a2] = %s, want 20", got)
	}
	if got := rep.PerLO["lo1"]; !got.Equal(dec("15")) {
		t.Errorf("per_lo[lo1] = %s, want 15", got)
	}
	if got := rep.PerPO["po1"]; !got.Equal(dec("15")) {
		t.Errorf("per_po[po1] = %s, want 15", got)
	}
}

func TestComputeDeterministic(t *testing.T) {
	ctx := context.Background()
	store := seedCourse(t)
	if err := store.UpsertResult(ctx, catalog.StudentAssessmentResult{
		StudentID: "s1", AssessmentID: "a1", RawScore: graded(dec("37.5")),
	}); err != nil {
		t.Fatal(err)
	}

	first, err := attainment.ComputeAttainment(ctx, store, "s1", "c1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := attainment.ComputeAttainment(ctx, store, "s1", "c1")
	if err != nil {
		t.Fatal(err)
	}
	for id, v := range first.PerLO {
		if !second.PerLO[id].Equal(v) {
			t.Errorf("per_lo[%s] differs across calls: %s vs %s", id, v, second.PerLO[id])
		}
	}
	for id, v := range first.PerPO {
		if !second.PerPO[id].Equal(v) {
			t.Errorf("per_po[%s] differs across calls: %s vs %s", id, v, second.PerPO[id])
		}
	}
}

func TestComputeLinearity(t *testing.T) {
	ctx := context.Background()
	store := seedCourse(t)

	g, err := attainment.LoadWeightGraph(ctx, store, "c1")
	if err != nil {
		t.Fatal(err)
	}

	base := attainment.Compute(g, map[string]decimal.Decimal{"a1": dec("10")})
	scaled := attainment.Compute(g, map[string]decimal.Decimal{"a1": dec("30")})

	k := dec("3")
	if !scaled.PerAssessment["a1"].Equal(base.PerAssessment["a1"].Mul(k)) {
		t.Errorf("assessment contribution not linear: %s vs 3*%s",
			scaled.PerAssessment["a1"], base.PerAssessment["a1"])
	}
	if !scaled.PerLO["lo1"].Equal(base.PerLO["lo1"].Mul(k)) {
		t.Errorf("LO total not linear: %s vs 3*%s", scaled.PerLO["lo1"], base.PerLO["lo1"])
	}
	if !scaled.PerPO["po1"].Equal(base.PerPO["po1"].Mul(k)) {
		t.Errorf("PO total not linear: %s vs 3*%s", scaled.PerPO["po1"], base.PerPO["po1"])
	}
}

func TestComputeAbsencePropagation(t *testing.T) {
	ctx := context.Background()
	store := seedCourse(t)

	// No results at all: every map stays empty, nothing is reported as zero.
	rep, err := attainment.ComputeAttainment(ctx, store, "s1", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.PerAssessment) != 0 || len(rep.PerLO) != 0 || len(rep.PerPO) != 0 {
		t.Errorf("expected empty report, got %+v", rep)
	}
}

func TestComputeZeroMaxScore(t *testing.T) {
	ctx := context.Background()
	store := seedCourse(t)

	// Attendance with max_score 0 is not an error; it contributes nothing
	// and the rest of the report still computes.
	if err := store.PutAssessment(ctx, catalog.Assessment{
		ID: "a3", CourseID: "c1", Type: catalog.TypeAttendance, Name: "Attendance",
		WeightInCourse: 10, MaxScore: decimal.Zero, Date: "2026-02-01",
	}); err != nil {
		t.Fatal(err)
	}
	for _, r := range []catalog.StudentAssessmentResult{
		{StudentID: "s1", AssessmentID: "a3", RawScore: graded(dec("1"))},
		{StudentID: "s1", AssessmentID: "a1", RawScore: graded(dec("40"))},
	} {
		if err := store.UpsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	rep, err := attainment.ComputeAttainment(ctx, store, "s1", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rep.PerAssessment["a3"]; ok {
		t.Error("zero max_score assessment must have undefined contribution")
	}
	if got := rep.PerAssessment["a1"]; !got.Equal(dec("32")) {
		t.Errorf("per_assessment[a1] = %s, want 32", got)
	}
}

func TestComputeRecordedZeroIsDefined(t *testing.T) {
	ctx := context.Background()
	store := seedCourse(t)

	if err := store.UpsertResult(ctx, catalog.StudentAssessmentResult{
		StudentID: "s1", AssessmentID: "a1", RawScore: graded(decimal.Zero),
	}); err != nil {
		t.Fatal(err)
	}
	rep, err := attainment.ComputeAttainment(ctx, store, "s1", "c1")
	if err != nil {
		t.Fatal(err)
	}
	got, ok := rep.PerAssessment["a1"]
	if !ok {
		t.Fatal("a recorded zero is a defined contribution")
	}
	if !got.IsZero() {
		t.Errorf("per_assessment[a1] = %s, want 0", got)
	}
	if lo, ok := rep.PerLO["lo1"]; !ok || !lo.IsZero() {
		t.Errorf("per_lo[lo1] = %s (present=%v), want 0 present", lo, ok)
	}
}

func TestComputeAttainmentNotFound(t *testing.T) {
	ctx := context.Background()
	store := seedCourse(t)

	if _, err := attainment.ComputeAttainment(ctx, store, "s1", "nope"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("missing course: got %v, want ErrNotFound", err)
	}
	if _, err := attainment.ComputeAttainment(ctx, store, "nope", "c1"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("missing student: got %v, want ErrNotFound", err)
	}
}
