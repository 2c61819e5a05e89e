package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/db"
)

func openTestStore(t *testing.T) *catalog.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "loms_test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return catalog.NewSQLStore(dbh)
}

func seedSQL(t *testing.T, store *catalog.SQLStore) {
	t.Helper()
	ctx := context.Background()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(store.PutProgram(ctx, catalog.Program{ID: "p1", Name: "SE"}))
	must(store.PutCourse(ctx, catalog.Course{ID: "c1", ProgramID: "p1", Code: "SE101", Name: "Intro", Year: 2}))
	must(store.PutUser(ctx, catalog.User{
		ID: "s1", Username: "student1", PasswordHash: "x",
		Role: catalog.RoleStudent, ProgramID: "p1", Grade: 2,
	}))
}

func TestSQLStoreAssessmentOrdering(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	seedSQL(t, store)

	max := decimal.NewFromInt(100)
	for _, a := range []catalog.Assessment{
		{ID: "a3", CourseID: "c1", Type: catalog.TypeQuiz, Name: "Quiz #2", WeightInCourse: 10, MaxScore: max, Date: "2026-04-01"},
		{ID: "a1", CourseID: "c1", Type: catalog.TypeQuiz, Name: "Quiz", WeightInCourse: 10, MaxScore: max, Date: "2026-02-01"},
		{ID: "a2", CourseID: "c1", Type: catalog.TypeMidterm, Name: "Midterm", WeightInCourse: 40, MaxScore: max, Date: "2026-04-01"},
	} {
		if err := store.PutAssessment(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.ListAssessments(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a1", "a2", "a3"} // date asc, then name asc
	if len(got) != len(want) {
		t.Fatalf("got %d assessments, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("assessments[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestSQLStoreLOMappingOrderedByCode(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	seedSQL(t, store)

	if err := store.PutAssessment(ctx, catalog.Assessment{
		ID: "a1", CourseID: "c1", Type: catalog.TypeQuiz, Name: "Quiz",
		WeightInCourse: 10, MaxScore: decimal.NewFromInt(10), Date: "2026-02-01",
	}); err != nil {
		t.Fatal(err)
	}
	for _, lo := range []catalog.LearningOutcome{
		{ID: "loZ", CourseID: "c1", Code: "LO9", Active: true},
		{ID: "loA", CourseID: "c1", Code: "LO1", Active: true},
	} {
		if err := store.PutLearningOutcome(ctx, lo); err != nil {
			t.Fatal(err)
		}
	}
	for _, m := range []catalog.AssessmentLOMapping{
		{AssessmentID: "a1", LearningOutcomeID: "loZ", Weight: 30},
		{AssessmentID: "a1", LearningOutcomeID: "loA", Weight: 70},
	} {
		if err := store.UpsertLOMapping(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.ListLOMappings(ctx, "a1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].LearningOutcomeID != "loA" || got[1].LearningOutcomeID != "loZ" {
		t.Fatalf("mappings out of LO-code order: %+v", got)
	}

	// Upsert replaces the weight for the existing pair instead of adding
	// a second row.
	if err := store.UpsertLOMapping(ctx, catalog.AssessmentLOMapping{
		AssessmentID: "a1", LearningOutcomeID: "loA", Weight: 55,
	}); err != nil {
		t.Fatal(err)
	}
	got, err = store.ListLOMappings(ctx, "a1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Weight != 55 {
		t.Fatalf("upsert did not replace weight: %+v", got)
	}
}

func TestSQLStoreStudentScoresSkipsNull(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	seedSQL(t, store)

	max := decimal.NewFromInt(50)
	for _, a := range []catalog.Assessment{
		{ID: "a1", CourseID: "c1", Type: catalog.TypeQuiz, Name: "Quiz", WeightInCourse: 10, MaxScore: max, Date: "2026-02-01"},
		{ID: "a2", CourseID: "c1", Type: catalog.TypeFinal, Name: "Final", WeightInCourse: 60, MaxScore: max, Date: "2026-06-01"},
	} {
		if err := store.PutAssessment(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	score, _ := decimal.NewFromString("37.5")
	if err := store.UpsertResult(ctx, catalog.StudentAssessmentResult{
		StudentID: "s1", AssessmentID: "a1",
		RawScore: decimal.NullDecimal{Decimal: score, Valid: true},
	}); err != nil {
		t.Fatal(err)
	}
	// A null raw score is a row that exists but carries no grade.
	if err := store.UpsertResult(ctx, catalog.StudentAssessmentResult{
		StudentID: "s1", AssessmentID: "a2",
	}); err != nil {
		t.Fatal(err)
	}

	scores, err := store.StudentScores(ctx, "s1", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1 (null rows excluded): %v", len(scores), scores)
	}
	if got := scores["a1"]; !got.Equal(score) {
		t.Errorf("scores[a1] = %s, want 37.5", got)
	}
}

func TestSQLStoreReplaceEnrollments(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	seedSQL(t, store)

	if err := store.PutCourse(ctx, catalog.Course{ID: "c2", ProgramID: "p1", Code: "SE102", Name: "Algo", Year: 2}); err != nil {
		t.Fatal(err)
	}

	if err := store.ReplaceEnrollments(ctx, "s1", []string{"c1", "c2"}); err != nil {
		t.Fatal(err)
	}
	got, err := store.ListEnrollments(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("enrollments = %v, want 2 courses", got)
	}

	// Replace means replace: the old set is gone, not merged.
	if err := store.ReplaceEnrollments(ctx, "s1", []string{"c2"}); err != nil {
		t.Fatal(err)
	}
	got, err = store.ListEnrollments(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "c2" {
		t.Fatalf("enrollments = %v, want [c2]", got)
	}

	// Empty replacement clears membership entirely.
	if err := store.ReplaceEnrollments(ctx, "s1", nil); err != nil {
		t.Fatal(err)
	}
	got, err = store.ListEnrollments(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("enrollments = %v, want empty", got)
	}
}

func TestSQLStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.GetCourse(ctx, "missing"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetCourse: got %v, want ErrNotFound", err)
	}
	if _, err := store.GetUser(ctx, "missing"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetUser: got %v, want ErrNotFound", err)
	}
	if _, err := store.GetUserByUsername(ctx, "missing"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("GetUserByUsername: got %v, want ErrNotFound", err)
	}
	if err := store.DeleteCourse(ctx, "missing"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("DeleteCourse: got %v, want ErrNotFound", err)
	}
}
