package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
)

func ListResultsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			storeError(w, err)
			return
		}
		if _, ok := requireCourseAccess(w, r, store, a.CourseID); !ok {
			return
		}
		results, err := store.ListResults(r.Context(), a.ID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, results)
	}
}

// PutResultsHandler is the bulk grade-entry screen: one batch of
// studentID→score for a single assessment. Per-cell rules, matching the
// form it replaces:
//   - blank value: leave whatever is stored untouched
//   - unparsable value: skip the cell, keep going
//   - valid value: upsert the (student, assessment) row
//
// Scores must lie in 0..max_score; out-of-range cells fail the batch so a
// typo doesn't silently distort attainment.
func PutResultsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			storeError(w, err)
			return
		}
		if _, ok := requireCourseAccess(w, r, store, a.CourseID); !ok {
			return
		}
		var req map[string]string // studentID -> raw score text
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		updated := 0
		skipped := 0
		for studentID, rawValue := range req {
			rawValue = strings.TrimSpace(rawValue)
			if rawValue == "" {
				continue
			}
			score, err := decimal.NewFromString(rawValue)
			if err != nil {
				skipped++
				continue
			}
			if score.IsNegative() || score.GreaterThan(a.MaxScore) {
				http.Error(w, "score for "+studentID+" outside 0..max_score", http.StatusBadRequest)
				return
			}
			if _, err := store.GetUser(r.Context(), studentID); err != nil {
				storeError(w, err)
				return
			}
			if err := store.UpsertResult(r.Context(), catalog.StudentAssessmentResult{
				StudentID:    studentID,
				AssessmentID: a.ID,
				RawScore:     decimal.NullDecimal{Decimal: score, Valid: true},
			}); err != nil {
				storeError(w, err)
				return
			}
			updated++
		}
		writeJSON(w, map[string]int{"updated": updated, "skipped": skipped})
	}
}
