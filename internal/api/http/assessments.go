package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
)

type assessmentReq struct {
	Type           catalog.AssessmentType `json:"type"`
	WeightInCourse *int                   `json:"weight_in_course"`
	MaxScore       *decimal.Decimal       `json:"max_score"`
	Date           string                 `json:"date"` // YYYY-MM-DD
}

func (req *assessmentReq) validate() string {
	if req.Type != "" && !req.Type.Valid() {
		return "unknown assessment type"
	}
	if req.WeightInCourse != nil && (*req.WeightInCourse < 0 || *req.WeightInCourse > 100) {
		return "weight_in_course must be in 0..100"
	}
	if req.MaxScore != nil && req.MaxScore.IsNegative() {
		return "max_score must not be negative"
	}
	if req.Date != "" {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			return "date must be YYYY-MM-DD"
		}
	}
	return ""
}

func ListAssessmentsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		if _, err := store.GetCourse(r.Context(), courseID); err != nil {
			storeError(w, err)
			return
		}
		assessments, err := store.ListAssessments(r.Context(), courseID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, assessments)
	}
}

// CreateAssessmentHandler adds an assessment to a course. The display name
// is derived from the type label and disambiguated per course, never taken
// from the request.
func CreateAssessmentHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, ok := requireCourseAccess(w, r, store, chi.URLParam(r, "courseID"))
		if !ok {
			return
		}
		var req assessmentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Type == "" || req.WeightInCourse == nil || req.MaxScore == nil || req.Date == "" {
			http.Error(w, "type, weight_in_course, max_score and date required", http.StatusBadRequest)
			return
		}
		if msg := req.validate(); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		siblings, err := store.ListAssessments(r.Context(), course.ID)
		if err != nil {
			storeError(w, err)
			return
		}
		a := catalog.Assessment{
			ID:             uuid.NewString(),
			CourseID:       course.ID,
			Type:           req.Type,
			Name:           catalog.AllocateName(req.Type.Label(), siblings, ""),
			WeightInCourse: *req.WeightInCourse,
			MaxScore:       *req.MaxScore,
			Date:           req.Date,
		}
		if err := store.PutAssessment(r.Context(), a); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, a)
	}
}

func UpdateAssessmentHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			storeError(w, err)
			return
		}
		if _, ok := requireCourseAccess(w, r, store, a.CourseID); !ok {
			return
		}
		var req assessmentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if msg := req.validate(); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if req.WeightInCourse != nil {
			a.WeightInCourse = *req.WeightInCourse
		}
		if req.MaxScore != nil {
			a.MaxScore = *req.MaxScore
		}
		if req.Date != "" {
			a.Date = req.Date
		}
		if req.Type != "" && req.Type != a.Type {
			a.Type = req.Type
			// A type change re-derives the name; the edited assessment is
			// excluded from its own uniqueness check.
			siblings, err := store.ListAssessments(r.Context(), a.CourseID)
			if err != nil {
				storeError(w, err)
				return
			}
			a.Name = catalog.AllocateName(req.Type.Label(), siblings, a.ID)
		}
		if err := store.PutAssessment(r.Context(), a); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, a)
	}
}

func DeleteAssessmentHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			storeError(w, err)
			return
		}
		if _, ok := requireCourseAccess(w, r, store, a.CourseID); !ok {
			return
		}
		if err := store.DeleteAssessment(r.Context(), a.ID); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PutLOMappingsHandler bulk-edits one assessment's LO weights, keyed by LO
// ID. Zero or negative weight deletes the row, above 100 clamps to 100 —
// the same rules the mapping edit screen has always applied. LOs from a
// different course are rejected.
func PutLOMappingsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			storeError(w, err)
			return
		}
		if _, ok := requireCourseAccess(w, r, store, a.CourseID); !ok {
			return
		}
		var req map[string]int // loID -> weight
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		for loID, weight := range req {
			lo, err := store.GetLearningOutcome(r.Context(), loID)
			if err != nil {
				storeError(w, err)
				return
			}
			if lo.CourseID != a.CourseID {
				http.Error(w, "learning outcome belongs to another course", http.StatusBadRequest)
				return
			}
			if weight <= 0 {
				if err := store.DeleteLOMapping(r.Context(), a.ID, loID); err != nil {
					storeError(w, err)
					return
				}
				continue
			}
			if weight > 100 {
				weight = 100
			}
			if err := store.UpsertLOMapping(r.Context(), catalog.AssessmentLOMapping{
				AssessmentID:      a.ID,
				LearningOutcomeID: loID,
				Weight:            weight,
			}); err != nil {
				storeError(w, err)
				return
			}
		}
		mappings, err := store.ListLOMappings(r.Context(), a.ID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, mappings)
	}
}

func ListLOMappingsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			storeError(w, err)
			return
		}
		mappings, err := store.ListLOMappings(r.Context(), a.ID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, mappings)
	}
}
