package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
)

func ListLearningOutcomesHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		if _, err := store.GetCourse(r.Context(), courseID); err != nil {
			storeError(w, err)
			return
		}
		los, err := store.ListLearningOutcomes(r.Context(), courseID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, los)
	}
}

type learningOutcomeReq struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Active      *bool  `json:"active"`
}

func CreateLearningOutcomeHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, ok := requireCourseAccess(w, r, store, chi.URLParam(r, "courseID"))
		if !ok {
			return
		}
		var req learningOutcomeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Code) == "" {
			http.Error(w, "code required", http.StatusBadRequest)
			return
		}
		lo := catalog.LearningOutcome{
			ID:          uuid.NewString(),
			CourseID:    course.ID,
			Code:        strings.TrimSpace(req.Code),
			Description: req.Description,
			Order:       req.Order,
			Active:      req.Active == nil || *req.Active,
		}
		if err := store.PutLearningOutcome(r.Context(), lo); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, lo)
	}
}

func UpdateLearningOutcomeHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lo, err := store.GetLearningOutcome(r.Context(), chi.URLParam(r, "loID"))
		if err != nil {
			storeError(w, err)
			return
		}
		if _, ok := requireCourseAccess(w, r, store, lo.CourseID); !ok {
			return
		}
		var req learningOutcomeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Code) != "" {
			lo.Code = strings.TrimSpace(req.Code)
		}
		if req.Description != "" {
			lo.Description = req.Description
		}
		if req.Order != 0 {
			lo.Order = req.Order
		}
		if req.Active != nil {
			lo.Active = *req.Active
		}
		if err := store.PutLearningOutcome(r.Context(), lo); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, lo)
	}
}

func DeleteLearningOutcomeHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lo, err := store.GetLearningOutcome(r.Context(), chi.URLParam(r, "loID"))
		if err != nil {
			storeError(w, err)
			return
		}
		if _, ok := requireCourseAccess(w, r, store, lo.CourseID); !ok {
			return
		}
		if err := store.DeleteLearningOutcome(r.Context(), lo.ID); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PutPOMappingsHandler bulk-edits one LO's PO weights. A weight of zero or
// less removes the mapping row; weights above 100 clamp to 100. Unknown PO
// IDs fail the whole batch.
func PutPOMappingsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lo, err := store.GetLearningOutcome(r.Context(), chi.URLParam(r, "loID"))
		if err != nil {
			storeError(w, err)
			return
		}
		if _, ok := requireCourseAccess(w, r, store, lo.CourseID); !ok {
			return
		}
		var req map[string]int // poID -> weight
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		for poID, weight := range req {
			if _, err := store.GetProgramOutcome(r.Context(), poID); err != nil {
				storeError(w, err)
				return
			}
			if weight <= 0 {
				if err := store.DeletePOMapping(r.Context(), lo.ID, poID); err != nil {
					storeError(w, err)
					return
				}
				continue
			}
			if weight > 100 {
				weight = 100
			}
			if err := store.UpsertPOMapping(r.Context(), catalog.LOPOMapping{
				LearningOutcomeID: lo.ID,
				ProgramOutcomeID:  poID,
				Weight:            weight,
			}); err != nil {
				storeError(w, err)
				return
			}
		}
		mappings, err := store.ListPOMappings(r.Context(), lo.ID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, mappings)
	}
}

func ListPOMappingsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lo, err := store.GetLearningOutcome(r.Context(), chi.URLParam(r, "loID"))
		if err != nil {
			storeError(w, err)
			return
		}
		mappings, err := store.ListPOMappings(r.Context(), lo.ID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, mappings)
	}
}
