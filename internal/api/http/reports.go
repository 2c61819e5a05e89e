package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/attainment"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/auth"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
)

// MyAttainmentHandler computes the authenticated student's attainment for
// one of their enrolled courses. A course outside their enrollment reads as
// not found, same as the dashboard they navigate from.
func MyAttainmentHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		studentID := auth.SubjectFromContext(r.Context())

		enrolled, err := store.ListEnrollments(r.Context(), studentID)
		if err != nil {
			storeError(w, err)
			return
		}
		member := false
		for _, id := range enrolled {
			if id == courseID {
				member = true
				break
			}
		}
		if !member {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}

		rep, err := attainment.ComputeAttainment(r.Context(), store, studentID, courseID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, rep)
	}
}

// StudentAttainmentHandler is the lecturer/admin view of any student's
// report for a course they own.
func StudentAttainmentHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, ok := requireCourseAccess(w, r, store, chi.URLParam(r, "courseID"))
		if !ok {
			return
		}
		rep, err := attainment.ComputeAttainment(r.Context(), store, chi.URLParam(r, "studentID"), course.ID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, rep)
	}
}
