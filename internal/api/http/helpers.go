package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/auth"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/rbac"
)

// Handlers only — routes remain in main.go

// ProfileSyncer re-derives a student's course membership after a profile
// write. *enrollment.Syncer satisfies it.
type ProfileSyncer interface {
	Sync(ctx context.Context, userID string) error
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// storeError maps ErrNotFound to 404 and everything else to 500.
func storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, "db error", http.StatusInternalServerError)
}

// requireCourseAccess loads the course and enforces the lecturer ownership
// rule: admins pass, the course's own lecturer passes, everyone else is
// forbidden. Returns ok=false after writing the response.
func requireCourseAccess(w http.ResponseWriter, r *http.Request, store catalog.Store, courseID string) (catalog.Course, bool) {
	course, err := store.GetCourse(r.Context(), courseID)
	if err != nil {
		storeError(w, err)
		return catalog.Course{}, false
	}
	role := rbac.RoleFromContext(r.Context())
	sub := auth.SubjectFromContext(r.Context())
	if role == "admin" || course.LecturerID == sub {
		return course, true
	}
	http.Error(w, "not your course", http.StatusForbidden)
	return catalog.Course{}, false
}
