package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/auth"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
)

type courseReq struct {
	ProgramID  string `json:"program_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Year       int    `json:"year"`
	Semester   int    `json:"semester"`
	ECTS       int    `json:"ects"`
	Credit     int    `json:"credit"`
	LecturerID string `json:"lecturer_id"`
}

func ListCoursesHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programID := r.URL.Query().Get("program")
		if programID != "" {
			if _, err := store.GetProgram(r.Context(), programID); err != nil {
				storeError(w, err)
				return
			}
		}
		courses, err := store.ListCourses(r.Context(), programID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, courses)
	}
}

// ListLecturerCoursesHandler returns the authenticated lecturer's own
// courses, the lecturer dashboard listing.
func ListLecturerCoursesHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		courses, err := store.ListCoursesByLecturer(r.Context(), sub)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, courses)
	}
}

func CreateCourseHandler(store catalog.Store, syncer ProfileSyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req courseReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Name) == "" || req.Year <= 0 {
			http.Error(w, "code, name and year required", http.StatusBadRequest)
			return
		}
		if _, err := store.GetProgram(r.Context(), req.ProgramID); err != nil {
			storeError(w, err)
			return
		}
		if req.LecturerID != "" {
			if !requireLecturer(w, r, store, req.LecturerID) {
				return
			}
		}
		c := catalog.Course{
			ID:         uuid.NewString(),
			ProgramID:  req.ProgramID,
			Code:       strings.TrimSpace(req.Code),
			Name:       strings.TrimSpace(req.Name),
			Year:       req.Year,
			Semester:   req.Semester,
			ECTS:       req.ECTS,
			Credit:     req.Credit,
			LecturerID: req.LecturerID,
		}
		if err := store.PutCourse(r.Context(), c); err != nil {
			storeError(w, err)
			return
		}
		resyncProgramStudents(r, store, syncer, c.ProgramID)
		writeJSON(w, c)
	}
}

func UpdateCourseHandler(store catalog.Store, syncer ProfileSyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetCourse(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			storeError(w, err)
			return
		}
		oldProgram := c.ProgramID
		var req courseReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.ProgramID != "" {
			if _, err := store.GetProgram(r.Context(), req.ProgramID); err != nil {
				storeError(w, err)
				return
			}
			c.ProgramID = req.ProgramID
		}
		if strings.TrimSpace(req.Code) != "" {
			c.Code = strings.TrimSpace(req.Code)
		}
		if strings.TrimSpace(req.Name) != "" {
			c.Name = strings.TrimSpace(req.Name)
		}
		if req.Year > 0 {
			c.Year = req.Year
		}
		if req.Semester > 0 {
			c.Semester = req.Semester
		}
		if req.ECTS > 0 {
			c.ECTS = req.ECTS
		}
		if req.Credit > 0 {
			c.Credit = req.Credit
		}
		if req.LecturerID != "" {
			if !requireLecturer(w, r, store, req.LecturerID) {
				return
			}
			c.LecturerID = req.LecturerID
		}
		if err := store.PutCourse(r.Context(), c); err != nil {
			storeError(w, err)
			return
		}
		// A year/program change moves the course between cohorts; the
		// affected students' derived membership follows.
		resyncProgramStudents(r, store, syncer, c.ProgramID)
		if oldProgram != c.ProgramID {
			resyncProgramStudents(r, store, syncer, oldProgram)
		}
		writeJSON(w, c)
	}
}

func DeleteCourseHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteCourse(r.Context(), chi.URLParam(r, "courseID")); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GetCourseHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetCourse(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, c)
	}
}

func requireLecturer(w http.ResponseWriter, r *http.Request, store catalog.Store, userID string) bool {
	u, err := store.GetUser(r.Context(), userID)
	if err != nil {
		storeError(w, err)
		return false
	}
	if u.Role != catalog.RoleLecturer {
		http.Error(w, "lecturer_id must reference a lecturer", http.StatusBadRequest)
		return false
	}
	return true
}

// resyncProgramStudents re-derives membership for the program's students
// after a course write. Sync failures don't fail the course save; membership
// converges on the next profile write.
func resyncProgramStudents(r *http.Request, store catalog.Store, syncer ProfileSyncer, programID string) {
	if syncer == nil || programID == "" {
		return
	}
	users, err := store.ListUsers(r.Context())
	if err != nil {
		return
	}
	for _, u := range users {
		if u.Role == catalog.RoleStudent && u.ProgramID == programID {
			_ = syncer.Sync(r.Context(), u.ID)
		}
	}
}
