package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/auth"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/rbac"
)

type userReq struct {
	Username      string       `json:"username"`
	Password      string       `json:"password"`
	Role          catalog.Role `json:"role"`
	StudentNumber string       `json:"student_number"`
	ProgramID     string       `json:"program_id"`
	Grade         int          `json:"grade"`
}

// Student accounts must arrive complete: program, grade and student number
// together, mirroring the account creation form's rule.
func validateStudentFields(req userReq) string {
	if req.Role != catalog.RoleStudent {
		return ""
	}
	var missing []string
	if req.ProgramID == "" {
		missing = append(missing, "program")
	}
	if req.Grade <= 0 {
		missing = append(missing, "grade")
	}
	if strings.TrimSpace(req.StudentNumber) == "" {
		missing = append(missing, "student number")
	}
	if len(missing) > 0 {
		return "students must have " + strings.Join(missing, ", ")
	}
	return ""
}

func ListUsersHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := store.ListUsers(r.Context())
		if err != nil {
			storeError(w, err)
			return
		}
		// Admin accounts stay out of the student-affairs listing.
		out := users[:0]
		for _, u := range users {
			if u.Role != catalog.RoleAdmin {
				out = append(out, u)
			}
		}
		writeJSON(w, out)
	}
}

// CreateUserHandler creates an account and immediately derives the new
// student's enrollments, the equivalent of the profile-save hook.
func CreateUserHandler(store catalog.Store, syncer ProfileSyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			http.Error(w, "username and password required", http.StatusBadRequest)
			return
		}
		if !req.Role.Valid() || req.Role == catalog.RoleAdmin {
			http.Error(w, "role must be student, lecturer or student_affairs", http.StatusBadRequest)
			return
		}
		if msg := validateStudentFields(req); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if _, err := store.GetUserByUsername(r.Context(), req.Username); err == nil {
			http.Error(w, "username taken", http.StatusConflict)
			return
		}
		if req.ProgramID != "" {
			if _, err := store.GetProgram(r.Context(), req.ProgramID); err != nil {
				storeError(w, err)
				return
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash password", http.StatusInternalServerError)
			return
		}
		u := catalog.User{
			ID:            uuid.NewString(),
			Username:      req.Username,
			PasswordHash:  string(hash),
			Role:          req.Role,
			StudentNumber: strings.TrimSpace(req.StudentNumber),
			ProgramID:     req.ProgramID,
			Grade:         req.Grade,
		}
		if err := store.PutUser(r.Context(), u); err != nil {
			storeError(w, err)
			return
		}
		if err := syncer.Sync(r.Context(), u.ID); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, u)
	}
}

// UpdateUserHandler edits profile attributes and re-derives enrollment.
// Role, program and grade changes all funnel through the same replace, so
// demoting a student or clearing their grade empties their membership.
func UpdateUserHandler(store catalog.Store, syncer ProfileSyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := store.GetUser(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			storeError(w, err)
			return
		}
		var req struct {
			Password      *string       `json:"password"`
			Role          *catalog.Role `json:"role"`
			StudentNumber *string       `json:"student_number"`
			ProgramID     *string       `json:"program_id"`
			Grade         *int          `json:"grade"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Role != nil {
			if !req.Role.Valid() || *req.Role == catalog.RoleAdmin {
				http.Error(w, "role must be student, lecturer or student_affairs", http.StatusBadRequest)
				return
			}
			u.Role = *req.Role
		}
		if req.Password != nil && *req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				http.Error(w, "hash password", http.StatusInternalServerError)
				return
			}
			u.PasswordHash = string(hash)
		}
		if req.StudentNumber != nil {
			u.StudentNumber = strings.TrimSpace(*req.StudentNumber)
		}
		if req.ProgramID != nil {
			if *req.ProgramID != "" {
				if _, err := store.GetProgram(r.Context(), *req.ProgramID); err != nil {
					storeError(w, err)
					return
				}
			}
			u.ProgramID = *req.ProgramID
		}
		if req.Grade != nil {
			u.Grade = *req.Grade
		}
		if err := store.PutUser(r.Context(), u); err != nil {
			storeError(w, err)
			return
		}
		if err := syncer.Sync(r.Context(), u.ID); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, u)
	}
}

func DeleteUserHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListEnrollmentsHandler returns a student's derived course list. Students
// see only their own; staff may inspect anyone's.
func ListEnrollmentsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := chi.URLParam(r, "userID")
		role := rbac.RoleFromContext(r.Context())
		if role == "student" && auth.SubjectFromContext(r.Context()) != studentID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if _, err := store.GetUser(r.Context(), studentID); err != nil {
			storeError(w, err)
			return
		}
		courseIDs, err := store.ListEnrollments(r.Context(), studentID)
		if err != nil {
			storeError(w, err)
			return
		}
		courses := make([]catalog.Course, 0, len(courseIDs))
		for _, id := range courseIDs {
			c, err := store.GetCourse(r.Context(), id)
			if err != nil {
				continue // course deleted since last sync
			}
			courses = append(courses, c)
		}
		writeJSON(w, courses)
	}
}

// ListEnrolledStudentsHandler backs the grade-entry screen: the students
// currently enrolled in the assessment's course.
func ListEnrolledStudentsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, ok := requireCourseAccess(w, r, store, chi.URLParam(r, "courseID"))
		if !ok {
			return
		}
		students, err := store.ListEnrolledStudents(r.Context(), course.ID)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, students)
	}
}
