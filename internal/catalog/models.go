package catalog

import "github.com/shopspring/decimal"

type Role string

const (
	RoleStudent        Role = "student"
	RoleLecturer       Role = "lecturer"
	RoleStudentAffairs Role = "student_affairs"
	RoleAdmin          Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleStudentAffairs, RoleAdmin:
		return true
	}
	return false
}

type AssessmentType string

const (
	TypeQuiz       AssessmentType = "QUIZ"
	TypeMidterm    AssessmentType = "MIDTERM"
	TypeFinal      AssessmentType = "FINAL"
	TypeProject    AssessmentType = "PROJECT"
	TypeAttendance AssessmentType = "ATTENDANCE"
)

var typeLabels = map[AssessmentType]string{
	TypeQuiz:       "Quiz",
	TypeMidterm:    "Midterm",
	TypeFinal:      "Final",
	TypeProject:    "Project",
	TypeAttendance: "Attendance",
}

func (t AssessmentType) Valid() bool { _, ok := typeLabels[t]; return ok }

// Label is the human-readable form used as the base display name
// when an assessment of this type is created.
func (t AssessmentType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

type Program struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProgramOutcome struct {
	ID          string `json:"id"`
	ProgramID   string `json:"program_id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Active      bool   `json:"active"`
}

type Course struct {
	ID         string `json:"id"`
	ProgramID  string `json:"program_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Year       int    `json:"year"` // grade level the course is taught at
	Semester   int    `json:"semester"`
	ECTS       int    `json:"ects"`
	Credit     int    `json:"credit"`
	LecturerID string `json:"lecturer_id,omitempty"`
}

type LearningOutcome struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Active      bool   `json:"active"`
}

type Assessment struct {
	ID             string          `json:"id"`
	CourseID       string          `json:"course_id"`
	Type           AssessmentType  `json:"type"`
	Name           string          `json:"name"` // unique per course
	WeightInCourse int             `json:"weight_in_course"`
	MaxScore       decimal.Decimal `json:"max_score"`
	Date           string          `json:"date"` // YYYY-MM-DD
}

// AssessmentLOMapping is the Assessment→LO edge. Weights live in (0,100];
// the authoring layer deletes rows instead of storing zero.
type AssessmentLOMapping struct {
	AssessmentID      string `json:"assessment_id"`
	LearningOutcomeID string `json:"learning_outcome_id"`
	Weight            int    `json:"weight_in_assessment"`
}

// LOPOMapping is the LO→PO edge.
type LOPOMapping struct {
	LearningOutcomeID string `json:"learning_outcome_id"`
	ProgramOutcomeID  string `json:"program_outcome_id"`
	Weight            int    `json:"weight"`
}

// StudentAssessmentResult holds one student's score on one assessment.
// RawScore invalid means "not graded yet", which is distinct from zero.
type StudentAssessmentResult struct {
	StudentID    string              `json:"student_id"`
	AssessmentID string              `json:"assessment_id"`
	RawScore     decimal.NullDecimal `json:"raw_score"`
}

// User covers every role; the Student* fields are only meaningful for
// students and stay zero-valued otherwise.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	PasswordHash  string `json:"-"`
	Role          Role   `json:"role"`
	StudentNumber string `json:"student_number,omitempty"`
	ProgramID     string `json:"program_id,omitempty"`
	Grade         int    `json:"grade,omitempty"` // 0 = unset
}
