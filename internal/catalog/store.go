package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned for any identifier that does not resolve to a
// stored record. Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")

type Store interface {
	PutProgram(ctx context.Context, p Program) error
	GetProgram(ctx context.Context, id string) (Program, error)
	ListPrograms(ctx context.Context) ([]Program, error)

	PutProgramOutcome(ctx context.Context, po ProgramOutcome) error
	GetProgramOutcome(ctx context.Context, id string) (ProgramOutcome, error)
	ListProgramOutcomes(ctx context.Context, programID string) ([]ProgramOutcome, error)
	DeleteProgramOutcome(ctx context.Context, id string) error

	PutCourse(ctx context.Context, c Course) error
	GetCourse(ctx context.Context, id string) (Course, error)
	ListCourses(ctx context.Context, programID string) ([]Course, error)
	ListCoursesByLecturer(ctx context.Context, lecturerID string) ([]Course, error)
	// ListCourseIDs returns the courses taught to the given program at the
	// given grade level; this is the membership rule enrollment derives from.
	ListCourseIDs(ctx context.Context, programID string, year int) ([]string, error)
	DeleteCourse(ctx context.Context, id string) error

	PutLearningOutcome(ctx context.Context, lo LearningOutcome) error
	GetLearningOutcome(ctx context.Context, id string) (LearningOutcome, error)
	// ListLearningOutcomes returns a course's LOs ordered by code.
	ListLearningOutcomes(ctx context.Context, courseID string) ([]LearningOutcome, error)
	DeleteLearningOutcome(ctx context.Context, id string) error

	PutAssessment(ctx context.Context, a Assessment) error
	GetAssessment(ctx context.Context, id string) (Assessment, error)
	// ListAssessments returns a course's assessments ordered by (date, name).
	ListAssessments(ctx context.Context, courseID string) ([]Assessment, error)
	DeleteAssessment(ctx context.Context, id string) error

	UpsertLOMapping(ctx context.Context, m AssessmentLOMapping) error
	DeleteLOMapping(ctx context.Context, assessmentID, loID string) error
	// ListLOMappings returns an assessment's LO edges ordered by LO code.
	ListLOMappings(ctx context.Context, assessmentID string) ([]AssessmentLOMapping, error)

	UpsertPOMapping(ctx context.Context, m LOPOMapping) error
	DeletePOMapping(ctx context.Context, loID, poID string) error
	ListPOMappings(ctx context.Context, loID string) ([]LOPOMapping, error)

	UpsertResult(ctx context.Context, r StudentAssessmentResult) error
	ListResults(ctx context.Context, assessmentID string) ([]StudentAssessmentResult, error)
	// StudentScores returns the student's graded raw scores keyed by
	// assessment ID for one course. Ungraded (null) rows are omitted, so
	// key absence means "no defined score".
	StudentScores(ctx context.Context, studentID, courseID string) (map[string]decimal.Decimal, error)

	PutUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error

	// ReplaceEnrollments atomically replaces the student's entire
	// enrollment set. It never patches incrementally.
	ReplaceEnrollments(ctx context.Context, studentID string, courseIDs []string) error
	ListEnrollments(ctx context.Context, studentID string) ([]string, error)
	ListEnrolledStudents(ctx context.Context, courseID string) ([]User, error)
}
