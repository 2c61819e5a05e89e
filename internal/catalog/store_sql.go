package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) PutProgram(ctx context.Context, p Program) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO programs (id,name) VALUES ($1,$2)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`, p.ID, p.Name)
	return err
}

func (s *SQLStore) GetProgram(ctx context.Context, id string) (Program, error) {
	var p Program
	err := s.db.QueryRowContext(ctx, `SELECT id,name FROM programs WHERE id=$1`, id).
		Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Program{}, fmt.Errorf("program %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (s *SQLStore) ListPrograms(ctx context.Context) ([]Program, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name FROM programs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Program
	for rows.Next() {
		var p Program
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutProgramOutcome(ctx context.Context, po ProgramOutcome) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO program_outcomes (id,program_id,code,description,ord,active)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET code=EXCLUDED.code, description=EXCLUDED.description,
			ord=EXCLUDED.ord, active=EXCLUDED.active`,
		po.ID, po.ProgramID, po.Code, po.Description, po.Order, po.Active)
	return err
}

func (s *SQLStore) GetProgramOutcome(ctx context.Context, id string) (ProgramOutcome, error) {
	var po ProgramOutcome
	err := s.db.QueryRowContext(ctx,
		`SELECT id,program_id,code,description,ord,active FROM program_outcomes WHERE id=$1`, id).
		Scan(&po.ID, &po.ProgramID, &po.Code, &po.Description, &po.Order, &po.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return ProgramOutcome{}, fmt.Errorf("program outcome %s: %w", id, ErrNotFound)
	}
	return po, err
}

func (s *SQLStore) ListProgramOutcomes(ctx context.Context, programID string) ([]ProgramOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,program_id,code,description,ord,active FROM program_outcomes
		  WHERE program_id=$1 ORDER BY ord, code`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProgramOutcome
	for rows.Next() {
		var po ProgramOutcome
		if err := rows.Scan(&po.ID, &po.ProgramID, &po.Code, &po.Description, &po.Order, &po.Active); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteProgramOutcome(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "program_outcomes", id)
}

func (s *SQLStore) PutCourse(ctx context.Context, c Course) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO courses
		(id,program_id,code,name,year,semester,ects,credit,lecturer_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET program_id=EXCLUDED.program_id, code=EXCLUDED.code,
			name=EXCLUDED.name, year=EXCLUDED.year, semester=EXCLUDED.semester,
			ects=EXCLUDED.ects, credit=EXCLUDED.credit, lecturer_id=EXCLUDED.lecturer_id`,
		c.ID, c.ProgramID, c.Code, c.Name, c.Year, c.Semester, c.ECTS, c.Credit, nullStr(c.LecturerID))
	return err
}

func (s *SQLStore) GetCourse(ctx context.Context, id string) (Course, error) {
	var c Course
	var lecturer sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT id,program_id,code,name,year,semester,ects,credit,lecturer_id
		FROM courses WHERE id=$1`, id).
		Scan(&c.ID, &c.ProgramID, &c.Code, &c.Name, &c.Year, &c.Semester, &c.ECTS, &c.Credit, &lecturer)
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	c.LecturerID = lecturer.String
	return c, err
}

func (s *SQLStore) ListCourses(ctx context.Context, programID string) ([]Course, error) {
	q := `SELECT id,program_id,code,name,year,semester,ects,credit,lecturer_id
		FROM courses ORDER BY semester, code`
	args := []any{}
	if programID != "" {
		q = `SELECT id,program_id,code,name,year,semester,ects,credit,lecturer_id
			FROM courses WHERE program_id=$1 ORDER BY semester, code`
		args = append(args, programID)
	}
	return s.queryCourses(ctx, q, args...)
}

func (s *SQLStore) ListCoursesByLecturer(ctx context.Context, lecturerID string) ([]Course, error) {
	return s.queryCourses(ctx, `SELECT id,program_id,code,name,year,semester,ects,credit,lecturer_id
		FROM courses WHERE lecturer_id=$1 ORDER BY semester, code`, lecturerID)
}

func (s *SQLStore) ListCourseIDs(ctx context.Context, programID string, year int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM courses WHERE program_id=$1 AND year=$2 ORDER BY semester, code`,
		programID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *SQLStore) queryCourses(ctx context.Context, q string, args ...any) ([]Course, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Course
	for rows.Next() {
		var c Course
		var lecturer sql.NullString
		if err := rows.Scan(&c.ID, &c.ProgramID, &c.Code, &c.Name, &c.Year, &c.Semester,
			&c.ECTS, &c.Credit, &lecturer); err != nil {
			return nil, err
		}
		c.LecturerID = lecturer.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteCourse(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "courses", id)
}

func (s *SQLStore) PutLearningOutcome(ctx context.Context, lo LearningOutcome) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO learning_outcomes (id,course_id,code,description,ord,active)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET code=EXCLUDED.code, description=EXCLUDED.description,
			ord=EXCLUDED.ord, active=EXCLUDED.active`,
		lo.ID, lo.CourseID, lo.Code, lo.Description, lo.Order, lo.Active)
	return err
}

func (s *SQLStore) GetLearningOutcome(ctx context.Context, id string) (LearningOutcome, error) {
	var lo LearningOutcome
	err := s.db.QueryRowContext(ctx,
		`SELECT id,course_id,code,description,ord,active FROM learning_outcomes WHERE id=$1`, id).
		Scan(&lo.ID, &lo.CourseID, &lo.Code, &lo.Description, &lo.Order, &lo.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return LearningOutcome{}, fmt.Errorf("learning outcome %s: %w", id, ErrNotFound)
	}
	return lo, err
}

func (s *SQLStore) ListLearningOutcomes(ctx context.Context, courseID string) ([]LearningOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,course_id,code,description,ord,active FROM learning_outcomes
		  WHERE course_id=$1 ORDER BY code`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LearningOutcome
	for rows.Next() {
		var lo LearningOutcome
		if err := rows.Scan(&lo.ID, &lo.CourseID, &lo.Code, &lo.Description, &lo.Order, &lo.Active); err != nil {
			return nil, err
		}
		out = append(out, lo)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteLearningOutcome(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "learning_outcomes", id)
}

func (s *SQLStore) PutAssessment(ctx context.Context, a Assessment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO assessments
		(id,course_id,type,name,weight_in_course,max_score,date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET type=EXCLUDED.type, name=EXCLUDED.name,
			weight_in_course=EXCLUDED.weight_in_course, max_score=EXCLUDED.max_score,
			date=EXCLUDED.date`,
		a.ID, a.CourseID, string(a.Type), a.Name, a.WeightInCourse, a.MaxScore.String(), a.Date)
	return err
}

func (s *SQLStore) GetAssessment(ctx context.Context, id string) (Assessment, error) {
	var a Assessment
	var typ string
	err := s.db.QueryRowContext(ctx, `SELECT id,course_id,type,name,weight_in_course,max_score,date
		FROM assessments WHERE id=$1`, id).
		Scan(&a.ID, &a.CourseID, &typ, &a.Name, &a.WeightInCourse, &a.MaxScore, &a.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return Assessment{}, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	a.Type = AssessmentType(typ)
	return a, err
}

func (s *SQLStore) ListAssessments(ctx context.Context, courseID string) ([]Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,course_id,type,name,weight_in_course,max_score,date
		FROM assessments WHERE course_id=$1 ORDER BY date, name`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Assessment
	for rows.Next() {
		var a Assessment
		var typ string
		if err := rows.Scan(&a.ID, &a.CourseID, &typ, &a.Name, &a.WeightInCourse, &a.MaxScore, &a.Date); err != nil {
			return nil, err
		}
		a.Type = AssessmentType(typ)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteAssessment(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "assessments", id)
}

func (s *SQLStore) UpsertLOMapping(ctx context.Context, e AssessmentLOMapping) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO assessment_lo_mappings
		(assessment_id,learning_outcome_id,weight_in_assessment) VALUES ($1,$2,$3)
		ON CONFLICT (assessment_id,learning_outcome_id)
		DO UPDATE SET weight_in_assessment=EXCLUDED.weight_in_assessment`,
		e.AssessmentID, e.LearningOutcomeID, e.Weight)
	return err
}

func (s *SQLStore) DeleteLOMapping(ctx context.Context, assessmentID, loID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM assessment_lo_mappings WHERE assessment_id=$1 AND learning_outcome_id=$2`,
		assessmentID, loID)
	return err
}

func (s *SQLStore) ListLOMappings(ctx context.Context, assessmentID string) ([]AssessmentLOMapping, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT m.assessment_id, m.learning_outcome_id, m.weight_in_assessment
		FROM assessment_lo_mappings m
		JOIN learning_outcomes lo ON lo.id = m.learning_outcome_id
		WHERE m.assessment_id=$1 ORDER BY lo.code`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AssessmentLOMapping
	for rows.Next() {
		var e AssessmentLOMapping
		if err := rows.Scan(&e.AssessmentID, &e.LearningOutcomeID, &e.Weight); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertPOMapping(ctx context.Context, e LOPOMapping) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO lo_po_mappings
		(learning_outcome_id,program_outcome_id,weight) VALUES ($1,$2,$3)
		ON CONFLICT (learning_outcome_id,program_outcome_id)
		DO UPDATE SET weight=EXCLUDED.weight`,
		e.LearningOutcomeID, e.ProgramOutcomeID, e.Weight)
	return err
}

func (s *SQLStore) DeletePOMapping(ctx context.Context, loID, poID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM lo_po_mappings WHERE learning_outcome_id=$1 AND program_outcome_id=$2`,
		loID, poID)
	return err
}

func (s *SQLStore) ListPOMappings(ctx context.Context, loID string) ([]LOPOMapping, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT m.learning_outcome_id, m.program_outcome_id, m.weight
		FROM lo_po_mappings m
		JOIN program_outcomes po ON po.id = m.program_outcome_id
		WHERE m.learning_outcome_id=$1 ORDER BY po.code`, loID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LOPOMapping
	for rows.Next() {
		var e LOPOMapping
		if err := rows.Scan(&e.LearningOutcomeID, &e.ProgramOutcomeID, &e.Weight); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertResult(ctx context.Context, r StudentAssessmentResult) error {
	var raw any
	if r.RawScore.Valid {
		raw = r.RawScore.Decimal.String()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO results (student_id,assessment_id,raw_score)
		VALUES ($1,$2,$3)
		ON CONFLICT (student_id,assessment_id) DO UPDATE SET raw_score=EXCLUDED.raw_score`,
		r.StudentID, r.AssessmentID, raw)
	return err
}

func (s *SQLStore) ListResults(ctx context.Context, assessmentID string) ([]StudentAssessmentResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT student_id,assessment_id,raw_score
		FROM results WHERE assessment_id=$1 ORDER BY student_id`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StudentAssessmentResult
	for rows.Next() {
		var r StudentAssessmentResult
		if err := rows.Scan(&r.StudentID, &r.AssessmentID, &r.RawScore); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) StudentScores(ctx context.Context, studentID, courseID string) (map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT r.assessment_id, r.raw_score
		FROM results r
		JOIN assessments a ON a.id = r.assessment_id
		WHERE r.student_id=$1 AND a.course_id=$2 AND r.raw_score IS NOT NULL`,
		studentID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	scores := map[string]decimal.Decimal{}
	for rows.Next() {
		var aid string
		var raw decimal.Decimal
		if err := rows.Scan(&aid, &raw); err != nil {
			return nil, err
		}
		scores[aid] = raw
	}
	return scores, rows.Err()
}

func (s *SQLStore) PutUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users
		(id,username,password_hash,role,student_number,program_id,grade)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET username=EXCLUDED.username,
			password_hash=EXCLUDED.password_hash, role=EXCLUDED.role,
			student_number=EXCLUDED.student_number, program_id=EXCLUDED.program_id,
			grade=EXCLUDED.grade`,
		u.ID, u.Username, u.PasswordHash, string(u.Role), u.StudentNumber,
		nullStr(u.ProgramID), nullInt(u.Grade))
	return err
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (User, error) {
	return s.getUser(ctx, `SELECT id,username,password_hash,role,student_number,program_id,grade
		FROM users WHERE id=$1`, id)
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return s.getUser(ctx, `SELECT id,username,password_hash,role,student_number,program_id,grade
		FROM users WHERE username=$1`, username)
}

func (s *SQLStore) getUser(ctx context.Context, q, arg string) (User, error) {
	var u User
	var role string
	var program sql.NullString
	var grade sql.NullInt64
	err := s.db.QueryRowContext(ctx, q, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.StudentNumber, &program, &grade)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %s: %w", arg, ErrNotFound)
	}
	u.Role = Role(role)
	u.ProgramID = program.String
	u.Grade = int(grade.Int64)
	return u, err
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,username,password_hash,role,student_number,program_id,grade
		FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (s *SQLStore) DeleteUser(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "users", id)
}

// ReplaceEnrollments rewrites the student's full enrollment set in one
// transaction, so concurrent profile saves for the same student never leave
// a partially replaced set visible.
func (s *SQLStore) ReplaceEnrollments(ctx context.Context, studentID string, courseIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE student_id=$1`, studentID); err != nil {
		return err
	}
	for _, cid := range courseIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO enrollments (student_id,course_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			studentID, cid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListEnrollments(ctx context.Context, studentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT course_id FROM enrollments WHERE student_id=$1 ORDER BY course_id`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListEnrolledStudents(ctx context.Context, courseID string) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT u.id,u.username,u.password_hash,u.role,u.student_number,u.program_id,u.grade
		FROM users u
		JOIN enrollments e ON e.student_id = u.id
		WHERE e.course_id=$1 ORDER BY u.username`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]User, error) {
	var out []User
	for rows.Next() {
		var u User
		var role string
		var program sql.NullString
		var grade sql.NullInt64
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.StudentNumber, &program, &grade); err != nil {
			return nil, err
		}
		u.Role = Role(role)
		u.ProgramID = program.String
		u.Grade = int(grade.Int64)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}
	return nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
