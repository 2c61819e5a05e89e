package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// memoryStore backs tests and offline demos; the SQL store is the real one.
type memoryStore struct {
	mu          sync.RWMutex
	programs    map[string]Program
	pos         map[string]ProgramOutcome
	courses     map[string]Course
	los         map[string]LearningOutcome
	assessments map[string]Assessment
	loMaps      map[string]map[string]AssessmentLOMapping // assessmentID -> loID -> edge
	poMaps      map[string]map[string]LOPOMapping         // loID -> poID -> edge
	results     map[string]map[string]StudentAssessmentResult // assessmentID -> studentID -> row
	users       map[string]User
	enrollments map[string]map[string]bool // studentID -> courseID set
}

func NewInMemoryStore() Store {
	return &memoryStore{
		programs:    map[string]Program{},
		pos:         map[string]ProgramOutcome{},
		courses:     map[string]Course{},
		los:         map[string]LearningOutcome{},
		assessments: map[string]Assessment{},
		loMaps:      map[string]map[string]AssessmentLOMapping{},
		poMaps:      map[string]map[string]LOPOMapping{},
		results:     map[string]map[string]StudentAssessmentResult{},
		users:       map[string]User{},
		enrollments: map[string]map[string]bool{},
	}
}

func (m *memoryStore) PutProgram(_ context.Context, p Program) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.programs[p.ID] = p
	return nil
}

func (m *memoryStore) GetProgram(_ context.Context, id string) (Program, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.programs[id]
	if !ok {
		return Program{}, ErrNotFound
	}
	return p, nil
}

func (m *memoryStore) ListPrograms(_ context.Context) ([]Program, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Program, 0, len(m.programs))
	for _, p := range m.programs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryStore) PutProgramOutcome(_ context.Context, po ProgramOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos[po.ID] = po
	return nil
}

func (m *memoryStore) GetProgramOutcome(_ context.Context, id string) (ProgramOutcome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	po, ok := m.pos[id]
	if !ok {
		return ProgramOutcome{}, ErrNotFound
	}
	return po, nil
}

func (m *memoryStore) ListProgramOutcomes(_ context.Context, programID string) ([]ProgramOutcome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ProgramOutcome
	for _, po := range m.pos {
		if po.ProgramID == programID {
			out = append(out, po)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (m *memoryStore) DeleteProgramOutcome(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pos[id]; !ok {
		return ErrNotFound
	}
	delete(m.pos, id)
	return nil
}

func (m *memoryStore) PutCourse(_ context.Context, c Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c
	return nil
}

func (m *memoryStore) GetCourse(_ context.Context, id string) (Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return Course{}, ErrNotFound
	}
	return c, nil
}

func (m *memoryStore) ListCourses(_ context.Context, programID string) ([]Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Course
	for _, c := range m.courses {
		if programID == "" || c.ProgramID == programID {
			out = append(out, c)
		}
	}
	sortCourses(out)
	return out, nil
}

func (m *memoryStore) ListCoursesByLecturer(_ context.Context, lecturerID string) ([]Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Course
	for _, c := range m.courses {
		if c.LecturerID == lecturerID {
			out = append(out, c)
		}
	}
	sortCourses(out)
	return out, nil
}

func (m *memoryStore) ListCourseIDs(_ context.Context, programID string, year int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []Course
	for _, c := range m.courses {
		if c.ProgramID == programID && c.Year == year {
			matched = append(matched, c)
		}
	}
	sortCourses(matched)
	out := make([]string, 0, len(matched))
	for _, c := range matched {
		out = append(out, c.ID)
	}
	return out, nil
}

func (m *memoryStore) DeleteCourse(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return ErrNotFound
	}
	delete(m.courses, id)
	for sid := range m.enrollments {
		delete(m.enrollments[sid], id)
	}
	return nil
}

func sortCourses(cs []Course) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Semester != cs[j].Semester {
			return cs[i].Semester < cs[j].Semester
		}
		return cs[i].Code < cs[j].Code
	})
}

func (m *memoryStore) PutLearningOutcome(_ context.Context, lo LearningOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.los[lo.ID] = lo
	return nil
}

func (m *memoryStore) GetLearningOutcome(_ context.Context, id string) (LearningOutcome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lo, ok := m.los[id]
	if !ok {
		return LearningOutcome{}, ErrNotFound
	}
	return lo, nil
}

func (m *memoryStore) ListLearningOutcomes(_ context.Context, courseID string) ([]LearningOutcome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []LearningOutcome
	for _, lo := range m.los {
		if lo.CourseID == courseID {
			out = append(out, lo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memoryStore) DeleteLearningOutcome(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.los[id]; !ok {
		return ErrNotFound
	}
	delete(m.los, id)
	delete(m.poMaps, id)
	for aid := range m.loMaps {
		delete(m.loMaps[aid], id)
	}
	return nil
}

func (m *memoryStore) PutAssessment(_ context.Context, a Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessments[a.ID] = a
	return nil
}

func (m *memoryStore) GetAssessment(_ context.Context, id string) (Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assessments[id]
	if !ok {
		return Assessment{}, ErrNotFound
	}
	return a, nil
}

func (m *memoryStore) ListAssessments(_ context.Context, courseID string) ([]Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Assessment
	for _, a := range m.assessments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *memoryStore) DeleteAssessment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assessments[id]; !ok {
		return ErrNotFound
	}
	delete(m.assessments, id)
	delete(m.loMaps, id)
	delete(m.results, id)
	return nil
}

func (m *memoryStore) UpsertLOMapping(_ context.Context, e AssessmentLOMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loMaps[e.AssessmentID] == nil {
		m.loMaps[e.AssessmentID] = map[string]AssessmentLOMapping{}
	}
	m.loMaps[e.AssessmentID][e.LearningOutcomeID] = e
	return nil
}

func (m *memoryStore) DeleteLOMapping(_ context.Context, assessmentID, loID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.loMaps[assessmentID], loID)
	return nil
}

func (m *memoryStore) ListLOMappings(_ context.Context, assessmentID string) ([]AssessmentLOMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]AssessmentLOMapping, 0, len(m.loMaps[assessmentID]))
	for _, e := range m.loMaps[assessmentID] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.los[out[i].LearningOutcomeID].Code < m.los[out[j].LearningOutcomeID].Code
	})
	return out, nil
}

func (m *memoryStore) UpsertPOMapping(_ context.Context, e LOPOMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.poMaps[e.LearningOutcomeID] == nil {
		m.poMaps[e.LearningOutcomeID] = map[string]LOPOMapping{}
	}
	m.poMaps[e.LearningOutcomeID][e.ProgramOutcomeID] = e
	return nil
}

func (m *memoryStore) DeletePOMapping(_ context.Context, loID, poID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.poMaps[loID], poID)
	return nil
}

func (m *memoryStore) ListPOMappings(_ context.Context, loID string) ([]LOPOMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]LOPOMapping, 0, len(m.poMaps[loID]))
	for _, e := range m.poMaps[loID] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.pos[out[i].ProgramOutcomeID].Code < m.pos[out[j].ProgramOutcomeID].Code
	})
	return out, nil
}

func (m *memoryStore) UpsertResult(_ context.Context, r StudentAssessmentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assessments[r.AssessmentID]; !ok {
		return ErrNotFound
	}
	if m.results[r.AssessmentID] == nil {
		m.results[r.AssessmentID] = map[string]StudentAssessmentResult{}
	}
	m.results[r.AssessmentID][r.StudentID] = r
	return nil
}

func (m *memoryStore) ListResults(_ context.Context, assessmentID string) ([]StudentAssessmentResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]StudentAssessmentResult, 0, len(m.results[assessmentID]))
	for _, r := range m.results[assessmentID] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (m *memoryStore) StudentScores(_ context.Context, studentID, courseID string) (map[string]decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scores := map[string]decimal.Decimal{}
	for aid, byStudent := range m.results {
		a, ok := m.assessments[aid]
		if !ok || a.CourseID != courseID {
			continue
		}
		if r, ok := byStudent[studentID]; ok && r.RawScore.Valid {
			scores[aid] = r.RawScore.Decimal
		}
	}
	return scores, nil
}

func (m *memoryStore) PutUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memoryStore) GetUser(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *memoryStore) GetUserByUsername(_ context.Context, username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *memoryStore) ListUsers(_ context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memoryStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	delete(m.enrollments, id)
	return nil
}

func (m *memoryStore) ReplaceEnrollments(_ context.Context, studentID string, courseIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		set[id] = true
	}
	m.enrollments[studentID] = set
	return nil
}

func (m *memoryStore) ListEnrollments(_ context.Context, studentID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.enrollments[studentID]))
	for id := range m.enrollments[studentID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryStore) ListEnrolledStudents(_ context.Context, courseID string) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []User
	for sid, set := range m.enrollments {
		if set[courseID] {
			if u, ok := m.users[sid]; ok {
				out = append(out, u)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
