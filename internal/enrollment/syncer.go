// Package enrollment keeps a student's derived course membership consistent
// with their profile. Membership is a pure function of (role, program,
// grade); every profile write triggers a full recompute-and-replace.
package enrollment

import (
	"context"
	"fmt"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
)

// Store is the slice of the catalog the syncer needs. ReplaceEnrollments
// must replace the student's whole set atomically; catalog.SQLStore does it
// in one transaction.
type Store interface {
	GetUser(ctx context.Context, id string) (catalog.User, error)
	ListCourseIDs(ctx context.Context, programID string, year int) ([]string, error)
	ReplaceEnrollments(ctx context.Context, studentID string, courseIDs []string) error
}

type Syncer struct {
	Store Store
}

func New(store Store) *Syncer {
	return &Syncer{Store: store}
}

// Sync recomputes the user's enrollment set from their current profile:
//   - role other than student        -> empty set
//   - student with program or grade unset -> empty set
//   - otherwise                      -> all courses matching program + grade
//
// The replacement is idempotent and never patches incrementally, so
// re-running with an unchanged profile yields the same set.
func (s *Syncer) Sync(ctx context.Context, userID string) error {
	u, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("sync enrollment: %w", err)
	}

	if u.Role != catalog.RoleStudent || u.ProgramID == "" || u.Grade == 0 {
		return s.Store.ReplaceEnrollments(ctx, u.ID, nil)
	}

	courseIDs, err := s.Store.ListCourseIDs(ctx, u.ProgramID, u.Grade)
	if err != nil {
		return fmt.Errorf("sync enrollment: %w", err)
	}
	return s.Store.ReplaceEnrollments(ctx, u.ID, courseIDs)
}
