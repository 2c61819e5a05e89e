// Package attainment walks the Assessment→LO→PO weighted mapping graph for
// one course and turns a student's raw scores into per-assessment, per-LO
// and per-PO attainment figures.
package attainment

import (
	"context"

	"github.com/Dyenisus/LOMS-Learning-Outcome-Management-System/internal/catalog"
	"github.com/shopspring/decimal"
)

// Store is the slice of the catalog the graph loader and report builder
// need. catalog.Store satisfies it.
type Store interface {
	GetCourse(ctx context.Context, id string) (catalog.Course, error)
	GetUser(ctx context.Context, id string) (catalog.User, error)
	ListAssessments(ctx context.Context, courseID string) ([]catalog.Assessment, error)
	ListLOMappings(ctx context.Context, assessmentID string) ([]catalog.AssessmentLOMapping, error)
	ListPOMappings(ctx context.Context, loID string) ([]catalog.LOPOMapping, error)
	StudentScores(ctx context.Context, studentID, courseID string) (map[string]decimal.Decimal, error)
}

type POEdge struct {
	ProgramOutcomeID string
	Weight           int
}

type LOEdge struct {
	LearningOutcomeID string
	Weight            int
	POEdges           []POEdge
}

type Node struct {
	Assessment catalog.Assessment
	LOEdges    []LOEdge
}

// WeightGraph is the in-memory traversal structure for one course:
// assessments ordered by (date, name), LO edges ordered by LO code, each LO
// annotated with its PO edges. An assessment with no LO edges and an LO with
// no PO edges are both legal; they just contribute nothing downstream.
type WeightGraph struct {
	CourseID string
	Nodes    []Node
}

// LoadWeightGraph assembles the weight graph for courseID. A missing course
// surfaces as catalog.ErrNotFound.
func LoadWeightGraph(ctx context.Context, store Store, courseID string) (WeightGraph, error) {
	if _, err := store.GetCourse(ctx, courseID); err != nil {
		return WeightGraph{}, err
	}
	assessments, err := store.ListAssessments(ctx, courseID)
	if err != nil {
		return WeightGraph{}, err
	}

	g := WeightGraph{CourseID: courseID, Nodes: make([]Node, 0, len(assessments))}
	poEdges := map[string][]POEdge{} // loID -> edges, shared across assessments

	for _, a := range assessments {
		loMaps, err := store.ListLOMappings(ctx, a.ID)
		if err != nil {
			return WeightGraph{}, err
		}
		node := Node{Assessment: a, LOEdges: make([]LOEdge, 0, len(loMaps))}
		for _, m := range loMaps {
			edges, ok := poEdges[m.LearningOutcomeID]
			if !ok {
				poMaps, err := store.ListPOMappings(ctx, m.LearningOutcomeID)
				if err != nil {
					return WeightGraph{}, err
				}
				edges = make([]POEdge, 0, len(poMaps))
				for _, pm := range poMaps {
					edges = append(edges, POEdge{ProgramOutcomeID: pm.ProgramOutcomeID, Weight: pm.Weight})
				}
				poEdges[m.LearningOutcomeID] = edges
			}
			node.LOEdges = append(node.LOEdges, LOEdge{
				LearningOutcomeID: m.LearningOutcomeID,
				Weight:            m.Weight,
				POEdges:           edges,
			})
		}
		g.Nodes = append(g.Nodes, node)
	}
	return g, nil
}
