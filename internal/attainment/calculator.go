package attainment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Report holds a student's attainment for one course. Key absence means the
// value is undefined (assessment not graded, outcome never fed), which is
// distinct from a recorded zero.
type Report struct {
	PerAssessment map[string]decimal.Decimal `json:"per_assessment"`
	PerLO         map[string]decimal.Decimal `json:"per_lo"`
	PerPO         map[string]decimal.Decimal `json:"per_po"`
}

// Compute is a pure function over the weight graph and a student's graded
// raw scores. Totals are final whole-course sums, independent of traversal
// order.
//
// All arithmetic is exact decimal: the only division is rawScore/maxScore,
// and percent weights scale by multiplication with the exact decimal w/100,
// so no further rounding compounds across the two mapping levels.
func Compute(g WeightGraph, scores map[string]decimal.Decimal) Report {
	rep := Report{
		PerAssessment: map[string]decimal.Decimal{},
		PerLO:         map[string]decimal.Decimal{},
		PerPO:         map[string]decimal.Decimal{},
	}

	for _, node := range g.Nodes {
		a := node.Assessment
		raw, graded := scores[a.ID]
		if !graded || a.MaxScore.IsZero() {
			// Not graded yet, or an unscorable assessment: no contribution,
			// not an error.
			continue
		}
		contribution := raw.Div(a.MaxScore).Mul(decimal.NewFromInt(int64(a.WeightInCourse)))
		rep.PerAssessment[a.ID] = contribution

		for _, loEdge := range node.LOEdges {
			loContrib := contribution.Mul(pct(loEdge.Weight))
			rep.PerLO[loEdge.LearningOutcomeID] = rep.PerLO[loEdge.LearningOutcomeID].Add(loContrib)

			for _, poEdge := range loEdge.POEdges {
				poContrib := loContrib.Mul(pct(poEdge.Weight))
				rep.PerPO[poEdge.ProgramOutcomeID] = rep.PerPO[poEdge.ProgramOutcomeID].Add(poContrib)
			}
		}
	}
	return rep
}

// pct is the exact decimal w/100 (e.g. 50 -> 0.50).
func pct(w int) decimal.Decimal {
	return decimal.New(int64(w), -2)
}

// ComputeAttainment loads the weight graph and the student's scores and
// computes the report. Missing course or student IDs surface as
// catalog.ErrNotFound; they never produce a silently empty report.
func ComputeAttainment(ctx context.Context, store Store, studentID, courseID string) (Report, error) {
	if _, err := store.GetUser(ctx, studentID); err != nil {
		return Report{}, err
	}
	g, err := LoadWeightGraph(ctx, store, courseID)
	if err != nil {
		return Report{}, err
	}
	scores, err := store.StudentScores(ctx, studentID, courseID)
	if err != nil {
		return Report{}, err
	}
	return Compute(g, scores), nil
}
