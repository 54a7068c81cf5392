// Package strength holds the pure score math: estimated one-rep max from a
// logged set, and the percentile score that places it on the population model.
package strength

import (
	"fmt"
	"math"

	"github.com/brandonlee4284/liftx-server/pkg/model"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

// MaxReps is the highest rep count the Brzycki formula is defined for. At 37
// the denominator hits zero and beyond it the estimate goes negative.
const MaxReps = 36

// EstimateOneRepMax estimates a one-rep max from a set of weight x reps using
// the Brzycki formula: max = weight * (36 / (37 - reps)). At reps == 1 the
// estimate is exactly the weight lifted.
func EstimateOneRepMax(weightLb float64, reps int) (float64, error) {
	if reps < 1 || reps > MaxReps {
		return 0, fmt.Errorf("reps must be in [1,%d], got %d: %w", MaxReps, reps, types.ErrInvalidInput)
	}
	if weightLb < 0 || math.IsNaN(weightLb) || math.IsInf(weightLb, 0) {
		return 0, fmt.Errorf("weight must be a non-negative number, got %v: %w", weightLb, types.ErrInvalidInput)
	}
	return weightLb * (36.0 / (37.0 - float64(reps))), nil
}

// PolynomialTerms builds the feature vector of a 2-variable polynomial of the
// given degree: x^(i-j) * y^j for all 0 <= j <= i <= degree, row-major over i
// then j. This enumeration order is the serialization contract with the
// dataset's coefficient arrays and must never change.
func PolynomialTerms(degree int, x, y float64) []float64 {
	terms := make([]float64, 0, model.TermCount(degree))
	for i := 0; i <= degree; i++ {
		for j := 0; j <= i; j++ {
			terms = append(terms, math.Pow(x, float64(i-j))*math.Pow(y, float64(j)))
		}
	}
	return terms
}

func evaluate(r model.Regression, degree int, x, y float64) float64 {
	terms := PolynomialTerms(degree, x, y)
	score := r.Intercept
	for k, t := range terms {
		score += r.Coefficients[k] * t
	}
	return score
}

// PercentileScore maps an estimated 1RM through the bodyweight and age models
// for one exercise and gender: the result is the even blend of both, on a
// nominal 0-1000 scale. Scores can exceed the nominal scale; no clamping is
// applied because downstream displays simply format to one decimal.
func PercentileScore(estMax float64, d types.Demographics, degree int, models *model.GenderModels) float64 {
	bwScore := evaluate(models.ByBodyweight, degree, d.BodyweightLb, estMax)
	ageScore := evaluate(models.ByAge, degree, d.AgeYears, estMax)
	return 0.5*bwScore + 0.5*ageScore
}

// Score composes the full calculation for one logged set: model lookup, 1RM
// estimate, and percentile score against the given demographics.
func Score(m *model.Model, exercise string, d types.Demographics, weightLb float64, reps int) (repMax, score float64, err error) {
	models, err := m.Lookup(exercise, d.Gender)
	if err != nil {
		return 0, 0, err
	}
	repMax, err = EstimateOneRepMax(weightLb, reps)
	if err != nil {
		return 0, 0, err
	}
	return repMax, PercentileScore(repMax, d, m.Degree(), models), nil
}
