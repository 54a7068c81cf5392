// Package model holds the bundled percentile regression dataset: per exercise
// and gender, two degree-4 two-variable polynomial models (bodyweight-based
// and age-based) that place an estimated 1RM on a population scale.
//
// The coefficient ordering is a serialization contract with the dataset: all
// (i,j) pairs with 0 <= j <= i <= degree, row-major over i then j, matching
// the order the models were fit in. See strength.PolynomialTerms.
package model

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	shared "github.com/brandonlee4284/liftx-server/pkg"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

//go:embed dataset.json
var embeddedDataset []byte

// Regression is one fitted polynomial: intercept plus one coefficient per
// term of the fixed enumeration.
type Regression struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// GenderModels pairs the two regressions for one exercise and gender.
type GenderModels struct {
	ByBodyweight Regression `json:"byBodyweight"`
	ByAge        Regression `json:"byAge"`
}

// Entry is the full model record for one exercise.
type Entry struct {
	MuscleGroup types.MuscleGroup             `json:"muscleGroup"`
	Models      map[types.Gender]GenderModels `json:"models"`
}

type dataset struct {
	Degree    int              `json:"degree"`
	Exercises map[string]Entry `json:"exercises"`
}

// Model is the read-only lookup table, loaded once at process start.
type Model struct {
	degree    int
	exercises map[string]Entry
}

var folder = cases.Fold()

// NormalizeName canonicalizes an exercise name for lookup so that client
// spellings like "Bench Press" and "bench press" hit the same entry.
func NormalizeName(name string) string {
	s := folder.String(strings.TrimSpace(name))
	return strings.Join(strings.Fields(s), " ")
}

// TermCount returns the number of terms of a 2-variable polynomial of the
// given degree: all (i,j) with 0 <= j <= i <= degree.
func TermCount(degree int) int {
	return (degree + 1) * (degree + 2) / 2
}

// Load parses the embedded dataset.
func Load() (*Model, error) {
	return Parse(embeddedDataset)
}

// LoadFromBlob reads a dataset object from blob storage, for dataset updates
// without a redeploy. Falls back to Load when bucket or object is empty.
func LoadFromBlob(ctx context.Context, store shared.BlobStore, bucket, object string) (*Model, error) {
	if bucket == "" || object == "" {
		return Load()
	}
	raw, err := store.Read(ctx, bucket, object)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s/%s: %w", bucket, object, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a dataset. Every coefficient list must have
// exactly TermCount(degree) entries.
func Parse(raw []byte) (*Model, error) {
	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if ds.Degree <= 0 {
		return nil, fmt.Errorf("dataset degree must be positive, got %d", ds.Degree)
	}
	want := TermCount(ds.Degree)

	exercises := make(map[string]Entry, len(ds.Exercises))
	for name, entry := range ds.Exercises {
		if entry.MuscleGroup == "" {
			return nil, fmt.Errorf("exercise %q: missing muscle group", name)
		}
		for g, gm := range entry.Models {
			if got := len(gm.ByBodyweight.Coefficients); got != want {
				return nil, fmt.Errorf("exercise %q (%s, byBodyweight): %d coefficients, want %d", name, g, got, want)
			}
			if got := len(gm.ByAge.Coefficients); got != want {
				return nil, fmt.Errorf("exercise %q (%s, byAge): %d coefficients, want %d", name, g, got, want)
			}
		}
		exercises[NormalizeName(name)] = entry
	}

	return &Model{degree: ds.Degree, exercises: exercises}, nil
}

// Degree returns the polynomial degree the dataset was fit with.
func (m *Model) Degree() int {
	return m.degree
}

// Lookup returns the two regression models for an exercise and gender.
func (m *Model) Lookup(exercise string, gender types.Gender) (*GenderModels, error) {
	entry, ok := m.exercises[NormalizeName(exercise)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", exercise, types.ErrExerciseNotModeled)
	}
	gm, ok := entry.Models[gender]
	if !ok {
		return nil, fmt.Errorf("%q (%s): %w", exercise, gender, types.ErrExerciseNotModeled)
	}
	return &gm, nil
}

// MuscleGroup returns the muscle group an exercise belongs to.
func (m *Model) MuscleGroup(exercise string) (types.MuscleGroup, error) {
	entry, ok := m.exercises[NormalizeName(exercise)]
	if !ok {
		return "", fmt.Errorf("%q: %w", exercise, types.ErrExerciseNotModeled)
	}
	return entry.MuscleGroup, nil
}

// Has reports whether the exercise is modeled at all, used by the API to warn
// clients that a custom exercise will be logged but not scored.
func (m *Model) Has(exercise string) bool {
	_, ok := m.exercises[NormalizeName(exercise)]
	return ok
}

// Exercises lists all modeled exercise names, sorted.
func (m *Model) Exercises() []string {
	names := make([]string, 0, len(m.exercises))
	for name := range m.exercises {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
