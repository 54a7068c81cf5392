// model-inspect dumps the bundled percentile model and optionally scores a
// sample set against it, for sanity-checking dataset updates.
//
// Usage:
//
//	model-inspect                         # list modeled exercises
//	model-inspect -exercise "bench press" -gender male \
//	    -weight 135 -reps 12 -bodyweight 180 -age 25
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/brandonlee4284/liftx-server/pkg/model"
	"github.com/brandonlee4284/liftx-server/pkg/strength"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

func main() {
	exercise := flag.String("exercise", "", "exercise to score; empty lists all modeled exercises")
	gender := flag.String("gender", "male", "male or female")
	weight := flag.Float64("weight", 135, "set weight in lb")
	reps := flag.Int("reps", 5, "set reps")
	bodyweight := flag.Float64("bodyweight", 180, "bodyweight in lb")
	age := flag.Float64("age", 25, "age in years")
	flag.Parse()

	m, err := model.Load()
	if err != nil {
		log.Fatalf("load model: %v", err)
	}

	if *exercise == "" {
		fmt.Printf("dataset: degree %d, %d terms per polynomial\n\n", m.Degree(), model.TermCount(m.Degree()))
		for _, name := range m.Exercises() {
			group, _ := m.MuscleGroup(name)
			fmt.Printf("%-24s %s\n", name, group)
		}
		return
	}

	g, ok := types.ParseGender(*gender)
	if !ok {
		log.Fatalf("gender must be male or female, got %q", *gender)
	}

	d := types.Demographics{
		BodyweightLb: *bodyweight,
		AgeYears:     *age,
		Gender:       g,
	}
	repMax, score, err := strength.Score(m, *exercise, d, *weight, *reps)
	if err != nil {
		log.Fatalf("score: %v", err)
	}

	group, _ := m.MuscleGroup(*exercise)
	fmt.Printf("exercise:   %s (%s)\n", model.NormalizeName(*exercise), group)
	fmt.Printf("set:        %.1f lb x %d reps\n", *weight, *reps)
	fmt.Printf("est 1RM:    %.1f lb\n", repMax)
	fmt.Printf("score:      %.1f\n", score)
}
