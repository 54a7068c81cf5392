package firestore

import (
	"time"

	"github.com/brandonlee4284/liftx-server/pkg/types"
)

// Helper to safely get string from map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Helper to safely get float from map (Firestore stores numbers as int64,
// float64 or int depending on how they were written)
func getFloat(m map[string]interface{}, key string) float64 {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int64:
			return float64(n)
		case int:
			return float64(n)
		}
	}
	return 0
}

// Helper to safely get time from map (handles time.Time from Firestore)
func getTime(m map[string]interface{}, key string) time.Time {
	if v, ok := m[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// --- Demographics Converters ---

func DemographicsToFirestore(d *types.Demographics) map[string]interface{} {
	return map[string]interface{}{
		"bodyweight_lb": d.BodyweightLb,
		"age_years":     d.AgeYears,
		"gender":        string(d.Gender),
	}
}

func FirestoreToDemographics(m map[string]interface{}) *types.Demographics {
	return &types.Demographics{
		BodyweightLb: getFloat(m, "bodyweight_lb"),
		AgeYears:     getFloat(m, "age_years"),
		Gender:       types.Gender(getString(m, "gender")),
	}
}

// --- Workout Converters ---

func WorkoutToFirestore(w *types.WorkoutDoc) map[string]interface{} {
	m := map[string]interface{}{
		"updated_at": w.UpdatedAt,
	}

	exercises := make(map[string]interface{}, len(w.Exercises))
	for name, stat := range w.Exercises {
		sets := make([]interface{}, len(stat.TotalSets))
		for i, t := range stat.TotalSets {
			sets[i] = t
		}
		exercises[name] = map[string]interface{}{
			"total_sets": sets,
			"rep_max":    stat.RepMax,
			"score":      stat.Score,
			"change":     stat.Change,
		}
	}
	m["exercises"] = exercises

	if w.Overall != nil {
		m["overall"] = categoryScoresToFirestore(w.Overall)
	}

	return m
}

func FirestoreToWorkout(m map[string]interface{}) *types.WorkoutDoc {
	w := &types.WorkoutDoc{
		Exercises: make(map[string]*types.ExerciseStat),
		UpdatedAt: getTime(m, "updated_at"),
	}

	if exercises, ok := m["exercises"].(map[string]interface{}); ok {
		for name, raw := range exercises {
			sMap, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			stat := &types.ExerciseStat{
				RepMax: getFloat(sMap, "rep_max"),
				Score:  getFloat(sMap, "score"),
				Change: getFloat(sMap, "change"),
			}
			if sets, ok := sMap["total_sets"].([]interface{}); ok {
				stat.TotalSets = make([]time.Time, 0, len(sets))
				for _, v := range sets {
					if t, ok := v.(time.Time); ok {
						stat.TotalSets = append(stat.TotalSets, t)
					}
				}
			}
			w.Exercises[name] = stat
		}
	}

	if overall, ok := m["overall"].(map[string]interface{}); ok {
		w.Overall = firestoreToCategoryScores(overall)
	}

	return w
}

// --- DisplayScore Converters ---

func DisplayScoreToFirestore(d *types.DisplayScore) map[string]interface{} {
	return map[string]interface{}{
		"user_id":   d.UserID,
		"scores":    categoryScoresToFirestore(d.Scores),
		"synced_at": d.SyncedAt,
	}
}

func FirestoreToDisplayScore(m map[string]interface{}) *types.DisplayScore {
	d := &types.DisplayScore{
		UserID:   getString(m, "user_id"),
		Scores:   make(map[string]types.CategoryScore),
		SyncedAt: getTime(m, "synced_at"),
	}
	if scores, ok := m["scores"].(map[string]interface{}); ok {
		d.Scores = firestoreToCategoryScores(scores)
	}
	return d
}

func categoryScoresToFirestore(scores map[string]types.CategoryScore) map[string]interface{} {
	out := make(map[string]interface{}, len(scores))
	for category, cs := range scores {
		out[category] = map[string]interface{}{
			"score":  cs.Score,
			"change": cs.Change,
		}
	}
	return out
}

func firestoreToCategoryScores(m map[string]interface{}) map[string]types.CategoryScore {
	out := make(map[string]types.CategoryScore, len(m))
	for category, raw := range m {
		if cMap, ok := raw.(map[string]interface{}); ok {
			out[category] = types.CategoryScore{
				Score:  getFloat(cMap, "score"),
				Change: getFloat(cMap, "change"),
			}
		}
	}
	return out
}

// --- Execution Record ---

func ExecutionToFirestore(e *types.ExecutionRecord) map[string]interface{} {
	return map[string]interface{}{
		"execution_id":  e.ExecutionID,
		"service":       e.Service,
		"status":        string(e.Status),
		"user_id":       e.UserID,
		"trigger_type":  e.TriggerType,
		"start_time":    e.StartTime,
		"end_time":      e.EndTime,
		"error_message": e.ErrorMessage,
	}
}

func FirestoreToExecution(m map[string]interface{}) *types.ExecutionRecord {
	return &types.ExecutionRecord{
		ExecutionID:  getString(m, "execution_id"),
		Service:      getString(m, "service"),
		Status:       types.ExecutionStatus(getString(m, "status")),
		UserID:       getString(m, "user_id"),
		TriggerType:  getString(m, "trigger_type"),
		StartTime:    getTime(m, "start_time"),
		EndTime:      getTime(m, "end_time"),
		ErrorMessage: getString(m, "error_message"),
	}
}
