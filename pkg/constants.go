package shared

const (
	ProjectID = "liftx-project" // Can be overridden by env var in main if needed

	TopicWorkoutLogged = "topic-workout-logged"

	CollectionUsers      = "users"
	CollectionExecutions = "executions"

	SubcollectionPrivate = "private"
	SubcollectionPublic  = "public"

	DocDemographics = "demographics"
	DocWorkout      = "workout"
	DocDisplay      = "display"
)
