package dynamo

// DynamoDB attribute names used in update expressions across all repos.
const (
	fieldStatus    = "status"
	fieldUpdatedAt = "updated_at"
)
