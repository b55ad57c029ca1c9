package dynamo

// DynamoDB attribute names used in key, condition and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldIdentity  = "identity"
	fieldIssueID   = "issue_id"
	fieldAttempts  = "attempts"
	fieldExpiresAt = "expires_at"
	fieldEmail     = "email"
	fieldFCMToken  = "fcm_token"
	fieldUpdatedAt = "updated_at"
)
