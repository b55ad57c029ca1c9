package domain

import (
	"strings"
	"time"
)

// OTPRecord is the single pending one-time passcode for an identity.
// PK: identity. ExpiresAt is stored as Unix seconds and doubles as the DynamoDB TTL attribute.
type OTPRecord struct {
	Identity  string    `json:"identity" dynamodbav:"identity"`
	Code      string    `json:"-" dynamodbav:"code"`
	IssueID   string    `json:"issue_id" dynamodbav:"issue_id"` // changes on every issuance; used for compare-and-set
	Attempts  int       `json:"attempts" dynamodbav:"attempts"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at,unixtime"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at,unixtime"`
}

// ExpiredAt reports whether the record is no longer valid at t.
func (r *OTPRecord) ExpiredAt(t time.Time) bool {
	return t.After(r.ExpiresAt)
}

// NormalizeIdentity lower-cases and trims an email address so that
// "A@B.COM " and "a@b.com" address the same record.
func NormalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
