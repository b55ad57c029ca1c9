package domain

import "time"

type Feedback struct {
	FeedbackID string    `json:"id" dynamodbav:"feedback_id"`
	UserEmail  string    `json:"user_email" dynamodbav:"user_email"`
	Category   string    `json:"category" dynamodbav:"category"`
	Message    string    `json:"message" dynamodbav:"message"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
}

type SubmitFeedbackRequest struct {
	Category string `json:"category"`
	Message  string `json:"message" validate:"required,max=4000"`
}
