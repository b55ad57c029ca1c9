package domain

// TopicAllUsers is the broadcast topic every registered device is subscribed to.
const TopicAllUsers = "all_users"

// PushMessage is a provider-neutral push notification. Exactly one of Topic or Token is set.
type PushMessage struct {
	Topic string
	Token string
	Title string
	Body  string
	Data  map[string]string

	ClickAction string
	// APNSAlert adds an explicit aps alert with default sound and content-available.
	APNSAlert bool
}

// BroadcastRequest is the admin "global notification" payload. Title is used as the category.
type BroadcastRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type SimpleNotificationRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

type SimpleNotificationResult struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

type FeedbackReplyRequest struct {
	UserEmail string `json:"userEmail" validate:"required,email"`
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body" validate:"required"`
}
