package models

import "time"

// ChatRole identifies the author of a transcript entry.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in a user's chat transcript. Assistant messages
// carry the product tags the recommender derived from the query and the
// product found for each tag.
type ChatMessage struct {
	Role        ChatRole           `json:"role"`
	Content     string             `json:"content"`
	ProductTags []string           `json:"productTags,omitempty"`
	Results     map[string]Product `json:"results,omitempty"`
	SentAt      time.Time          `json:"sentAt"`
}

// ChatRecommendation is the recommender's reply to one query before it is
// folded into the transcript.
type ChatRecommendation struct {
	Message     string
	ProductTags []string
	Results     map[string]Product
}
