package models

import "time"

// TopicEnrollment records a user's enrollment in a topic
type TopicEnrollment struct {
	ID              int       `json:"id"`
	TopicID         int       `json:"topicId"`
	UserID          int       `json:"userId"`
	ProgressPercent int       `json:"progressPercent"`
	EnrolledAt      time.Time `json:"enrolledAt"`
}

// TopicReview is a user rating with optional comment
type TopicReview struct {
	ID        int       `json:"id"`
	TopicID   int       `json:"topicId"`
	UserID    int       `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateReviewRequest is the payload for posting a topic review
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
