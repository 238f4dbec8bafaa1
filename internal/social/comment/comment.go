package comment

import (
	"time"

	"github.com/taibuivan/kritika/internal/social/review"
)

// Comment is a reply attached to a review. It carries no score.
type Comment struct {
	ID       string        `json:"id"`
	ReviewID string        `json:"review_id"`
	Author   review.Author `json:"author"`
	Text     string        `json:"text"`
	PubDate  time.Time     `json:"pub_date"`
}

// AuthorID satisfies the moderation policy's authored-content contract.
func (comment *Comment) AuthorID() string { return comment.Author.ID }

// PublishedAt satisfies the moderation policy's authored-content contract.
func (comment *Comment) PublishedAt() time.Time { return comment.PubDate }

const FieldText = "text"
