package review

import "time"

// Author is the embedded snapshot of who wrote a piece of content.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Review is one user's scored opinion of a title. Each account may hold at
// most one review per title; the pair is immutable once written.
type Review struct {
	ID      string    `json:"id"`
	TitleID string    `json:"title_id"`
	Author  Author    `json:"author"`
	Score   int       `json:"score"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

// AuthorID satisfies the moderation policy's authored-content contract.
func (review *Review) AuthorID() string { return review.Author.ID }

// PublishedAt satisfies the moderation policy's authored-content contract.
func (review *Review) PublishedAt() time.Time { return review.PubDate }

const (
	FieldScore = "score"
	FieldText  = "text"

	MinScore = 1
	MaxScore = 10
)
