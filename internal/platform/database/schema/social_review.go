package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Score    string
	Text     string
	PubDate  string

	// UniqueAuthorTitle is the constraint enforcing one review per
	// (author, title) pair. dberr keys its friendly message on this name.
	UniqueAuthorTitle string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:    "social.review",
	ID:       "id",
	TitleID:  "titleid",
	AuthorID: "authorid",
	Score:    "score",
	Text:     "text",
	PubDate:  "pubdate",

	UniqueAuthorTitle: "review_titleid_authorid_key",
}

func (t SocialReviewTable) Columns() []string {
	return []string{t.ID, t.TitleID, t.AuthorID, t.Score, t.Text, t.PubDate}
}
