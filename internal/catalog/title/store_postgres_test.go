package title

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectClause_RatingAggregate(t *testing.T) {
	projection := selectClause()

	// The rating is an integer-rounded average over the title's reviews,
	// computed in a grouped subquery joined per title.
	assert.Contains(t, projection, "ROUND(AVG(score))::int AS value")
	assert.Contains(t, projection, "FROM social.review")
	assert.Contains(t, projection, "GROUP BY titleid")
	assert.Contains(t, projection, "rating.value")
	assert.Contains(t, projection, "rating ON rating.titleid = t.id")
}

func TestSelectClause_RatingJoinIsOuter(t *testing.T) {
	projection := selectClause()

	// Titles without reviews must still appear, carrying a NULL rating
	// rather than vanishing from the result set.
	assert.Contains(t, projection, "LEFT JOIN (")
}

func TestSelectClause_AggregatesGenres(t *testing.T) {
	projection := selectClause()

	assert.Contains(t, projection, "json_agg")
	assert.Contains(t, projection, "'[]') AS genres")
}
