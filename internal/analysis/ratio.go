// Package analysis derives rankings and frequency reports from an account's
// post set: engagement-ratio extremes, word frequencies, and emoji tallies.
package analysis

import (
	"sort"

	"github.com/iconidentify/archivelens/internal/domain"
)

// RatioExtremes holds the two ends of the engagement-ratio ranking.
// Highest is ordered ratio-descending, Lowest ratio-ascending.
type RatioExtremes struct {
	Highest []domain.RatedPost `json:"highest"`
	Lowest  []domain.RatedPost `json:"lowest"`
}

// RatePosts computes the favorites:retweets ratio for every post where both
// counters are positive and returns them sorted ratio-descending. Posts
// with a zero counter are excluded entirely, never assigned 0 or Inf.
func RatePosts(posts []domain.Post) []domain.RatedPost {
	rated := make([]domain.RatedPost, 0, len(posts))
	for _, p := range posts {
		if p.Favorites > 0 && p.Retweets > 0 {
			rated = append(rated, domain.RatedPost{
				Post:  p,
				Ratio: float64(p.Favorites) / float64(p.Retweets),
			})
		}
	}

	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].Ratio > rated[j].Ratio
	})

	return rated
}

// Extremes ranks ratio extremes over the given post set. Highest is the
// first limit entries of the descending ranking; Lowest is the last limit
// entries reversed, so it reads ascending. Fewer than limit qualifying
// posts yields everything available, no padding.
func Extremes(posts []domain.Post, limit int) RatioExtremes {
	rated := RatePosts(posts)
	if limit <= 0 || limit > len(rated) {
		limit = len(rated)
	}

	highest := make([]domain.RatedPost, limit)
	copy(highest, rated[:limit])

	lowest := make([]domain.RatedPost, limit)
	tail := rated[len(rated)-limit:]
	for i, p := range tail {
		lowest[len(tail)-1-i] = p
	}

	return RatioExtremes{Highest: highest, Lowest: lowest}
}
