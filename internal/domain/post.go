package domain

import "time"

// PostID is a unique identifier for an archived post.
type PostID string

// String returns the string representation of the PostID.
func (id PostID) String() string {
	return string(id)
}

// Metric names an engagement counter posts can be ranked by. The values
// match the archive's column names.
type Metric string

const (
	MetricFavorites Metric = "favorite_count"
	MetricRetweets  Metric = "retweet_count"
)

// Valid reports whether m names a rankable counter.
func (m Metric) Valid() bool {
	return m == MetricFavorites || m == MetricRetweets
}

// Post is a read-only archived post. Missing numeric fields are normalized
// to 0 at ingest; ReplyToPostID is empty when the post is not a reply.
type Post struct {
	ID              PostID    `json:"tweet_id"`
	AccountID       AccountID `json:"account_id"`
	CreatedAt       time.Time `json:"created_at"`
	Text            string    `json:"full_text"`
	Favorites       int       `json:"favorite_count"`
	Retweets        int       `json:"retweet_count"`
	ReplyToUsername string    `json:"reply_to_username,omitempty"`
	ReplyToPostID   PostID    `json:"reply_to_tweet_id,omitempty"`
}

// IsReply reports whether the post declares a parent.
func (p *Post) IsReply() bool {
	return p.ReplyToPostID != ""
}

// RatedPost decorates a post with its computed engagement ratio. Ratio is
// defined only where both favorites and retweets are positive; posts
// outside that set never become RatedPosts.
type RatedPost struct {
	Post
	Ratio float64 `json:"ratio"`
}
