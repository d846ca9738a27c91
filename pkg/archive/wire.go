package archive

import (
	"time"

	"github.com/iconidentify/archivelens/internal/domain"
)

// accountRecord mirrors a row of the archive's account table. Numeric
// columns are nullable upstream, so they decode through pointers and
// normalize to zero.
type accountRecord struct {
	AccountID   string `json:"account_id"`
	Username    string `json:"username"`
	DisplayName string `json:"account_display_name"`
	Followers   *int   `json:"num_followers"`
	Following   *int   `json:"num_following"`
	Posts       *int   `json:"num_tweets"`
}

func (r accountRecord) toDomain() domain.Account {
	return domain.Account{
		ID:          domain.AccountID(r.AccountID),
		Username:    r.Username,
		DisplayName: r.DisplayName,
		Followers:   intOrZero(r.Followers),
		Following:   intOrZero(r.Following),
		Posts:       intOrZero(r.Posts),
	}
}

// postRecord mirrors a row of the archive's tweets table.
type postRecord struct {
	TweetID         string `json:"tweet_id"`
	AccountID       string `json:"account_id"`
	CreatedAt       string `json:"created_at"`
	FullText        string `json:"full_text"`
	Favorites       *int   `json:"favorite_count"`
	Retweets        *int   `json:"retweet_count"`
	ReplyToUsername string `json:"reply_to_username"`
	ReplyToTweetID  string `json:"reply_to_tweet_id"`
}

// Timestamp layouts seen in archive exports. The offset-free form shows
// up in older dumps and is treated as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func (r postRecord) toDomain() domain.Post {
	return domain.Post{
		ID:              domain.PostID(r.TweetID),
		AccountID:       domain.AccountID(r.AccountID),
		CreatedAt:       parseTimestamp(r.CreatedAt),
		Text:            r.FullText,
		Favorites:       intOrZero(r.Favorites),
		Retweets:        intOrZero(r.Retweets),
		ReplyToUsername: r.ReplyToUsername,
		ReplyToPostID:   domain.PostID(r.ReplyToTweetID),
	}
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func postsToDomain(records []postRecord) []domain.Post {
	posts := make([]domain.Post, len(records))
	for i, r := range records {
		posts[i] = r.toDomain()
	}
	return posts
}
