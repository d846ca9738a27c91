// Package client provides access to the ArchiveLens server API for the TUI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client wraps the ArchiveLens HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new ArchiveLens API client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Account is an archived account as returned by the server.
type Account struct {
	ID          string `json:"account_id"`
	Username    string `json:"username"`
	DisplayName string `json:"account_display_name"`
	Followers   int    `json:"num_followers"`
	Following   int    `json:"num_following"`
	Posts       int    `json:"num_tweets"`
}

// Post is an archived post as returned by the server.
type Post struct {
	ID              string    `json:"tweet_id"`
	CreatedAt       time.Time `json:"created_at"`
	Text            string    `json:"full_text"`
	Favorites       int       `json:"favorite_count"`
	Retweets        int       `json:"retweet_count"`
	ReplyToUsername string    `json:"reply_to_username"`
}

// RatedPost is a post annotated with its favorites:retweets ratio.
type RatedPost struct {
	Post
	Ratio float64 `json:"ratio"`
}

// Progress describes how much of a session's history has loaded.
type Progress struct {
	Fetched int  `json:"fetched"`
	Total   int  `json:"total"`
	Done    bool `json:"done"`
}

// Session describes an open explorer session.
type Session struct {
	ID       string   `json:"session_id"`
	Account  Account  `json:"account"`
	Progress Progress `json:"progress"`
}

// WordCount is one entry of a word frequency report.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// EmojiCount is one entry of an emoji frequency report.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// RatioExtremes holds the best and worst engagement-ratio posts.
type RatioExtremes struct {
	Highest []RatedPost `json:"highest"`
	Lowest  []RatedPost `json:"lowest"`
}

// Message is one entry of a threaded conversation transcript.
type Message struct {
	Post
	Type   string `json:"conversation_type"`
	Sender string `json:"sender"`
	Depth  int    `json:"thread_depth"`
}

// SearchAccounts looks up accounts matching a username or display name.
func (c *Client) SearchAccounts(ctx context.Context, query string) ([]Account, error) {
	endpoint := c.baseURL + "/api/v1/accounts"
	endpoint = addQuery(endpoint, map[string]string{"q": query})
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Accounts []Account `json:"accounts"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse accounts: %w", err)
	}
	return payload.Accounts, nil
}

// Directory pages through the account directory, most-followed first.
func (c *Client) Directory(ctx context.Context, limit, offset int) ([]Account, error) {
	endpoint := c.baseURL + "/api/v1/accounts/directory"
	endpoint = addQuery(endpoint, map[string]string{
		"limit":  fmt.Sprintf("%d", limit),
		"offset": fmt.Sprintf("%d", offset),
	})
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Accounts []Account `json:"accounts"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse directory: %w", err)
	}
	return payload.Accounts, nil
}

// OpenSession starts an explorer session for a username.
func (c *Client) OpenSession(ctx context.Context, username string) (*Session, error) {
	endpoint := c.baseURL + "/api/v1/sessions"
	body, err := c.doRequest(ctx, http.MethodPost, endpoint, map[string]string{"username": username})
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &session, nil
}

// GetSession returns a session's account and load progress.
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	endpoint := fmt.Sprintf("%s/api/v1/sessions/%s", c.baseURL, id)
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &session, nil
}

// CloseSession discards a session and its cached history.
func (c *Client) CloseSession(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/api/v1/sessions/%s", c.baseURL, id)
	_, err := c.doRequest(ctx, http.MethodDelete, endpoint, nil)
	return err
}

// CancelFetch stops a session's in-flight history download.
func (c *Client) CancelFetch(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/api/v1/sessions/%s/cancel", c.baseURL, id)
	_, err := c.doRequest(ctx, http.MethodPost, endpoint, nil)
	return err
}

// TopPosts returns the session account's highest-ranked posts by metric.
func (c *Client) TopPosts(ctx context.Context, id, metric string, limit int) ([]Post, error) {
	endpoint := fmt.Sprintf("%s/api/v1/sessions/%s/top", c.baseURL, id)
	params := map[string]string{"metric": metric}
	if limit > 0 {
		params["limit"] = fmt.Sprintf("%d", limit)
	}
	endpoint = addQuery(endpoint, params)
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Posts []Post `json:"posts"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse top posts: %w", err)
	}
	return payload.Posts, nil
}

// Ratios returns the session account's engagement-ratio extremes.
func (c *Client) Ratios(ctx context.Context, id string, limit int) (*RatioExtremes, error) {
	endpoint := fmt.Sprintf("%s/api/v1/sessions/%s/ratios", c.baseURL, id)
	if limit > 0 {
		endpoint = addQuery(endpoint, map[string]string{"limit": fmt.Sprintf("%d", limit)})
	}
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var extremes RatioExtremes
	if err := json.Unmarshal(body, &extremes); err != nil {
		return nil, fmt.Errorf("parse ratios: %w", err)
	}
	return &extremes, nil
}

// WordCloud returns the session account's word frequency report.
func (c *Client) WordCloud(ctx context.Context, id string) ([]WordCount, error) {
	endpoint := fmt.Sprintf("%s/api/v1/sessions/%s/wordcloud", c.baseURL, id)
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Words []WordCount `json:"words"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse word cloud: %w", err)
	}
	return payload.Words, nil
}

// Emojis returns the session account's emoji frequency report.
func (c *Client) Emojis(ctx context.Context, id string) ([]EmojiCount, error) {
	endpoint := fmt.Sprintf("%s/api/v1/sessions/%s/emojis", c.baseURL, id)
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Emojis []EmojiCount `json:"emojis"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse emojis: %w", err)
	}
	return payload.Emojis, nil
}

// SearchPosts runs a boolean query over the session's post history.
func (c *Client) SearchPosts(ctx context.Context, id, query, sortBy, dir string) ([]Post, error) {
	endpoint := fmt.Sprintf("%s/api/v1/sessions/%s/search", c.baseURL, id)
	params := map[string]string{"q": query}
	if sortBy != "" {
		params["sort"] = sortBy
	}
	if dir != "" {
		params["dir"] = dir
	}
	endpoint = addQuery(endpoint, params)
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Posts []Post `json:"posts"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}
	return payload.Posts, nil
}

// Conversation returns the threaded transcript between the session's
// account and another username.
func (c *Client) Conversation(ctx context.Context, id, with string) ([]Message, error) {
	endpoint := fmt.Sprintf("%s/api/v1/sessions/%s/conversation", c.baseURL, id)
	endpoint = addQuery(endpoint, map[string]string{"with": with})
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse conversation: %w", err)
	}
	return payload.Messages, nil
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "archivelens-tui")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("archivelens api (%d): %s", resp.StatusCode, apiError(raw))
	}
	return raw, nil
}

// apiError extracts the server's error message, falling back to the raw body.
func apiError(raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

func addQuery(endpoint string, values map[string]string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	for key, value := range values {
		q.Set(key, value)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
