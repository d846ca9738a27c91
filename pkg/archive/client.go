// Package archive is a read-only client for a Community Archive instance,
// a Supabase-hosted PostgREST API over archived accounts and their posts.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iconidentify/archivelens/internal/domain"
)

const (
	// pageSize is the batch size for paginated history fetches.
	pageSize = 1000
	// maxHistoryPosts caps a full-history fetch for very large archives.
	maxHistoryPosts = 100000
	// idChunkSize is how many IDs fit in a single or=() filter.
	idChunkSize = 50
	// searchResultLimit caps combined account search results.
	searchResultLimit = 10
	// conversationFetchLimit bounds each reply/mention lookup.
	conversationFetchLimit = 1000
)

// Config holds archive client configuration.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Retry             RetryConfig
}

// Recorder receives request-level observations. The zero value of the
// client uses a no-op recorder.
type Recorder interface {
	ObserveRequest(resource string, status int, elapsed time.Duration)
	AddRowsFetched(resource string, rows int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string, int, time.Duration) {}
func (nopRecorder) AddRowsFetched(string, int)                {}

// Client fetches accounts and posts from the archive API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	retryCfg   RetryConfig
	recorder   Recorder
	logger     *slog.Logger
}

// NewClient creates a new archive client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	retryCfg := cfg.Retry
	if retryCfg.MaxAttempts <= 0 {
		retryCfg = DefaultRetryConfig()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)),
		retryCfg:   retryCfg,
		recorder:   nopRecorder{},
		logger:     logger,
	}
}

// SetRecorder installs a request observer. Not safe to call once the
// client is in use.
func (c *Client) SetRecorder(r Recorder) {
	if r != nil {
		c.recorder = r
	}
}

// get performs one rate-limited, retried GET against a PostgREST
// resource and decodes the JSON array response into out.
func (c *Client) get(ctx context.Context, resource string, params url.Values, out any) error {
	_, err := retry(ctx, c.retryCfg, func() (struct{}, error) {
		return struct{}{}, c.getOnce(ctx, resource, params, out)
	}, IsRetryable)
	return err
}

func (c *Client) getOnce(ctx context.Context, resource string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, resource, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.ObserveRequest(resource, 0, time.Since(start))
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	c.recorder.ObserveRequest(resource, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Status: resp.StatusCode, Resource: resource, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SearchAccounts looks a query up against usernames and display names and
// returns the combined matches ordered by follower count, capped at ten.
// A failed half of the search contributes nothing rather than failing
// the whole lookup. A leading @ in the query is ignored.
func (c *Client) SearchAccounts(ctx context.Context, query string) ([]domain.Account, error) {
	query = strings.TrimPrefix(strings.TrimSpace(query), "@")
	if query == "" {
		return nil, nil
	}

	search := func(column string) []accountRecord {
		params := url.Values{}
		params.Set(column, "ilike.*"+query+"*")
		params.Set("limit", "5")
		params.Set("order", "num_followers.desc.nullslast")

		var records []accountRecord
		if err := c.get(ctx, "account", params, &records); err != nil {
			c.logger.Warn("account search failed", "column", column, "error", err)
			return nil
		}
		return records
	}

	seen := make(map[string]bool)
	var accounts []domain.Account
	for _, record := range append(search("username"), search("account_display_name")...) {
		if seen[record.AccountID] {
			continue
		}
		seen[record.AccountID] = true
		accounts = append(accounts, record.toDomain())
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Followers > accounts[j].Followers
	})
	if len(accounts) > searchResultLimit {
		accounts = accounts[:searchResultLimit]
	}

	c.recorder.AddRowsFetched("account", len(accounts))
	return accounts, nil
}

// GetAccount resolves a username to its account record. Lookup is
// case-insensitive; usernames are stored lowercase upstream.
func (c *Client) GetAccount(ctx context.Context, username string) (domain.Account, error) {
	params := url.Values{}
	params.Set("username", "eq."+strings.ToLower(strings.TrimPrefix(username, "@")))
	params.Set("limit", "1")

	var records []accountRecord
	if err := c.get(ctx, "account", params, &records); err != nil {
		return domain.Account{}, err
	}
	if len(records) == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return records[0].toDomain(), nil
}

// ListAccounts pages through the account directory ordered by follower
// count descending.
func (c *Client) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	params := url.Values{}
	params.Set("order", "num_followers.desc.nullslast")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var records []accountRecord
	if err := c.get(ctx, "account", params, &records); err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, len(records))
	for i, r := range records {
		accounts[i] = r.toDomain()
	}
	c.recorder.AddRowsFetched("account", len(accounts))
	return accounts, nil
}

// TopPosts returns an account's posts ranked by the given engagement
// metric, descending. Posts where the metric is zero are excluded
// server-side.
func (c *Client) TopPosts(ctx context.Context, account domain.AccountID, metric domain.Metric, limit int) ([]domain.Post, error) {
	if !metric.Valid() {
		return nil, domain.ErrInvalidMetric
	}

	params := url.Values{}
	params.Set("select", "*")
	params.Set("account_id", "eq."+string(account))
	params.Set(string(metric), "gt.0")
	params.Set("order", string(metric)+".desc")
	params.Set("limit", strconv.Itoa(limit))

	var records []postRecord
	if err := c.get(ctx, "tweets", params, &records); err != nil {
		return nil, err
	}
	c.recorder.AddRowsFetched("tweets", len(records))
	return postsToDomain(records), nil
}

// AllPosts fetches an account's complete post history in pages of 1000,
// stopping at a short page, an empty page, or the hard ceiling. progress
// may be nil; expectedTotal feeds it and may be zero. Cancelling ctx
// aborts between pages.
func (c *Client) AllPosts(ctx context.Context, account domain.AccountID, expectedTotal int, progress func(fetched, total int)) ([]domain.Post, error) {
	var posts []domain.Post
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		params := url.Values{}
		params.Set("select", "*")
		params.Set("account_id", "eq."+string(account))
		params.Set("limit", strconv.Itoa(pageSize))
		params.Set("offset", strconv.Itoa(offset))

		var records []postRecord
		if err := c.get(ctx, "tweets", params, &records); err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}

		posts = append(posts, postsToDomain(records)...)
		c.recorder.AddRowsFetched("tweets", len(records))
		if progress != nil {
			progress(len(posts), expectedTotal)
		}

		if len(records) < pageSize || len(posts) >= maxHistoryPosts {
			break
		}
		offset += pageSize
	}

	return posts, nil
}

// PostsByIDs resolves posts in chunks of fifty via or=() filters. A
// failed chunk is skipped so one bad batch cannot sink the rest.
func (c *Client) PostsByIDs(ctx context.Context, ids []domain.PostID) ([]domain.Post, error) {
	var posts []domain.Post

	for start := 0; start < len(ids); start += idChunkSize {
		end := start + idChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		filters := make([]string, len(chunk))
		for i, id := range chunk {
			filters[i] = "tweet_id.eq." + string(id)
		}

		params := url.Values{}
		params.Set("select", "*")
		params.Set("or", "("+strings.Join(filters, ",")+")")
		params.Set("limit", strconv.Itoa(idChunkSize))

		var records []postRecord
		if err := c.get(ctx, "tweets", params, &records); err != nil {
			c.logger.Warn("post batch lookup failed", "from", start, "to", end, "error", err)
			continue
		}
		posts = append(posts, postsToDomain(records)...)
	}

	c.recorder.AddRowsFetched("tweets", len(posts))
	return posts, nil
}

// RepliesTo returns posts by account that reply to username.
func (c *Client) RepliesTo(ctx context.Context, account domain.AccountID, username string) ([]domain.Post, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("account_id", "eq."+string(account))
	params.Set("reply_to_username", "eq."+username)
	params.Set("limit", strconv.Itoa(conversationFetchLimit))

	var records []postRecord
	if err := c.get(ctx, "tweets", params, &records); err != nil {
		return nil, err
	}
	c.recorder.AddRowsFetched("tweets", len(records))
	return postsToDomain(records), nil
}

// Mentions returns posts by account whose text contains @username.
func (c *Client) Mentions(ctx context.Context, account domain.AccountID, username string) ([]domain.Post, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("account_id", "eq."+string(account))
	params.Set("full_text", "ilike.*@"+username+"*")
	params.Set("limit", strconv.Itoa(conversationFetchLimit))

	var records []postRecord
	if err := c.get(ctx, "tweets", params, &records); err != nil {
		return nil, err
	}
	c.recorder.AddRowsFetched("tweets", len(records))
	return postsToDomain(records), nil
}
