package conversation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/iconidentify/archivelens/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	replies  map[string][]domain.Post // account|username -> posts
	mentions map[string][]domain.Post
	byID     map[domain.PostID]domain.Post
	fail     map[string]error
}

func (f *fakeSource) RepliesTo(_ context.Context, account domain.AccountID, username string) ([]domain.Post, error) {
	key := string(account) + "|" + username
	if err := f.fail["replies:"+key]; err != nil {
		return nil, err
	}
	return f.replies[key], nil
}

func (f *fakeSource) Mentions(_ context.Context, account domain.AccountID, username string) ([]domain.Post, error) {
	key := string(account) + "|" + username
	if err := f.fail["mentions:"+key]; err != nil {
		return nil, err
	}
	return f.mentions[key], nil
}

func (f *fakeSource) PostsByIDs(_ context.Context, ids []domain.PostID) ([]domain.Post, error) {
	if err := f.fail["byids"]; err != nil {
		return nil, err
	}
	var posts []domain.Post
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

var (
	alice = domain.Account{ID: "1", Username: "alice"}
	bob   = domain.Account{ID: "2", Username: "bob"}
)

func TestBuildTagsMessages(t *testing.T) {
	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{
		replies: map[string][]domain.Post{
			"2|alice": {{
				ID: "r1", AccountID: "2", CreatedAt: base.Add(2 * time.Minute),
				Text: "@alice sure", ReplyToUsername: "alice", ReplyToPostID: "orig",
			}},
		},
		mentions: map[string][]domain.Post{
			"1|bob": {
				{ID: "m1", AccountID: "1", CreatedAt: base.Add(5 * time.Minute), Text: "talking about @bob"},
				// A reply to bob must not be double counted as a mention.
				{ID: "r2", AccountID: "1", CreatedAt: base.Add(6 * time.Minute), Text: "@bob yes", ReplyToUsername: "bob"},
			},
		},
		byID: map[domain.PostID]domain.Post{
			"orig": {ID: "orig", AccountID: "3", CreatedAt: base, Text: "hello world"},
		},
	}

	got, err := NewService(src, testLogger()).Build(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID := make(map[domain.PostID]domain.Message)
	for _, m := range got {
		byID[m.ID] = m
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d: %+v", len(got), got)
	}
	if _, present := byID["r2"]; present {
		t.Error("reply to the other party leaked in through the mention lookup")
	}

	r1 := byID["r1"]
	if r1.Type != domain.ConversationReply || r1.Sender != domain.SenderB || r1.SenderAccount.Username != "bob" {
		t.Errorf("unexpected tagging for r1: %+v", r1)
	}
	m1 := byID["m1"]
	if m1.Type != domain.ConversationMention || m1.Sender != domain.SenderA {
		t.Errorf("unexpected tagging for m1: %+v", m1)
	}
	orig := byID["orig"]
	if orig.Type != domain.ConversationContext || orig.Sender != domain.SenderOther {
		t.Errorf("unexpected tagging for orig: %+v", orig)
	}
	if orig.SenderAccount.Username != "unknown" || orig.SenderAccount.ID != "3" {
		t.Errorf("context sender should be a placeholder account: %+v", orig.SenderAccount)
	}
}

func TestBuildThreadsParentBeforeReply(t *testing.T) {
	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{
		replies: map[string][]domain.Post{
			"2|alice": {{
				ID: "r1", AccountID: "2", CreatedAt: base.Add(time.Minute),
				ReplyToUsername: "alice", ReplyToPostID: "orig",
			}},
		},
		byID: map[domain.PostID]domain.Post{
			"orig": {ID: "orig", AccountID: "1", CreatedAt: base},
		},
	}

	got, err := NewService(src, testLogger()).Build(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "orig" || got[1].ID != "r1" {
		t.Fatalf("expected parent then reply, got %+v", got)
	}
	if got[0].Depth != 0 || got[1].Depth != 1 {
		t.Errorf("unexpected depths: %d, %d", got[0].Depth, got[1].Depth)
	}
	if got[0].Type != domain.ConversationOriginal || got[0].Sender != domain.SenderA {
		t.Errorf("parent by A should be tagged original/A: %+v", got[0])
	}
}

func TestBuildNoInteraction(t *testing.T) {
	src := &fakeSource{}

	_, err := NewService(src, testLogger()).Build(context.Background(), alice, bob)
	if !errors.Is(err, domain.ErrNoConversation) {
		t.Fatalf("expected ErrNoConversation, got %v", err)
	}
}

func TestBuildToleratesLookupFailures(t *testing.T) {
	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{
		replies: map[string][]domain.Post{
			"2|alice": {{ID: "r1", AccountID: "2", CreatedAt: base, ReplyToUsername: "alice", ReplyToPostID: "gone"}},
		},
		fail: map[string]error{
			"replies:1|bob": errors.New("boom"),
			"byids":         errors.New("boom"),
		},
	}

	got, err := NewService(src, testLogger()).Build(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" || got[0].Depth != 0 {
		t.Fatalf("expected the surviving reply as a root, got %+v", got)
	}
}

func TestStripLeadingMention(t *testing.T) {
	m := domain.Message{
		Post: domain.Post{Text: "@Alice see you there", ReplyToUsername: "alice"},
		Type: domain.ConversationReply,
	}
	if got := StripLeadingMention(m); got != "see you there" {
		t.Errorf("got %q", got)
	}

	m.Type = domain.ConversationMention
	if got := StripLeadingMention(m); got != "@Alice see you there" {
		t.Errorf("mentions should keep their text, got %q", got)
	}
}
