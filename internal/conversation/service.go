package conversation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/iconidentify/archivelens/internal/domain"
)

// PostSource provides the archive lookups the builder needs.
type PostSource interface {
	// RepliesTo returns posts authored by account that reply to username.
	RepliesTo(ctx context.Context, account domain.AccountID, username string) ([]domain.Post, error)
	// Mentions returns posts authored by account whose text mentions username.
	Mentions(ctx context.Context, account domain.AccountID, username string) ([]domain.Post, error)
	// PostsByIDs resolves posts by ID, skipping IDs that cannot be found.
	PostsByIDs(ctx context.Context, ids []domain.PostID) ([]domain.Post, error)
}

// Service assembles two-party conversations from archive lookups.
type Service struct {
	source PostSource
	logger *slog.Logger
}

func NewService(source PostSource, logger *slog.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// Build reconstructs the conversation between accounts a and b: direct
// replies in both directions, mentions that are not replies to the other
// party, and the parent posts the replies point at. A lookup that fails
// contributes nothing instead of failing the whole conversation. Returns
// domain.ErrNoConversation when the accounts never interacted.
func (s *Service) Build(ctx context.Context, a, b domain.Account) ([]domain.Message, error) {
	var messages []domain.Message
	parents := make(map[domain.PostID]struct{})

	collectReplies := func(from domain.Account, to domain.Account, sender domain.Sender) {
		posts, err := s.source.RepliesTo(ctx, from.ID, to.Username)
		if err != nil {
			s.logger.Warn("reply lookup failed",
				"from", from.Username, "to", to.Username, "error", err)
			return
		}
		for _, p := range posts {
			messages = append(messages, domain.Message{
				Post:          p,
				Type:          domain.ConversationReply,
				Sender:        sender,
				SenderAccount: from,
			})
			if p.ReplyToPostID != "" {
				parents[p.ReplyToPostID] = struct{}{}
			}
		}
	}

	collectMentions := func(from domain.Account, to domain.Account, sender domain.Sender) {
		posts, err := s.source.Mentions(ctx, from.ID, to.Username)
		if err != nil {
			s.logger.Warn("mention lookup failed",
				"from", from.Username, "to", to.Username, "error", err)
			return
		}
		for _, p := range posts {
			// Replies to the other party already came in via the
			// reply lookup.
			if p.ReplyToUsername == to.Username {
				continue
			}
			messages = append(messages, domain.Message{
				Post:          p,
				Type:          domain.ConversationMention,
				Sender:        sender,
				SenderAccount: from,
			})
		}
	}

	collectReplies(b, a, domain.SenderB)
	collectReplies(a, b, domain.SenderA)
	collectMentions(a, b, domain.SenderA)
	collectMentions(b, a, domain.SenderB)

	if len(parents) > 0 {
		ids := make([]domain.PostID, 0, len(parents))
		for id := range parents {
			ids = append(ids, id)
		}
		originals, err := s.source.PostsByIDs(ctx, ids)
		if err != nil {
			s.logger.Warn("parent post lookup failed", "count", len(ids), "error", err)
		}
		for _, p := range originals {
			messages = append(messages, tagOriginal(p, a, b))
		}
	}

	threaded := Thread(messages)
	if len(threaded) == 0 {
		return nil, domain.ErrNoConversation
	}
	return threaded, nil
}

func tagOriginal(p domain.Post, a, b domain.Account) domain.Message {
	switch p.AccountID {
	case a.ID:
		return domain.Message{Post: p, Type: domain.ConversationOriginal, Sender: domain.SenderA, SenderAccount: a}
	case b.ID:
		return domain.Message{Post: p, Type: domain.ConversationOriginal, Sender: domain.SenderB, SenderAccount: b}
	default:
		return domain.Message{
			Post:          p,
			Type:          domain.ConversationContext,
			Sender:        domain.SenderOther,
			SenderAccount: domain.PlaceholderAccount(p.AccountID),
		}
	}
}

// StripLeadingMention removes the @username prefix a reply carries when it
// names the account being replied to, for transcript rendering.
func StripLeadingMention(m domain.Message) string {
	if m.Type != domain.ConversationReply || m.ReplyToUsername == "" {
		return m.Text
	}
	prefix := "@" + m.ReplyToUsername
	if len(m.Text) >= len(prefix) && strings.EqualFold(m.Text[:len(prefix)], prefix) {
		return strings.TrimSpace(m.Text[len(prefix):])
	}
	return m.Text
}
