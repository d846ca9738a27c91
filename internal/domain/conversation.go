package domain

// ConversationType classifies how a post entered a two-party conversation.
type ConversationType string

const (
	// ConversationReply is a direct reply from one participant to the other.
	ConversationReply ConversationType = "reply"
	// ConversationMention textually mentions the other participant without
	// being a reply to them.
	ConversationMention ConversationType = "mention"
	// ConversationOriginal is a participant's post fetched because it was
	// replied to.
	ConversationOriginal ConversationType = "original"
	// ConversationContext is a third-party post fetched because a
	// participant replied to it.
	ConversationContext ConversationType = "context"
)

// Sender labels which side of the conversation authored a message.
type Sender string

const (
	SenderA     Sender = "A"
	SenderB     Sender = "B"
	SenderOther Sender = "other"
)

// Message is a post decorated for transcript rendering. Depth is the number
// of reply hops to the message's thread root; roots sit at depth 0.
type Message struct {
	Post
	Type          ConversationType `json:"conversation_type"`
	Sender        Sender           `json:"sender"`
	SenderAccount Account          `json:"sender_account"`
	Depth         int              `json:"thread_depth"`
}
