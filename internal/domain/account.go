package domain

// AccountID is the archive's opaque unique key for an account.
type AccountID string

// String returns the string representation of the AccountID.
func (id AccountID) String() string {
	return string(id)
}

// Account is an immutable snapshot of an archive account, hydrated per
// lookup and fully replaced on the next search.
type Account struct {
	ID          AccountID `json:"account_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"account_display_name,omitempty"`
	Followers   int       `json:"num_followers"`
	Following   int       `json:"num_following"`
	Posts       int       `json:"num_tweets"`
}

// PlaceholderAccount stands in for a third-party author whose profile was
// never fetched (context posts inside a conversation thread).
func PlaceholderAccount(id AccountID) Account {
	return Account{ID: id, Username: "unknown"}
}
