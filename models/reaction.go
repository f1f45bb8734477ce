package models

// ReactionTallyEntry is the accumulated reaction activity of one user for one emoji
// since the last flush. Count may be negative.
type ReactionTallyEntry struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Emoji    string `json:"emoji"`
	Count    int    `json:"count"`
}

// ReactionEvent is a normalized reaction add (+1) or remove (-1).
type ReactionEvent struct {
	UserID   string
	UserName string
	Emoji    string
	Delta    int
}

const (
	DeltaAdd    = 1
	DeltaRemove = -1
)
