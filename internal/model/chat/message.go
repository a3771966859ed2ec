package chat

import "time"

// Link is an external web search or maps URL attached to a reply.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Message is one chat turn. Messages are never modified after they are
// appended to a transcript.
type Message struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	Text        string    `json:"text"`
	IsUser      bool      `json:"isUser"`
	Timestamp   time.Time `json:"timestamp"`
	Intent      string    `json:"intent,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Links       []Link    `json:"links,omitempty"`
}

// Role reports "user" or "assistant" for logging and metrics.
func (m Message) Role() string {
	if m.IsUser {
		return "user"
	}
	return "assistant"
}
