// Package faq answers common support questions by keyword matching against a
// static FAQ table.
package faq

import "strings"

// Entry pairs a set of keywords with a canned answer.
type Entry struct {
	Keywords []string
	Answer   string
}

// DefaultEntries is the built-in Tripverse FAQ table.
var DefaultEntries = []Entry{
	{
		Keywords: []string{"login", "sign", "magic", "link", "email", "token"},
		Answer:   "To sign in, enter your email and we'll send you a magic link. The link is valid for 15 minutes and can only be used once.",
	},
	{
		Keywords: []string{"post", "write", "publish", "create", "travel"},
		Answer:   "Open the editor from the top bar to write a travel post. Add a title, your story, and up to ten images.",
	},
	{
		Keywords: []string{"photo", "image", "upload", "avatar", "picture"},
		Answer:   "Images are uploaded when you attach them to a post or set an avatar on your profile page. Supported formats are JPEG and PNG.",
	},
	{
		Keywords: []string{"message", "chat", "dm", "conversation"},
		Answer:   "You can message any user from their profile page. Chats update in real time while both of you are online.",
	},
	{
		Keywords: []string{"follow", "unfollow", "follower", "feed"},
		Answer:   "Follow other travelers to see their posts in your feed. You can unfollow at any time from their profile.",
	},
	{
		Keywords: []string{"bookmark", "save", "saved"},
		Answer:   "Use the bookmark icon on a post to save it. Your saved posts live under Bookmarks in your profile menu.",
	},
	{
		Keywords: []string{"notification", "unread", "bell"},
		Answer:   "The bell icon shows notifications for follows, likes, comments and mentions. Repeated events within a day are grouped.",
	},
	{
		Keywords: []string{"delete", "account", "remove"},
		Answer:   "You can delete your account from the profile settings page. This removes your posts, comments and chats permanently.",
	},
}

// FallbackAnswer is returned when no entry scores.
const FallbackAnswer = "Sorry, I don't have an answer for that. Try asking about signing in, posts, chats, or notifications."

// Bot scores questions against its entries by keyword overlap.
type Bot struct {
	entries []Entry
}

// NewBot creates a Bot over the given entries; nil means DefaultEntries.
func NewBot(entries []Entry) *Bot {
	if entries == nil {
		entries = DefaultEntries
	}
	return &Bot{entries: entries}
}

// Answer returns the answer of the highest-scoring entry, or FallbackAnswer
// when nothing matches. Score is the count of distinct entry keywords that
// appear as words of the question.
func (b *Bot) Answer(question string) string {
	words := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(question)) {
		words[strings.Trim(w, ".,!?;:'\"()")] = true
	}

	best := -1
	bestScore := 0
	for i, entry := range b.entries {
		score := 0
		for _, kw := range entry.Keywords {
			if words[kw] {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 {
		return FallbackAnswer
	}
	return b.entries[best].Answer
}
