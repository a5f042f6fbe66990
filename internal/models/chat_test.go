package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestChatPairKey(t *testing.T) {
	assert.Equal(t, "3:7", ChatPairKey(3, 7))
	assert.Equal(t, "3:7", ChatPairKey(7, 3), "key is order-independent")
	assert.Equal(t, "5:5", ChatPairKey(5, 5))
}

func TestHasParticipant(t *testing.T) {
	chat := &Chat{Participants: []uint{3, 7}}
	assert.True(t, chat.HasParticipant(3))
	assert.True(t, chat.HasParticipant(7))
	assert.False(t, chat.HasParticipant(9))
}

func TestUnreadCountFor(t *testing.T) {
	chat := &Chat{Messages: []Message{
		{SenderID: 1, Read: false},
		{SenderID: 1, Read: true},
		{SenderID: 2, Read: false},
		{SenderID: 2, Read: false},
	}}

	// Own messages never count as unread for their sender.
	assert.Equal(t, 2, chat.UnreadCountFor(1))
	assert.Equal(t, 1, chat.UnreadCountFor(2))
}

func TestTitleSnippet(t *testing.T) {
	short := &Post{Title: "Week in Kyoto"}
	assert.Equal(t, "Week in Kyoto", short.TitleSnippet())

	long := &Post{Title: "The complete guide to island hopping in the Philippines"}
	snippet := long.TitleSnippet()
	assert.Len(t, snippet, 30)
	assert.Equal(t, long.Title[:30], snippet)
}

func TestTitleSnippetMultiByte(t *testing.T) {
	// The 30th character boundary lands inside a multi-byte rune; the cut
	// must count runes, not bytes.
	multi := &Post{Title: strings.Repeat("a", 29) + "é — Paris et ses environs"}
	snippet := multi.TitleSnippet()
	assert.True(t, utf8.ValidString(snippet))
	assert.Equal(t, 30, utf8.RuneCountInString(snippet))
	assert.Equal(t, strings.Repeat("a", 29)+"é", snippet)

	exact := &Post{Title: strings.Repeat("é", 30)}
	assert.Equal(t, exact.Title, exact.TitleSnippet())
}
