package flashcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionNavigation(t *testing.T) {
	cards := []Card{{Front: "a", Back: "A"}, {Front: "b", Back: "B"}}
	var s Session

	s.Prev()
	assert.Equal(t, 0, s.Index)

	s.Flip()
	text, ok := s.Current(cards)
	assert.True(t, ok)
	assert.Equal(t, "A", text)

	s.Next(len(cards))
	assert.Equal(t, 1, s.Index)
	assert.False(t, s.ShowBack)

	s.Next(len(cards))
	assert.Equal(t, 1, s.Index)

	text, _ = s.Current(cards)
	assert.Equal(t, "b", text)

	s.Prev()
	assert.Equal(t, 0, s.Index)
}

func TestSessionClampOnSmallerFilter(t *testing.T) {
	s := Session{Index: 3, ShowBack: true}
	text, ok := s.Current([]Card{{Front: "only"}})
	assert.True(t, ok)
	assert.Equal(t, "only", text)
	assert.Equal(t, Session{}, s)
}

func TestSessionEmptyDeck(t *testing.T) {
	s := Session{Index: 2}
	_, ok := s.Current(nil)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Index)
}
