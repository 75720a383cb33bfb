package flashcard

// Session is the viewer position within the filtered deck.
type Session struct {
	Index    int
	ShowBack bool
}

// Reset returns to the first card, front side up.
func (s *Session) Reset() {
	s.Index = 0
	s.ShowBack = false
}

// Clamp resets the session when the index no longer fits a filtered deck of n cards.
func (s *Session) Clamp(n int) {
	if s.Index >= n || s.Index < 0 {
		s.Reset()
	}
}

func (s *Session) Prev() {
	if s.Index > 0 {
		s.Index--
		s.ShowBack = false
	}
}

// Next advances unless already at the last of n cards.
func (s *Session) Next(n int) {
	if s.Index < n-1 {
		s.Index++
		s.ShowBack = false
	}
}

func (s *Session) Flip() {
	s.ShowBack = !s.ShowBack
}

// Current returns the visible side of the current card, or false when cards is empty.
func (s *Session) Current(cards []Card) (string, bool) {
	s.Clamp(len(cards))
	if len(cards) == 0 {
		return "", false
	}
	c := cards[s.Index]
	if s.ShowBack {
		return c.Back, true
	}
	return c.Front, true
}
