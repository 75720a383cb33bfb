package http

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"tally/internal/flashcard"
	"tally/internal/log"
)

// cardState is the process-wide flashcard viewer: deck order, active filter
// and position.
type cardState struct {
	mu      sync.Mutex
	deck    *flashcard.Deck
	filter  flashcard.Filter
	session flashcard.Session
}

func newCardState(deck *flashcard.Deck) *cardState {
	return &cardState{
		deck:   deck,
		filter: flashcard.Filter{Tense: flashcard.All, Person: flashcard.All},
	}
}

type flashcardsPage struct {
	Loaded   bool
	Tenses   []string
	Persons  []string
	Tense    string
	Person   string
	HasCard  bool
	Text     string
	ShowBack bool
	Position int
	Count    int
	All      string
}

func (c *cardState) page() flashcardsPage {
	p := flashcardsPage{Tense: c.filter.Tense, Person: c.filter.Person, All: flashcard.All}
	if c.deck == nil {
		return p
	}
	p.Loaded = true
	p.Tenses, p.Persons = flashcard.Options(c.deck.Cards())

	cards := c.filter.Apply(c.deck.Cards())
	p.Count = len(cards)
	p.Text, p.HasCard = c.session.Current(cards)
	p.ShowBack = c.session.ShowBack
	p.Position = c.session.Index + 1
	return p
}

func (s *Server) handleFlashcards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.cards.mu.Lock()
	if q.Has("tense") {
		s.cards.filter.Tense = q.Get("tense")
	}
	if q.Has("person") {
		s.cards.filter.Person = q.Get("person")
	}
	page := s.cards.page()
	s.cards.mu.Unlock()

	s.render(w, r, http.StatusOK, "flashcards.html", page)
}

func (s *Server) handleFlashcardAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")

	s.cards.mu.Lock()
	if s.cards.deck == nil {
		s.cards.mu.Unlock()
		seeOther(w, r, "/flashcards")
		return
	}
	n := len(s.cards.filter.Apply(s.cards.deck.Cards()))
	switch action {
	case "prev":
		s.cards.session.Prev()
	case "next":
		s.cards.session.Next(n)
	case "flip":
		s.cards.session.Flip()
	case "shuffle":
		s.cards.deck.Shuffle()
		s.cards.session.Reset()
	default:
		s.cards.mu.Unlock()
		http.NotFound(w, r)
		return
	}
	s.cards.mu.Unlock()

	log.FromContext(r.Context()).DebugContext(r.Context(), "Flashcard action", "action", action)
	seeOther(w, r, "/flashcards")
}
