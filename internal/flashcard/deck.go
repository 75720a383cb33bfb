// Package flashcard implements the study deck: loading cards from CSV,
// shuffling, filtering by tense and person, and the viewer session that
// walks through the filtered cards.
package flashcard

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"
	"strings"
)

// All is the filter value that matches every card.
const All = "All"

// Card is one flashcard; Tense and Person are the filterable attributes.
type Card struct {
	Front  string
	Back   string
	Tense  string
	Person string
}

var ErrMissingColumns = errors.New("deck is missing required columns")

var requiredColumns = []string{"front", "back", "tense", "person"}

// LoadDeck reads cards from CSV with a header row naming the columns front,
// back, Tense and Person in any order and case.
func LoadDeck(r io.Reader) ([]Card, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading deck header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	field := func(rec []string, name string) string {
		i := idx[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var cards []Card
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading deck row %d: %w", line, err)
		}
		cards = append(cards, Card{
			Front:  field(rec, "front"),
			Back:   field(rec, "back"),
			Tense:  field(rec, "tense"),
			Person: field(rec, "person"),
		})
	}
	return cards, nil
}

// Deck holds the original card order and the current shuffled order.
type Deck struct {
	original []Card
	shuffled []Card
	rng      *rand.Rand
}

// NewDeck shuffles the cards once using rng. A nil rng uses a randomly seeded source.
func NewDeck(cards []Card, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	d := &Deck{original: append([]Card(nil), cards...), rng: rng}
	d.Shuffle()
	return d
}

// Shuffle replaces the current order with a fresh permutation of the original deck.
func (d *Deck) Shuffle() {
	s := append([]Card(nil), d.original...)
	d.rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
	d.shuffled = s
}

// Cards returns the shuffled cards.
func (d *Deck) Cards() []Card {
	return d.shuffled
}

func (d *Deck) Len() int { return len(d.original) }

// Filter selects cards by tense and person. Empty or All matches everything.
type Filter struct {
	Tense  string
	Person string
}

func matches(want, got string) bool {
	return want == "" || want == All || want == got
}

// Apply returns the cards matching the filter, preserving order.
func (f Filter) Apply(cards []Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if matches(f.Tense, c.Tense) && matches(f.Person, c.Person) {
			out = append(out, c)
		}
	}
	return out
}

// Options returns the sorted distinct non-empty tenses and persons in cards.
func Options(cards []Card) (tenses, persons []string) {
	return distinct(cards, func(c Card) string { return c.Tense }),
		distinct(cards, func(c Card) string { return c.Person })
}

func distinct(cards []Card, key func(Card) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, c := range cards {
		v := key(c)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
