// Package scheduler orders the cards of a training session and moves each
// reviewed card back into the deck according to its new score.
package scheduler

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// MinReinsertPosition is the earliest index a reviewed card can return to,
// so the same card is never shown twice in a row while the deck is large
// enough.
const MinReinsertPosition = 3

// SectionSet returns a selection set for BuildDeck.
func SectionSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// BuildDeck returns the cards of the selected sections ordered by ascending
// score. Cards with equal scores are shuffled among themselves with rng.
func BuildDeck(sections map[string]bool, cards []domain.Card, rng *rand.Rand) []domain.Card {
	var deck []domain.Card
	for _, card := range cards {
		if sections[card.Section] {
			deck = append(deck, card)
		}
	}

	sort.SliceStable(deck, func(i, j int) bool {
		return deck[i].Metadata.Score < deck[j].Metadata.Score
	})

	for start := 0; start < len(deck); {
		end := start + 1
		for end < len(deck) && deck[end].Metadata.Score == deck[start].Metadata.Score {
			end++
		}
		run := deck[start:end]
		rng.Shuffle(len(run), func(i, j int) {
			run[i], run[j] = run[j], run[i]
		})
		start = end
	}
	return deck
}

// NewScore weighs the new rating twice as much as the old score and rounds
// to two decimals.
func NewScore(old float64, rating domain.Rating) float64 {
	return math.Round(100*(old+2*float64(rating))/3) / 100
}

// InsertPosition returns where a card with score belongs in deck: before
// the first card with a higher score, but no earlier than
// MinReinsertPosition and no later than the end.
func InsertPosition(deck []domain.Card, score float64) int {
	pos := len(deck)
	for i, card := range deck {
		if card.Metadata.Score > score {
			pos = i
			break
		}
	}
	pos = max(pos, MinReinsertPosition)
	return min(pos, len(deck))
}

// ApplyRating rates the head of deck and returns the reordered deck along
// with the updated card. The input slice is not modified.
func ApplyRating(deck []domain.Card, rating domain.Rating) ([]domain.Card, domain.Card, error) {
	if len(deck) == 0 {
		return nil, domain.Card{}, ErrEmptyDeck
	}
	if !rating.IsValid() {
		return nil, domain.Card{}, fmt.Errorf("failed to apply rating: %w: %d", domain.ErrInvalidRating, int(rating))
	}

	card := deck[0]
	rest := deck[1:]

	card.Metadata.LastRating = domain.RatingPtr(rating)
	card.Metadata.Score = NewScore(card.Metadata.Score, rating)

	pos := InsertPosition(rest, card.Metadata.Score)
	next := make([]domain.Card, 0, len(deck))
	next = append(next, rest[:pos]...)
	next = append(next, card)
	next = append(next, rest[pos:]...)
	return next, card, nil
}
