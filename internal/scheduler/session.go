package scheduler

import (
	"context"
	"fmt"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// CardUpdater persists a rated card.
type CardUpdater interface {
	UpdateCard(ctx context.Context, card domain.Card) error
}

// Session is the state of one training session. The deck always holds every
// card of the session; the head is the card being shown.
type Session struct {
	deck     []domain.Card
	updater  CardUpdater
	reviewed int
}

func NewSession(deck []domain.Card, updater CardUpdater) *Session {
	return &Session{
		deck:    append([]domain.Card(nil), deck...),
		updater: updater,
	}
}

// Current returns the card to show next.
func (s *Session) Current() (domain.Card, bool) {
	if len(s.deck) == 0 {
		return domain.Card{}, false
	}
	return s.deck[0], true
}

func (s *Session) Len() int { return len(s.deck) }

// Reviewed is the number of ratings applied so far.
func (s *Session) Reviewed() int { return s.reviewed }

// Deck returns a copy of the deck in its current order.
func (s *Session) Deck() []domain.Card {
	return append([]domain.Card(nil), s.deck...)
}

// Rate applies rating to the current card and saves it. The deck only moves
// on once the card has been saved.
func (s *Session) Rate(ctx context.Context, rating domain.Rating) (domain.Card, error) {
	next, card, err := ApplyRating(s.deck, rating)
	if err != nil {
		return domain.Card{}, err
	}
	if s.updater != nil {
		if err := s.updater.UpdateCard(ctx, card); err != nil {
			return domain.Card{}, fmt.Errorf("failed to save rated card: %w", err)
		}
	}
	s.deck = next
	s.reviewed++
	return card, nil
}

// Distribution counts the session's cards by last rating.
type Distribution struct {
	Never   int
	Fail    int
	Partial int
	Good    int
}

func (d Distribution) Total() int {
	return d.Never + d.Fail + d.Partial + d.Good
}

func (s *Session) Distribution() Distribution {
	var d Distribution
	for _, card := range s.deck {
		switch {
		case card.Metadata.LastRating == nil:
			d.Never++
		case *card.Metadata.LastRating == domain.Fail:
			d.Fail++
		case *card.Metadata.LastRating == domain.Partial:
			d.Partial++
		default:
			d.Good++
		}
	}
	return d
}
