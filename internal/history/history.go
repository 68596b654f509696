// Package history carries review history from stored cards to freshly parsed
// ones. A card keeps its history only while its section, question and answer
// stay exactly the same; editing any of them starts the card over.
package history

import "github.com/conorfennell/flashdeck/internal/domain"

// FindPrior returns the metadata of the first existing card with the same
// section, question and answer as candidate, or nil if there is none.
func FindPrior(candidate domain.Card, existing []domain.Card) *domain.CardMetadata {
	for i := range existing {
		if existing[i].SameContent(candidate) {
			meta := existing[i].Metadata
			return &meta
		}
	}
	return nil
}

// Carry sets the last rating and score of card from its prior card, or resets
// them when there is none. ID, Key and IsBuiltIn are left alone.
func Carry(card *domain.Card, existing []domain.Card) {
	prior := FindPrior(*card, existing)
	if prior == nil {
		card.Metadata.LastRating = nil
		card.Metadata.Score = domain.DefaultScore
		return
	}
	if prior.LastRating != nil {
		card.Metadata.LastRating = domain.RatingPtr(*prior.LastRating)
	} else {
		card.Metadata.LastRating = nil
	}
	card.Metadata.Score = prior.Score
}
