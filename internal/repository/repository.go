// Package repository holds every known card in two partitions, user and
// built-in, and writes the whole set back to the store after each change.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/conorfennell/flashdeck/internal/cardkey"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/storage"
)

// StoreKey is the store entry holding the JSON card array.
const StoreKey = "flashcards"

// Section summarizes the cards of one section within a partition.
type Section struct {
	Name     string
	Language string
	Origin   domain.Origin
	Count    int
}

// Repository is the authoritative card set. It is not safe for concurrent
// use; callers serialize access.
type Repository struct {
	store   storage.Store
	user    []domain.Card
	builtIn []domain.Card
}

// Load reads the stored card array. A missing entry yields an empty
// repository. Null entries are dropped and cards stored without a key get
// one computed from their content.
func Load(ctx context.Context, store storage.Store) (*Repository, error) {
	r := &Repository{store: store}

	raw, ok, err := store.Get(ctx, StoreKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	if !ok || raw == "" {
		return r, nil
	}

	var stored []*domain.Card
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode stored cards: %w", err)
	}

	dropped := 0
	for _, card := range stored {
		if card == nil {
			dropped++
			continue
		}
		if card.Metadata.Key == "" {
			card.Metadata.Key = cardkey.Key(*card)
		}
		if card.Metadata.IsBuiltIn {
			r.builtIn = append(r.builtIn, *card)
		} else {
			r.user = append(r.user, *card)
		}
	}
	if dropped > 0 {
		slog.Warn("Dropped empty card entries", "count", dropped)
	}
	slog.Debug("Loaded cards", "user", len(r.user), "built_in", len(r.builtIn))
	return r, nil
}

// All returns the built-in cards followed by the user cards.
func (r *Repository) All() []domain.Card {
	all := make([]domain.Card, 0, len(r.builtIn)+len(r.user))
	all = append(all, r.builtIn...)
	return append(all, r.user...)
}

// ByOrigin returns a copy of one partition.
func (r *Repository) ByOrigin(origin domain.Origin) []domain.Card {
	return append([]domain.Card(nil), *r.partition(origin)...)
}

// InSections returns the cards, in All order, whose section is one of names.
func (r *Repository) InSections(names ...string) []domain.Card {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var cards []domain.Card
	for _, card := range r.All() {
		if wanted[card.Section] {
			cards = append(cards, card)
		}
	}
	return cards
}

// Sections lists the sections of the user partition and then those of the
// built-in partition, each in order of first appearance.
func (r *Repository) Sections() []Section {
	var sections []Section
	for _, origin := range []domain.Origin{domain.OriginUser, domain.OriginBuiltIn} {
		index := make(map[string]int)
		for _, card := range *r.partition(origin) {
			i, ok := index[card.Section]
			if !ok {
				i = len(sections)
				index[card.Section] = i
				sections = append(sections, Section{Name: card.Section, Language: card.Language, Origin: origin})
			}
			sections[i].Count++
		}
	}
	return sections
}

// ReplacePartition discards every card of origin and stores cards in its
// place. IsBuiltIn is set on the new cards to match origin. The other
// partition is untouched.
func (r *Repository) ReplacePartition(ctx context.Context, origin domain.Origin, cards []domain.Card) error {
	fresh := make([]domain.Card, len(cards))
	for i, card := range cards {
		card.Metadata.IsBuiltIn = origin == domain.OriginBuiltIn
		fresh[i] = card
	}

	part := r.partition(origin)
	previous := *part
	*part = fresh
	if err := r.save(ctx); err != nil {
		*part = previous
		return err
	}
	slog.Info("Replaced cards", "origin", origin, "previous", len(previous), "current", len(fresh))
	return nil
}

// Update overwrites the first card in card's partition that has the same
// key, then saves.
func (r *Repository) Update(ctx context.Context, card domain.Card) error {
	part := *r.partition(card.Origin())
	for i := range part {
		if part[i].Metadata.Key != card.Metadata.Key {
			continue
		}
		previous := part[i]
		part[i] = card
		if err := r.save(ctx); err != nil {
			part[i] = previous
			return err
		}
		return nil
	}
	return fmt.Errorf("failed to update card %s in %s cards: %w", card.Metadata.Key, card.Origin(), ErrCardNotFound)
}

func (r *Repository) partition(origin domain.Origin) *[]domain.Card {
	if origin == domain.OriginBuiltIn {
		return &r.builtIn
	}
	return &r.user
}

func (r *Repository) save(ctx context.Context) error {
	data, err := json.Marshal(r.All())
	if err != nil {
		return fmt.Errorf("failed to encode cards: %w", err)
	}
	if err := r.store.Set(ctx, StoreKey, string(data)); err != nil {
		return fmt.Errorf("failed to save cards: %w", err)
	}
	return nil
}
