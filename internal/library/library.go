// Package library ties the stored lesson text, the card repository and the
// built-in lessons together. Every operation that reads and then writes the
// repository holds the library lock.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/conorfennell/flashdeck/internal/builtin"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/parser"
	"github.com/conorfennell/flashdeck/internal/repository"
	"github.com/conorfennell/flashdeck/internal/scheduler"
	"github.com/conorfennell/flashdeck/internal/storage"
)

// Store entries besides the card array.
const (
	RawTextKey   = "rawdata"
	SelectionKey = "builtin-lessons"
)

// Options configures a Library.
type Options struct {
	DefaultLanguage string
	// Fetcher is the built-in lesson source. Nil disables built-in lessons.
	Fetcher  builtin.Fetcher
	Manifest string
	// Rand orders equal-score cards. Nil seeds one from the clock.
	Rand *rand.Rand
}

// BuiltInLesson is a lesson offered by the built-in source.
type BuiltInLesson struct {
	domain.Lesson
	Count    int
	Included bool
}

type Library struct {
	mu    sync.Mutex
	store storage.Store
	repo  *repository.Repository
	opts  Options
	rng   *rand.Rand
}

// Open loads the repository from store. When no card is stored yet, the
// user text (the default text on first run) is committed.
func Open(ctx context.Context, store storage.Store, opts Options) (*Library, error) {
	repo, err := repository.Load(ctx, store)
	if err != nil {
		return nil, err
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = parser.DefaultLanguage
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	l := &Library{store: store, repo: repo, opts: opts, rng: rng}

	if len(repo.All()) == 0 {
		text, err := l.UserText(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := l.CommitUserText(ctx, text); err != nil {
			slog.Warn("Stored lesson text does not parse", "error", err)
		}
	}
	return l, nil
}

// UserText returns the stored lesson text, or DefaultText if there is none.
// Lines still using the old ";" separator are rewritten, and the rewritten
// text is stored.
func (l *Library) UserText(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, ok, err := l.store.Get(ctx, RawTextKey)
	if err != nil {
		return "", fmt.Errorf("failed to load lesson text: %w", err)
	}
	if !ok {
		return DefaultText, nil
	}

	normalized := parser.NormalizeLegacy(raw)
	if normalized != raw {
		if err := l.store.Set(ctx, RawTextKey, normalized); err != nil {
			return "", fmt.Errorf("failed to store normalized lesson text: %w", err)
		}
		slog.Info("Normalized legacy lesson text")
	}
	return normalized, nil
}

// CommitUserText parses raw and, if every line is valid, stores it and
// replaces the user cards with the result. Cards keep the history of a
// known card with the same content. On a parse error nothing is stored.
func (l *Library) CommitUserText(ctx context.Context, raw string) (*parser.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result, err := parser.ParseString(raw, parser.Options{
		DefaultLanguage: l.opts.DefaultLanguage,
		Prior:           l.repo.All(),
	})
	if err != nil {
		return nil, err
	}

	if err := l.replaceThenSet(ctx, domain.OriginUser, result.Cards, RawTextKey, raw); err != nil {
		return nil, fmt.Errorf("failed to store lesson text: %w", err)
	}
	slog.Info("Committed lesson text", "lessons", len(result.Lessons), "cards", len(result.Cards))
	return result, nil
}

// IncludedBuiltIns returns the names of the built-in lessons the user opted
// into.
func (l *Library) IncludedBuiltIns(ctx context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selection(ctx)
}

// AvailableBuiltIns fetches the built-in lessons and marks those included.
func (l *Library) AvailableBuiltIns(ctx context.Context) ([]BuiltInLesson, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	catalog, err := l.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	selected, err := l.selection(ctx)
	if err != nil {
		return nil, err
	}
	included := make(map[string]bool, len(selected))
	for _, name := range selected {
		included[name] = true
	}

	lessons := make([]BuiltInLesson, len(catalog.Lessons))
	for i, lesson := range catalog.Lessons {
		lessons[i] = BuiltInLesson{
			Lesson:   lesson,
			Count:    catalog.Count(lesson.Name),
			Included: included[lesson.Name],
		}
	}
	return lessons, nil
}

// IncludeBuiltIns opts into exactly the named built-in lessons and replaces
// the built-in cards with theirs. An empty selection removes every
// built-in card.
func (l *Library) IncludeBuiltIns(ctx context.Context, selected []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	catalog, err := l.loadCatalog(ctx)
	if err != nil {
		return err
	}
	if selected == nil {
		selected = []string{}
	}
	data, err := json.Marshal(selected)
	if err != nil {
		return fmt.Errorf("failed to encode built-in selection: %w", err)
	}
	if err := l.replaceThenSet(ctx, domain.OriginBuiltIn, catalog.Select(selected), SelectionKey, string(data)); err != nil {
		return fmt.Errorf("failed to store built-in selection: %w", err)
	}
	return nil
}

// replaceThenSet replaces a partition and then stores value under key. If
// the value cannot be stored the previous partition is put back.
func (l *Library) replaceThenSet(ctx context.Context, origin domain.Origin, cards []domain.Card, key, value string) error {
	previous := l.repo.ByOrigin(origin)
	if err := l.repo.ReplacePartition(ctx, origin, cards); err != nil {
		return err
	}
	if err := l.store.Set(ctx, key, value); err != nil {
		if restoreErr := l.repo.ReplacePartition(ctx, origin, previous); restoreErr != nil {
			return errors.Join(err, restoreErr)
		}
		return err
	}
	return nil
}

// RefreshBuiltIns reloads the included built-in lessons from the source.
// Without a source the stored built-in cards are kept.
func (l *Library) RefreshBuiltIns(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshBuiltIns(ctx)
}

func (l *Library) refreshBuiltIns(ctx context.Context) error {
	if l.opts.Fetcher == nil {
		return nil
	}
	selected, err := l.selection(ctx)
	if err != nil {
		return err
	}
	catalog, err := l.loadCatalog(ctx)
	if err != nil {
		return err
	}
	slog.Debug("Refreshing built-in cards", "lessons", len(selected))
	return l.repo.ReplacePartition(ctx, domain.OriginBuiltIn, catalog.Select(selected))
}

// Sections lists user sections first, then built-in sections.
func (l *Library) Sections() []repository.Section {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Sections()
}

// Cards returns every known card, built-in cards first.
func (l *Library) Cards() []domain.Card {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.All()
}

// StartTraining refreshes the built-in cards and builds a session over the
// named sections, or over every section when none is named. A failed
// refresh is returned and no session is started.
func (l *Library) StartTraining(ctx context.Context, sections ...string) (*scheduler.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.refreshBuiltIns(ctx); err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		for _, s := range l.repo.Sections() {
			sections = append(sections, s.Name)
		}
	}
	deck := scheduler.BuildDeck(scheduler.SectionSet(sections...), l.repo.All(), l.rng)
	slog.Info("Starting training", "sections", len(sections), "cards", len(deck))
	return scheduler.NewSession(deck, l), nil
}

// UpdateCard saves a rated card. It lets a Library serve as a session's
// scheduler.CardUpdater.
func (l *Library) UpdateCard(ctx context.Context, card domain.Card) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Update(ctx, card)
}

func (l *Library) loadCatalog(ctx context.Context) (*builtin.Catalog, error) {
	if l.opts.Fetcher == nil {
		return nil, ErrNoBuiltInSource
	}
	return builtin.Load(ctx, l.opts.Fetcher, builtin.Options{
		Manifest:        l.opts.Manifest,
		DefaultLanguage: l.opts.DefaultLanguage,
		Prior:           l.repo.All(),
	})
}

func (l *Library) selection(ctx context.Context) ([]string, error) {
	raw, ok, err := l.store.Get(ctx, SelectionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in selection: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var selected []string
	if err := json.Unmarshal([]byte(raw), &selected); err != nil {
		return nil, fmt.Errorf("failed to decode built-in selection: %w", err)
	}
	return selected, nil
}
