// Package builtin loads the lessons shipped alongside the application. A
// manifest lists lesson files by name; every file is fetched and parsed,
// and the results are joined in manifest order.
package builtin

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/parser"
)

// DefaultManifest is the manifest name used when none is configured.
const DefaultManifest = "files.txt"

var lineBreak = regexp.MustCompile(`\r?\n`)

// Options controls a Load.
type Options struct {
	Manifest        string
	DefaultLanguage string
	// Prior holds the cards already known; built-in cards keep the history
	// of a prior card with the same content.
	Prior []domain.Card
}

// Catalog is every built-in lesson with its cards.
type Catalog struct {
	Lessons []domain.Lesson
	Cards   []domain.Card
}

// Count returns the number of cards in the named section.
func (c *Catalog) Count(section string) int {
	n := 0
	for _, card := range c.Cards {
		if card.Section == section {
			n++
		}
	}
	return n
}

// Select returns the cards of the named sections in catalog order.
func (c *Catalog) Select(sections []string) []domain.Card {
	wanted := make(map[string]bool, len(sections))
	for _, s := range sections {
		wanted[s] = true
	}
	var cards []domain.Card
	for _, card := range c.Cards {
		if wanted[card.Section] {
			cards = append(cards, card)
		}
	}
	return cards
}

// ParseManifest returns the file names listed in a manifest, one per line.
// Surrounding whitespace is trimmed and blank lines are dropped.
func ParseManifest(text string) []string {
	var names []string
	for _, line := range lineBreak.Split(text, -1) {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Load fetches the manifest and then every listed file in parallel. The
// first failed fetch cancels the others and is returned as a *FetchError.
func Load(ctx context.Context, fetcher Fetcher, opts Options) (*Catalog, error) {
	if syncer, ok := fetcher.(Syncer); ok {
		if err := syncer.Sync(ctx); err != nil {
			return nil, &FetchError{Name: "repository", Err: err}
		}
	}

	manifest := opts.Manifest
	if manifest == "" {
		manifest = DefaultManifest
	}
	text, err := fetcher.Fetch(ctx, manifest)
	if err != nil {
		return nil, &FetchError{Name: manifest, Err: err}
	}
	names := ParseManifest(text)
	slog.Debug("Fetched built-in manifest", "manifest", manifest, "files", len(names))

	results := make([]*parser.Result, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			text, err := fetcher.Fetch(gctx, name)
			if err != nil {
				return &FetchError{Name: name, Err: err}
			}
			result, err := parser.ParseString(text, parser.Options{
				DefaultLanguage: opts.DefaultLanguage,
				Prior:           opts.Prior,
			})
			if err != nil {
				return fmt.Errorf("failed to parse built-in file %s: %w", name, err)
			}
			for j := range result.Cards {
				result.Cards[j].Metadata.IsBuiltIn = true
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	catalog := &Catalog{}
	for _, result := range results {
		catalog.Lessons = append(catalog.Lessons, result.Lessons...)
		catalog.Cards = append(catalog.Cards, result.Cards...)
	}
	slog.Info("Loaded built-in lessons", "files", len(names), "lessons", len(catalog.Lessons), "cards", len(catalog.Cards))
	return catalog, nil
}
