package scheduler

import "errors"

// ErrEmptyDeck is returned when a rating is applied with no card left.
var ErrEmptyDeck = errors.New("scheduler: deck is empty")
