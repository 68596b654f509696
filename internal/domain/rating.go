package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRating is returned for ratings outside of Fail, Partial and Good.
var ErrInvalidRating = errors.New("domain: invalid rating")

// Rating is the user's feedback on how well a card was recalled.
type Rating int

const (
	Fail    Rating = 0
	Partial Rating = 50
	Good    Rating = 100
)

// IsValid reports whether r is one of Fail, Partial or Good.
func (r Rating) IsValid() bool {
	return r == Fail || r == Partial || r == Good
}

func (r Rating) String() string {
	switch r {
	case Fail:
		return "fail"
	case Partial:
		return "partial"
	case Good:
		return "good"
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// ParseRating maps user input to a rating. It accepts the digits 1-3, the
// first letter of each rating name, or the full name.
func ParseRating(s string) (Rating, error) {
	switch s {
	case "1", "f", "fail":
		return Fail, nil
	case "2", "p", "partial":
		return Partial, nil
	case "3", "g", "good":
		return Good, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
}

// RatingPtr returns a pointer to r, for use as CardMetadata.LastRating.
func RatingPtr(r Rating) *Rating {
	return &r
}
