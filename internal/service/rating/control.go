// Package rating implements the star rating control of the meal form
// without any presentation: it tracks the value, applies tap semantics and
// reports changes through a callback.
package rating

import (
	"fmt"

	"github.com/heartmarshall/foodtracker-backend/internal/domain"
)

// DefaultStarCount is used when New is given a non-positive star count.
const DefaultStarCount = 5

// Control is a headless star rating control. It is not safe for concurrent use.
type Control struct {
	value     int
	starCount int
	onChange  func(int)
}

// New creates a control with starCount stars and a zero value.
// onChange may be nil.
func New(starCount int, onChange func(int)) *Control {
	if starCount <= 0 {
		starCount = DefaultStarCount
	}
	return &Control{starCount: starCount, onChange: onChange}
}

// Value returns the current rating.
func (c *Control) Value() int { return c.value }

// StarCount returns the number of stars.
func (c *Control) StarCount() int { return c.starCount }

// Set assigns the rating. v must be within [0, StarCount].
func (c *Control) Set(v int) error {
	if v < 0 || v > c.starCount {
		return fmt.Errorf("rating %d of %d stars: %w", v, c.starCount, domain.ErrRatingOutOfRange)
	}
	c.set(v)
	return nil
}

// Tap handles a tap on the 1-based star. Tapping the star that matches the
// current rating resets it to zero.
func (c *Control) Tap(star int) error {
	if star < 1 || star > c.starCount {
		return fmt.Errorf("star %d of %d: %w", star, c.starCount, domain.ErrRatingOutOfRange)
	}
	if star == c.value {
		c.set(0)
		return nil
	}
	c.set(star)
	return nil
}

// Selected reports whether the 1-based star is filled.
func (c *Control) Selected(star int) bool {
	return star >= 1 && star <= c.value
}

// Label is the accessibility label of the 1-based star.
func (c *Control) Label(star int) string {
	return fmt.Sprintf("Set %d star rating", star)
}

// Hint is the accessibility hint of the 1-based star. Only the star that
// would reset the rating has one.
func (c *Control) Hint(star int) string {
	if star == c.value && star > 0 {
		return "Tap to reset the rating to zero."
	}
	return ""
}

// ValueText describes the current rating for assistive technologies.
func (c *Control) ValueText() string {
	switch c.value {
	case 0:
		return "no rating set."
	case 1:
		return "1 star set."
	default:
		return fmt.Sprintf("%d stars set.", c.value)
	}
}

func (c *Control) set(v int) {
	if v == c.value {
		return
	}
	c.value = v
	if c.onChange != nil {
		c.onChange(v)
	}
}
