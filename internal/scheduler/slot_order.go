package scheduler

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SlotLabelLess returns a less func over slot labels in root locale collation,
// where punctuation sorts before digits: "1:00 PM" < "10:00 AM" < "9:00 AM".
// The returned func holds a collator and is not safe for concurrent use.
func SlotLabelLess() func(a, b string) bool {
	c := collate.New(language.Und)
	return func(a, b string) bool {
		return c.CompareString(a, b) < 0
	}
}
