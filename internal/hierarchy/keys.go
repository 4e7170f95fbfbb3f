package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIdentifier is returned for identifiers with fewer than two
// underscore-delimited segments.
var ErrInvalidIdentifier = errors.New("invalid hierarchy identifier")

// KeySet holds the derived keys for all four levels of one leaf identifier.
type KeySet struct {
	Chapter string
	Section string
	Item    string
	Type    string
}

// DeriveKeys decomposes a type-level identifier into its ancestor keys.
//
// For "1_2_03_05":
//
//	chapter = "1_2"       (first two segments joined)
//	section = "1_203"     (chapter + third segment, concatenated)
//	item    = "1_2_03"    (all but the last segment)
//	type    = "1_2_03_05" (the identifier itself)
//
// A two-segment identifier is the minimal valid depth: section and item
// collapse onto the chapter key, so only a chapter and a type node exist.
func DeriveKeys(identifier string) (KeySet, error) {
	segs := strings.Split(identifier, "_")
	if len(segs) < 2 || segs[0] == "" || segs[1] == "" {
		return KeySet{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, identifier)
	}

	ks := KeySet{
		Chapter: segs[0] + "_" + segs[1],
		Type:    identifier,
	}

	if len(segs) > 2 {
		ks.Section = ks.Chapter + segs[2]
	} else {
		ks.Section = ks.Chapter
	}

	if len(segs) > 2 {
		ks.Item = strings.Join(segs[:len(segs)-1], "_")
	} else {
		ks.Item = ks.Chapter
	}

	return ks, nil
}
