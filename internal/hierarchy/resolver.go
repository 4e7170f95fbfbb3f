// Package hierarchy resolves composite budget identifiers into the
// chapter/section/item/type tree and keeps the tree free of duplicates.
package hierarchy

import (
	"context"
	"fmt"

	"github.com/diwan-dev/diwan/internal/model"
)

// NodeStore persists hierarchy nodes. Ensure must be insert-if-absent
// and atomic across the whole batch: concurrent resolutions of the same
// new identifier may race, and the store is what makes that race
// harmless, while atomicity keeps a failed call from leaving a partial
// ancestor chain behind.
type NodeStore interface {
	Ensure(ctx context.Context, nodes ...model.HierarchyNode) error
}

// Resolver ensures every level of a leaf identifier exists exactly once.
type Resolver struct {
	nodes NodeStore
}

// NewResolver creates a Resolver backed by the given node store.
func NewResolver(nodes NodeStore) *Resolver {
	return &Resolver{nodes: nodes}
}

// Resolve derives the ancestor keys for identifier and ensures all four
// nodes exist, ancestor-first. Ancestors get placeholder names ("Chapter
// 1_2"); the leaf gets leafName. Keys are derived before any store call,
// so a malformed identifier never creates nodes.
func (r *Resolver) Resolve(ctx context.Context, identifier, leafName string) (KeySet, error) {
	ks, err := DeriveKeys(identifier)
	if err != nil {
		return KeySet{}, err
	}

	nodes := []model.HierarchyNode{
		{ID: ks.Chapter, Name: "Chapter " + ks.Chapter, Level: model.LevelChapter},
		{ID: ks.Section, ParentID: ks.Chapter, Name: "Section " + ks.Section, Level: model.LevelSection},
		{ID: ks.Item, ParentID: ks.Section, Name: "Item " + ks.Item, Level: model.LevelItem},
		{ID: ks.Type, ParentID: ks.Item, Name: leafName, Level: model.LevelType},
	}
	if leafName == "" {
		nodes[3].Name = "Type " + ks.Type
	}

	if err := r.nodes.Ensure(ctx, nodes...); err != nil {
		return KeySet{}, fmt.Errorf("ensuring hierarchy for %s: %w", identifier, err)
	}
	return ks, nil
}
