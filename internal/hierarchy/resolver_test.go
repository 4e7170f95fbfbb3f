package hierarchy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwan-dev/diwan/internal/model"
)

// memNodeStore is an insert-if-absent map store for tests.
type memNodeStore struct {
	nodes map[string]model.HierarchyNode
	fail  error
}

func newMemNodeStore() *memNodeStore {
	return &memNodeStore{nodes: make(map[string]model.HierarchyNode)}
}

func (s *memNodeStore) Ensure(_ context.Context, nodes ...model.HierarchyNode) error {
	if s.fail != nil {
		return s.fail
	}
	for _, n := range nodes {
		key := string(n.Level) + ":" + n.ID
		if _, ok := s.nodes[key]; !ok {
			s.nodes[key] = n
		}
	}
	return nil
}

func TestResolve_CreatesAllLevels(t *testing.T) {
	store := newMemNodeStore()
	r := NewResolver(store)

	ks, err := r.Resolve(context.Background(), "1_2_03_05", "Land tax")
	require.NoError(t, err)
	assert.Equal(t, "1_2", ks.Chapter)
	assert.Equal(t, "1_203", ks.Section)
	assert.Equal(t, "1_2_03", ks.Item)
	assert.Equal(t, "1_2_03_05", ks.Type)

	require.Len(t, store.nodes, 4)
	assert.Equal(t, "Chapter 1_2", store.nodes["chapter:1_2"].Name)
	assert.Equal(t, "Section 1_203", store.nodes["section:1_203"].Name)
	assert.Equal(t, "Item 1_2_03", store.nodes["item:1_2_03"].Name)
	assert.Equal(t, "Land tax", store.nodes["type:1_2_03_05"].Name)
	assert.Equal(t, "1_2_03", store.nodes["type:1_2_03_05"].ParentID)
}

func TestResolve_Idempotent(t *testing.T) {
	store := newMemNodeStore()
	r := NewResolver(store)

	_, err := r.Resolve(context.Background(), "1_2_03_05", "Land tax")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "1_2_03_05", "Land tax")
	require.NoError(t, err)

	assert.Len(t, store.nodes, 4)
	// First-write-wins: the leaf name is not overwritten on re-resolution.
	assert.Equal(t, "Land tax", store.nodes["type:1_2_03_05"].Name)
}

func TestResolve_SharedAncestors(t *testing.T) {
	store := newMemNodeStore()
	r := NewResolver(store)

	_, err := r.Resolve(context.Background(), "1_2_03_05", "Land tax")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "1_2_03_06", "Water fees")
	require.NoError(t, err)

	// Two leaves under the same chapter/section/item: 4 + 1 nodes.
	assert.Len(t, store.nodes, 5)
}

func TestResolve_InvalidIdentifierCreatesNothing(t *testing.T) {
	store := newMemNodeStore()
	r := NewResolver(store)

	_, err := r.Resolve(context.Background(), "7", "lonely")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
	assert.Empty(t, store.nodes)
}

func TestResolve_EmptyLeafNameGetsPlaceholder(t *testing.T) {
	store := newMemNodeStore()
	r := NewResolver(store)

	_, err := r.Resolve(context.Background(), "2_1_01_01", "")
	require.NoError(t, err)
	assert.Equal(t, "Type 2_1_01_01", store.nodes["type:2_1_01_01"].Name)
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	store := newMemNodeStore()
	store.fail = errors.New("disk full")
	r := NewResolver(store)

	_, err := r.Resolve(context.Background(), "1_2_03_05", "Land tax")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
