package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeys(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       KeySet
	}{
		{
			name:       "four segments",
			identifier: "1_2_03_05",
			want: KeySet{
				Chapter: "1_2",
				Section: "1_203",
				Item:    "1_2_03",
				Type:    "1_2_03_05",
			},
		},
		{
			name:       "three segments",
			identifier: "2_14_07",
			want: KeySet{
				Chapter: "2_14",
				Section: "2_1407",
				Item:    "2_14",
				Type:    "2_14_07",
			},
		},
		{
			name:       "minimal two segments collapses section and item",
			identifier: "9_1",
			want: KeySet{
				Chapter: "9_1",
				Section: "9_1",
				Item:    "9_1",
				Type:    "9_1",
			},
		},
		{
			name:       "production-style compact identifier",
			identifier: "1_32215",
			want: KeySet{
				Chapter: "1_32215",
				Section: "1_32215",
				Item:    "1_32215",
				Type:    "1_32215",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveKeys(tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveKeys_Invalid(t *testing.T) {
	for _, id := range []string{"", "1", "_", "_2", "1_"} {
		t.Run("identifier "+id, func(t *testing.T) {
			_, err := DeriveKeys(id)
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
		})
	}
}
