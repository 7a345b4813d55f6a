package id

import (
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var crockford = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

func TestNewULID(t *testing.T) {
	t.Parallel()

	ids := make([]string, 0, 500)
	seen := make(map[string]struct{}, cap(ids))
	for range cap(ids) {
		u := NewULID()
		require.Regexp(t, crockford, u)
		_, dup := seen[u]
		require.False(t, dup, "duplicate %s", u)
		seen[u] = struct{}{}
		ids = append(ids, u)
	}

	// The timestamp prefix sorts by creation time.
	first := ids[0][:10]
	time.Sleep(2 * time.Millisecond)
	later := NewULID()[:10]
	require.Less(t, first, later)
	require.True(t, slices.IsSortedFunc(ids, func(a, b string) int {
		return strings.Compare(a[:10], b[:10])
	}))
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  [16]byte
		want string
	}{
		{"zero", [16]byte{}, strings.Repeat("0", 26)},
		{"max", [16]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, "7" + strings.Repeat("Z", 25)},
		{"one", [16]byte{15: 1}, strings.Repeat("0", 25) + "1"},
		{"thirty two", [16]byte{15: 32}, strings.Repeat("0", 24) + "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, encode(tt.raw))
		})
	}
}
