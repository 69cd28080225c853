package mediasearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishedYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{date: "2019-05-01T10:00:00Z", want: 2019},
		{date: "1997", want: 1997},
		{date: "", want: 0},
		{date: "n/a", want: 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, publishedYear(tt.date), tt.date)
	}
}

func TestSearchRequiresKeys(t *testing.T) {
	c := NewClient("", "")
	require.False(t, c.HasYouTube())
	require.False(t, c.HasGoogleBooks())

	_, err := c.SearchYouTube(context.Background(), "jazz", 10)
	require.ErrorContains(t, err, "not configured")

	_, err = c.SearchGoogleBooks(context.Background(), "jazz", 10)
	require.ErrorContains(t, err, "not configured")
}
