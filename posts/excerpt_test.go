package posts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeExcerpt(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Some text [&hellip;]", "Some text..."},
		{"Some text.[&hellip;]", "Some text..."},
		{"Ends with a period. [&hellip;]", "Ends with a period..."},
		{"<p>Welcome [&hellip;]</p>\n", "<p>Welcome...</p>\n"},
		{"No marker here", "No marker here"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := SanitizeExcerpt(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "SanitizeExcerpt(%q)", tt.input)
	}
}

func TestSanitizeExcerptEntityBeforeMarker(t *testing.T) {
	got, err := SanitizeExcerpt("Some text &hellip; [&hellip;]")
	require.NoError(t, err)

	assert.NotContains(t, got, "[&hellip;]")
	assert.True(t, strings.HasSuffix(got, "..."), "got %q", got)
	assert.False(t, strings.HasSuffix(got, "...."), "got %q", got)
}

func TestSanitizeExcerptOrder(t *testing.T) {
	// The collapse must see the "...." produced by the marker replacement.
	got, err := SanitizeExcerpt("Done. [&hellip;]")
	require.NoError(t, err)
	assert.Equal(t, "Done...", got)
}

func TestSanitizeExcerptRejectsNonString(t *testing.T) {
	_, err := SanitizeExcerpt(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid type int")

	_, err = SanitizeExcerpt(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid type")

	s := "pointer"
	_, err = SanitizeExcerpt(&s)
	assert.ErrorContains(t, err, "*string")
}
