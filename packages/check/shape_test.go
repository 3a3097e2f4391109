package check

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"array", `[{"id":"a"},{"id":"b"}]`, "list with 2 items"},
		{"empty array", `[]`, "list with 0 items"},
		{"object", `{"message":"ok","status":"up"}`, "object with keys [message, status]"},
		{"scalar", `42`, "42"},
		{"not json", `<html>oops</html>`, "<html>oops</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize([]byte(tt.body), 200))
		})
	}
}

func TestSummarize_TruncatesRawBodies(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := Summarize([]byte(long), 200)
	assert.Len(t, got, 203)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestFirstListingID(t *testing.T) {
	assert.Equal(t, "p-123", FirstListingID([]byte(`[{"id":"p-123","title":"Flat"}]`)))
	assert.Equal(t, "", FirstListingID([]byte(`[]`)))
	assert.Equal(t, "", FirstListingID([]byte(`{"id":"not-a-list"}`)))
	assert.Equal(t, "", FirstListingID([]byte(`not json`)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 200))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
}

func TestValidateListing_Valid(t *testing.T) {
	body := `{
		"title": "Test Property",
		"price_per_night": 2000,
		"property_type": "apartment",
		"location": {"city": "Mumbai"}
	}`

	issues, err := ValidateListing([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateListing_MissingFields(t *testing.T) {
	issues, err := ValidateListing([]byte(`{"title": "No price"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, issues)
}

func TestValidateListing_ArrayValidatesFirstElement(t *testing.T) {
	body := `[{"title": "Flat", "price_per_night": 1500, "property_type": "villa", "location": {"city": "Goa"}}]`
	issues, err := ValidateListing([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = ValidateListing([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, issues)
}
