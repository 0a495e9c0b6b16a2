package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayValue(t *testing.T) {
	v, err := StringArray{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, v)

	v, err = StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestStringArrayScan(t *testing.T) {
	var a StringArray

	require.NoError(t, a.Scan(`["x","y"]`))
	assert.Equal(t, StringArray{"x", "y"}, a)

	require.NoError(t, a.Scan([]byte(`["z"]`)))
	assert.Equal(t, StringArray{"z"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	require.NoError(t, a.Scan("null"))
	assert.Empty(t, a)
}

func TestStringArrayScanLegacyValues(t *testing.T) {
	var a StringArray

	// Plain JSON string from the old document store.
	require.NoError(t, a.Scan(`"labour law"`))
	assert.Equal(t, StringArray{"labour law"}, a)

	// Raw unquoted text is kept as a single element.
	require.NoError(t, a.Scan("labour law"))
	assert.Equal(t, StringArray{"labour law"}, a)

	require.NoError(t, a.Scan(`""`))
	assert.Empty(t, a)
}

func TestStringArraySetOps(t *testing.T) {
	a := StringArray{"a", "b"}

	assert.True(t, a.Contains("a"))
	assert.False(t, a.Contains("c"))

	assert.Equal(t, StringArray{"a", "b", "c"}, a.Union([]string{"b", "c"}))
	assert.Equal(t, StringArray{"a"}, a.Difference([]string{"b", "x"}))
	assert.Equal(t, StringArray{"a", "b"}, a, "receiver is not mutated")
}

func TestNormalizePublicationType(t *testing.T) {
	got, ok := NormalizePublicationType("Article")
	require.True(t, ok)
	assert.Equal(t, PublicationTypeArticle, got)

	got, ok = NormalizePublicationType("journal-article")
	require.True(t, ok)
	assert.Equal(t, PublicationTypeArticle, got)

	got, ok = NormalizePublicationType("  conference-paper ")
	require.True(t, ok)
	assert.Equal(t, PublicationTypeConference, got)

	_, ok = NormalizePublicationType("poem")
	assert.False(t, ok)
}
