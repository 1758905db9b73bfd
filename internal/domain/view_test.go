package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenre(t *testing.T) {
	g, ok := ParseGenre("")
	require.True(t, ok)
	assert.Equal(t, GenreFantasy, g)

	g, ok = ParseGenre(" Historical Fiction ")
	require.True(t, ok)
	assert.Equal(t, GenreHistoricalFiction, g)

	_, ok = ParseGenre("Western")
	assert.False(t, ok)

	assert.Len(t, Genres, 8)
	assert.Equal(t, DefaultGenre, Genres[0])
}

func TestViewTransitions(t *testing.T) {
	v := NewView("v1")
	assert.Equal(t, StatusIdle, v.State.Status())
	assert.Equal(t, DefaultGenre, v.Genre)

	v = v.WithInput("dragon", GenreHorror)
	v = v.Fail("earlier failure").Begin()
	assert.Equal(t, StatusInFlight, v.State.Status())
	_, hasErr := v.State.ErrorMessage()
	assert.False(t, hasErr, "begin clears the previous error")

	v = v.Succeed("Once upon a time...")
	assert.Equal(t, StatusSuccess, v.State.Status())
	assert.Equal(t, "Once upon a time...", v.Story)
	_, hasErr = v.State.ErrorMessage()
	assert.False(t, hasErr)

	v = v.Begin().Fail("boom")
	msg, hasErr := v.State.ErrorMessage()
	require.True(t, hasErr)
	assert.Equal(t, "boom", msg)
	assert.Equal(t, "Once upon a time...", v.Story, "failure must keep the previous story")
}

func TestRequestStateJSON(t *testing.T) {
	v := NewView("v1").Fail("Please enter some keywords")
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded View
	require.NoError(t, json.Unmarshal(raw, &decoded))
	msg, ok := decoded.State.ErrorMessage()
	require.True(t, ok)
	assert.Equal(t, "Please enter some keywords", msg)

	var state RequestState
	assert.Error(t, json.Unmarshal([]byte(`{"status":"pending"}`), &state))
}

func TestParagraphs(t *testing.T) {
	assert.Nil(t, Paragraphs(""))
	assert.Equal(t, []string{"one", "", "two"}, Paragraphs("one\n\ntwo"))
}
