package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTone(t *testing.T) {
	got, err := ParseTone(" BRUTAL ")
	require.NoError(t, err)
	assert.Equal(t, ToneBrutal, got)

	_, err = ParseTone("savage")
	assert.ErrorIs(t, err, ErrInvalidTone)
}

func TestComposeIsDeterministic(t *testing.T) {
	c := Context{Profile: "Backend engineer", Goals: "Ship the API", Posts: "Did things"}

	a, err := Compose(ToneMedium, c)
	require.NoError(t, err)
	b, err := Compose(ToneMedium, c)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestComposeSectionsWithGoals(t *testing.T) {
	p, err := Compose(ToneHarsh, Context{Profile: "p", Goals: "finish course", Posts: "entry"})
	require.NoError(t, err)

	assert.Contains(t, p.System, "Goals vs Reality")
	assert.NotContains(t, p.System, "Activity Highlights")
	assert.Contains(t, p.User, "## Active Goals")
}

func TestComposeSectionsWithoutGoals(t *testing.T) {
	p, err := Compose(ToneLow, Context{Profile: "p", Goals: "", Posts: "entry"})
	require.NoError(t, err)

	assert.Contains(t, p.System, "Activity Highlights")
	assert.NotContains(t, p.System, "Goals vs Reality")
	assert.NotContains(t, p.User, "## Active Goals")
}

func TestComposeToneWording(t *testing.T) {
	gentle, err := Compose(ToneLow, Context{Profile: "p", Posts: "e"})
	require.NoError(t, err)
	brutal, err := Compose(ToneBrutal, Context{Profile: "p", Posts: "e"})
	require.NoError(t, err)

	assert.Contains(t, gentle.System, "supportive career coach")
	assert.Contains(t, brutal.System, "ruthless no-excuses mentor")
	assert.NotEqual(t, gentle.System, brutal.System)
}

func TestComposeRejectsUnknownTone(t *testing.T) {
	_, err := Compose(Tone("extreme"), Context{})
	assert.ErrorIs(t, err, ErrInvalidTone)
}
