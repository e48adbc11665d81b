package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_Valid(t *testing.T) {
	for _, m := range All {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, Type("").Valid())
	assert.False(t, Type("quiz").Valid())
	assert.False(t, Type("KARAOKE").Valid())
}

func TestParse(t *testing.T) {
	m, err := Parse(" kanji_story ")
	require.NoError(t, err)
	assert.Equal(t, KanjiStory, m)

	_, err = Parse("karaoke")
	assert.Error(t, err)
}
