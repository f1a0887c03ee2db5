package shading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeText(t *testing.T) {
	for _, m := range []Mode{PerFragment, PerVertex} {
		text, err := m.MarshalText()
		require.NoError(t, err)

		var got Mode
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, m, got)
	}

	var m Mode
	assert.Error(t, m.UnmarshalText([]byte("flat")))

	_, err := Mode(7).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestModeDefaultsToPerFragment(t *testing.T) {
	var m Mode
	assert.Equal(t, PerFragment, m)
	assert.Equal(t, PerVertex, m.Toggle())
	assert.Equal(t, PerFragment, m.Toggle().Toggle())
}
