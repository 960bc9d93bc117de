package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.2351))
	assert.Equal(t, 3.0, Round2(3))
	assert.Equal(t, -0.13, Round2(-0.1251))
	assert.Equal(t, 1000.06, Round2(250.5+749.56))
}
