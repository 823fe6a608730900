package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_VariesWithEveryInput(t *testing.T) {
	base := Key("iphone 14 screen", "mozilla iphone", 1)

	assert.NotEqual(t, base, Key("iphone 14 screen", "mozilla iphone", 2), "epoch must change the key")
	assert.NotEqual(t, base, Key("iphone 14 battery", "mozilla iphone", 1), "text must change the key")
	assert.NotEqual(t, base, Key("iphone 14 screen", "", 1), "user agent must change the key")

	// Field boundaries matter: shifting a token across the separator is a
	// different key.
	assert.NotEqual(t, Key("ab", "c", 1), Key("a", "bc", 1))

	assert.Equal(t, base, Key("iphone 14 screen", "mozilla iphone", 1))
}
