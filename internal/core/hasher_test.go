package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDigest_KnownValue(t *testing.T) {
	d := ComputeDigest([]byte("hello"))
	assert.Equal(t, Digest("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"), d)
	assert.Equal(t, "2cf24dba5fb0", d.Short())
}

func TestComputeDigest_DiffersOnSingleByte(t *testing.T) {
	assert.NotEqual(t, ComputeDigest([]byte("hello")), ComputeDigest([]byte("hellx")))
}

func TestDigest_ShortOnShortValue(t *testing.T) {
	assert.Equal(t, "abc", Digest("abc").Short())
}
