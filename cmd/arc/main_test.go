package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMemSize(t *testing.T) {
	assert := assert.New(t)

	cases := map[string]uint32{
		"64KB":    64 * 1024,
		"64kb":    64 * 1024,
		"128KB":   128 * 1024,
		"1MB":     1024 * 1024,
		"8MB":     8 * 1024 * 1024,
		"65536":   65536,
		" 64KB ":  64 * 1024,
		"8388608": 8 * 1024 * 1024,
	}
	for text, want := range cases {
		size, err := parseMemSize(text)
		assert.NoError(err, text)
		assert.Equal(want, size, text)
	}
}

func TestParseMemSize_Invalid(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{
		"", "banana", "-64KB", "64GB", "0KB", "63KB", "9MB", "1KB", "0x10000",
	} {
		_, err := parseMemSize(text)
		assert.Error(err, text)
	}
}
