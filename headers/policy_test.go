package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidHeaderName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"content-type", true},
		{"x-custom-1", true},
		{"", false},
		{"content type", false},
		{"content:type", false},
		{"héader", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, validHeaderName(tt.name))
		})
	}
}

func TestValidHeaderValue(t *testing.T) {
	assert.True(t, validHeaderValue("text/html; charset=utf-8"))
	assert.True(t, validHeaderValue("tab\tseparated"))
	assert.True(t, validHeaderValue(""))
	assert.False(t, validHeaderValue("line\nbreak"))
	assert.False(t, validHeaderValue("nul\x00byte"))
	assert.False(t, validHeaderValue("del\x7f"))
}

func TestForbidsStorage(t *testing.T) {
	tests := []struct {
		value   string
		forbids bool
	}{
		{"no-store", true},
		{"private", true},
		{"Private", true},
		{"max-age=60, no-store", true},
		{"private=set-cookie", true},
		{"public, max-age=600", false},
		{"no-cache", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.forbids, forbidsStorage(tt.value))
		})
	}
}
