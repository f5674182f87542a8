package redact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailIsStableAndNormalized(t *testing.T) {
	a := Email("Alice@Example.com ")
	assert.Equal(t, a, Email("alice@example.com"))
	assert.True(t, strings.HasPrefix(a, "email:"))
	assert.NotContains(t, a, "alice")
	assert.NotEqual(t, a, Email("bob@example.com"))
	assert.Empty(t, Email("  "))
}

func TestText(t *testing.T) {
	out := Text("search for bob@example.com and carol@example.org")
	assert.NotContains(t, out, "@")
	assert.Contains(t, out, Email("bob@example.com"))
	assert.Equal(t, "no addresses here", Text("no addresses here"))
}
