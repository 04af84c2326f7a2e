package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldSearch(t *testing.T) {
	assert.Equal(t, "cafe con leche", FoldSearch("  Café  con\tLeche "))
	assert.Equal(t, "jalapeno", FoldSearch("JALAPEÑO"))
	assert.Equal(t, "", FoldSearch("   "))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"agua", "con", "gas"}, Tokenize("Agua con gas y"))
	assert.Empty(t, Tokenize(""))
}
