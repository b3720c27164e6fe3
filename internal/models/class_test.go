package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassFor(t *testing.T) {
	classes := DefaultClasses()

	t.Run("Subclass prefix selects the class", func(t *testing.T) {
		class, ok := ClassFor(classes, "F5V")
		assert.True(t, ok)
		assert.Equal(t, "F", class.Label)

		class, ok = ClassFor(classes, "A0")
		assert.True(t, ok)
		assert.Equal(t, "A", class.Label)
	})

	t.Run("Unmatched subclass is excluded, not an error", func(t *testing.T) {
		_, ok := ClassFor(classes, "K3")
		assert.False(t, ok)

		_, ok = ClassFor(classes, "")
		assert.False(t, ok)
	})

	t.Run("First matching class wins", func(t *testing.T) {
		overlapping := []Class{{Label: "F5", Prefix: "F5"}, {Label: "F", Prefix: "F"}}
		class, ok := ClassFor(overlapping, "F5V")
		assert.True(t, ok)
		assert.Equal(t, "F5", class.Label)
	})
}
