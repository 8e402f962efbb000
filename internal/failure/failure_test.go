package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesByCode(t *testing.T) {
	err := Wrap(MissingSection, "character has no expenses", errors.New("boom"))

	assert.ErrorIs(t, err, ErrMissingSection)
	assert.NotErrorIs(t, err, ErrMalformedInput)
	assert.Equal(t, "character has no expenses: boom", err.Error())
}

func TestCodeOf(t *testing.T) {
	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("appending: %w", New(NumericParseFailure, "karma is not a number"))
		assert.Equal(t, NumericParseFailure, CodeOf(err))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Equal(t, Code(""), CodeOf(errors.New("other")))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, Code(""), CodeOf(nil))
	})
}
