package sigbatch_test

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/fogfactory/sigbatch"
)

func TestIndex(t *testing.T) {

	t.Run("success_position_of", func(t *testing.T) {
		// Arrange
		index, err := sigbatch.NewIndex([]sigbatch.ID{"a", "b", "c"})
		td.Require(t).CmpNoError(err)

		// Act
		pos, err := index.PositionOf("b")

		// Assert
		td.CmpNoError(t, err)
		td.Cmp(t, pos, 1)
		td.Cmp(t, index.Len(), 3)
		td.Cmp(t, index.At(2), sigbatch.ID("c"))
	})

	t.Run("error_not_found", func(t *testing.T) {
		// Arrange
		index, err := sigbatch.NewIndex([]sigbatch.ID{"a", "b"})
		td.Require(t).CmpNoError(err)

		// Act
		_, err = index.PositionOf("nope")

		// Assert
		td.CmpErrorIs(t, err, sigbatch.ErrNotFound)
	})

	t.Run("error_duplicate_id", func(t *testing.T) {
		// Act
		_, err := sigbatch.NewIndex([]sigbatch.ID{"a", "b", "a"})

		// Assert
		td.CmpErrorIs(t, err, sigbatch.ErrDuplicateID)
	})

	t.Run("success_range_index", func(t *testing.T) {
		// Act
		index := sigbatch.NewRangeIndex(3)

		// Assert
		td.Cmp(t, index.IDs(), []sigbatch.ID{"0", "1", "2"})
	})

	t.Run("success_ids_are_a_copy", func(t *testing.T) {
		// Arrange
		index, err := sigbatch.NewIndex([]sigbatch.ID{"a", "b"})
		td.Require(t).CmpNoError(err)

		// Act
		ids := index.IDs()
		ids[0] = "mutated"

		// Assert
		td.Cmp(t, index.At(0), sigbatch.ID("a"))
	})
}
