package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

type sample struct {
	Dataset string `validate:"required,oneof=questions knowledge"`
	Indices []int  `validate:"required,min=1,dive,gte=0"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(sample{Dataset: "questions", Indices: []int{0, 2}}))
	})

	t.Run("MissingAndOutOfSet", func(t *testing.T) {
		err := ValidateStruct(sample{Dataset: "other"})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
		assert.Contains(t, err.Error(), "dataset must be one of: questions knowledge")
		assert.Contains(t, err.Error(), "indices is required")
	})

	t.Run("NegativeElement", func(t *testing.T) {
		err := ValidateStruct(sample{Dataset: "knowledge", Indices: []int{1, -1}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than or equal to 0")
	})
}
