package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFoundf("scholar %s not found", "x")))
	assert.Equal(t, KindValidation, KindOf(Validationf("bad input")))
	assert.Equal(t, KindConflict, KindOf(Conflictf("taken")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("mysql gone away")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("load scholar: %w", NotFoundf("scholar not found"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
}
