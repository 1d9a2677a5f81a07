package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultValidate(t *testing.T) {
	ok := Result{StartTime: []int{0, 3}, Duration: []int{3, 3}, TrainID: []int{1, 1}, DriverID: []int{1, 2}}
	assert.NoError(t, ok.Validate())
	assert.Equal(t, 2, ok.Len())

	bad := ok
	bad.DriverID = []int{1}
	assert.ErrorIs(t, bad.Validate(), ErrMalformedOutput)
}
