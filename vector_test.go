package nmg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullVecSetElement(t *testing.T) {
	v := NewNullVec(3)

	for ind := 0; ind < 3; ind++ {
		assert.False(t, v.IsValid(ind))
	}

	v.Set(1, 42)
	x, ok := v.Element(1)
	assert.True(t, ok)
	assert.Equal(t, 42.0, x)

	v.SetNull(1)
	_, ok = v.Element(1)
	assert.False(t, ok)
}

func TestNullVecSumMean(t *testing.T) {
	v := NewNullVec(4)
	v.Set(0, 10)
	v.Set(2, 0)
	v.Set(3, 20)

	s, ok := v.Sum()
	assert.True(t, ok)
	assert.Equal(t, 30.0, s)

	m, ok := v.Mean()
	assert.True(t, ok)
	assert.Equal(t, 10.0, m)

	// a zero is an observation, a null is not
	assert.Equal(t, 3, v.ValidCount())

	empty := NewNullVec(5)
	_, ok = empty.Sum()
	assert.False(t, ok)
	_, ok = empty.Mean()
	assert.False(t, ok)
}

func TestNullVecQuantile(t *testing.T) {
	v := NullVecOf(3, 1, 4, 2)

	q, ok := v.Quantile(0)
	assert.True(t, ok)
	assert.Equal(t, 1.0, q)

	q, _ = v.Quantile(1)
	assert.Equal(t, 4.0, q)

	q, _ = v.Quantile(0.5)
	assert.Equal(t, 2.0, q)

	_, ok = NewNullVec(3).Quantile(0.5)
	assert.False(t, ok)
}

func TestNullVecWhere(t *testing.T) {
	v := NewNullVec(4)
	v.Set(0, 1)
	v.Set(2, 3)
	v.Set(3, 4)

	w := v.Where([]bool{true, true, false, true})
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, 2, w.ValidCount())

	x, ok := w.Element(2)
	assert.True(t, ok)
	assert.Equal(t, 4.0, x)

	_, ok = w.Element(1)
	assert.False(t, ok)
}

func TestNullVecAppendCopy(t *testing.T) {
	v := NullVecOf(1, 2)
	v.AppendNull()

	v2 := NullVecOf(5)
	v.AppendVector(v2)
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, []float64{1, 2, 5}, v.Floats())

	vc := v.Copy()
	vc.Set(0, 99)
	x, _ := v.Element(0)
	assert.Equal(t, 1.0, x)
}
