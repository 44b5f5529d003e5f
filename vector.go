package nmg

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NullVec is a float64 vector where each element is either a value or null.
// A null element is "not observed" -- it is never the same thing as a zero.
type NullVec struct {
	data  []float64
	valid []bool
}

func NewNullVec(n int) *NullVec {
	return &NullVec{data: make([]float64, n), valid: make([]bool, n)}
}

// NullVecOf builds a fully valid vector from vals.
func NullVecOf(vals ...float64) *NullVec {
	v := NewNullVec(len(vals))
	for ind := 0; ind < len(vals); ind++ {
		v.Set(ind, vals[ind])
	}

	return v
}

func (v *NullVec) Len() int {
	return len(v.data)
}

func (v *NullVec) Set(indx int, val float64) {
	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	v.data[indx], v.valid[indx] = val, true
}

func (v *NullVec) SetNull(indx int) {
	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	v.data[indx], v.valid[indx] = 0, false
}

// Element returns the value at indx and whether it is valid.
func (v *NullVec) Element(indx int) (float64, bool) {
	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	return v.data[indx], v.valid[indx]
}

func (v *NullVec) IsValid(indx int) bool {
	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	return v.valid[indx]
}

func (v *NullVec) Append(val float64) {
	v.data, v.valid = append(v.data, val), append(v.valid, true)
}

func (v *NullVec) AppendNull() {
	v.data, v.valid = append(v.data, 0), append(v.valid, false)
}

func (v *NullVec) AppendVector(vAdd *NullVec) {
	v.data = append(v.data, vAdd.data...)
	v.valid = append(v.valid, vAdd.valid...)
}

func (v *NullVec) Copy() *NullVec {
	vCopy := NewNullVec(v.Len())
	copy(vCopy.data, v.data)
	copy(vCopy.valid, v.valid)

	return vCopy
}

func (v *NullVec) ValidCount() int {
	n := 0
	for ind := 0; ind < v.Len(); ind++ {
		if v.valid[ind] {
			n++
		}
	}

	return n
}

// Floats returns the valid elements only, in row order.
func (v *NullVec) Floats() []float64 {
	var xOut []float64
	for ind := 0; ind < v.Len(); ind++ {
		if v.valid[ind] {
			xOut = append(xOut, v.data[ind])
		}
	}

	return xOut
}

// Sum adds the valid elements. ok is false if there are none.
func (v *NullVec) Sum() (s float64, ok bool) {
	for ind := 0; ind < v.Len(); ind++ {
		if v.valid[ind] {
			s += v.data[ind]
			ok = true
		}
	}

	return s, ok
}

// Mean averages the valid elements. ok is false if there are none.
func (v *NullVec) Mean() (float64, bool) {
	x := v.Floats()
	if x == nil {
		return 0, false
	}

	return stat.Mean(x, nil), true
}

// Quantile returns the p-th quantile of the valid elements, linearly
// interpolated. ok is false if there are no valid elements.
func (v *NullVec) Quantile(p float64) (float64, bool) {
	x := v.Floats()
	if x == nil {
		return 0, false
	}

	if !sort.Float64sAreSorted(x) {
		sort.Float64s(x)
	}

	return stat.Quantile(p, stat.LinInterp, x, nil), true
}

// Where returns the elements (valid or not) at rows where keep is true.
func (v *NullVec) Where(keep []bool) *NullVec {
	if len(keep) != v.Len() {
		panic(fmt.Errorf("length mismatch in Where"))
	}

	xOut := &NullVec{}
	for ind := 0; ind < v.Len(); ind++ {
		if !keep[ind] {
			continue
		}

		if v.valid[ind] {
			xOut.Append(v.data[ind])
			continue
		}

		xOut.AppendNull()
	}

	return xOut
}
