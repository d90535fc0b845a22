package tensor

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Field is the global tensor field: an ordered set of basis fields whose
// weighted contributions are summed on every sample.
// Registration order is kept so generation is reproducible.
type Field struct {
	// Smooth selects gaussian weights and magnitude-preserving summation.
	Smooth bool

	fields []BasisField
	noise  *rotationNoise
}

// NewField returns an empty field.
func NewField(smooth bool) *Field {
	return &Field{Smooth: smooth}
}

// AddGrid registers a grid basis field.
func (f *Field) AddGrid(center r2.Vec, size, decay, theta float64) {
	f.Add(NewGrid(center, size, decay, theta))
}

// AddRadial registers a radial basis field.
func (f *Field) AddRadial(center r2.Vec, size, decay float64) {
	f.Add(NewRadial(center, size, decay))
}

// Add registers a basis field.
func (f *Field) Add(b BasisField) {
	f.fields = append(f.fields, b)
}

// Remove drops the basis field at index i. Out of range indices are ignored.
func (f *Field) Remove(i int) {
	if i < 0 || i >= len(f.fields) {
		return
	}
	f.fields = slices.Delete(f.fields, i, i+1)
}

// Reset removes all basis fields.
func (f *Field) Reset() {
	f.fields = nil
}

// Len returns the number of registered basis fields.
func (f *Field) Len() int {
	return len(f.fields)
}

// BasisFields returns a copy of the registered basis fields.
func (f *Field) BasisFields() []BasisField {
	return slices.Clone(f.fields)
}

// Centers returns the center of every registered basis field.
func (f *Field) Centers() []r2.Vec {
	out := make([]r2.Vec, len(f.fields))
	for i, b := range f.fields {
		out[i] = b.Center
	}
	return out
}

// SetNoise enables rotational noise. A zero Angle or Size disables it.
func (f *Field) SetNoise(params NoiseParams) {
	if params.Angle == 0 || params.Size <= 0 {
		f.noise = nil
		return
	}
	f.noise = newRotationNoise(params)
}

// Sample returns the summed tensor at p.
// An empty field returns Tensor{1, [0, 0]}: unit magnitude with no
// orientation, which is distinct from the zero tensor.
func (f *Field) Sample(p r2.Vec) Tensor {
	if len(f.fields) == 0 {
		return New(1, [2]float64{0, 0})
	}

	acc := Zero()
	for _, b := range f.fields {
		acc = acc.Add(b.WeightedTensor(p, f.Smooth), f.Smooth)
	}

	if f.noise != nil {
		acc = acc.Rotate(f.noise.angle(p))
	}
	return acc
}
