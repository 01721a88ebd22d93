// internal/features/vector.go
package features

// Vector is an order-significant mapping from feature name to value.
// Order matters: a model is only valid against vectors laid out in the
// exact column order of the manifest it was trained with.
type Vector struct {
	names  []string
	values map[string]float64
}

func NewVector() *Vector {
	return &Vector{values: make(map[string]float64)}
}

// Set appends the feature on first write and overwrites on repeat writes
// without disturbing its position.
func (v *Vector) Set(name string, value float64) {
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}
	v.values[name] = value
}

// Get returns the value for name, and whether it is present.
func (v *Vector) Get(name string) (float64, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Names returns the feature names in insertion order.
func (v *Vector) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Values returns the feature values in insertion order.
func (v *Vector) Values() []float64 {
	out := make([]float64, len(v.names))
	for i, n := range v.names {
		out[i] = v.values[n]
	}
	return out
}

func (v *Vector) Len() int {
	return len(v.names)
}

// Reconcile reorders and pads the vector to exactly match the manifest:
// manifest features missing from the vector become 0, features absent
// from the manifest are dropped. This is the contract that lets a model
// trained on one feature set safely score a different live input shape.
func Reconcile(v *Vector, manifest []string) *Vector {
	out := NewVector()
	for _, name := range manifest {
		val, _ := v.Get(name)
		out.Set(name, val)
	}
	return out
}
