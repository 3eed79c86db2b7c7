package gesture

import (
	"math"
	"strconv"

	"github.com/ayusman/airdraw/internal/detector/landmark"
)

// Vector is a 2D pixel displacement. Depth is ignored.
type Vector struct {
	X float64
	Y float64
}

// Between returns the vector pointing from one landmark to another.
func Between(from, to landmark.Landmark) Vector {
	return Vector{
		X: float64(to.X - from.X),
		Y: float64(to.Y - from.Y),
	}
}

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Norm returns the length of v.
func (v Vector) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Similarity is a cosine similarity that may be undefined.
type Similarity struct {
	Value   float64
	Defined bool
}

// Cosine returns dot(u,v)/(|u||v|). The result is undefined when either
// vector has zero length.
func Cosine(u, v Vector) Similarity {
	nu, nv := u.Norm(), v.Norm()
	if nu == 0 || nv == 0 {
		return Similarity{}
	}
	return Similarity{Value: u.Dot(v) / (nu * nv), Defined: true}
}

// Above reports whether s is defined and strictly greater than t.
func (s Similarity) Above(t float64) bool {
	return s.Defined && s.Value > t
}

// Below reports whether s is defined and strictly less than t.
func (s Similarity) Below(t float64) bool {
	return s.Defined && s.Value < t
}

// MarshalJSON encodes an undefined similarity as null.
func (s Similarity) MarshalJSON() ([]byte, error) {
	if !s.Defined {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, s.Value, 'f', -1, 64), nil
}

// Distance returns the Euclidean pixel distance between two landmarks.
func Distance(a, b landmark.Landmark) float64 {
	return Between(a, b).Norm()
}
