package physics

import "math"

// Vec2 is a 2D point or direction in arena units.
type Vec2 struct{ Xv, Yv float64 }

func V(x, y float64) Vec2 { return Vec2{Xv: x, Yv: y} }

func (v Vec2) X() float64 { return v.Xv }
func (v Vec2) Y() float64 { return v.Yv }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.Xv + o.Xv, v.Yv + o.Yv} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.Xv - o.Xv, v.Yv - o.Yv} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.Xv * s, v.Yv * s} }

func (v Vec2) Len() float64 { return math.Hypot(v.Xv, v.Yv) }

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Clamp shortens v to at most max length.
func (v Vec2) Clamp(max float64) Vec2 {
	if l := v.Len(); l > max && l > 0 {
		return v.Scale(max / l)
	}
	return v
}

// Distance computes the Euclidean distance to o.
func (v Vec2) Distance(o Vec2) float64 { return Distance2(v.Xv, v.Yv, o.Xv, o.Yv) }

// Distance2 computes Euclidean distance between two 2D points.
func Distance2(x1, y1, x2, y2 float64) float64 { return math.Hypot(x2-x1, y2-y1) }

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	Min, Max Vec2
}

// Contain clamps p into b.
func (b Bounds) Contain(p Vec2) Vec2 {
	return Vec2{
		Xv: math.Min(math.Max(p.Xv, b.Min.Xv), b.Max.Xv),
		Yv: math.Min(math.Max(p.Yv, b.Min.Yv), b.Max.Yv),
	}
}

func (b Bounds) Center() Vec2 {
	return b.Min.Add(b.Max).Scale(0.5)
}
