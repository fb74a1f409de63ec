package constraint

import (
	"math"

	"github.com/rexphysics/rex/actor"
)

func sqrtf32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func distSq(a, b actor.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

func pickPerpendicular(n actor.Vec3) actor.Vec3 {
	base := actor.Vec3{0, 1, 0}
	if absf32(n[0]) < 0.577 {
		base = actor.Vec3{1, 0, 0}
	}
	t := base.Cross(n)
	if t.Dot(t) <= 1.0e-8 {
		base = actor.Vec3{0, 0, 1}
		t = base.Cross(n)
	}
	return normalizeOrZero(t)
}

func normalizeOrZero(v actor.Vec3) actor.Vec3 {
	lenSq := v.Dot(v)
	if lenSq <= 1.0e-8 {
		return actor.Vec3{}
	}
	return v.Mul(1 / sqrtf32(lenSq))
}

func invOrZero(v float32) float32 {
	if v > 1.0e-8 {
		return 1 / v
	}
	return 0
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampf32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
