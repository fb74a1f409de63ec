package actor

// RawManifoldPoint is a candidate contact point produced by the SAT
// narrowphase: world position and penetration depth only. The solver
// package annotates these with lever arms, tangents and masses.
type RawManifoldPoint struct {
	Point       Vec3
	Penetration float32
}

// RawManifold is the SAT narrowphase result for one colliding pair.
type RawManifold struct {
	AIndex, BIndex           int
	Key                      uint64
	Normal                   Vec3
	StaticFriction           float32
	DynamicFriction          float32
	Points                   []RawManifoldPoint
}

// MakePairKey is a symmetric (order-independent) hash of two body ids,
// used to identify a pair across frames for warm-starting. Collisions
// between distinct pairs are a known, accepted limitation — see
// DESIGN.md.
func MakePairKey(a, b uint64) uint64 {
	low, high := a, b
	if a > b {
		low, high = b, a
	}
	key := low
	key ^= high + 0x9e3779b97f4a7c15 + (key << 6) + (key >> 2)
	return key
}

// BuildManifold runs the 15-axis SAT test between bodies[aIdx] and
// bodies[bIdx] and, if they overlap, returns up to 4 contact points.
// It is pure geometry over current pose — called both from the
// narrowphase stage and, a second time, mid-position-solve to obtain
// fresh penetration after bodies have moved.
func BuildManifold(bodies []*Body, aIdx, bIdx int) (RawManifold, bool) {
	a := bodies[aIdx]
	b := bodies[bIdx]

	obbA := ComputeOBB(a, a.Position, a.Orientation)
	obbB := ComputeOBB(b, b.Position, b.Orientation)

	tWorld := obbB.Center.Sub(obbA.Center)
	t := [3]float32{tWorld.Dot(obbA.Axis[0]), tWorld.Dot(obbA.Axis[1]), tWorld.Dot(obbA.Axis[2])}

	var r, absR [3][3]float32
	const eps = 1.0e-5
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = obbA.Axis[i].Dot(obbB.Axis[j])
			absR[i][j] = absf(r[i][j]) + eps
		}
	}

	aHalf := [3]float32{obbA.HalfExtents[0], obbA.HalfExtents[1], obbA.HalfExtents[2]}
	bHalf := [3]float32{obbB.HalfExtents[0], obbB.HalfExtents[1], obbB.HalfExtents[2]}

	minOverlap := float32(math32Max)
	bestNormal := Vec3{0, 1, 0}
	hasAxis := false

	testAxis := func(dist, ra, rb float32, axis Vec3, axisSign float32) bool {
		overlap := ra + rb - dist
		if overlap < 0 {
			return false
		}
		lenSq := axis.Dot(axis)
		if lenSq <= 1.0e-10 {
			return true
		}
		n := axis.Mul(1 / sqrtf(lenSq))
		if axisSign < 0 {
			n = n.Mul(-1)
		}
		if overlap < minOverlap {
			minOverlap = overlap
			bestNormal = n
			hasAxis = true
		}
		return true
	}

	signOf := func(v float32) float32 {
		if v >= 0 {
			return 1
		}
		return -1
	}

	for i := 0; i < 3; i++ {
		ra := aHalf[i]
		rb := bHalf[0]*absR[i][0] + bHalf[1]*absR[i][1] + bHalf[2]*absR[i][2]
		dist := absf(t[i])
		if !testAxis(dist, ra, rb, obbA.Axis[i], signOf(t[i])) {
			return RawManifold{}, false
		}
	}

	for j := 0; j < 3; j++ {
		tB := t[0]*r[0][j] + t[1]*r[1][j] + t[2]*r[2][j]
		ra := aHalf[0]*absR[0][j] + aHalf[1]*absR[1][j] + aHalf[2]*absR[2][j]
		rb := bHalf[j]
		dist := absf(tB)
		if !testAxis(dist, ra, rb, obbB.Axis[j], signOf(tB)) {
			return RawManifold{}, false
		}
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := obbA.Axis[i].Cross(obbB.Axis[j])
			if axis.Dot(axis) <= 1.0e-10 {
				continue
			}

			i1, i2 := (i+1)%3, (i+2)%3
			j1, j2 := (j+1)%3, (j+2)%3

			ra := aHalf[i1]*absR[i2][j] + aHalf[i2]*absR[i1][j]
			rb := bHalf[j1]*absR[i][j2] + bHalf[j2]*absR[i][j1]
			dist := absf(t[i2]*r[i1][j] - t[i1]*r[i2][j])
			sign := signOf(axis.Dot(tWorld))

			if !testAxis(dist, ra, rb, axis, sign) {
				return RawManifold{}, false
			}
		}
	}

	if !hasAxis {
		bestNormal = normalizeOrZero(tWorld)
		if bestNormal.Dot(bestNormal) <= 1.0e-8 {
			bestNormal = Vec3{0, 1, 0}
		}
		minOverlap = 0
	}

	candidates := make([]Vec3, 0, 17)
	vertsA := obbA.Vertices()
	vertsB := obbB.Vertices()

	for _, v := range vertsA {
		if obbB.ContainsPoint(v) {
			candidates = append(candidates, v)
		}
	}
	for _, v := range vertsB {
		if obbA.ContainsPoint(v) {
			candidates = append(candidates, v)
		}
	}
	candidates = append(candidates, obbA.Support(bestNormal).Add(obbB.Support(bestNormal.Mul(-1))).Mul(0.5))

	unique := make([]Vec3, 0, len(candidates))
	for _, c := range candidates {
		dup := false
		for _, u := range unique {
			if distanceSq(u, c) < 1.0e-5 {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, c)
		}
	}

	if len(unique) == 0 {
		return RawManifold{}, false
	}

	var selected []Vec3
	if len(unique) <= 4 {
		selected = unique
	} else {
		var centroid Vec3
		for _, p := range unique {
			centroid = centroid.Add(p)
		}
		centroid = centroid.Mul(1 / float32(len(unique)))

		t1 := pickPerpendicular(bestNormal)
		t2 := normalizeOrZero(bestNormal.Cross(t1))

		selected = make([]Vec3, 0, 4)
		pickExtreme(unique, &selected, centroid, t1, true)
		pickExtreme(unique, &selected, centroid, t1, false)
		pickExtreme(unique, &selected, centroid, t2, true)
		pickExtreme(unique, &selected, centroid, t2, false)

		for len(selected) < 4 {
			bestD := float32(-1)
			bestIdx := -1
			for idx, candidate := range unique {
				dup := false
				for _, s := range selected {
					if distanceSq(s, candidate) < 1.0e-5 {
						dup = true
						break
					}
				}
				if dup {
					continue
				}
				minD := float32(math32Max)
				if len(selected) == 0 {
					minD = distanceSq(candidate, centroid)
				} else {
					for _, s := range selected {
						minD = minf(minD, distanceSq(candidate, s))
					}
				}
				if minD > bestD {
					bestD = minD
					bestIdx = idx
				}
			}
			if bestIdx < 0 {
				break
			}
			selected = append(selected, unique[bestIdx])
		}
	}

	points := make([]RawManifoldPoint, 0, 4)
	for i, p := range selected {
		if i >= 4 {
			break
		}
		points = append(points, RawManifoldPoint{Point: p, Penetration: maxf(minOverlap, 0)})
	}
	if len(points) == 0 {
		return RawManifold{}, false
	}

	return RawManifold{
		AIndex:          aIdx,
		BIndex:          bIdx,
		Key:             MakePairKey(a.ID, b.ID),
		Normal:          bestNormal,
		StaticFriction:  sqrtf(maxf(a.StaticFriction, 0) * maxf(b.StaticFriction, 0)),
		DynamicFriction: sqrtf(maxf(a.DynamicFriction, 0) * maxf(b.DynamicFriction, 0)),
		Points:          points,
	}, true
}

const math32Max = 3.4028235e38

func distanceSq(a, b Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

// pickPerpendicular deterministically picks a unit vector perpendicular
// to n, used as the first in-plane basis axis when selecting extreme
// contact points.
func pickPerpendicular(n Vec3) Vec3 {
	base := Vec3{0, 1, 0}
	if absf(n[0]) < 0.577 {
		base = Vec3{1, 0, 0}
	}
	t := base.Cross(n)
	if t.Dot(t) <= 1.0e-8 {
		base = Vec3{0, 0, 1}
		t = base.Cross(n)
	}
	return normalizeOrZero(t)
}

func pickExtreme(unique []Vec3, selected *[]Vec3, centroid, axis Vec3, maxDir bool) {
	best := float32(math32Max)
	if maxDir {
		best = -math32Max
	}
	bestIdx := -1

	for i, p := range unique {
		proj := p.Sub(centroid).Dot(axis)
		if (maxDir && proj > best) || (!maxDir && proj < best) {
			best = proj
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return
	}
	candidate := unique[bestIdx]
	for _, s := range *selected {
		if distanceSq(s, candidate) < 1.0e-5 {
			return
		}
	}
	*selected = append(*selected, candidate)
}
