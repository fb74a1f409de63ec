// Package constraint implements the sequential-impulse velocity solver
// and split-impulse position solver for contacts and distance joints.
// It depends only on actor — the position solver re-runs actor's SAT
// narrowphase directly rather than calling back into the orchestrating
// world package, so no import cycle is needed.
package constraint

import "github.com/rexphysics/rex/actor"

// ManifoldPoint is a contact point annotated with the solver state the
// narrowphase itself does not compute: lever arms, tangent basis,
// effective masses, bias and the running impulse accumulators.
type ManifoldPoint struct {
	Point       actor.Vec3
	Penetration float32

	RA, RB  actor.Vec3
	Tangent actor.Vec3

	NormalMass  float32
	TangentMass float32
	Bias        float32

	NormalImpulse  float32
	TangentImpulse float32
}

// ContactManifold is a RawManifold promoted with per-point solver
// state for one substep.
type ContactManifold struct {
	AIndex, BIndex  int
	Key             uint64
	Normal          actor.Vec3
	StaticFriction  float32
	DynamicFriction float32
	Points          []ManifoldPoint
}

// CachedPoint is the warm-start payload persisted per manifold point.
type CachedPoint struct {
	Point          actor.Vec3
	NormalImpulse  float32
	TangentImpulse float32
}

// ManifoldCacheEntry is what the world's manifold cache stores under a
// pair key between frames.
type ManifoldCacheEntry struct {
	Normal           actor.Vec3
	Points           [4]CachedPoint
	PointCount       int
	LastTouchedFrame uint32
}

// NewContactManifold promotes a raw SAT result into solver-ready form
// with zeroed impulses; Prepare fills in the rest.
func NewContactManifold(raw actor.RawManifold) ContactManifold {
	points := make([]ManifoldPoint, len(raw.Points))
	for i, p := range raw.Points {
		points[i] = ManifoldPoint{Point: p.Point, Penetration: p.Penetration, Tangent: actor.Vec3{1, 0, 0}}
	}
	return ContactManifold{
		AIndex:          raw.AIndex,
		BIndex:          raw.BIndex,
		Key:             raw.Key,
		Normal:          raw.Normal,
		StaticFriction:  raw.StaticFriction,
		DynamicFriction: raw.DynamicFriction,
		Points:          points,
	}
}

// Prepare computes lever arms, tangent basis, effective masses and the
// Baumgarte position bias for every point in m, warm-starting impulses
// from cache when the cached normal still roughly agrees (dot >= 0.6)
// and a cached point lies within 4cm of the fresh one.
func (m *ContactManifold) Prepare(bodies []*actor.Body, dt, baumgarte, slop, warmStartScale float32, cache *ManifoldCacheEntry) {
	if dt <= 0 {
		return
	}

	var useCache *ManifoldCacheEntry
	if cache != nil && cache.Normal.Dot(m.Normal) >= 0.6 {
		useCache = cache
	}

	a := bodies[m.AIndex]
	b := bodies[m.BIndex]

	for i := range m.Points {
		p := &m.Points[i]
		p.RA = p.Point.Sub(a.Position)
		p.RB = p.Point.Sub(b.Position)

		if useCache != nil {
			bestDist := float32(3.4028235e38)
			bestIdx := -1
			for ci := 0; ci < useCache.PointCount; ci++ {
				d := distSq(useCache.Points[ci].Point, p.Point)
				if d < bestDist {
					bestDist = d
					bestIdx = ci
				}
			}
			if bestIdx >= 0 && bestDist < 0.04*0.04 {
				p.NormalImpulse = useCache.Points[bestIdx].NormalImpulse * warmStartScale
				p.TangentImpulse = useCache.Points[bestIdx].TangentImpulse * warmStartScale
			}
		}

		rv := b.Velocity.Add(b.AngularVelocity.Cross(p.RB)).Sub(a.Velocity.Add(a.AngularVelocity.Cross(p.RA)))
		tangentVec := rv.Sub(m.Normal.Mul(rv.Dot(m.Normal)))
		if tangentVec.Dot(tangentVec) <= 1.0e-8 {
			p.Tangent = pickPerpendicular(m.Normal)
		} else {
			p.Tangent = normalizeOrZero(tangentVec)
		}

		rnA := p.RA.Cross(m.Normal)
		rnB := p.RB.Cross(m.Normal)
		angA := a.MulInvInertia(rnA).Cross(p.RA).Dot(m.Normal)
		angB := b.MulInvInertia(rnB).Cross(p.RB).Dot(m.Normal)
		normalDenom := a.InvMass + b.InvMass + angA + angB
		p.NormalMass = invOrZero(normalDenom)

		rtA := p.RA.Cross(p.Tangent)
		rtB := p.RB.Cross(p.Tangent)
		tangAngA := a.MulInvInertia(rtA).Cross(p.RA).Dot(p.Tangent)
		tangAngB := b.MulInvInertia(rtB).Cross(p.RB).Dot(p.Tangent)
		tangentDenom := a.InvMass + b.InvMass + tangAngA + tangAngB
		p.TangentMass = invOrZero(tangentDenom)

		p.Bias = (baumgarte / dt) * maxf32(p.Penetration-slop, 0)
	}
}

// WarmStart applies each point's (possibly inherited) impulses once,
// waking both bodies if the applied impulse is non-trivial.
func (m *ContactManifold) WarmStart(bodies []*actor.Body) {
	a := bodies[m.AIndex]
	b := bodies[m.BIndex]
	for _, p := range m.Points {
		impulse := m.Normal.Mul(p.NormalImpulse).Add(p.Tangent.Mul(p.TangentImpulse))
		if impulse.Dot(impulse) <= 1.0e-12 {
			continue
		}
		if a.IsDynamic() {
			a.Velocity = a.Velocity.Sub(impulse.Mul(a.InvMass))
			a.AngularVelocity = a.AngularVelocity.Sub(a.MulInvInertia(p.RA.Cross(impulse)))
			a.WakeUp()
		}
		if b.IsDynamic() {
			b.Velocity = b.Velocity.Add(impulse.Mul(b.InvMass))
			b.AngularVelocity = b.AngularVelocity.Add(b.MulInvInertia(p.RB.Cross(impulse)))
			b.WakeUp()
		}
	}
}

// SolveVelocity runs one sequential-impulse velocity iteration over m:
// unilateral normal impulse clamped to >=0, then Coulomb-pyramid
// friction clamped by the currently accumulated normal impulse. This
// intentionally couples friction to the accumulated normal impulse,
// not the per-iteration estimate.
func (m *ContactManifold) SolveVelocity(bodies []*actor.Body) {
	a := bodies[m.AIndex]
	b := bodies[m.BIndex]
	if a.InvMass+b.InvMass <= 0 {
		return
	}

	for i := range m.Points {
		p := &m.Points[i]

		rv := b.Velocity.Add(b.AngularVelocity.Cross(p.RB)).Sub(a.Velocity.Add(a.AngularVelocity.Cross(p.RA)))
		vn := rv.Dot(m.Normal)
		lambdaN := p.NormalMass * (-vn + p.Bias)
		oldN := p.NormalImpulse
		p.NormalImpulse = maxf32(oldN+lambdaN, 0)
		lambdaN = p.NormalImpulse - oldN

		impulseN := m.Normal.Mul(lambdaN)
		applyImpulse(a, b, p.RA, p.RB, impulseN)

		rv = b.Velocity.Add(b.AngularVelocity.Cross(p.RB)).Sub(a.Velocity.Add(a.AngularVelocity.Cross(p.RA)))
		vt := rv.Dot(p.Tangent)
		lambdaT := p.TangentMass * (-vt)
		oldT := p.TangentImpulse
		newT := oldT + lambdaT

		maxStatic := m.StaticFriction * p.NormalImpulse
		maxDynamic := m.DynamicFriction * p.NormalImpulse
		if absf32(newT) > maxStatic {
			newT = clampf32(newT, -maxDynamic, maxDynamic)
		} else {
			newT = clampf32(newT, -maxStatic, maxStatic)
		}

		lambdaT = newT - oldT
		p.TangentImpulse = newT

		impulseT := p.Tangent.Mul(lambdaT)
		applyImpulse(a, b, p.RA, p.RB, impulseT)
	}
}

// SolvePosition re-runs SAT on the live (moved) poses to get fresh
// penetration, then nudges both bodies apart proportional to inverse
// mass, split evenly across however many fresh points resulted.
func SolvePosition(bodies []*actor.Body, aIdx, bIdx int, positionCorrection, slop float32) {
	fresh, ok := actor.BuildManifold(bodies, aIdx, bIdx)
	if !ok || len(fresh.Points) == 0 {
		return
	}

	a := bodies[aIdx]
	b := bodies[bIdx]
	invMassSum := a.InvMass + b.InvMass
	if invMassSum <= 0 {
		return
	}

	scale := 1 / float32(len(fresh.Points))
	for _, p := range fresh.Points {
		correctionMag := (maxf32(p.Penetration-slop, 0) / invMassSum) * positionCorrection * scale
		if correctionMag <= 0 {
			continue
		}
		correction := fresh.Normal.Mul(correctionMag)
		if a.IsDynamic() {
			a.Position = a.Position.Sub(correction.Mul(a.InvMass))
		}
		if b.IsDynamic() {
			b.Position = b.Position.Add(correction.Mul(b.InvMass))
		}
	}
}

// CacheEntry snapshots m for warm-start lookup next frame.
func (m *ContactManifold) CacheEntry(frame uint32) ManifoldCacheEntry {
	entry := ManifoldCacheEntry{Normal: m.Normal, LastTouchedFrame: frame}
	entry.PointCount = len(m.Points)
	if entry.PointCount > 4 {
		entry.PointCount = 4
	}
	for i := 0; i < entry.PointCount; i++ {
		entry.Points[i] = CachedPoint{
			Point:          m.Points[i].Point,
			NormalImpulse:  m.Points[i].NormalImpulse,
			TangentImpulse: m.Points[i].TangentImpulse,
		}
	}
	return entry
}

func applyImpulse(a, b *actor.Body, rA, rB, impulse actor.Vec3) {
	if a.IsDynamic() {
		a.Velocity = a.Velocity.Sub(impulse.Mul(a.InvMass))
		a.AngularVelocity = a.AngularVelocity.Sub(a.MulInvInertia(rA.Cross(impulse)))
	}
	if b.IsDynamic() {
		b.Velocity = b.Velocity.Add(impulse.Mul(b.InvMass))
		b.AngularVelocity = b.AngularVelocity.Add(b.MulInvInertia(rB.Cross(impulse)))
	}
}
