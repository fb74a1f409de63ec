package constraint

import "github.com/rexphysics/rex/actor"

// JointConstraint is a prepared distance joint: a unit axis from anchor
// A to anchor B, per-body lever arms, the bias term derived from
// current length error, an effective mass, and the impulse accumulator
// carried across frames via the joint cache.
type JointConstraint struct {
	ID           uint64
	AIndex, BIndex int

	LocalAnchorA, LocalAnchorB actor.Vec3
	RestLength                 float32
	Stiffness                  float32
	Damping                    float32

	Axis                actor.Vec3
	RA, RB              actor.Vec3
	Bias                float32
	EffectiveMass       float32
	AccumulatedImpulse  float32
}

// PrepareJoint builds a JointConstraint for one distance joint, or
// false if either endpoint body id is unknown or both resolve to the
// same body. Anchors are treated as plain positional offsets — see
// actor.DistanceJoint's doc comment for why orientation is not applied.
func PrepareJoint(joint actor.DistanceJoint, bodyByID map[uint64]int, bodies []*actor.Body, dt float32, cachedImpulse float32) (JointConstraint, bool) {
	if dt <= 0 {
		return JointConstraint{}, false
	}
	aIdx, ok := bodyByID[joint.BodyA]
	if !ok {
		return JointConstraint{}, false
	}
	bIdx, ok := bodyByID[joint.BodyB]
	if !ok {
		return JointConstraint{}, false
	}
	if aIdx == bIdx {
		return JointConstraint{}, false
	}

	a := bodies[aIdx]
	b := bodies[bIdx]

	worldA := a.Position.Add(joint.LocalAnchorA)
	worldB := b.Position.Add(joint.LocalAnchorB)
	delta := worldB.Sub(worldA)
	lenSq := delta.Dot(delta)
	length := float32(0)
	if lenSq > 1.0e-10 {
		length = sqrtf32(lenSq)
	}

	axis := actor.Vec3{1, 0, 0}
	if length > 1.0e-5 {
		axis = delta.Mul(1 / length)
	}
	rA := worldA.Sub(a.Position)
	rB := worldB.Sub(b.Position)

	raXN := rA.Cross(axis)
	rbXN := rB.Cross(axis)
	angA := a.MulInvInertia(raXN).Cross(rA).Dot(axis)
	angB := b.MulInvInertia(rbXN).Cross(rB).Dot(axis)
	denom := a.InvMass + b.InvMass + angA + angB
	effectiveMass := invOrZero(denom)

	stiffness := clampf32(joint.Stiffness, 0, 1)
	errorLen := length - joint.RestLength
	bias := (stiffness / dt) * errorLen

	return JointConstraint{
		ID:                 joint.ID,
		AIndex:             aIdx,
		BIndex:             bIdx,
		LocalAnchorA:       joint.LocalAnchorA,
		LocalAnchorB:       joint.LocalAnchorB,
		RestLength:         joint.RestLength,
		Stiffness:          stiffness,
		Damping:            maxf32(joint.Damping, 0),
		Axis:               axis,
		RA:                 rA,
		RB:                 rB,
		Bias:               bias,
		EffectiveMass:      effectiveMass,
		AccumulatedImpulse: cachedImpulse,
	}, true
}

// WarmStart applies the carried-over accumulated impulse once.
func (j *JointConstraint) WarmStart(bodies []*actor.Body) {
	if absf32(j.AccumulatedImpulse) <= 1.0e-8 {
		return
	}
	impulse := j.Axis.Mul(j.AccumulatedImpulse)
	a := bodies[j.AIndex]
	b := bodies[j.BIndex]

	if a.IsDynamic() {
		a.Velocity = a.Velocity.Sub(impulse.Mul(a.InvMass))
		a.AngularVelocity = a.AngularVelocity.Sub(a.MulInvInertia(j.RA.Cross(impulse)))
		a.WakeUp()
	}
	if b.IsDynamic() {
		b.Velocity = b.Velocity.Add(impulse.Mul(b.InvMass))
		b.AngularVelocity = b.AngularVelocity.Add(b.MulInvInertia(j.RB.Cross(impulse)))
		b.WakeUp()
	}
}

// SolveVelocity runs one bilateral (unclamped) sequential-impulse
// iteration for the axial constraint.
func (j *JointConstraint) SolveVelocity(bodies []*actor.Body) {
	if j.EffectiveMass <= 0 {
		return
	}
	a := bodies[j.AIndex]
	b := bodies[j.BIndex]

	velA := a.Velocity.Add(a.AngularVelocity.Cross(j.RA))
	velB := b.Velocity.Add(b.AngularVelocity.Cross(j.RB))
	rel := velB.Sub(velA).Dot(j.Axis)

	lambda := -j.EffectiveMass * (rel*(1+j.Damping) + j.Bias)
	j.AccumulatedImpulse += lambda

	impulse := j.Axis.Mul(lambda)
	if a.IsDynamic() {
		a.Velocity = a.Velocity.Sub(impulse.Mul(a.InvMass))
		a.AngularVelocity = a.AngularVelocity.Sub(a.MulInvInertia(j.RA.Cross(impulse)))
	}
	if b.IsDynamic() {
		b.Velocity = b.Velocity.Add(impulse.Mul(b.InvMass))
		b.AngularVelocity = b.AngularVelocity.Add(b.MulInvInertia(j.RB.Cross(impulse)))
	}
}

// SolveJointPosition corrects positional drift directly (no SAT
// re-run needed — the joint axis is recomputed from current anchors).
func (j *JointConstraint) SolveJointPosition(bodies []*actor.Body) {
	a := bodies[j.AIndex]
	b := bodies[j.BIndex]

	worldA := a.Position.Add(j.LocalAnchorA)
	worldB := b.Position.Add(j.LocalAnchorB)
	delta := worldB.Sub(worldA)
	lenSq := delta.Dot(delta)
	if lenSq <= 1.0e-10 {
		return
	}

	length := sqrtf32(lenSq)
	axis := delta.Mul(1 / length)
	errorLen := length - j.RestLength
	if absf32(errorLen) <= 1.0e-4 {
		return
	}

	invMassSum := a.InvMass + b.InvMass
	if invMassSum <= 0 {
		return
	}

	correction := axis.Mul(errorLen * j.Stiffness * 0.5)
	if a.IsDynamic() {
		a.Position = a.Position.Add(correction.Mul(a.InvMass / invMassSum))
	}
	if b.IsDynamic() {
		b.Position = b.Position.Sub(correction.Mul(b.InvMass / invMassSum))
	}
}
