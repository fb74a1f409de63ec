package constraint

import (
	"testing"

	"github.com/rexphysics/rex/actor"
	"github.com/stretchr/testify/assert"
)

func pendulumBodies() ([]*actor.Body, map[uint64]int) {
	anchor := &actor.Body{ID: 1, BodyType: 0, Orientation: actor.IdentityQuat, Position: actor.Vec3{0, 5, 0}}
	bob := &actor.Body{ID: 2, BodyType: actor.BodyTypeDynamic, Orientation: actor.IdentityQuat, Position: actor.Vec3{0, 3, 0}}
	bob.SetMass(1)
	bodies := []*actor.Body{anchor, bob}
	return bodies, map[uint64]int{1: 0, 2: 1}
}

func TestPrepareJoint_UnknownBodyFails(t *testing.T) {
	bodies, byID := pendulumBodies()
	joint := actor.DistanceJoint{ID: 1, BodyA: 1, BodyB: 99, RestLength: 2, Stiffness: 1}

	_, ok := PrepareJoint(joint, byID, bodies, 1.0/60.0, 0)
	assert.False(t, ok)
}

func TestPrepareJoint_SelfReferenceFails(t *testing.T) {
	bodies, byID := pendulumBodies()
	joint := actor.DistanceJoint{ID: 1, BodyA: 2, BodyB: 2, RestLength: 2, Stiffness: 1}

	_, ok := PrepareJoint(joint, byID, bodies, 1.0/60.0, 0)
	assert.False(t, ok)
}

func TestPrepareJoint_ZeroDtFails(t *testing.T) {
	bodies, byID := pendulumBodies()
	joint := actor.DistanceJoint{ID: 1, BodyA: 1, BodyB: 2, RestLength: 2, Stiffness: 1}

	_, ok := PrepareJoint(joint, byID, bodies, 0, 0)
	assert.False(t, ok)
}

func TestJointConstraint_SolveVelocityPullsBobTowardRestLength(t *testing.T) {
	bodies, byID := pendulumBodies()
	joint := actor.DistanceJoint{ID: 1, BodyA: 1, BodyB: 2, RestLength: 2, Stiffness: 1}

	jc, ok := PrepareJoint(joint, byID, bodies, 1.0/60.0, 0)
	assert.True(t, ok)

	bodies[1].Velocity = actor.Vec3{0, -1, 0}
	for i := 0; i < 4; i++ {
		jc.SolveVelocity(bodies)
	}
	assert.InDelta(t, 0.0, bodies[1].Velocity[1], 1e-5)
}

func TestJointConstraint_WarmStartAppliesAccumulatedImpulse(t *testing.T) {
	bodies, byID := pendulumBodies()
	joint := actor.DistanceJoint{ID: 1, BodyA: 1, BodyB: 2, RestLength: 2, Stiffness: 1}

	jc, ok := PrepareJoint(joint, byID, bodies, 1.0/60.0, 2.0)
	assert.True(t, ok)

	before := bodies[1].Velocity
	jc.WarmStart(bodies)
	assert.NotEqual(t, before, bodies[1].Velocity)
}

func TestJointConstraint_SolveJointPositionReducesLengthError(t *testing.T) {
	bodies, byID := pendulumBodies()
	bodies[1].Position = actor.Vec3{0, 2, 0} // length 3, rest 2
	joint := actor.DistanceJoint{ID: 1, BodyA: 1, BodyB: 2, RestLength: 2, Stiffness: 1}

	jc, ok := PrepareJoint(joint, byID, bodies, 1.0/60.0, 0)
	assert.True(t, ok)

	before := bodies[1].Position.Sub(bodies[0].Position).Len()
	jc.SolveJointPosition(bodies)
	after := bodies[1].Position.Sub(bodies[0].Position).Len()
	assert.Less(t, after, before)
}
