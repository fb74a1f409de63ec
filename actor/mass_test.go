package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBody_SetMass_Dynamic(t *testing.T) {
	b := Body{
		BodyType:       BodyTypeDynamic,
		Scale:          Vec3{1, 1, 1},
		LocalBoundsMin: Vec3{-0.5, -0.5, -0.5},
		LocalBoundsMax: Vec3{0.5, 0.5, 0.5},
	}
	b.SetMass(2.0)

	assert.Equal(t, float32(2.0), b.Mass)
	assert.InDelta(t, 0.5, b.InvMass, 1e-6)
	assert.Greater(t, b.InvInertia[0], float32(0))
	assert.Greater(t, b.InvInertia[1], float32(0))
	assert.Greater(t, b.InvInertia[2], float32(0))
}

func TestBody_SetMass_NonPositiveCollapsesToStatic(t *testing.T) {
	b := Body{BodyType: BodyTypeDynamic}
	b.SetMass(0)
	assert.Zero(t, b.InvMass)
	assert.Equal(t, Vec3{}, b.InvInertia)
}

func TestBody_UpdateInertiaTensor_FlatBodyClampsExtent(t *testing.T) {
	b := Body{
		BodyType:       BodyTypeDynamic,
		Mass:           1,
		Scale:          Vec3{1, 1, 1},
		LocalBoundsMin: Vec3{-1, 0, -1},
		LocalBoundsMax: Vec3{1, 0, 1},
	}
	b.UpdateInertiaTensor()
	assert.Greater(t, b.InvInertia[0], float32(0))
	assert.Greater(t, b.InvInertia[2], float32(0))
}

func TestBody_ApplyForce_NoopOnStatic(t *testing.T) {
	b := Body{BodyType: 0}
	b.ApplyForce(Vec3{1, 0, 0})
	assert.Equal(t, Vec3{}, b.Force)
}

func TestBody_ApplyImpulse_WakesAndChangesVelocity(t *testing.T) {
	b := Body{BodyType: BodyTypeDynamic, InvMass: 0.5, IsAwake: 0}
	b.ApplyImpulse(Vec3{2, 0, 0})
	assert.True(t, b.Awake())
	assert.InDelta(t, 1.0, b.Velocity[0], 1e-6)
}

func TestBody_ApplyImpulseAtPoint_ProducesTorque(t *testing.T) {
	b := Body{
		BodyType:    BodyTypeDynamic,
		InvMass:     1,
		Orientation: IdentityQuat,
		InvInertia:  Vec3{1, 1, 1},
	}
	b.ApplyImpulseAtPoint(Vec3{0, 1, 0}, Vec3{1, 0, 0})
	assert.NotEqual(t, Vec3{}, b.AngularVelocity)
}
