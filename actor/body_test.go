package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Quat Tests
// =============================================================================

func TestQuat_RoundTripsThroughMgl(t *testing.T) {
	q := Quat{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9}.Normalized()
	back := fromMgl(q.mgl())
	assert.InDelta(t, q.X, back.X, 1e-6)
	assert.InDelta(t, q.Y, back.Y, 1e-6)
	assert.InDelta(t, q.Z, back.Z, 1e-6)
	assert.InDelta(t, q.W, back.W, 1e-6)
}

func TestQuat_IdentityRotateIsNoop(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := IdentityQuat.Rotate(v)
	assert.InDelta(t, v[0], got[0], 1e-6)
	assert.InDelta(t, v[1], got[1], 1e-6)
	assert.InDelta(t, v[2], got[2], 1e-6)
}

func TestQuat_ConjugateUndoesRotation(t *testing.T) {
	q := Quat{X: 0, Y: 0.3826834, Z: 0, W: 0.9238795} // 45deg around Y
	v := Vec3{1, 0, 0}
	rotated := q.Rotate(v)
	back := q.Conjugate().Rotate(rotated)
	assert.InDelta(t, v[0], back[0], 1e-5)
	assert.InDelta(t, v[2], back[2], 1e-5)
}

func TestQuat_NormalizedDegenerateReturnsIdentity(t *testing.T) {
	got := Quat{}.Normalized()
	assert.Equal(t, IdentityQuat, got)
}

// =============================================================================
// Body Tests
// =============================================================================

func TestBody_IsDynamic(t *testing.T) {
	tests := []struct {
		name     string
		body     Body
		wantFlag bool
	}{
		{"dynamic with mass", Body{BodyType: BodyTypeDynamic, InvMass: 1}, true},
		{"dynamic with zero inv_mass", Body{BodyType: BodyTypeDynamic, InvMass: 0}, false},
		{"static type", Body{BodyType: 0, InvMass: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFlag, tt.body.IsDynamic())
		})
	}
}

func TestBody_FlagAccessors(t *testing.T) {
	b := Body{Flags: FlagEnableCCD}
	assert.True(t, b.EnableCCD())
	assert.False(t, b.EnableSleep())

	b.Flags |= FlagEnableSleep
	assert.True(t, b.EnableSleep())
}

func TestBody_WakeUpResetsTimer(t *testing.T) {
	b := Body{IsAwake: 0, SleepTimer: 1.5}
	b.WakeUp()
	assert.True(t, b.Awake())
	assert.Zero(t, b.SleepTimer)
}

func TestBody_MulInvInertiaIdentityOrientation(t *testing.T) {
	b := Body{Orientation: IdentityQuat, InvInertia: Vec3{2, 3, 4}}
	got := b.MulInvInertia(Vec3{1, 1, 1})
	assert.InDelta(t, 2.0, got[0], 1e-6)
	assert.InDelta(t, 3.0, got[1], 1e-6)
	assert.InDelta(t, 4.0, got[2], 1e-6)
}

func TestIntegrateOrientation_ZeroOmegaIsStable(t *testing.T) {
	q := IdentityQuat
	got := IntegrateOrientation(q, Vec3{}, 1.0/60.0)
	assert.InDelta(t, 1.0, got.W, 1e-6)
}
