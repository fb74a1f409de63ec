// Package actor holds the per-body state and pure geometry the solver
// operates on: pose, mass properties, oriented bounding boxes, and the
// SAT narrowphase that turns a pair of bodies into a contact manifold.
// It has no dependency on the constraint or root packages, so the
// position solver can re-run narrowphase mid-iteration without a cycle.
package actor

import "github.com/go-gl/mathgl/mgl32"

// Vec3 is a 3-component vector: three consecutive float32s, binary
// compatible with a caller's RexVec3-shaped record.
type Vec3 = mgl32.Vec3

// Quat is a unit quaternion stored in (x, y, z, w) field order, matching
// the external record layout. It intentionally does not reuse mgl32.Quat,
// whose field order is (w, xyz) and would break the ABI.
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQuat is the no-rotation quaternion.
var IdentityQuat = Quat{X: 0, Y: 0, Z: 0, W: 1}

func (q Quat) mgl() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

func fromMgl(m mgl32.Quat) Quat {
	return Quat{X: m.V[0], Y: m.V[1], Z: m.V[2], W: m.W}
}

// Normalized returns the unit form of q, or identity if q is degenerate.
func (q Quat) Normalized() Quat {
	lenSq := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
	if lenSq <= 1.0e-12 {
		return IdentityQuat
	}
	return fromMgl(q.mgl().Normalize())
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return fromMgl(q.mgl().Conjugate())
}

// Mul composes two quaternion rotations, q then rhs is not implied by
// order here — this mirrors Hamilton product q * rhs as used by the
// orientation integrator.
func (q Quat) Mul(rhs Quat) Quat {
	return fromMgl(q.mgl().Mul(rhs.mgl()))
}

// Rotate applies q (normalized first) to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	return q.Normalized().mgl().Rotate(v)
}

// BodyType classifies a Body. Only BodyTypeDynamic participates in
// forces, impulses and integration; every other value is static.
const (
	BodyTypeDynamic uint32 = 1
)

// Flag bits recognized on Body.Flags.
const (
	FlagEnableCCD   uint32 = 1 << 0
	FlagEnableSleep uint32 = 1 << 1
)

// Body is the caller-owned rigid body record. Field order and widths
// match the external binary contract: natively aligned float32s,
// uint32s, and one leading uint64 id, no added padding.
type Body struct {
	ID       uint64
	BodyType uint32
	Flags    uint32
	Mass     float32
	InvMass  float32

	Position    Vec3
	Scale       Vec3
	Orientation Quat

	Velocity        Vec3
	AngularVelocity Vec3
	Force           Vec3
	Torque          Vec3

	InvInertia     Vec3
	LocalBoundsMin Vec3
	LocalBoundsMax Vec3

	Restitution     float32
	StaticFriction  float32
	DynamicFriction float32
	LinearDamping   float32
	AngularDamping  float32

	IsAwake    uint32
	SleepTimer float32
}

// IsDynamic reports whether b takes part in forces, impulses and
// integration. type==1 with inv_mass==0 is treated as static — see
// the redundancy note on BodyType in DESIGN.md.
func (b *Body) IsDynamic() bool {
	return b.BodyType == BodyTypeDynamic && b.InvMass > 0
}

// EnableCCD reports whether the continuous-collision flag is set.
func (b *Body) EnableCCD() bool {
	return b.Flags&FlagEnableCCD != 0
}

// EnableSleep reports whether the sleep-manager flag is set.
func (b *Body) EnableSleep() bool {
	return b.Flags&FlagEnableSleep != 0
}

func (b *Body) Awake() bool { return b.IsAwake != 0 }

// WakeUp flips IsAwake and resets the sleep timer.
func (b *Body) WakeUp() {
	b.IsAwake = 1
	b.SleepTimer = 0
}

// MulInvInertia rotates v into body space, scales by the per-axis
// inverse inertia, and rotates the result back to world space.
func (b *Body) MulInvInertia(v Vec3) Vec3 {
	q := b.Orientation.Normalized()
	local := q.Conjugate().Rotate(v)
	applied := Vec3{
		b.InvInertia[0] * local[0],
		b.InvInertia[1] * local[1],
		b.InvInertia[2] * local[2],
	}
	return q.Rotate(applied)
}

// IntegrateOrientation advances q by angular velocity omega over dt
// using the standard quaternion-derivative approximation, then
// renormalizes.
func IntegrateOrientation(q Quat, omega Vec3, dt float32) Quat {
	omegaQ := Quat{X: omega[0], Y: omega[1], Z: omega[2], W: 0}
	dq := omegaQ.Mul(q)
	return Quat{
		X: q.X + dq.X*(0.5*dt),
		Y: q.Y + dq.Y*(0.5*dt),
		Z: q.Z + dq.Z*(0.5*dt),
		W: q.W + dq.W*(0.5*dt),
	}.Normalized()
}
