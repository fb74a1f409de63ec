package actor

// SetMass assigns mass and derives inv_mass and the box inertia tensor
// from the body's scaled local bounds. Mirrors the host-callable mass
// setter: non-dynamic or non-positive mass collapses to inv_mass 0 and
// zero inverse inertia.
func (b *Body) SetMass(mass float32) {
	b.Mass = mass
	if b.BodyType == BodyTypeDynamic && mass > 0 {
		b.InvMass = 1 / mass
	} else {
		b.InvMass = 0
	}
	b.UpdateInertiaTensor()
}

// UpdateInertiaTensor recomputes InvInertia from the scaled local AABB
// assuming a uniform-density box, clamping each dimension to 1mm so a
// flat body never produces an infinite or undefined inertia.
func (b *Body) UpdateInertiaTensor() {
	if b.BodyType != BodyTypeDynamic || b.Mass <= 0 {
		b.InvInertia = Vec3{}
		return
	}

	width := absf((b.LocalBoundsMax[0] - b.LocalBoundsMin[0]) * b.Scale[0])
	height := absf((b.LocalBoundsMax[1] - b.LocalBoundsMin[1]) * b.Scale[1])
	depth := absf((b.LocalBoundsMax[2] - b.LocalBoundsMin[2]) * b.Scale[2])
	width = maxf(width, 0.001)
	height = maxf(height, 0.001)
	depth = maxf(depth, 0.001)

	ixx := (b.Mass / 12) * (height*height + depth*depth)
	iyy := (b.Mass / 12) * (width*width + depth*depth)
	izz := (b.Mass / 12) * (width*width + height*height)

	b.InvInertia[0] = invIfPositive(ixx)
	b.InvInertia[1] = invIfPositive(iyy)
	b.InvInertia[2] = invIfPositive(izz)
}

func invIfPositive(v float32) float32 {
	if v > 1.0e-6 {
		return 1 / v
	}
	return 0
}

// ApplyForce accumulates a world-space force, waking the body. No-op on
// a non-dynamic body.
func (b *Body) ApplyForce(force Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.WakeUp()
	b.Force = b.Force.Add(force)
}

// ApplyTorque accumulates a world-space torque, waking the body.
func (b *Body) ApplyTorque(torque Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.WakeUp()
	b.Torque = b.Torque.Add(torque)
}

// ApplyImpulse changes linear velocity directly by impulse * inv_mass.
func (b *Body) ApplyImpulse(impulse Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.WakeUp()
	b.Velocity = b.Velocity.Add(impulse.Mul(b.InvMass))
}

// ApplyAngularImpulse changes angular velocity via the world-frame
// inverse inertia.
func (b *Body) ApplyAngularImpulse(impulse Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.WakeUp()
	b.AngularVelocity = b.AngularVelocity.Add(b.MulInvInertia(impulse))
}

// ApplyImpulseAtPoint applies a linear impulse at a world-space point,
// producing both linear and angular change.
func (b *Body) ApplyImpulseAtPoint(impulse, worldPoint Vec3) {
	if !b.IsDynamic() {
		return
	}
	b.WakeUp()
	b.Velocity = b.Velocity.Add(impulse.Mul(b.InvMass))
	r := worldPoint.Sub(b.Position)
	angularImpulse := r.Cross(impulse)
	b.AngularVelocity = b.AngularVelocity.Add(b.MulInvInertia(angularImpulse))
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func clamp01f(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
