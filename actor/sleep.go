package actor

const (
	sleepLinearSpeedSq  = 0.04 * 0.04
	sleepAngularSpeedSq = 0.06 * 0.06
	sleepDelaySeconds   = 0.6
)

// UpdateSleep advances the per-body sleep state machine for one
// substep. A body without ENABLE_SLEEP is forced awake. Sleep is
// purely local to each body — no island analysis.
func (b *Body) UpdateSleep(dt float32) {
	if !b.IsDynamic() {
		return
	}
	if !b.EnableSleep() {
		b.IsAwake = 1
		b.SleepTimer = 0
		return
	}

	lowLinear := b.Velocity.Dot(b.Velocity) < sleepLinearSpeedSq
	lowAngular := b.AngularVelocity.Dot(b.AngularVelocity) < sleepAngularSpeedSq
	lowForce := b.Force.Dot(b.Force) < 1.0e-6
	lowTorque := b.Torque.Dot(b.Torque) < 1.0e-6

	if lowLinear && lowAngular && lowForce && lowTorque {
		b.SleepTimer += dt
		if b.SleepTimer >= sleepDelaySeconds {
			b.IsAwake = 0
			b.Velocity = Vec3{}
			b.AngularVelocity = Vec3{}
		}
	} else {
		b.IsAwake = 1
		b.SleepTimer = 0
	}
}

// Integrate advances a dynamic, awake body by one substep of
// semi-implicit Euler under gravity, accumulated force/torque and
// damping, then clears force and torque. A sleeping body with
// negligible pending force/torque is skipped entirely; one with
// meaningful force/torque is woken first.
func (b *Body) Integrate(dt float32, gravity Vec3) {
	if !b.IsDynamic() {
		return
	}
	if !b.Awake() {
		if b.Force.Dot(b.Force) > 1.0e-6 || b.Torque.Dot(b.Torque) > 1.0e-6 {
			b.WakeUp()
		} else {
			return
		}
	}

	accel := gravity
	if b.InvMass > 0 {
		accel = accel.Add(b.Force.Mul(b.InvMass))
	}
	angularAccel := b.MulInvInertia(b.Torque)

	b.Velocity = b.Velocity.Add(accel.Mul(dt))
	b.AngularVelocity = b.AngularVelocity.Add(angularAccel.Mul(dt))

	linearDamping := maxf(1-b.LinearDamping*dt, 0)
	angularDamping := maxf(1-b.AngularDamping*dt, 0)
	b.Velocity = b.Velocity.Mul(linearDamping)
	b.AngularVelocity = b.AngularVelocity.Mul(angularDamping)

	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.Orientation = IntegrateOrientation(b.Orientation, b.AngularVelocity, dt)

	b.Force = Vec3{}
	b.Torque = Vec3{}
}
