package physics

import "github.com/rexphysics/rex/actor"

// ApplyCCD resolves tunneling for pairs where at least one endpoint has
// ENABLE_CCD, using the swept-sphere time-of-impact from the
// pre-integration poses. Bodies that collide under multiple pairs in
// the same substep combine by taking the minimum TOI and summing
// signed normals (normalized at use). Rolled-back bodies are woken.
func ApplyCCD(dt float32, bodies []*actor.Body, pairs []BodyPair, startPositions []actor.Vec3, startOrientations []actor.Quat) {
	if dt <= 0 {
		return
	}

	toiScale := make(map[int]float32)
	collisionNormals := make(map[int]actor.Vec3)

	for _, pr := range pairs {
		ia, ib := pr.A, pr.B
		a := bodies[ia]
		b := bodies[ib]

		ccdA := a.BodyType == actor.BodyTypeDynamic && a.EnableCCD()
		ccdB := b.BodyType == actor.BodyTypeDynamic && b.EnableCCD()
		if !ccdA && !ccdB {
			continue
		}

		toi, normal, ok := computeSweptSphereTOI(
			a, startPositions[ia], startOrientations[ia], a.Velocity,
			b, startPositions[ib], startOrientations[ib], b.Velocity,
			dt,
		)
		if !ok || toi >= 1 {
			continue
		}

		if ccdA {
			if v, ok := toiScale[ia]; !ok || toi < v {
				toiScale[ia] = toi
			}
			if n, ok := collisionNormals[ia]; ok {
				collisionNormals[ia] = n.Sub(normal)
			} else {
				collisionNormals[ia] = normal.Mul(-1)
			}
		}
		if ccdB {
			if v, ok := toiScale[ib]; !ok || toi < v {
				toiScale[ib] = toi
			}
			if n, ok := collisionNormals[ib]; ok {
				collisionNormals[ib] = n.Add(normal)
			} else {
				collisionNormals[ib] = normal
			}
		}
	}

	for idx, scale := range toiScale {
		scale = clampf32(scale, 0, 1)
		if scale >= 1 {
			continue
		}

		startPos := startPositions[idx]
		startOri := startOrientations[idx]
		body := bodies[idx]

		body.Position = startPos.Add(body.Velocity.Mul(dt * scale))
		body.Orientation = actor.IntegrateOrientation(startOri, body.AngularVelocity, dt*scale)

		n := collisionNormals[idx]
		n = normalizeOrZeroPkg(n)
		if n.Dot(n) > 1.0e-8 {
			vn := body.Velocity.Dot(n)
			if vn < 0 {
				body.Velocity = body.Velocity.Sub(n.Mul(vn))
			}
		}
		body.WakeUp()
	}
}

// computeSweptSphereTOI solves for the smallest u in [0,1] at which the
// bounding spheres of a and b (evaluated at their pre-integration
// poses) first touch under constant relative velocity.
func computeSweptSphereTOI(a *actor.Body, startPosA actor.Vec3, startOriA actor.Quat, velA actor.Vec3, b *actor.Body, startPosB actor.Vec3, startOriB actor.Quat, velB actor.Vec3, dt float32) (float32, actor.Vec3, bool) {
	if dt <= 0 {
		return 0, actor.Vec3{}, false
	}

	sa := actor.ComputeBoundingSphere(a, startPosA, startOriA, 0)
	sb := actor.ComputeBoundingSphere(b, startPosB, startOriB, 0)

	relStart := sb.Center.Sub(sa.Center)
	relDisp := velB.Sub(velA).Mul(dt)
	radius := sa.Radius + sb.Radius

	c := relStart.Dot(relStart) - radius*radius
	if c <= 0 {
		return 0, actor.Vec3{}, false
	}

	aCoef := relDisp.Dot(relDisp)
	if aCoef <= 1.0e-10 {
		return 0, actor.Vec3{}, false
	}

	bCoef := 2 * relStart.Dot(relDisp)
	disc := bCoef*bCoef - 4*aCoef*c
	if disc < 0 {
		return 0, actor.Vec3{}, false
	}

	sqrtDisc := sqrtf32(disc)
	u := (-bCoef - sqrtDisc) / (2 * aCoef)
	if u < 0 || u > 1 {
		return 0, actor.Vec3{}, false
	}

	normal := normalizeOrZeroPkg(relStart.Add(relDisp.Mul(u)))
	if normal.Dot(normal) <= 1.0e-8 {
		normal = normalizeOrZeroPkg(relStart)
	}
	return u, normal, normal.Dot(normal) > 1.0e-8
}

func normalizeOrZeroPkg(v actor.Vec3) actor.Vec3 {
	lenSq := v.Dot(v)
	if lenSq <= 1.0e-8 {
		return actor.Vec3{}
	}
	return v.Mul(1 / sqrtf32(lenSq))
}
