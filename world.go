package physics

import (
	"log/slog"

	"github.com/rexphysics/rex/actor"
	"github.com/rexphysics/rex/constraint"
)

const fixedStep = float32(1.0 / 60.0)
const maxFixedStepsPerFrame = 8

// World is the caller-owned, single-threaded simulation instance. It
// holds no references to host bodies or joints between calls — every
// Step call borrows the body slice exclusively for its duration.
type World struct {
	Gravity actor.Vec3

	SolverIterations   int
	PositionIterations int
	MaxSubSteps        int

	MaxFrameStep          float32
	PenetrationSlop       float32
	PositionCorrection    float32
	RestitutionThreshold  float32
	Baumgarte             float32
	WarmStartScale        float32
	CachePersistenceFrame uint32

	frameCounter uint32
	accumulator  float32

	manifoldCache map[uint64]constraint.ManifoldCacheEntry
	jointCache    map[uint64]float32

	log *slog.Logger
}

// NewWorld returns a world initialized with DefaultTunables().
func NewWorld() *World {
	return NewWorldWithTunables(DefaultTunables())
}

// NewWorldWithTunables returns a world initialized from t, e.g. after
// loading it with LoadTunables.
func NewWorldWithTunables(t Tunables) *World {
	return &World{
		Gravity: actor.Vec3{t.Gravity[0], t.Gravity[1], t.Gravity[2]},

		SolverIterations:   t.SolverIterations,
		PositionIterations: t.PositionIterations,
		MaxSubSteps:        t.MaxSubSteps,

		MaxFrameStep:          t.MaxFrameStep,
		PenetrationSlop:       t.PenetrationSlop,
		PositionCorrection:    t.PositionCorrection,
		RestitutionThreshold:  t.RestitutionThreshold,
		Baumgarte:             t.Baumgarte,
		WarmStartScale:        t.WarmStartScale,
		CachePersistenceFrame: t.CachePersistenceFrame,

		manifoldCache: make(map[uint64]constraint.ManifoldCacheEntry),
		jointCache:    make(map[uint64]float32),

		log: slog.Default(),
	}
}

// SetGravity overrides the world's linear gravitational acceleration.
func (w *World) SetGravity(g actor.Vec3) {
	w.Gravity = g
}

// SetSolverIterations sets velocity and position iteration counts,
// each clamped to a minimum of 1.
func (w *World) SetSolverIterations(velocity, position int) {
	w.SolverIterations = clampi(velocity, 1, 1<<30)
	w.PositionIterations = clampi(position, 1, 1<<30)
}

// SetMaxSubsteps clamps n to [1,16] and sets the adaptive-substep cap.
func (w *World) SetMaxSubsteps(n int) {
	w.MaxSubSteps = clampi(n, 1, 16)
}

// Step advances the simulation by dt seconds of wall-clock time via a
// fixed-step accumulator: dt is first clamped to MaxFrameStep, then as
// many 1/60s fixed frames are run as the accumulator allows, up to 8
// per call. If the call saturates that cap, the simulation is falling
// behind and the remaining accumulator is discarded rather than let it
// run unboundedly on a later call.
func (w *World) Step(dt float32, bodies []*actor.Body, joints []actor.DistanceJoint) {
	if dt <= 0 || len(bodies) == 0 {
		return
	}

	dt = minf32(dt, w.MaxFrameStep)
	w.accumulator += dt

	fixedSteps := 0
	for w.accumulator >= fixedStep && fixedSteps < maxFixedStepsPerFrame {
		w.simulate(fixedStep, bodies, joints)
		w.accumulator -= fixedStep
		fixedSteps++
	}

	if fixedSteps == maxFixedStepsPerFrame {
		w.accumulator = 0
	}
}

// simulate runs one nominal frame of dt seconds as an adaptive number
// of fixed sub-steps, following the ordering contract: integrate ->
// broadphase -> CCD -> broadphase (refresh) -> narrowphase -> prepare
// -> warm start -> (joints, contacts) x V iterations -> (joints,
// contacts) x P iterations -> cache -> sleep.
func (w *World) simulate(dt float32, bodies []*actor.Body, joints []actor.DistanceJoint) {
	subSteps := w.computeAdaptiveSubSteps(dt, bodies)
	subDt := dt / float32(subSteps)

	bodyByID := make(map[uint64]int, len(bodies))
	for i, b := range bodies {
		bodyByID[b.ID] = i
	}

	for step := 0; step < subSteps; step++ {
		w.frameCounter++

		startPositions := make([]actor.Vec3, len(bodies))
		startOrientations := make([]actor.Quat, len(bodies))
		for i, b := range bodies {
			startPositions[i] = b.Position
			startOrientations[i] = b.Orientation
		}

		for _, b := range bodies {
			b.Integrate(subDt, w.Gravity)
		}

		pairs := BroadPhase(bodies, subDt)
		ApplyCCD(subDt, bodies, pairs, startPositions, startOrientations)

		pairs = BroadPhase(bodies, subDt)

		manifolds := make([]constraint.ContactManifold, 0, len(pairs))
		for _, pr := range pairs {
			raw, ok := actor.BuildManifold(bodies, pr.A, pr.B)
			if !ok {
				continue
			}
			manifolds = append(manifolds, constraint.NewContactManifold(raw))
		}

		jointConstraints := w.prepareJoints(joints, bodyByID, bodies, subDt)

		for i := range manifolds {
			m := &manifolds[i]
			var cache *constraint.ManifoldCacheEntry
			if entry, ok := w.manifoldCache[m.Key]; ok {
				cache = &entry
			}
			m.Prepare(bodies, subDt, w.Baumgarte, w.PenetrationSlop, w.WarmStartScale, cache)
		}
		for i := range manifolds {
			manifolds[i].WarmStart(bodies)
		}
		for i := range jointConstraints {
			jointConstraints[i].WarmStart(bodies)
		}

		iterations := clampi(w.SolverIterations, 1, 1<<30)
		for it := 0; it < iterations; it++ {
			for i := range jointConstraints {
				jointConstraints[i].SolveVelocity(bodies)
			}
			for i := range manifolds {
				manifolds[i].SolveVelocity(bodies)
			}
		}

		posIterations := clampi(w.PositionIterations, 1, 1<<30)
		for it := 0; it < posIterations; it++ {
			for i := range jointConstraints {
				jointConstraints[i].SolveJointPosition(bodies)
			}
			for i := range manifolds {
				constraint.SolvePosition(bodies, manifolds[i].AIndex, manifolds[i].BIndex, w.PositionCorrection, w.PenetrationSlop)
			}
		}

		for i := range manifolds {
			w.manifoldCache[manifolds[i].Key] = manifolds[i].CacheEntry(w.frameCounter)
		}
		for i := range jointConstraints {
			w.jointCache[jointConstraints[i].ID] = jointConstraints[i].AccumulatedImpulse
		}
		pruneManifoldCache(w.manifoldCache, w.frameCounter, w.CachePersistenceFrame)
		pruneJointCache(w.jointCache)

		for _, b := range bodies {
			b.UpdateSleep(subDt)
		}
	}
}

func (w *World) prepareJoints(joints []actor.DistanceJoint, bodyByID map[uint64]int, bodies []*actor.Body, dt float32) []constraint.JointConstraint {
	out := make([]constraint.JointConstraint, 0, len(joints))
	for _, j := range joints {
		if _, ok := bodyByID[j.BodyA]; !ok {
			w.log.Error("joint references unknown body", "joint_id", j.ID, "body", j.BodyA)
			continue
		}
		if _, ok := bodyByID[j.BodyB]; !ok {
			w.log.Error("joint references unknown body", "joint_id", j.ID, "body", j.BodyB)
			continue
		}
		jc, ok := PrepareJointLogged(w, j, bodyByID, bodies, dt)
		if !ok {
			continue
		}
		out = append(out, jc)
	}
	return out
}

// PrepareJointLogged wraps constraint.PrepareJoint with the cached
// accumulated impulse and a diagnostic log on the self-referential
// case, which the spec leaves undefined.
func PrepareJointLogged(w *World, j actor.DistanceJoint, bodyByID map[uint64]int, bodies []*actor.Body, dt float32) (constraint.JointConstraint, bool) {
	cached := w.jointCache[j.ID]
	jc, ok := constraint.PrepareJoint(j, bodyByID, bodies, dt, cached)
	if !ok && bodyByID[j.BodyA] == bodyByID[j.BodyB] {
		w.log.Error("joint connects a body to itself, skipping", "joint_id", j.ID)
	}
	return jc, ok
}

func (w *World) computeAdaptiveSubSteps(dt float32, bodies []*actor.Body) int {
	maxMotion := float32(0)
	minHalfExtent := float32(math32Max)

	for _, b := range bodies {
		if !b.IsDynamic() {
			continue
		}

		sizeX := absf32((b.LocalBoundsMax[0] - b.LocalBoundsMin[0]) * b.Scale[0])
		sizeY := absf32((b.LocalBoundsMax[1] - b.LocalBoundsMin[1]) * b.Scale[1])
		sizeZ := absf32((b.LocalBoundsMax[2] - b.LocalBoundsMin[2]) * b.Scale[2])
		minExtent := maxf32(minf32(minf32(sizeX, sizeY), sizeZ), 0.001)
		minHalfExtent = minf32(minHalfExtent, minExtent*0.5)

		radius := 0.5 * sqrtf32(sizeX*sizeX+sizeY*sizeY+sizeZ*sizeZ)
		linearSpeed := sqrtf32(b.Velocity.Dot(b.Velocity))
		angularSpeed := sqrtf32(b.AngularVelocity.Dot(b.AngularVelocity))
		estimated := (linearSpeed + angularSpeed*radius) * dt
		maxMotion = maxf32(maxMotion, estimated)
	}

	if minHalfExtent == math32Max {
		return 1
	}

	safeMotion := maxf32(minHalfExtent*0.35, 0.001)
	recommended := int(ceilf32(maxMotion / safeMotion))
	return clampi(recommended, 1, maxi(w.MaxSubSteps, 1))
}

const math32Max = 3.4028235e38

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}
