package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unitCube() *Body {
	return &Body{
		BodyType:       BodyTypeDynamic,
		Scale:          Vec3{1, 1, 1},
		Orientation:    IdentityQuat,
		LocalBoundsMin: Vec3{-0.5, -0.5, -0.5},
		LocalBoundsMax: Vec3{0.5, 0.5, 0.5},
	}
}

func TestComputeOBB_AxisAlignedMatchesBounds(t *testing.T) {
	b := unitCube()
	obb := ComputeOBB(b, Vec3{1, 2, 3}, IdentityQuat)

	assert.InDelta(t, 1.0, obb.Center[0], 1e-6)
	assert.InDelta(t, 2.0, obb.Center[1], 1e-6)
	assert.InDelta(t, 3.0, obb.Center[2], 1e-6)
	assert.InDelta(t, 0.5, obb.HalfExtents[0], 1e-6)
}

func TestOBB_Vertices_AllWithinHalfExtent(t *testing.T) {
	b := unitCube()
	obb := ComputeOBB(b, Vec3{}, IdentityQuat)
	for _, v := range obb.Vertices() {
		assert.True(t, obb.ContainsPoint(v))
	}
}

func TestOBB_ContainsPoint(t *testing.T) {
	b := unitCube()
	obb := ComputeOBB(b, Vec3{}, IdentityQuat)
	assert.True(t, obb.ContainsPoint(Vec3{0, 0, 0}))
	assert.False(t, obb.ContainsPoint(Vec3{10, 0, 0}))
}

func TestComputeBoundingSphere_RadiusCoversHalfDiagonal(t *testing.T) {
	b := unitCube()
	sphere := ComputeBoundingSphere(b, Vec3{}, IdentityQuat, 0)
	assert.InDelta(t, 0.8660254, sphere.Radius, 1e-5)
}

func TestRaycastOBB_HitsFromOutside(t *testing.T) {
	b := unitCube()
	obb := ComputeOBB(b, Vec3{}, IdentityQuat)

	tHit, normal, hit := RaycastOBB(Vec3{-5, 0, 0}, Vec3{1, 0, 0}, obb, 100)
	assert.True(t, hit)
	assert.InDelta(t, 4.5, tHit, 1e-5)
	assert.InDelta(t, -1.0, normal[0], 1e-5)
}

func TestRaycastOBB_MissesParallelRay(t *testing.T) {
	b := unitCube()
	obb := ComputeOBB(b, Vec3{0, 5, 0}, IdentityQuat)

	_, _, hit := RaycastOBB(Vec3{-5, 0, 0}, Vec3{1, 0, 0}, obb, 100)
	assert.False(t, hit)
}

func TestRaycastOBB_RespectsMaxDistance(t *testing.T) {
	b := unitCube()
	obb := ComputeOBB(b, Vec3{}, IdentityQuat)

	_, _, hit := RaycastOBB(Vec3{-5, 0, 0}, Vec3{1, 0, 0}, obb, 2)
	assert.False(t, hit)
}
