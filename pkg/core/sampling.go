package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomInRange returns a vector with each component uniform in [lo, hi)
func RandomInRange(lo, hi float64, sampler Sampler) Vec3 {
	u := sampler.Get3D()
	span := hi - lo
	return NewVec3(lo+span*u.X, lo+span*u.Y, lo+span*u.Z)
}

// RandomUnit returns a uniformly distributed unit vector
func RandomUnit(sampler Sampler) Vec3 {
	for {
		p := RandomInRange(-1, 1, sampler)
		lengthSq := p.LengthSquared()
		// Reject points outside the ball and points too close to the origin to normalize
		if lengthSq > 1e-160 && lengthSq <= 1 {
			return p.Divide(math.Sqrt(lengthSq))
		}
	}
}

// RandomInUnitDisk returns a uniformly distributed point with z = 0 and x²+y² < 1
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		s := sampler.Get2D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 0)
		if p.LengthSquared() < 1 {
			return p
		}
	}
}
