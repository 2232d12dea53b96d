package mempool

import "sync"

// Pooled []float32 buffers for the tensor hot path: every segmented image
// allocates a normalized input plane and a probability plane of the same
// handful of sizes, so reuse pays off quickly.

var float32Pools sync.Map // key: size class (int), value: *sync.Pool

// sizeClass rounds n up to a multiple of 1024 to limit the number of pools.
func sizeClass(n int) int {
	const step = 1024
	if n <= step {
		return step
	}
	r := (n + step - 1) / step
	return r * step
}

func poolFor(cls int) *sync.Pool {
	pAny, _ := float32Pools.LoadOrStore(cls, &sync.Pool{
		New: func() any { return make([]float32, cls) },
	})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return &sync.Pool{New: func() any { return make([]float32, cls) }}
	}
	return p
}

// GetFloat32 retrieves a []float32 buffer of length n from the pool. The
// contents are undefined; callers must overwrite every element. Return the
// buffer via PutFloat32 when done.
func GetFloat32(n int) []float32 {
	cls := sizeClass(n)
	buf, ok := poolFor(cls).Get().([]float32)
	if !ok || cap(buf) < cls {
		buf = make([]float32, cls)
	}
	return buf[:n]
}

// PutFloat32 returns a buffer to the pool. Nil slices are ignored.
func PutFloat32(buf []float32) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	if cap(buf) < cls {
		// Undersized for its class, let it be collected.
		return
	}
	poolFor(cls).Put(buf[:cls]) //nolint:staticcheck // SA6002: slice header allocation is acceptable here
}
