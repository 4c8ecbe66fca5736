package nk

// freelist is a per-Host bounded object pool, the Go analog of the
// original's nk_freelist (include/alloc.h, src/alloc.c). Every category of
// kernel object — fibers, DPCs, workers, messages, ports, mutexes, condvars,
// barriers — gets one, each with its own spinlock and its own bounded count.
//
// The original also supports swapping the allocate/free/zero callbacks,
// used only to back the fiber-stack freelist with mmap/munmap instead of
// calloc/free, and an intrusive "freelist_header_offset" so the link could
// sit past a stack's guard page. Neither has a referent here: Go fiber
// "stacks" are ordinary goroutine stacks managed by the runtime, not raw
// mmap'd memory (see SPEC_FULL.md §0), so there is nothing to offset and no
// allocator to override. What remains is the two hooks that still make
// sense once that's gone: a constructor and a resetter.
type freelist[T any] struct {
	lock     spinlock
	new      func() *T
	reset    func(*T)
	maxCount int
	free     []*T
}

// defaultFreelistMaxCount matches the reference implementation's per-category
// bound (DEFINE_SIMPLE_FREELIST_TYPE(..., 10000) throughout thd.c/msg.c/sync.c).
const defaultFreelistMaxCount = 10000

func newFreelist[T any](maxCount int, newFn func() *T, resetFn func(*T)) *freelist[T] {
	if maxCount <= 0 {
		maxCount = defaultFreelistMaxCount
	}
	return &freelist[T]{
		new:      newFn,
		reset:    resetFn,
		maxCount: maxCount,
	}
}

// alloc returns a zeroed object, taking from the pool if one is available.
func (f *freelist[T]) alloc() *T {
	f.lock.Lock()
	n := len(f.free)
	if n == 0 {
		f.lock.Unlock()
		return f.new()
	}
	obj := f.free[n-1]
	f.free = f.free[:n-1]
	f.lock.Unlock()
	if f.reset != nil {
		f.reset(obj)
	}
	return obj
}

// release returns obj to the pool if there is room below maxCount, or drops
// it (letting the garbage collector reclaim it) otherwise.
func (f *freelist[T]) release(obj *T) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if len(f.free) >= f.maxCount {
		return
	}
	f.free = append(f.free, obj)
}
