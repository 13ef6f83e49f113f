package primemover

import (
	"runtime"
	"sync"
)

// Ambient kernel binding (§2.7, "Kronos-style"): a per-goroutine
// reference to the active Kernel, so transformed user code can reach
// the scheduler without threading a context argument. Grounded on
// eventloop's isLoopThread/getGoroutineID technique (parsing the
// goroutine id out of runtime.Stack's header line) rather than on the
// sibling goroutineid package, which in the retrieved pack is an empty
// module stub with no source to ground an implementation on.
var (
	ambientMu sync.RWMutex
	ambient   = make(map[uint64]*Kernel)
)

// SetController binds k as the active kernel for the calling goroutine.
// Passing nil clears the binding. Kernel.RunLoop calls this on every
// goroutine it spawns to run an event body, so the binding is inherited
// automatically by spawned event tasks (§5, "establishing a task
// inherits the binding of its creator").
func SetController(k *Kernel) {
	id := goroutineID()
	ambientMu.Lock()
	defer ambientMu.Unlock()
	if k == nil {
		delete(ambient, id)
		return
	}
	ambient[id] = k
}

// GetController returns the kernel bound to the calling goroutine, or
// nil if none is bound.
func GetController() *Kernel {
	id := goroutineID()
	ambientMu.RLock()
	defer ambientMu.RUnlock()
	return ambient[id]
}

// goroutineID extracts the numeric id from the calling goroutine's
// runtime.Stack header ("goroutine 123 [running]:..."). This is the
// same technique eventloop.getGoroutineID uses; it is the standard
// escape hatch for goroutine affinity checks in the absence of a
// first-class goroutine-local-storage primitive in Go.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
