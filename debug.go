package primemover

import (
	"runtime"
	"strings"
)

// captureDebugInfo inspects the call stack to record the posting site
// of an event (§4.6). It walks past this package's own frames to find
// the first caller outside primemover, mirroring the stack-walk
// eventloop.getGoroutineID uses for goroutine affinity, applied here to
// site capture instead. Costly; only invoked when WithDebugEvents(true)
// is set.
func captureDebugInfo() *DebugInfo {
	var pcs [16]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !frameIsInternal(frame.Function) {
			return &DebugInfo{
				SiteClass:  frame.Function,
				SiteMethod: frame.Function,
				SiteLine:   frame.Line,
			}
		}
		if !more {
			break
		}
	}
	return &DebugInfo{}
}

func frameIsInternal(fn string) bool {
	return strings.Contains(fn, internalPrefix)
}

// internalPrefix is this package's import path: runtime frame names are
// qualified by import path, not by package name.
const internalPrefix = "github.com/Hellblazer/Prime-Mover-sub001."
