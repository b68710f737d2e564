package canopy

import (
	"fmt"
	"os"
	"time"
)

// globalDebug mirrors the most recently set Stage debug flag so that node and
// registry operations (which lack a Stage pointer) can check it cheaply. Only
// valid with a single Stage.
var globalDebug bool

// debugStats holds per-frame timing and rebuild metrics.
// Only populated when Stage.debug is true.
type debugStats struct {
	transformTime time.Duration
	rebuildTime   time.Duration
	drawTime      time.Duration
	layoutCount   int
	graphicCount  int
	drawnCount    int
	culledCount   int
}

// debugLog prints timing and rebuild stats to stderr.
func (s *Stage) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.transformTime + stats.rebuildTime + stats.drawTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[canopy] transform: %v | rebuild: %v | draw: %v | total: %v\n",
		stats.transformTime, stats.rebuildTime, stats.drawTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[canopy] layouts: %d | graphics: %d | drawn: %d | culled: %d\n",
		stats.layoutCount, stats.graphicCount, stats.drawnCount, stats.culledCount)
}

// debugf prints a diagnostic line to stderr in debug mode. Conditions that
// are absorbed as no-ops (refused registrations and the like) report here.
func debugf(format string, args ...any) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[canopy] "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("canopy debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[canopy] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}
