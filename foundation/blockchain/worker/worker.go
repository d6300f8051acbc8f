// Package worker implements background block forging for the ledger node.
package worker

import (
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// Config represents the configuration required to run the worker.
type Config struct {
	Interval      time.Duration // Zero turns off forging on a timer.
	TransPerBlock int
	EvHandler     state.EventHandler
}

// Worker manages the forging workflow for the node.
type Worker struct {
	state         *state.State
	wg            sync.WaitGroup
	ticker        *time.Ticker
	tick          <-chan time.Time
	shut          chan struct{}
	startForge    chan bool
	transPerBlock int
	evHandler     state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	transPerBlock := cfg.TransPerBlock
	if transPerBlock <= 0 {
		transPerBlock = int(st.Genesis().TransPerBlock)
	}

	w := Worker{
		state:         st,
		shut:          make(chan struct{}),
		startForge:    make(chan bool, 1),
		transPerBlock: transPerBlock,
		evHandler:     ev,
	}

	if cfg.Interval > 0 {
		w.ticker = time.NewTicker(cfg.Interval)
		w.tick = w.ticker.C
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.forgeOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	if w.ticker != nil {
		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()
	}

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalForge starts a forge operation. If there is already a signal
// pending in the channel, just return since a forge operation will start.
func (w *Worker) SignalForge() {
	select {
	case w.startForge <- true:
	default:
	}
	w.evHandler("worker: SignalForge: forge signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
