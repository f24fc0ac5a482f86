package pinapi

import (
	"sync"
	"time"

	"simpi/gpioregs"
	"simpi/internal/wpilog"
	"simpi/shm"
)

// pollInterval is the interrupt-engine tick rate (spec.md §4.5): the engine
// is a poller, not an edge-triggered notifier, since the shared bank has no
// wakeup primitive.
const pollInterval = 50 * time.Millisecond

// InterruptEngine watches the shared INPUT register and fires the
// process-local ISR table on the edges/levels the INTEN/INT0/INT1 registers
// describe, in ascending pin order, never holding the bank's lock while a
// callback runs. Grounded on the teacher repo's gpioIRQWorker
// (services/hal/internal/gpioirq/irq_worker.go): a ticker-driven goroutine
// that snapshots state under lock and evaluates it lock-free.
//
// Level-low pins (mode (0,0)) fire on every poll while INPUT reads 0, not
// once per transition. Edges are found by comparing each poll's INPUT
// against this engine's own previous snapshot, so a change that is undone
// between two polls is never seen by this process.
type InterruptEngine struct {
	bank     *shm.SharedBank
	callback func(pin uint8) func()

	prev gpioregs.Register

	stop    chan struct{}
	done    chan struct{}
	startMu sync.Mutex
	started bool
}

func newInterruptEngine(bank *shm.SharedBank, callback func(pin uint8) func()) *InterruptEngine {
	return &InterruptEngine{
		bank:     bank,
		callback: callback,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start spawns the polling goroutine. Safe to call only once; subsequent
// calls are no-ops.
func (e *InterruptEngine) Start() {
	e.startMu.Lock()
	defer e.startMu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.run()
}

// Stop signals the polling goroutine to exit and waits for it to finish.
func (e *InterruptEngine) Stop() {
	e.startMu.Lock()
	started := e.started
	e.startMu.Unlock()
	if !started {
		return
	}
	close(e.stop)
	<-e.done
}

func (e *InterruptEngine) run() {
	defer close(e.done)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// tick takes one lock-guarded snapshot, then evaluates and dispatches
// outside the lock: a callback that blocks or re-enters pinapi must never
// be able to stall the shared bank.
func (e *InterruptEngine) tick() {
	rg, err := e.bank.ReadLock()
	if err != nil {
		wpilog.Warning("interrupt engine: read lock failed: " + err.Error())
		return
	}
	snap := rg.Bank()
	rg.Release()

	prev := e.prev
	e.prev = snap.Input

	for pin := uint8(MinPin); pin <= uint8(MaxPin); pin++ {
		if snap.Inten.ReadPin(pin) == 0 || snap.Config.ReadPin(pin) == 0 {
			continue
		}

		mode := snap.InterruptMode(pin)
		curVal := snap.Input.ReadPin(pin)
		prevVal := prev.ReadPin(pin)

		fired := false
		switch mode {
		case gpioregs.ModeLevelLow:
			fired = curVal == 0
		case gpioregs.ModeAnyChange:
			fired = curVal != prevVal
		case gpioregs.ModeFalling:
			fired = prevVal == 1 && curVal == 0
		case gpioregs.ModeRising:
			fired = prevVal == 0 && curVal == 1
		}
		if !fired {
			continue
		}

		cb := e.callback(pin)
		if cb == nil {
			continue
		}
		e.dispatch(pin, cb)
	}
}

// dispatch runs one ISR callback, recovering from and logging a panic so
// one broken handler can't take down the engine goroutine.
func (e *InterruptEngine) dispatch(pin uint8, cb func()) {
	defer func() {
		if r := recover(); r != nil {
			wpilog.Error("ISR panic recovered on pin " + pinDecimal(pin))
		}
	}()
	cb()
}
