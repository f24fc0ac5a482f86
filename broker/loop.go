// Package broker implements the broker process side of simpi: a
// fixed-rate tick driver that synchronizes every loaded board document
// against the shared register bank (spec.md §4.7), grounded on
// services/hal/hal.go's service.loop select-over-channel-plus-timer shape.
package broker

import (
	"context"
	"sync"
	"time"

	"simpi/board"
	"simpi/broker/events"
	"simpi/gpioregs"
	"simpi/internal/wpilog"
	"simpi/shm"
)

// TickInterval is the broker's fixed render+sync period (spec.md §4.7).
const TickInterval = 50 * time.Millisecond

// BrokerLoop owns the shared bank handle and every loaded board, and
// drives the tick/input loop described in spec.md §4.7.
type BrokerLoop struct {
	bank *shm.SharedBank

	mu     sync.Mutex
	boards []*board.Board
	paused bool

	snapshot gpioregs.RegisterBank
	haveSnap bool
	resetReq bool
	stepReq  bool
	quitReq  bool

	events *events.Mailbox
}

// NewBrokerLoop opens the shared bank (creating it if this is the first
// participant) and loads every board path given. A board that fails to
// decode is reported as an error; the caller decides whether that's fatal
// (spec.md §7 item 1: "the broker surfaces the message inline and
// continues" describes runtime reloads, not the initial load list).
func NewBrokerLoop(boardPaths []string) (*BrokerLoop, error) {
	bank, err := shm.Open()
	if err != nil {
		return nil, err
	}
	bl := &BrokerLoop{
		bank:   bank,
		events: events.NewMailbox(1),
	}
	for _, p := range boardPaths {
		b, err := board.FromFile(p)
		if err != nil {
			bank.Close()
			return nil, err
		}
		bl.boards = append(bl.boards, b)
	}
	return bl, nil
}

// ReloadBoard decodes path and appends it to the running board set
// (supplemented from original_source/broker_manager.rs's hot-reload;
// spec.md's startup-only "--board" flag is unaffected by this).
func (bl *BrokerLoop) ReloadBoard(path string) error {
	b, err := board.FromFile(path)
	if err != nil {
		return err
	}
	bl.mu.Lock()
	bl.boards = append(bl.boards, b)
	bl.mu.Unlock()
	return nil
}

// Pause freezes board synchronization; subsequent renders use a snapshot
// taken under a read lock instead (spec.md §4.7 step 2).
func (bl *BrokerLoop) Pause() {
	bl.mu.Lock()
	bl.paused = true
	bl.mu.Unlock()
}

// Resume un-pauses the loop.
func (bl *BrokerLoop) Resume() {
	bl.mu.Lock()
	bl.paused = false
	bl.haveSnap = false
	bl.mu.Unlock()
}

// Step requests a single sync pass while paused, then returns to paused.
// Supplemented from original_source main.rs's single-step-while-paused
// behavior (spec.md §4.7 names pause only).
func (bl *BrokerLoop) Step() {
	bl.mu.Lock()
	bl.stepReq = true
	bl.mu.Unlock()
}

// RequestReset arranges for the next tick to reset the shared bank to its
// power-on defaults (spec.md §4.7 step 4).
func (bl *BrokerLoop) RequestReset() {
	bl.mu.Lock()
	bl.resetReq = true
	bl.mu.Unlock()
}

// Quit signals Run to return after its current tick.
func (bl *BrokerLoop) Quit() {
	bl.mu.Lock()
	bl.quitReq = true
	bl.mu.Unlock()
}

// Paused reports whether the loop is currently paused.
func (bl *BrokerLoop) Paused() bool {
	bl.mu.Lock()
	defer bl.mu.Unlock()
	return bl.paused
}

// InjectKeypress feeds a single keyboard event into the loop's mailbox;
// the keyboard reader goroutine in cmd/simpi-broker calls this.
func (bl *BrokerLoop) InjectKeypress(c rune) {
	bl.events.Send(events.Event{Kind: events.KindInput, Key: c})
}

// Snapshot returns the most recent paused-mode snapshot, or a live
// read-locked snapshot if the loop isn't paused. Render callers use this
// instead of reaching into the shared bank directly.
func (bl *BrokerLoop) Snapshot() (gpioregs.RegisterBank, error) {
	bl.mu.Lock()
	paused, haveSnap, snap := bl.paused, bl.haveSnap, bl.snapshot
	bl.mu.Unlock()
	if paused && haveSnap {
		return snap, nil
	}
	rg, err := bl.bank.ReadLock()
	if err != nil {
		return gpioregs.RegisterBank{}, err
	}
	defer rg.Release()
	return rg.Bank(), nil
}

// Close releases the shared bank handle.
func (bl *BrokerLoop) Close() error {
	return bl.bank.Close()
}

// Run drives the tick loop until ctx is cancelled or Quit is called.
// Each iteration handles one thing: a pending keyboard event as soon as it
// arrives (spec.md §4.7 step 1), or a tick, which either snapshots
// (paused) or syncs under lock (running) and then applies any pending
// reset (steps 2-4).
func (bl *BrokerLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-bl.events.Recv():
			if ev.Kind == events.KindInput {
				bl.handleKeypress(ev.Key)
			}
		case <-ticker.C:
			if bl.tick() {
				return nil
			}
		}
	}
}

func (bl *BrokerLoop) handleKeypress(c rune) {
	bl.mu.Lock()
	boards := append([]*board.Board(nil), bl.boards...)
	bl.mu.Unlock()
	for _, b := range boards {
		b.EventKeypress(c)
	}
}

// tick runs one pass of spec.md §4.7 steps 2-4 and reports whether Run
// should return (quit was requested).
func (bl *BrokerLoop) tick() bool {
	bl.mu.Lock()
	paused := bl.paused
	step := bl.stepReq
	bl.stepReq = false
	bl.mu.Unlock()

	if paused && !step {
		rg, err := bl.bank.ReadLock()
		if err != nil {
			wpilog.Warning("broker tick: read lock failed: " + err.Error())
		} else {
			snap := rg.Bank()
			rg.Release()
			bl.mu.Lock()
			bl.snapshot = snap
			bl.haveSnap = true
			bl.mu.Unlock()
		}
	} else {
		bl.syncBoards()
	}

	bl.mu.Lock()
	reset := bl.resetReq
	bl.resetReq = false
	quit := bl.quitReq
	bl.mu.Unlock()

	if reset {
		wg, err := bl.bank.WriteLock()
		if err != nil {
			wpilog.Warning("broker tick: reset write lock failed: " + err.Error())
		} else {
			wg.Bank().Reset()
			wg.Release()
		}
	}
	return quit
}

// syncBoards acquires one write lock and calls Sync on every loaded
// board, keeping the critical section limited to exactly that (spec.md
// §4.7's responsiveness requirement).
func (bl *BrokerLoop) syncBoards() {
	bl.mu.Lock()
	boards := append([]*board.Board(nil), bl.boards...)
	bl.mu.Unlock()

	wg, err := bl.bank.WriteLock()
	if err != nil {
		wpilog.Warning("broker tick: write lock failed: " + err.Error())
		return
	}
	defer wg.Release()
	b := wg.Bank()
	for _, board := range boards {
		board.Sync(b)
	}
}
