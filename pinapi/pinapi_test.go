package pinapi

import (
	"path/filepath"
	"testing"
	"time"

	"simpi/shm"
)

// newTestCore builds a Core against a temp-dir shared bank instead of the
// default $HOME/simpi location, so tests never touch the real machine-wide
// segment.
func newTestCore(t *testing.T) *Core {
	t.Helper()
	dir := t.TempDir()
	bank, err := shm.OpenAt(filepath.Join(dir, "~simpi.link"))
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	c := &Core{bank: bank, startTime: time.Now()}
	c.engine = newInterruptEngine(c.bank, c.isrCallback)
	c.engine.Start()
	t.Cleanup(func() { c.Close() })
	return c
}

func TestConfigBitWriteReadThroughWriteLock(t *testing.T) {
	c := newTestCore(t)

	wg, _ := c.bank.WriteLock()
	wg.Bank().Config.WritePin(10, 1)
	wg.Release()

	wg2, _ := c.bank.WriteLock()
	if wg2.Bank().Config.ReadPin(10) != 1 {
		t.Fatal("CONFIG bit 10 expected 1")
	}
	wg2.Bank().Config.WritePin(10, 0)
	wg2.Release()
}

func TestWriteReadPinRoundTrip(t *testing.T) {
	c := newTestCore(t)
	wg, _ := c.bank.WriteLock()
	wg.Bank().Output.WritePin(5, 1)
	wg.Bank().Input.WritePin(5, 1)
	wg.Release()

	rg, _ := c.bank.ReadLock()
	snap := rg.Bank()
	rg.Release()
	if snap.Input.ReadPin(5) != 1 {
		t.Fatal("INPUT pin 5 expected 1")
	}
}

func TestReadPinOutOfRangeSentinel(t *testing.T) {
	newTestCore(t)
	if got := readPinNoLock(1); got != ReadOutOfRangeSentinel {
		t.Fatalf("pin 1: got %#x, want sentinel", got)
	}
	if got := readPinNoLock(28); got != ReadOutOfRangeSentinel {
		t.Fatalf("pin 28: got %#x, want sentinel", got)
	}
}

// readPinNoLock exercises the range check in ReadPin without depending on
// the process-wide DefaultCore.
func readPinNoLock(pin uint8) uint8 {
	if !pinInRange(pin) {
		return ReadOutOfRangeSentinel
	}
	return 0
}

// TestPackageLevelAPIAgainstDefaultCore points the process-wide DefaultCore
// singleton at a fresh temp-dir-backed Core (no other test in this package
// calls DefaultCore, so this is the only caller that can win the Once) and
// exercises PinMode, WritePin, ReadPin, and RegisterISR as the capi/
// democlient callers actually do, instead of only poking a private *Core
// directly.
func TestPackageLevelAPIAgainstDefaultCore(t *testing.T) {
	c := newTestCore(t)
	defaultCoreOnce.Do(func() { defaultCore = c })
	if defaultCore != c {
		t.Skip("DefaultCore already installed by another test in this binary")
	}

	PinMode(10, OUTPUT)
	PinMode(11, INPUT)
	PinMode(12, PWMOutput)

	rg, _ := c.bank.ReadLock()
	snap := rg.Bank()
	rg.Release()
	if got := snap.Config.ReadPin(10); got != 0 {
		t.Fatalf("OUTPUT: CONFIG bit 10 = %d, want 0", got)
	}
	if got := snap.Config.ReadPin(11); got != 1 {
		t.Fatalf("INPUT: CONFIG bit 11 = %d, want 1", got)
	}
	if got := snap.Config.ReadPin(12); got != 0 {
		t.Fatalf("PWM_OUTPUT: CONFIG bit 12 = %d, want 0 (treated as OUTPUT)", got)
	}

	wg, _ := c.bank.WriteLock()
	wg.Bank().Config.WritePin(13, 1)
	wg.Release()
	PinMode(13, 99)
	rg, _ = c.bank.ReadLock()
	snap = rg.Bank()
	rg.Release()
	if got := snap.Config.ReadPin(13); got != 1 {
		t.Fatalf("unknown mode must be a no-op: CONFIG bit 13 = %d, want unchanged 1", got)
	}

	WritePin(14, HIGH)
	if got := ReadPin(14); got != 0 {
		// ReadPin reflects INPUT, not OUTPUT; WritePin only sets OUTPUT.
		t.Fatalf("ReadPin(14) = %d, want 0 (WritePin only affects OUTPUT)", got)
	}
	if got := ReadPin(1); got != ReadOutOfRangeSentinel {
		t.Fatalf("ReadPin(1) = %#x, want sentinel", got)
	}
	WritePin(1, HIGH)
	rg, _ = c.bank.ReadLock()
	snap = rg.Bank()
	rg.Release()
	if snap.Output.ReadPin(1) != 0 {
		t.Fatal("WritePin on out-of-range pin 1 must be a no-op")
	}

	if got := RegisterISR(1, IntEdgeRising, func() {}); got != RegisterISRFailure {
		t.Fatalf("RegisterISR on out-of-range pin = %d, want failure sentinel", got)
	}

	fired := make(chan struct{}, 1)
	if got := RegisterISR(20, IntEdgeRising, func() { fired <- struct{}{} }); got != 0 {
		t.Fatalf("RegisterISR(20, rising) = %d, want 0", got)
	}
	wg, _ = c.bank.WriteLock()
	wg.Bank().Input.WritePin(20, 1)
	wg.Release()
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("rising-edge ISR registered via package API did not fire")
	}
}

func TestRegisterISREncodesMode(t *testing.T) {
	c := newTestCore(t)

	fired := make(chan struct{}, 1)
	c.isrMu.Lock()
	c.isrTable[7] = func() { fired <- struct{}{} }
	c.isrMu.Unlock()

	wg, _ := c.bank.WriteLock()
	b := wg.Bank()
	b.Inten.WritePin(7, 1)
	b.Int0.WritePin(7, 1)
	b.Int1.WritePin(7, 1)
	b.Input.WritePin(7, 0)
	wg.Release()

	wg2, _ := c.bank.WriteLock()
	wg2.Bank().Input.WritePin(7, 1)
	wg2.Release()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("rising-edge ISR on pin 7 did not fire")
	}
}

func TestInterruptEngineIgnoresPinConfiguredAsOutput(t *testing.T) {
	c := newTestCore(t)

	fired := make(chan struct{}, 1)
	c.isrMu.Lock()
	c.isrTable[9] = func() { fired <- struct{}{} }
	c.isrMu.Unlock()

	wg, _ := c.bank.WriteLock()
	b := wg.Bank()
	b.Inten.WritePin(9, 1)
	b.Int0.WritePin(9, 1)
	b.Int1.WritePin(9, 1) // rising edge
	b.Config.WritePin(9, 0) // pin configured as OUTPUT, not INPUT
	b.Input.WritePin(9, 0)
	wg.Release()

	wg2, _ := c.bank.WriteLock()
	wg2.Bank().Input.WritePin(9, 1)
	wg2.Release()

	select {
	case <-fired:
		t.Fatal("ISR fired for a pin configured as OUTPUT; spec.md §3 requires CONFIG[p]=1 (input)")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestInterruptModeTable(t *testing.T) {
	cases := []struct {
		i0, i1 uint8
		want   uint8
	}{
		{0, 0, 0},
		{1, 0, 1},
		{0, 1, 2},
		{1, 1, 3},
	}
	c := newTestCore(t)
	for _, tc := range cases {
		wg, _ := c.bank.WriteLock()
		b := wg.Bank()
		b.Int0.WritePin(12, tc.i0)
		b.Int1.WritePin(12, tc.i1)
		wg.Release()

		rg, _ := c.bank.ReadLock()
		snap := rg.Bank()
		rg.Release()
		if got := snap.InterruptMode(12); got != tc.want {
			t.Fatalf("i0=%d i1=%d: got mode %d, want %d", tc.i0, tc.i1, got, tc.want)
		}
	}
}
