package pinapi

import (
	"time"

	"simpi/internal/wpilog"
)

// Setup opens (or creates) the shared register bank and starts the
// interrupt engine for the process-wide default Core. Matches
// wiringPiSetupGpio's contract (spec.md §4.4): returns an error instead of
// the C ABI's -1, which capi translates at the FFI boundary.
func Setup() error {
	_, err := DefaultCore()
	return err
}

// PinMode sets pin's CONFIG bit: 1 (the register's reset value) means
// INPUT, 0 means OUTPUT (spec.md §3's CONFIG semantics — inverted from the
// mode constants, which is why this function, not a raw register write, is
// the documented way to change it). PWMOutput is accepted and treated as
// OUTPUT (spec.md §4.4: no PWM waveform is generated). Pins outside
// [MinPin, MaxPin] and modes other than INPUT/OUTPUT/PWMOutput are
// silently ignored, mirroring the original's best-effort pinMode.
func PinMode(pin uint8, mode int) {
	if !pinInRange(pin) || (mode != INPUT && mode != OUTPUT && mode != PWMOutput) {
		return
	}
	core, err := DefaultCore()
	if err != nil {
		wpilog.Warning("PinMode: " + err.Error())
		return
	}
	wg, err := core.bank.WriteLock()
	if err != nil {
		wpilog.Warning("PinMode: " + err.Error())
		return
	}
	defer wg.Release()

	var bit uint8
	if mode == INPUT {
		bit = 1
	}
	wg.Bank().Config.WritePin(pin, bit)
}

// WritePin sets pin's OUTPUT bit to val (0 or 1). Out-of-range pins and
// non-0/1 values are ignored.
func WritePin(pin uint8, val uint8) {
	if !pinInRange(pin) || (val != LOW && val != HIGH) {
		return
	}
	core, err := DefaultCore()
	if err != nil {
		wpilog.Warning("WritePin: " + err.Error())
		return
	}
	wg, err := core.bank.WriteLock()
	if err != nil {
		wpilog.Warning("WritePin: " + err.Error())
		return
	}
	defer wg.Release()
	wg.Bank().Output.WritePin(pin, val)
}

// ReadPin returns pin's current INPUT bit, or ReadOutOfRangeSentinel if pin
// is outside [MinPin, MaxPin].
func ReadPin(pin uint8) uint8 {
	if !pinInRange(pin) {
		return ReadOutOfRangeSentinel
	}
	core, err := DefaultCore()
	if err != nil {
		wpilog.Warning("ReadPin: " + err.Error())
		return ReadOutOfRangeSentinel
	}
	rg, err := core.bank.ReadLock()
	if err != nil {
		wpilog.Warning("ReadPin: " + err.Error())
		return ReadOutOfRangeSentinel
	}
	snap := rg.Bank()
	rg.Release()
	return snap.Input.ReadPin(pin)
}

// RegisterISR installs fn as pin's interrupt handler for the given edge
// mode, enabling pin in INTEN and encoding mode into INT0/INT1. Returns
// RegisterISRFailure for an out-of-range pin or unknown mode, 0 otherwise.
//
// IntEdgeSetup maps to the level-low encoding (0,0): fn then fires on every
// 50 ms poll for as long as the pin reads 0, not once per falling edge;
// IntEdgeFalling gives edge-only behavior.
func RegisterISR(pin uint8, mode int, fn func()) uint8 {
	if !pinInRange(pin) {
		return RegisterISRFailure
	}
	var i0, i1 uint8
	switch mode {
	case IntEdgeFalling:
		i1, i0 = 1, 0
	case IntEdgeRising:
		i1, i0 = 1, 1
	case IntEdgeBoth:
		i1, i0 = 0, 1
	case IntEdgeSetup:
		i1, i0 = 0, 0
	default:
		return RegisterISRFailure
	}

	core, err := DefaultCore()
	if err != nil {
		wpilog.Warning("RegisterISR: " + err.Error())
		return RegisterISRFailure
	}

	core.isrMu.Lock()
	core.isrTable[pin] = fn
	core.isrMu.Unlock()

	wg, err := core.bank.WriteLock()
	if err != nil {
		wpilog.Warning("RegisterISR: " + err.Error())
		return RegisterISRFailure
	}
	b := wg.Bank()
	b.Inten.WritePin(pin, 1)
	b.Int0.WritePin(pin, i0)
	b.Int1.WritePin(pin, i1)
	wg.Release()
	return 0
}

// DelayMs blocks the calling goroutine for n milliseconds.
func DelayMs(n uint32) {
	time.Sleep(time.Duration(n) * time.Millisecond)
}

// DelayUs blocks the calling goroutine for n microseconds.
func DelayUs(n uint32) {
	time.Sleep(time.Duration(n) * time.Microsecond)
}

// UptimeMs returns milliseconds elapsed since Setup.
func UptimeMs() uint32 {
	core, err := DefaultCore()
	if err != nil {
		return 0
	}
	return uint32(time.Since(core.startTime).Milliseconds())
}

// UptimeUs returns microseconds elapsed since Setup.
func UptimeUs() uint32 {
	core, err := DefaultCore()
	if err != nil {
		return 0
	}
	return uint32(time.Since(core.startTime).Microseconds())
}
