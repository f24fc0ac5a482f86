// Command simpi-capi is the C-ABI client shim of spec.md §6: a
// cgo-exported shared library (`go build -buildmode=c-shared`) that
// re-exposes pinapi's operations under the wiringPi-style names real
// client code links against. cgo export requires package main, which is
// why this lives under cmd/ rather than as an importable capi package;
// the exported-callback-from-C pattern (a small static C trampoline
// invoked from Go, called back into from C) is grounded on
// other_examples/8cea4829_viamrobotics-rdk (pigpioInterruptCallback)'s
// cgo header-comment-plus-//export style, adapted to the opposite
// direction: here Go exports functions that C calls, one of which
// accepts a C function pointer to call back into.
package main

/*
#include <stdlib.h>

typedef void (*simpi_isr_fn)(void);

static inline void simpi_call_isr(simpi_isr_fn f) {
	if (f) {
		f();
	}
}
*/
import "C"

import (
	"unsafe"

	"simpi/pinapi"
)

//export wiringPiSetupGpio
func wiringPiSetupGpio() C.int {
	if err := pinapi.Setup(); err != nil {
		return -1
	}
	return 0
}

//export pinMode
func pinMode(pin C.int, pud C.int) {
	pinapi.PinMode(uint8(pin), int(pud))
}

//export digitalWrite
func digitalWrite(pin C.int, value C.int) {
	pinapi.WritePin(uint8(pin), uint8(value))
}

//export digitalRead
func digitalRead(pin C.int) C.int {
	return C.int(pinapi.ReadPin(uint8(pin)))
}

//export wiringPiISR
func wiringPiISR(pin C.int, mode C.int, fn unsafe.Pointer) C.int {
	cfn := C.simpi_isr_fn(fn)
	return C.int(pinapi.RegisterISR(uint8(pin), int(mode), func() {
		C.simpi_call_isr(cfn)
	}))
}

//export delay
func delay(ms C.uint) {
	pinapi.DelayMs(uint32(ms))
}

//export delayMicroseconds
func delayMicroseconds(us C.uint) {
	pinapi.DelayUs(uint32(us))
}

//export millis
func millis() C.uint {
	return C.uint(pinapi.UptimeMs())
}

//export micros
func micros() C.uint {
	return C.uint(pinapi.UptimeUs())
}

// cgo's //export pragma only attaches to function declarations, not
// vars, so the pin-mode/edge-mode constants of spec.md §6 aren't
// re-exported as Go symbols here, and the repository ships no C header
// that defines them; their values are those in pinapi/const.go.

func main() {}
