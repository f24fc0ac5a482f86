// Command simpi-democlient is a minimal example of the pinapi-facing
// side of simpi: it configures a couple of pins, registers a rising-edge
// ISR, and blinks an output pin, exercising the same operations the
// capi shim re-exports to C callers.
package main

import (
	"fmt"
	"os"

	"simpi/pinapi"
)

const (
	ledPin    = 17
	buttonPin = 18
)

func main() {
	if err := pinapi.Setup(); err != nil {
		fmt.Fprintln(os.Stderr, "simpi-democlient: setup failed:", err)
		os.Exit(1)
	}

	pinapi.PinMode(ledPin, pinapi.OUTPUT)
	pinapi.PinMode(buttonPin, pinapi.INPUT)

	presses := 0
	pinapi.RegisterISR(buttonPin, pinapi.IntEdgeRising, func() {
		presses++
		fmt.Printf("button pressed (%d total)\n", presses)
	})

	state := uint8(pinapi.LOW)
	for i := 0; i < 10; i++ {
		state = 1 - state
		pinapi.WritePin(ledPin, state)
		fmt.Printf("LED now %d, uptime %dms\n", state, pinapi.UptimeMs())
		pinapi.DelayMs(500)
	}
}
