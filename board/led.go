package board

import "simpi/gpioregs"

// LED mirrors OUTPUT[Pin] into its own State on every Sync; it never
// writes a register. Grounded on original_source/broker/src/hardware/led.rs.
type LED struct {
	Pin      uint8
	Name     string
	ColorOff string
	ColorOn  string
	PosX     uint16
	PosY     uint16

	state uint8
}

// defaultLED matches led.rs's Default impl, translated to simpi's closed
// color-name strings instead of tui::style::Color.
func defaultLED() LED {
	return LED{
		Name:     "LED",
		ColorOff: "black",
		ColorOn:  "red",
	}
}

// State reports the LED's local state as last set by Sync.
func (l *LED) State() uint8 { return l.state }

// Sync reads OUTPUT[Pin] into the LED's local state. An LED whose Pin
// falls outside [MinPin, MaxPin] is still rendered but its state stays 0
// (spec.md §4.6), rather than reflecting whatever bit OUTPUT happens to
// hold at that position.
func (l *LED) Sync(bank *gpioregs.RegisterBank) {
	if l.Pin < minPin || l.Pin > maxPin {
		l.state = 0
		return
	}
	l.state = bank.Output.ReadPin(l.Pin)
}
