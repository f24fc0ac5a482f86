package board

import "simpi/gpioregs"

// minPin and maxPin mirror spec.md §3's MIN_PIN/MAX_PIN: the inclusive
// range of user-addressable pins a Part's Sync may touch.
const (
	minPin = 2
	maxPin = 27
)

// Button holds a toggled local state, flipped by matching keypresses and
// written into INPUT[Pin] on every Sync. Grounded on
// original_source/broker/src/hardware/button.rs.
type Button struct {
	Pin      uint8
	Name     string
	Hotkey   string
	ColorOff string
	ColorOn  string
	PosX     uint16
	PosY     uint16

	state uint8
}

func defaultButton() Button {
	return Button{
		Name:     "BTN",
		Hotkey:   "",
		ColorOff: "black",
		ColorOn:  "yellow",
	}
}

// State reports the button's current local state.
func (b *Button) State() uint8 { return b.state }

// Sync writes the button's local state into INPUT[Pin]; Buttons never
// read OUTPUT. A button whose Pin falls outside [MinPin, MaxPin] still
// loads and toggles locally, but must not influence INPUT (spec.md §8
// boundary behavior).
func (b *Button) Sync(bank *gpioregs.RegisterBank) {
	if b.Pin < minPin || b.Pin > maxPin {
		return
	}
	bank.Input.WritePin(b.Pin, b.state)
}

// pressed toggles state if c matches the configured hotkey (a single
// character; an empty Hotkey never matches).
func (b *Button) pressed(c rune) {
	if b.Hotkey == "" {
		return
	}
	if []rune(b.Hotkey)[0] == c {
		if b.state == 0 {
			b.state = 1
		} else {
			b.state = 0
		}
	}
}
