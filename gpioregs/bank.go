package gpioregs

// Interrupt mode encoding, two bits per pin split across INT1 and INT0.
// See RegisterBank doc comment for the full table.
const (
	ModeLevelLow  = 0 // (INT1,INT0) = (0,0)
	ModeAnyChange = 1 // (0,1)
	ModeFalling   = 2 // (1,0)
	ModeRising    = 3 // (1,1)
)

// RegisterBank is the six-register GPIO peripheral model: INPUT, OUTPUT,
// CONFIG, INTEN, INT0, INT1. All six fields are word-aligned and laid out
// contiguously so the struct can be mapped directly onto a shared memory
// segment on both little- and big-endian hosts; sharing the mapped bytes
// across different host architectures is not supported.
//
// Interrupt mode per pin p is the 2-bit value (INT1[p], INT0[p]), applied
// only when INTEN[p]=1 and CONFIG[p]=1 (p configured as input):
//
//	(0,0) level-low:  fires on every poll where INPUT[p] reads 0.
//	(0,1) any change: fires when INPUT[p] differs from the previous poll.
//	(1,0) falling:    previous=1, new=0.
//	(1,1) rising:     previous=0, new=1.
type RegisterBank struct {
	Input  Register
	Output Register
	Config Register
	Inten  Register
	Int0   Register
	Int1   Register
}

// NewRegisterBank returns a bank already in its reset state.
func NewRegisterBank() RegisterBank {
	var b RegisterBank
	b.Reset()
	return b
}

// Reset restores the documented default values. Idempotent.
func (b *RegisterBank) Reset() {
	b.Input.Write(0x00000000)
	b.Output.Write(0x00000000)
	b.Config.Write(0xFFFFFFFF)
	b.Inten.Write(0x00000000)
	b.Int0.Write(0x00000000)
	b.Int1.Write(0x00000000)
}

// InterruptMode returns the (INT1,INT0) encoded mode for pin, one of the
// Mode* constants above, regardless of whether INTEN[pin] is set.
func (b *RegisterBank) InterruptMode(pin uint8) uint8 {
	i1 := b.Int1.ReadPin(pin)
	i0 := b.Int0.ReadPin(pin)
	return (i1 << 1) | i0
}
