package gpioregs

import "testing"

func TestBankResetDefaults(t *testing.T) {
	b := NewRegisterBank()
	if b.Config.Read() != 0xFFFFFFFF {
		t.Fatalf("CONFIG = %#x, want 0xFFFFFFFF", b.Config.Read())
	}
	for name, r := range map[string]*Register{
		"INPUT": &b.Input, "OUTPUT": &b.Output, "INTEN": &b.Inten,
		"INT0": &b.Int0, "INT1": &b.Int1,
	} {
		if r.Read() != 0 {
			t.Fatalf("%s = %#x, want 0", name, r.Read())
		}
	}
}

func TestBankResetIsIdempotentAndRestoresAfterMutation(t *testing.T) {
	b := NewRegisterBank()
	b.Input.Write(0x12345678)
	b.Config.Write(0x87654321)
	b.Reset()
	if b.Input.Read() != 0 || b.Config.Read() != 0xFFFFFFFF {
		t.Fatalf("reset did not restore defaults: input=%#x config=%#x", b.Input.Read(), b.Config.Read())
	}
	b.Reset()
	if b.Input.Read() != 0 || b.Config.Read() != 0xFFFFFFFF {
		t.Fatal("second reset changed state")
	}
}

func TestInterruptModeEncoding(t *testing.T) {
	b := NewRegisterBank()
	b.Int0.WritePin(5, 1)
	b.Int1.WritePin(5, 1)
	if got := b.InterruptMode(5); got != ModeRising {
		t.Fatalf("got mode %d, want ModeRising", got)
	}
	b.Int0.WritePin(6, 0)
	b.Int1.WritePin(6, 1)
	if got := b.InterruptMode(6); got != ModeFalling {
		t.Fatalf("got mode %d, want ModeFalling", got)
	}
}
