// Package board decodes the declarative hardware document of spec.md §6
// (LEDs and Buttons positioned on a named board) and synchronizes it
// against a gpioregs.RegisterBank every broker tick.
//
// FromJSON's tolerant field-by-field walk is grounded on
// original_source/broker/src/hardware/board.rs: unknown keys are ignored,
// and a field whose JSON type doesn't match what's expected is skipped
// rather than failing the whole document, instead of validating against a
// schema (services/hal/config.go's flat struct decode is the model for the
// happy path; board.rs's loop is the model for the tolerance).
package board

import (
	"encoding/json"
	"os"

	"simpi/colornames"
	"simpi/errcode"
	"simpi/gpioregs"
)

const boardTypeDiscriminator = "simpi/board"

// Part is anything a Board synchronizes against the register bank each
// tick: an LED (OUTPUT -> local state) or a Button (local state ->
// INPUT).
type Part interface {
	Sync(bank *gpioregs.RegisterBank)
}

// Board is a named collection of Parts laid out on a width x height grid
// with a background/foreground color, loaded from a structured document.
type Board struct {
	Name            string
	BackgroundColor string
	ForegroundColor string
	Width           uint16
	Height          uint16
	Hardware        []Part
}

func defaultBoard() *Board {
	return &Board{
		Name:            "Board",
		BackgroundColor: "green",
		ForegroundColor: "white",
		Width:           64,
		Height:          24,
	}
}

// FromFile reads and decodes path via FromJSON.
func FromFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errcode.E{C: errcode.InvalidData, Op: "board.FromFile", Msg: path, Err: err}
	}
	return FromJSON(data)
}

// FromJSON decodes raw into a Board. The document MUST carry
// `"type": "simpi/board"`; its absence (or a mismatched value) rejects the
// document with errcode.InvalidData, matching spec.md §6/§7 item 1.
func FromJSON(raw []byte) (*Board, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &errcode.E{C: errcode.InvalidData, Op: "board.FromJSON", Err: err}
	}

	b := defaultBoard()
	isValid := false

	for k, v := range doc {
		switch k {
		case "type":
			if s, ok := v.(string); ok && s == boardTypeDiscriminator {
				isValid = true
			}
		case "name":
			if s, ok := v.(string); ok {
				b.Name = s
			}
		case "backgroundColor":
			if s, ok := v.(string); ok && colornames.Valid(s) {
				b.BackgroundColor = s
			}
		case "foregroundColor":
			if s, ok := v.(string); ok && colornames.Valid(s) {
				b.ForegroundColor = s
			}
		case "size":
			if sz, ok := v.(map[string]any); ok {
				if w, ok := numberField(sz, "width"); ok {
					b.Width = w
				}
				if h, ok := numberField(sz, "height"); ok {
					b.Height = h
				}
			}
		case "hardware":
			if arr, ok := v.([]any); ok {
				for _, raw := range arr {
					part, ok := decodePart(raw)
					if ok {
						b.Hardware = append(b.Hardware, part)
					}
				}
			}
		}
	}

	if !isValid {
		return nil, &errcode.E{C: errcode.InvalidData, Op: "board.FromJSON", Msg: "missing or invalid \"type\" discriminator"}
	}
	return b, nil
}

// decodePart decodes one element of the "hardware" array into an LED or
// a Button, per its own "type" discriminator. An unrecognized or
// malformed part is dropped, not an error, matching board.rs.
func decodePart(raw any) (Part, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	ptype, ok := obj["type"].(string)
	if !ok {
		return nil, false
	}
	switch ptype {
	case "simpi/led":
		led := defaultLED()
		decodeCommon(obj, &led.Pin, &led.Name, &led.ColorOff, &led.ColorOn, &led.PosX, &led.PosY)
		return &led, true
	case "simpi/button":
		btn := defaultButton()
		decodeCommon(obj, &btn.Pin, &btn.Name, &btn.ColorOff, &btn.ColorOn, &btn.PosX, &btn.PosY)
		if s, ok := obj["hotkey"].(string); ok {
			btn.Hotkey = s
		}
		return &btn, true
	default:
		return nil, false
	}
}

// decodeCommon fills the fields LED and Button share, skipping any field
// whose JSON value doesn't have the expected shape.
func decodeCommon(obj map[string]any, pin *uint8, name, colorOff, colorOn *string, posX, posY *uint16) {
	if p, ok := numberField(obj, "pin"); ok {
		*pin = uint8(p)
	}
	if s, ok := obj["name"].(string); ok {
		*name = s
	}
	if s, ok := obj["colorOff"].(string); ok && colornames.Valid(s) {
		*colorOff = s
	}
	if s, ok := obj["colorOn"].(string); ok && colornames.Valid(s) {
		*colorOn = s
	}
	if pos, ok := obj["position"].(map[string]any); ok {
		if x, ok := numberField(pos, "x"); ok {
			*posX = x
		}
		if y, ok := numberField(pos, "y"); ok {
			*posY = y
		}
	}
}

// numberField reads obj[key] as a JSON number (encoding/json decodes all
// numbers into float64 for map[string]any targets) and reports whether it
// was present with that shape.
func numberField(obj map[string]any, key string) (uint16, bool) {
	f, ok := obj[key].(float64)
	if !ok || f < 0 {
		return 0, false
	}
	return uint16(f), true
}

// Sync updates every Part's local state against bank: LEDs read OUTPUT,
// Buttons write INPUT (spec.md §4.6).
func (b *Board) Sync(bank *gpioregs.RegisterBank) {
	for _, part := range b.Hardware {
		part.Sync(bank)
	}
}

// EventKeypress toggles the state of every Button whose Hotkey matches c.
func (b *Board) EventKeypress(c rune) {
	for _, part := range b.Hardware {
		if btn, ok := part.(*Button); ok {
			btn.pressed(c)
		}
	}
}
