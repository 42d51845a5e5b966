// Decodes the state of the buttons of an emulated
// device from its input register.
package keyinput

import "github.com/benoitkugler/padoverlay/overlay"

// Decoder maps an input register value to the pressed buttons.
// Decode must accept any value.
type Decoder interface {
	Decode(mask uint32) overlay.ButtonState
}

// Bits of the Game Boy Advance KEYINPUT register, as
// reported by emulators: a set bit means pressed.
const (
	ButtonA uint32 = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonR
	ButtonL

	// AllButtons has every button pressed.
	AllButtons = ButtonL<<1 - 1
)

// GBA decodes the Game Boy Advance KEYINPUT layout.
type GBA struct{}

var _ Decoder = GBA{}

var gbaButtons = [...]struct {
	bit uint32
	key string
}{
	{ButtonA, "a"},
	{ButtonB, "b"},
	{ButtonSelect, "select"},
	{ButtonStart, "start"},
	{ButtonRight, "right"},
	{ButtonLeft, "left"},
	{ButtonUp, "up"},
	{ButtonDown, "down"},
	{ButtonR, "r"},
	{ButtonL, "l"},
}

// Decode returns the state of every button. Bits
// outside AllButtons are ignored.
func (GBA) Decode(mask uint32) overlay.ButtonState {
	out := make(overlay.ButtonState, len(gbaButtons))
	for _, b := range gbaButtons {
		out[b.key] = mask&b.bit != 0
	}
	return out
}

// Encode is the inverse of Decode: it returns the register value
// for the given buttons. Unknown keys are ignored.
func (GBA) Encode(buttons overlay.ButtonState) uint32 {
	var mask uint32
	for _, b := range gbaButtons {
		if buttons[b.key] {
			mask |= b.bit
		}
	}
	return mask
}
