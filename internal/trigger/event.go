package trigger

import "fmt"

// SyntheticMarker tags every keyboard event this program posts. It is stored
// in the event's source user-data field and read back by the tap.
const SyntheticMarker int64 = 0x484449

// Key is the configured trigger key. The numeric values are the persisted
// preference values.
type Key int

const (
	LeftCommand  Key = 1
	RightCommand Key = 2
	LeftOption   Key = 3
	RightOption  Key = 4
)

// Keys lists the selectable trigger keys in menu order.
var Keys = []Key{LeftCommand, RightCommand, LeftOption, RightOption}

// Valid reports whether k is one of the four supported keys.
func (k Key) Valid() bool {
	return k >= LeftCommand && k <= RightOption
}

// Modifier returns the side-specific modifier bit for k.
func (k Key) Modifier() Modifiers {
	switch k {
	case LeftCommand:
		return ModLeftCommand
	case RightCommand:
		return ModRightCommand
	case LeftOption:
		return ModLeftOption
	case RightOption:
		return ModRightOption
	}
	return 0
}

func (k Key) String() string {
	switch k {
	case LeftCommand:
		return "Left Command"
	case RightCommand:
		return "Right Command"
	case LeftOption:
		return "Left Option"
	case RightOption:
		return "Right Option"
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Modifiers is the set of side-specific modifier keys held during an event.
type Modifiers uint8

const (
	ModLeftCommand Modifiers = 1 << iota
	ModRightCommand
	ModLeftOption
	ModRightOption
)

// Has reports whether all bits in m2 are set in m.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m2 != 0 && m&m2 == m2
}

// EventKind distinguishes the two event types the controller consumes.
type EventKind int

const (
	// FlagsChanged is a modifier key press or release.
	FlagsChanged EventKind = iota
	// KeyDown is a non-modifier key press.
	KeyDown
)

// Event is a keyboard event delivered by the tap.
type Event struct {
	Kind      EventKind
	Modifiers Modifiers
	KeyCode   uint16
	// UserData is the event source user-data field.
	UserData int64
}

// Synthetic reports whether the event was posted by this program.
func (e Event) Synthetic() bool {
	return e.UserData == SyntheticMarker
}
