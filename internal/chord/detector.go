package chord

// VKey is a Win32 virtual-key code.
type VKey uint32

const (
	VKLeftControl VKey = 0xA2
	VKLeftAlt     VKey = 0xA4
)

// KeyEvent is one entry of the global low-level key stream.
type KeyEvent struct {
	Key  VKey
	Down bool
}

// Shortcut is the human-readable form of the chord.
const Shortcut = "LCtrl+LAlt (+ any key)"

// Detector turns the raw key stream into edge-triggered chord signals.
//
// The chord fires on the first non-modifier key-down observed while left
// Control and left Alt are both held, and is suppressed until one of the two
// modifiers is released. Pressing and releasing Control+Alt alone never
// fires: the emit check only runs for a third key.
//
// A Detector is not safe for concurrent use. The hook delivers events
// serially from a single thread, which is the only caller.
type Detector struct {
	ctrlDown bool
	altDown  bool
	fired    bool
}

// Observe feeds one event and reports whether the chord fired.
func (d *Detector) Observe(ev KeyEvent) bool {
	if ev.Down {
		switch ev.Key {
		case VKLeftControl:
			d.ctrlDown = true
		case VKLeftAlt:
			d.altDown = true
		default:
			fire := d.ctrlDown && d.altDown && !d.fired
			d.fired = true
			return fire
		}
		return false
	}

	switch ev.Key {
	case VKLeftControl:
		d.ctrlDown = false
		d.fired = false
	case VKLeftAlt:
		d.altDown = false
		d.fired = false
	}
	return false
}

// Reset clears all tracked state.
func (d *Detector) Reset() {
	*d = Detector{}
}
