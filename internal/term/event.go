package term

// Key identifies a non-printable key, or KeyRune for a printable character
// carried in Event.Rune.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Mod is a bitset of modifier keys held during a key or mouse event.
type Mod uint8

const (
	ModNone Mod = 0
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
)

// EventType distinguishes the kinds of input the terminal surface delivers.
type EventType int

const (
	EventKey EventType = iota
	EventMouse
	EventPaste
	EventPasteStart
	EventPasteEnd
	EventResize
)

// MouseButton identifies which button a mouse event reports, or
// MouseNone/MouseWheel for motion and scroll events.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Event is a single unit of terminal input, one of a key press, a mouse
// action, a bracketed-paste delivery, or a resize notification.
type Event struct {
	Type EventType

	// EventKey fields.
	Key  Key
	Rune rune
	Mod  Mod

	// EventMouse fields.
	Button MouseButton
	Row    int
	Col    int

	// EventPaste fields. The tcell backend in term/backend never produces
	// EventPaste: it reports EventPasteStart and EventPasteEnd, and the
	// pasted text arrives between them as ordinary key events.
	PasteText string

	// EventResize fields.
	Width, Height int
}
