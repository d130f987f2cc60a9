package shellarea

// Handle is an opaque top-level window handle.
type Handle uintptr

// Rect is a screen rectangle. It mirrors the Win32 RECT layout.
type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// Width returns Right-Left.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns Bottom-Top.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// ShowCommand selects the visibility change requested from ShowWindow.
type ShowCommand int

const (
	ShowHide ShowCommand = iota
	ShowShow
	ShowRestore
	ShowMaximize
)

func (c ShowCommand) String() string {
	switch c {
	case ShowHide:
		return "hide"
	case ShowShow:
		return "show"
	case ShowRestore:
		return "restore"
	case ShowMaximize:
		return "maximize"
	default:
		return "unknown"
	}
}

// ZOrder is the insert-after sentinel used when repositioning a window.
// Implementations must not move, resize or activate the window.
type ZOrder int

const (
	ZBottom ZOrder = iota
	ZTopmost
	ZNotTopmost
)

func (z ZOrder) String() string {
	switch z {
	case ZBottom:
		return "bottom"
	case ZTopmost:
		return "topmost"
	case ZNotTopmost:
		return "not-topmost"
	default:
		return "unknown"
	}
}

// Shell is the host desktop surface the controller drives.
// All work-area operations target the primary display.
type Shell interface {
	// FindWindow returns ErrShellHandleNotFound when no top-level window of
	// the class exists.
	FindWindow(class string) (Handle, error)
	WorkArea() (Rect, error)
	SetWorkArea(r Rect) error
	ScreenBounds() (Rect, error)
	// EnumWindows visits every top-level window until visit returns false.
	EnumWindows(visit func(Handle) bool) error
	IsWindowVisible(h Handle) bool
	IsZoomed(h Handle) bool
	ShowWindow(h Handle, cmd ShowCommand) error
	SetZOrder(h Handle, z ZOrder) error
	// RefreshDesktop asks the shell to repaint the desktop after a work-area
	// change.
	RefreshDesktop() error
}
