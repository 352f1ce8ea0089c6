package terminfo

// Boolean capability ordinals
const (
	AutoLeftMargin  = 0
	AutoRightMargin = 1
	HasMetaKey      = 8
	BackColorErase  = 28
)

// Numeric capability ordinals
const (
	Columns   = 0
	Lines     = 2
	MaxColors = 13
	MaxPairs  = 14
)

// String capability ordinals
const (
	BackTab            = 0
	Bell               = 1
	ClearScreen        = 5
	ClrEOL             = 6
	CursorAddress      = 10
	CursorInvisible    = 13
	CursorNormal       = 16
	CursorVisible      = 20
	EnterBlinkMode     = 26
	EnterBoldMode      = 27
	EnterCAMode        = 28
	EnterDimMode       = 30
	EnterReverseMode   = 34
	EnterUnderlineMode = 36
	ExitAttributeMode  = 39
	ExitCAMode         = 40
	KeyBackspace       = 55
	KeyDC              = 59
	KeyDown            = 61
	KeyF1              = 66
	KeyF10             = 67
	KeyF2              = 68
	KeyF3              = 69
	KeyF4              = 70
	KeyF5              = 71
	KeyF6              = 72
	KeyF7              = 73
	KeyF8              = 74
	KeyF9              = 75
	KeyHome            = 76
	KeyIC              = 77
	KeyLeft            = 79
	KeyNPage           = 81
	KeyPPage           = 82
	KeyRight           = 83
	KeyUp              = 87
	KeypadLocal        = 88
	KeypadXmit         = 89
	KeyBTab            = 148
	KeyEnd             = 164
	KeyEnter           = 165
	KeyF11             = 216
	KeyF12             = 217
)
