package terminal

import "log/slog"

// Options configure a Session
type Options struct {
	// RetainOnResize keeps the overlapping back-buffer content when the
	// terminal size changes; otherwise the grid is cleared
	RetainOnResize bool

	// Logger receives diagnostics; nil discards them
	Logger *slog.Logger
}
