package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/cellterm/config"
	"github.com/lixenwraith/cellterm/terminal"
	"github.com/lixenwraith/cellterm/terminfo"
)

// quitBindings end the program
var quitBindings = []string{"ctrl_c", "ctrl_q"}

const maxLog = 10

func main() {
	var (
		configPath string
		debug      bool
		exportPath string
	)

	rootCmd := &cobra.Command{
		Use:   "input-test [flags]",
		Short: "Echo decoded terminal input",
		Long: `input-test opens the terminal in raw mode, prints every decoded key
and resize event, and redraws a status grid after each one.`,
		Example: `  # Use $TERM and /dev/tty
  input-test

  # Explicit settings with debug logging to log_file
  input-test --config cellterm.toml --debug

  # Write the resolved description as a compiled terminfo file
  input-test --export ./xterm.ti`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if debug {
				cfg.Debug = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, logFile, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			if logFile != nil {
				defer logFile.Close()
			}

			db, err := loadDatabase(cfg)
			if err != nil {
				return err
			}
			logger.Debug("terminfo loaded", "names", db.Names())

			if exportPath != "" {
				return exportDatabase(db, exportPath)
			}
			return run(cfg, db, logger)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging to log_file")
	rootCmd.Flags().StringVar(&exportPath, "export", "", "Write the compiled terminfo description to this path and exit")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging returns a discarding logger unless debug is enabled, in which
// case records go to the configured file; never to the terminal in use
func setupLogging(cfg *config.Config) (*slog.Logger, *os.File, error) {
	if !cfg.Debug {
		return slog.New(slog.DiscardHandler), nil, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening log file")
	}
	handler := tint.NewHandler(f, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.StampMilli,
		NoColor:    true,
	})
	return slog.New(handler), f, nil
}

func loadDatabase(cfg *config.Config) (*terminfo.Database, error) {
	if cfg.Terminfo != "" {
		return terminfo.LoadFile(cfg.Terminfo)
	}
	return terminfo.Load(cfg.Term)
}

func exportDatabase(db *terminfo.Database, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err := db.Serialize(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func run(cfg *config.Config, db *terminfo.Database, logger *slog.Logger) error {
	opts := cfg.SessionOptions()
	opts.Logger = logger

	s := terminal.NewSession(db, opts)
	if err := s.Open(cfg.Device, cfg.ResizeSignal); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			panic(r)
		}
	}()
	defer s.Close()

	quit := parseBindings(quitBindings)
	eventLog := make([]string, 0, maxLog)
	addLog := func(line string) {
		if len(eventLog) >= maxLog {
			copy(eventLog, eventLog[1:])
			eventLog = eventLog[:maxLog-1]
		}
		eventLog = append(eventLog, line)
	}

	for {
		draw(s, eventLog)
		s.Present()

		ev := s.Poll(cfg.PollTimeoutMs)
		switch ev.Type {
		case terminal.EventKey:
			if quit.match(ev) {
				return nil
			}
			addLog(formatKeyEvent(ev))
		case terminal.EventResize:
			addLog(fmt.Sprintf("RESIZE: %dx%d -> %dx%d", ev.OldWidth, ev.OldHeight, s.Width(), s.Height()))
			logger.Debug("resized", "width", s.Width(), "height", s.Height())
		}
	}
}

type binding struct {
	mod terminal.Modifier
	key terminal.Key
	ch  rune
}

type bindings []binding

func parseBindings(specs []string) bindings {
	var b bindings
	for _, spec := range specs {
		if mod, key, ch, ok := terminal.ParseKeySpec(spec); ok {
			b = append(b, binding{mod: mod, key: key, ch: ch})
		}
	}
	return b
}

func (b bindings) match(ev terminal.Event) bool {
	for _, k := range b {
		if k.mod == ev.Mod && k.key == ev.Key && (k.key != terminal.KeyRune || k.ch == ev.Ch) {
			return true
		}
	}
	return false
}

var (
	titleFg  = terminal.ColorWhite | terminal.AttrBold
	titleBg  = terminal.ColorBlue
	dividerC = terminal.NewCell('─', terminal.Palette(240), terminal.ColorDefault)
	logFg    = terminal.ColorDefault
	statusFg = terminal.Palette(245)
)

func draw(s *terminal.Session, eventLog []string) {
	w, h := s.Width(), s.Height()
	s.Clear(terminal.NewCell(' ', terminal.ColorDefault, terminal.ColorDefault))
	if w == 0 || h == 0 {
		return
	}

	s.PutLine(0, 0, w, false, terminal.NewCell(' ', titleFg, titleBg))
	drawText(s, 1, 0, "Input Test - press keys, resize the window - Ctrl+C or Ctrl+Q to quit", titleFg, titleBg)
	s.PutLine(0, 1, w, false, dividerC)

	for i, entry := range eventLog {
		y := 2 + i
		if y >= h-2 {
			break
		}
		drawText(s, 1, y, entry, logFg, terminal.ColorDefault)
	}

	s.PutLine(0, h-2, w, false, dividerC)
	drawText(s, 1, h-1, fmt.Sprintf("Size: %dx%d", w, h), statusFg, terminal.ColorDefault)
	s.SetCaretPos(0, h-1)
}

func drawText(s *terminal.Session, x, y int, text string, fg, bg terminal.Attribute) {
	cells := make([]terminal.Cell, 0, len(text))
	for _, r := range text {
		cells = append(cells, terminal.NewCell(r, fg, bg))
	}
	s.PutSequence(x, y, cells)
}

func formatKeyEvent(ev terminal.Event) string {
	var mods string
	if ev.Mod != terminal.ModNone {
		mods = ev.Mod.String() + "+"
	}

	keyName := ev.Key.String()
	if ev.Key == terminal.KeyRune {
		if ev.Ch >= 0x20 && ev.Ch < 0x7f {
			keyName = fmt.Sprintf("'%c'", ev.Ch)
		} else {
			keyName = fmt.Sprintf("U+%04X", ev.Ch)
		}
	}
	return fmt.Sprintf("KEY: %s%s", mods, keyName)
}
