// Package logging is the process-wide logger. Messages go to a colored
// console sink and to a daily log file; either sink can be switched off.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/axekit/axe/internal/strutil"
)

const (
	timeFormat = "15:04:05"
	dateFormat = "2006_01_02"
)

type Options struct {
	// Dir holds the log files. Empty means <user cache dir>/axe/logs.
	Dir string
	// Name prefixes the log file name: <Name>-YYYY_MM_DD.log.
	Name    string
	Level   string
	Console bool
	File    bool
	Verbose bool

	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

var (
	mu      sync.Mutex
	out     io.Writer = os.Stdout
	console           = newLogger(os.Stdout, log.InfoLevel)
	errlog            = newLogger(os.Stderr, log.InfoLevel)
	filelog *log.Logger
	logfile *os.File
	verbose bool
	noCon   bool
)

func newLogger(w io.Writer, lvl log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           lvl,
	})
	l.SetStyles(styles())
	return l
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("WARN").Bold(true).Foreground(lipgloss.Color("11"))
	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().SetString("ERROR").Bold(true).Foreground(lipgloss.Color("9"))
	s.Levels[log.FatalLevel] = lipgloss.NewStyle().SetString("FATAL").Bold(true).Foreground(lipgloss.Color("9"))
	return s
}

// fileName is the log file name for the given day.
func fileName(name string, day time.Time) string {
	return name + "-" + day.Format(dateFormat) + ".log"
}

// Init configures the sinks. Calling it again closes the previous log file.
func Init(opts Options) error {
	Close()

	mu.Lock()
	defer mu.Unlock()

	lvl := log.InfoLevel
	if opts.Level != "" {
		l, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		lvl = l
	}
	verbose = opts.Verbose
	if verbose {
		lvl = log.DebugLevel
	}

	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	out = stdout
	noCon = !opts.Console
	console = newLogger(stdout, lvl)
	errlog = newLogger(stderr, lvl)

	if !opts.File {
		return nil
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	dir := opts.Dir
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(cache, "axe", "logs")
	}
	name := opts.Name
	if name == "" {
		name = "axe"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	p := filepath.Join(dir, fileName(name, now()))
	_, statErr := os.Stat(p)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, banner(now(), statErr == nil)); err != nil {
		f.Close()
		return err
	}
	logfile = f
	filelog = newLogger(f, lvl)
	return nil
}

func banner(t time.Time, existed bool) string {
	hint := "Log file was opened at: " + t.Format(timeFormat)
	line := "+" + strings.Repeat("-", len(hint)+2) + "+\n"
	s := line + "| " + hint + " |\n" + line
	if existed {
		s = "\n" + s
	}
	return s
}

// Path returns the open log file, or "" when the file sink is off.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	if logfile == nil {
		return ""
	}
	return logfile.Name()
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logfile != nil {
		_ = logfile.Close()
	}
	logfile = nil
	filelog = nil
}

func emit(lvl log.Level, colored, raw string) {
	mu.Lock()
	defer mu.Unlock()
	if !noCon {
		l := console
		if lvl >= log.ErrorLevel {
			l = errlog
		}
		l.Log(lvl, colored)
	}
	if filelog != nil {
		filelog.Log(lvl, raw)
	}
}

func Info(msg string) { emit(log.InfoLevel, msg, msg) }

func Success(msg string) { emit(log.InfoLevel, text.FgGreen.Sprint(msg), msg) }

func Warn(msg string) { emit(log.WarnLevel, msg, msg) }

func Error(msg string) { emit(log.ErrorLevel, text.FgHiRed.Sprint(msg), msg) }

func Gray(msg string) { emit(log.InfoLevel, text.FgHiBlack.Sprint(msg), msg) }

// Debug prints only when verbose mode is enabled.
func Debug(msg string) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	emit(log.DebugLevel, text.FgHiBlack.Sprint(msg), msg)
}

const titleRule = "================================================"

func Title(msg string) {
	for _, s := range []string{titleRule, msg, titleRule} {
		emit(log.InfoLevel, text.FgHiCyan.Sprint(s), s)
	}
}

func SubTitle(msg string) {
	rule := strings.Repeat("=", strutil.ScreenWidth(msg))
	emit(log.InfoLevel, text.FgHiCyan.Sprint(msg), msg)
	emit(log.InfoLevel, text.FgHiCyan.Sprint(rule), rule)
}

type teeWriter struct{}

// Writer returns a writer that copies raw command output to the console
// and the log file without log decoration.
func Writer() io.Writer { return teeWriter{} }

func (teeWriter) Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	if !noCon {
		if _, err := out.Write(p); err != nil {
			return 0, err
		}
	}
	if logfile != nil {
		if _, err := logfile.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
