package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// printer writes matched paths, one per line. Writes are serialised so
// callbacks running on the worker pool never interleave lines.
type printer struct {
	mu  sync.Mutex
	out io.Writer
	sep string
	dir *color.Color
}

func newPrinter(out io.Writer, mode string, null bool) (*printer, error) {
	enabled, err := colorEnabled(out, mode)
	if err != nil {
		return nil, err
	}

	dir := color.New(color.FgBlue, color.Bold)
	if enabled {
		dir.EnableColor()
	} else {
		dir.DisableColor()
	}

	sep := "\n"
	if null {
		sep = "\x00"
	}
	return &printer{out: out, sep: sep, dir: dir}, nil
}

func (p *printer) Print(path string, isDir bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if isDir {
		fmt.Fprint(p.out, p.dir.Sprint(path))
	} else {
		fmt.Fprint(p.out, path)
	}
	fmt.Fprint(p.out, p.sep)
}

// Write passes command output through under the same lock as Print
func (p *printer) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Write(b)
}

func colorEnabled(out io.Writer, mode string) (bool, error) {
	switch strings.ToLower(mode) {
	case colorAlways:
		return true, nil
	case colorNever:
		return false, nil
	case "", colorAuto:
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := out.(*os.File)
		return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())), nil
	}
	return false, fmt.Errorf("invalid --color value %q (want auto, always or never)", mode)
}
