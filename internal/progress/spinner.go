package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner shows an animated message while a task runs and leaves a status
// line behind. Without a TTY it prints nothing.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	message string
	s       *spinner.Spinner
}

// NewSpinner creates a spinner that writes to out.
func NewSpinner(out io.Writer, caps TerminalCapabilities, message string) *Spinner {
	return &Spinner{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
		message: message,
	}
}

// Start begins the animation. It is a no-op without a TTY.
func (sp *Spinner) Start() {
	if !sp.caps.IsTTY || sp.s != nil {
		return
	}
	sp.s = spinner.New(
		spinner.CharSets[sp.symbols.SpinnerSet],
		spinnerInterval,
		spinner.WithWriter(sp.out),
		spinner.WithSuffix(" "+sp.message),
	)
	sp.s.Start()
}

// Stop ends the animation and prints a final status line.
func (sp *Spinner) Stop(err error) {
	if sp.s == nil {
		return
	}
	sp.s.Stop()
	sp.s = nil
	if err != nil {
		fmt.Fprintf(sp.out, "%s %s\n", sp.symbols.Failure, sp.message)
		return
	}
	fmt.Fprintf(sp.out, "%s %s\n", sp.symbols.Checkmark, sp.message)
}

// Run wraps fn with Start and Stop and returns its error.
func (sp *Spinner) Run(fn func() error) error {
	sp.Start()
	err := fn()
	sp.Stop(err)
	return err
}
