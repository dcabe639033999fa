// Package progress renders transient terminal feedback for slow operations
// such as the history query and the release push.
package progress

// TerminalCapabilities describes what the output terminal can display.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols holds the status markers and spinner character set index.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}
