// Package clipboard copies answers to the system clipboard.
package clipboard

import (
	"log/slog"

	"github.com/atotto/clipboard"
)

type Copier interface {
	Copy(text string) bool
}

// System writes to the system clipboard. Copy never fails loudly; it
// reports false when no clipboard utility is available.
type System struct{}

var (
	clipboardWrite       = clipboard.WriteAll
	clipboardUnsupported = func() bool { return clipboard.Unsupported }
)

func (System) Copy(text string) bool {
	if clipboardUnsupported() {
		slog.Default().Debug("clipboard is not supported")
		return false
	}
	if err := clipboardWrite(text); err != nil {
		slog.Default().Debug("failed to copy to the clipboard", slog.Any("error", err))
		return false
	}
	return true
}
