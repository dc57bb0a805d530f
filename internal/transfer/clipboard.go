package transfer

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard receives copy payloads
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// SystemClipboard returns the desktop clipboard
func SystemClipboard() Clipboard {
	return systemClipboard{}
}

// Deliver writes payload to cb and returns a one-line notice for the user.
// A clipboard failure is reported in the notice, never returned as an error.
func Deliver(cb Clipboard, what, payload string) (notice string, ok bool) {
	if clipboard.Unsupported && isSystem(cb) {
		return "Clipboard is not available on this system", false
	}
	if err := cb.WriteAll(payload); err != nil {
		return fmt.Sprintf("Could not copy %s to the clipboard: %v", what, err), false
	}
	return fmt.Sprintf("Copied %s to the clipboard", what), true
}

func isSystem(cb Clipboard) bool {
	_, ok := cb.(systemClipboard)
	return ok
}
