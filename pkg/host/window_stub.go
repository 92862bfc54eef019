//go:build !cgo

package host

import (
	"context"
	"errors"
)

// Window runs an App in a desktop window. Builds without cgo cannot open
// one.
type Window struct {
	Title         string
	Width, Height int
	CellW, CellH  int
	FPS           int
	Input         *Input
}

// Run reports that window mode is unavailable.
func (w *Window) Run(context.Context, App) error {
	return errors.New("window mode requires cgo (build with CGO_ENABLED=1)")
}
