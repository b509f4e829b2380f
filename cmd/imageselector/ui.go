package main

import (
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/imageselector/internal/appstate"
	"github.com/example/imageselector/internal/selector"
)

// runUIFn is swapped out by tests that must not open a display.
var runUIFn = runUI

// runUI starts the window driver on the main thread and runs work on a
// separate goroutine. Selection windows requested by work are opened one at
// a time; the driver stops once work returns.
func runUI(r *root, work func(selector.Runner) error) error {
	queue := appstate.NewQueue()
	var err error
	driver.Main(func(s screen.Screen) {
		go func() {
			defer queue.Close()
			err = work(selector.RunnerFunc(queue.Submit))
		}()
		queue.Serve(s, r.newState)
	})
	return err
}
