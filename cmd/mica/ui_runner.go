package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mica/internal/driver"
	"mica/internal/ui"
)

type buildOutcome struct {
	results []driver.FileResult
	err     error
}

// buildDirWithUI runs a directory build behind a Bubble Tea progress
// view. BuildDir closes the event channel, which quits the program.
func buildDirWithUI(ctx context.Context, title, dir string, files []string, opts driver.BuildOptions) ([]driver.FileResult, error) {
	events := make(chan driver.Event, 256)
	opts.Events = events
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		res, err := driver.BuildDir(ctx, dir, opts)
		outcomeCh <- buildOutcome{results: res, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// Keep draining so the build can finish even though the view died.
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
