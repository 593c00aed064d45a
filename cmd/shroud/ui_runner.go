package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"shroud/internal/driver"
	"shroud/internal/ui"
)

type obfuscateOutcome struct {
	report *driver.Report
	err    error
}

func runObfuscateWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Report, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan obfuscateOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		report, err := driver.ObfuscateFiles(ctx, files, optsCopy)
		outcomeCh <- obfuscateOutcome{report: report, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
