package ui

import (
	"strings"
	"testing"

	"shroud/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("obfuscating 2 files", []string{"a.shr", "b.shr"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.shr", Stage: driver.StageObfuscate, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "b.shr", Stage: driver.StageParse, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "unknown.shr", Stage: driver.StageParse, Status: driver.StatusWorking})

	view := m.View()
	for _, want := range []string{"obfuscating 2 files", "obfuscating a.shr", "error b.shr"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if m.items[0].stage != driver.StageObfuscate {
		t.Errorf("stage = %q", m.items[0].stage)
	}

	m.applyEvent(driver.Event{File: "a.shr", Stage: driver.StageWrite, Status: driver.StatusDone})
	if got := m.items[0].status; got != "done" {
		t.Errorf("status = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
}
