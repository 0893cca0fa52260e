package observ

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestTimerRecordsPhasesInOrder(t *testing.T) {
	tm := NewTimer()
	compile := tm.Begin("compile")
	tm.End(compile, "demo.mc")
	execute := tm.Begin("execute")
	tm.End(execute, "")

	report := tm.Report()
	be.Equal(t, len(report.Phases), 2)
	be.Equal(t, report.Phases[0].Name, "compile")
	be.Equal(t, report.Phases[0].Note, "demo.mc")
	be.Equal(t, report.Phases[1].Name, "execute")
	be.True(t, report.Phases[0].DurationMS >= 0)
	be.True(t, report.TotalMS >= report.Phases[0].DurationMS)
}

func TestTimerEmptyReport(t *testing.T) {
	tm := NewTimer()
	report := tm.Report()
	be.Equal(t, report.TotalMS, 0.0)
	be.Equal(t, len(report.Phases), 0)
}

func TestEndIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(-1, "nope")
	tm.End(3, "nope")
	be.Equal(t, len(tm.Report().Phases), 0)
}

func TestSummaryListsEveryPhase(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("assemble"), "")
	tm.End(tm.Begin("execute"), "fuel left")

	sum := tm.Summary()
	be.True(t, strings.HasPrefix(sum, "timings:\n"))
	be.True(t, strings.Contains(sum, "assemble"))
	be.True(t, strings.Contains(sum, "// fuel left"))
	be.True(t, strings.Contains(sum, "total"))
}
