package telemetry

import (
	"io"

	"github.com/robinvdvleuten/hledger/output"
)

// noOpCollector is a collector that does nothing.
// It is what FromContext returns when telemetry is disabled.
type noOpCollector struct{}

func (noOpCollector) Start(string) Timer { return noOpTimer{} }

func (noOpCollector) Report(io.Writer, *output.Styles) {}

type noOpTimer struct{}

func (noOpTimer) End() {}

func (noOpTimer) Child(string) Timer { return noOpTimer{} }
