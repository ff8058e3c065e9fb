package processor

import (
	"fmt"
	"time"
)

// Stage is a step of the pipeline. Stages run strictly in declaration order.
type Stage int

// Pipeline stages.
const (
	Init Stage = iota
	TexturesBuilt
	Bumped
	Shaded
	Classified
	Composited
	CleanedUp
)

var stageNames = [...]string{"init", "textures built", "bumped", "shaded", "classified", "composited", "cleaned up"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// StatusKind grades a status message.
type StatusKind int

// Status kinds.
const (
	Info StatusKind = iota
	Warning
	Error
)

func (k StatusKind) String() string {
	switch k {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("StatusKind(%d)", int(k))
}

// Status is a progress message of a run.
type Status struct {
	Kind    StatusKind
	Stage   Stage
	Message string
	// Elapsed is the duration of the step the message reports on.
	Elapsed time.Duration
}

// Reporter receives status messages in order. Report is never called
// concurrently.
type Reporter interface {
	Report(Status)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Status)

// Report calls f.
func (f ReporterFunc) Report(s Status) { f(s) }
