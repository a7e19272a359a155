package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps the progressbar library with our custom styling
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase string
}

// Phase represents a stage in the analysis pipeline
type Phase string

const (
	PhaseLoading    Phase = "Loading"
	PhaseDecoding   Phase = "Decoding"
	PhaseExtracting Phase = "Extracting"
	PhaseScanning   Phase = "Scanning"
	PhaseExporting  Phase = "Exporting"
)

// AnalysisPhases is the phase list of the extract command.
var AnalysisPhases = []Phase{PhaseLoading, PhaseDecoding, PhaseExtracting, PhaseScanning, PhaseExporting}

// NewProgressBar creates a progress bar for phase on stderr, so that stdout
// stays free for results.
func NewProgressBar(phase Phase, total int) *ProgressBar {
	return NewProgressBarWithOutput(phase, total, os.Stderr)
}

// NewProgressBarWithOutput creates a new progress bar with custom output
func NewProgressBarWithOutput(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetPredictTime(true),
	)

	return &ProgressBar{bar: bar, phase: string(phase)}
}

// Add increments the progress bar by n. Safe for concurrent use.
func (pb *ProgressBar) Add(n int) error {
	return pb.bar.Add(n)
}

// Increment increments the progress bar by 1
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// Tick is Increment for callbacks that have no use for the error.
func (pb *ProgressBar) Tick() {
	_ = pb.bar.Add(1)
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Describe updates the description of the progress bar
func (pb *ProgressBar) Describe(description string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, description))
}

// Pipeline represents a multi-phase progress tracking system
type Pipeline struct {
	phases   []Phase
	current  int
	bars     []*ProgressBar
	disabled bool
	output   io.Writer
}

// NewPipeline creates a new pipeline progress tracker on stderr
func NewPipeline(phases []Phase) *Pipeline {
	return NewPipelineWithOutput(phases, os.Stderr)
}

// NewPipelineWithOutput creates a new pipeline with custom output
func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	return &Pipeline{
		phases:  phases,
		current: -1,
		bars:    make([]*ProgressBar, 0, len(phases)),
		output:  output,
	}
}

// Disable disables the progress bar output
func (p *Pipeline) Disable() {
	p.disabled = true
}

// Disabled reports whether output is suppressed.
func (p *Pipeline) Disabled() bool {
	return p.disabled
}

// NextPhase finishes the running phase and starts the next one. Past the
// last phase it keeps returning a silent bar so callers never get nil.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.finishCurrent()

	p.current++
	if p.disabled || p.current >= len(p.phases) {
		return silentBar(p.phaseName())
	}

	bar := NewProgressBarWithOutput(p.phases[p.current], total, p.output)
	p.bars = append(p.bars, bar)
	return bar
}

// Current returns the running phase, or "" before the first one.
func (p *Pipeline) Current() Phase {
	if p.current < 0 || p.current >= len(p.phases) {
		return ""
	}
	return p.phases[p.current]
}

// Finish completes all phases
func (p *Pipeline) Finish() {
	p.finishCurrent()
}

// PrintSummary prints a summary of the pipeline phases
func (p *Pipeline) PrintSummary(message string) {
	if !p.disabled {
		fmt.Fprintln(p.output, message)
	}
}

func (p *Pipeline) finishCurrent() {
	if !p.disabled && p.current >= 0 && p.current < len(p.bars) {
		p.bars[p.current].Finish()
	}
}

func (p *Pipeline) phaseName() string {
	if p.current < len(p.phases) {
		return string(p.phases[p.current])
	}
	return ""
}

func silentBar(phase string) *ProgressBar {
	return &ProgressBar{
		bar:   progressbar.NewOptions(-1, progressbar.OptionSetWriter(io.Discard)),
		phase: phase,
	}
}
