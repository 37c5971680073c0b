// Package sim drives a spiking network through a bounded run: it applies
// scheduled stimuli, ticks the model, and streams per-tick activity to the
// logger, the trace file and the optional run recorder.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spikegrid/spikegrid/internal/logging"
	"github.com/spikegrid/spikegrid/internal/recorder"
	"github.com/spikegrid/spikegrid/internal/snn"
)

// Stimulus is a single scheduled charge injection.
type Stimulus struct {
	Tick   int
	Neuron int
	Charge float32
}

// ParseStimulus parses a "tick:neuron:charge" triple.
func ParseStimulus(s string) (Stimulus, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Stimulus{}, fmt.Errorf("stimulus %q: want tick:neuron:charge", s)
	}
	tick, err := strconv.Atoi(parts[0])
	if err != nil || tick < 0 {
		return Stimulus{}, fmt.Errorf("stimulus %q: bad tick %q", s, parts[0])
	}
	neuron, err := strconv.Atoi(parts[1])
	if err != nil || neuron < 0 {
		return Stimulus{}, fmt.Errorf("stimulus %q: bad neuron %q", s, parts[1])
	}
	charge, err := strconv.ParseFloat(parts[2], 32)
	if err != nil {
		return Stimulus{}, fmt.Errorf("stimulus %q: bad charge %q", s, parts[2])
	}
	return Stimulus{Tick: tick, Neuron: neuron, Charge: float32(charge)}, nil
}

// ParseStimuli parses a list of "tick:neuron:charge" triples.
func ParseStimuli(specs []string) ([]Stimulus, error) {
	stimuli := make([]Stimulus, 0, len(specs))
	for _, s := range specs {
		st, err := ParseStimulus(s)
		if err != nil {
			return nil, err
		}
		stimuli = append(stimuli, st)
	}
	return stimuli, nil
}

// Summary aggregates a completed run.
type Summary struct {
	Ticks           int       `json:"ticks"`
	TotalSpikes     int       `json:"total_spikes"`
	SpikesPerNeuron []int     `json:"spikes_per_neuron"`
	FinalPotentials []float32 `json:"final_potentials"`
	RunID           string    `json:"run_id,omitempty"`
}

// Runner executes a bounded simulation over a model.
type Runner struct {
	model   *snn.Model
	logger  *slog.Logger
	trace   *logging.TraceLogger
	rec     *recorder.Recorder
	stimuli []Stimulus
}

// Option configures a Runner.
type Option func(*Runner)

// WithTrace attaches a per-tick trace logger. A nil trace logger is fine.
func WithTrace(tl *logging.TraceLogger) Option {
	return func(r *Runner) { r.trace = tl }
}

// WithRecorder attaches a run recorder.
func WithRecorder(rec *recorder.Recorder) Option {
	return func(r *Runner) { r.rec = rec }
}

// WithStimuli schedules charge injections to apply before their tick.
func WithStimuli(stimuli []Stimulus) Option {
	return func(r *Runner) { r.stimuli = stimuli }
}

// NewRunner creates a Runner over model. The logger must not be nil.
func NewRunner(model *snn.Model, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{model: model, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run advances the model by ticks steps, applying stimuli at their
// scheduled tick before the step executes. Cancellation is checked
// between ticks; a cancelled run returns the context error along with
// the partial summary.
func (r *Runner) Run(ctx context.Context, ticks int, topology string) (*Summary, error) {
	n := r.model.NumNeurons()
	summary := &Summary{
		SpikesPerNeuron: make([]int, n),
	}

	if r.rec != nil {
		id, err := r.rec.Begin(ctx, topology, n, r.model.NumSynapses())
		if err != nil {
			return nil, fmt.Errorf("start recording: %w", err)
		}
		summary.RunID = id
	}

	r.logger.Info("run started",
		"neurons", n,
		"synapses", r.model.NumSynapses(),
		"ticks", ticks,
		"topology", topology)

	for tick := 0; tick < ticks; tick++ {
		select {
		case <-ctx.Done():
			r.logger.Info("run cancelled", "tick", tick)
			r.finish(ctx, summary)
			return summary, ctx.Err()
		default:
		}

		if err := r.applyStimuli(tick); err != nil {
			r.finish(ctx, summary)
			return summary, err
		}

		r.model.Tick()
		summary.Ticks = tick + 1

		spikes := 0
		for i, fired := range r.model.Spiked() {
			if fired {
				spikes++
				summary.SpikesPerNeuron[i]++
			}
		}
		summary.TotalSpikes += spikes

		armed := 0
		for _, s := range r.model.SynapseStates() {
			if s == 1 {
				armed++
			}
		}

		meanV, maxV := potentialStats(r.model.NeuronVs())

		r.logger.Log(ctx, logging.LevelTrace, "tick complete",
			"tick", tick, "spikes", spikes, "armed", armed)
		r.trace.Log(map[string]any{
			"tick":   tick,
			"spikes": spikes,
			"armed":  armed,
			"mean_v": meanV,
			"max_v":  maxV,
		})
		if r.rec != nil {
			err := r.rec.RecordTick(ctx, summary.RunID, recorder.TickSample{
				Tick:   tick,
				Spikes: spikes,
				Armed:  armed,
				MeanV:  meanV,
				MaxV:   maxV,
			})
			if err != nil {
				return summary, err
			}
		}
	}

	summary.FinalPotentials = append([]float32(nil), r.model.NeuronVs()...)
	r.finish(ctx, summary)
	r.logger.Info("run complete", "ticks", summary.Ticks, "total_spikes", summary.TotalSpikes)
	return summary, nil
}

// applyStimuli injects every stimulus scheduled for tick.
func (r *Runner) applyStimuli(tick int) error {
	for _, st := range r.stimuli {
		if st.Tick != tick {
			continue
		}
		current, err := r.model.GetCharge(st.Neuron)
		if err != nil {
			return fmt.Errorf("apply stimulus at tick %d: %w", tick, err)
		}
		if err := r.model.SetCharge(st.Neuron, current+st.Charge); err != nil {
			return fmt.Errorf("apply stimulus at tick %d: %w", tick, err)
		}
	}
	return nil
}

// finish closes out the recording if one is active.
func (r *Runner) finish(ctx context.Context, summary *Summary) {
	if r.rec == nil || summary.RunID == "" {
		return
	}
	if err := r.rec.Finish(ctx, summary.RunID, summary.Ticks, summary.TotalSpikes); err != nil {
		r.logger.Warn("finish recording", "error", err)
	}
}

// potentialStats returns the mean and max membrane potential.
func potentialStats(vs []float32) (mean, max float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	max = float64(vs[0])
	var sum float64
	for _, v := range vs {
		sum += float64(v)
		if float64(v) > max {
			max = float64(v)
		}
	}
	return sum / float64(len(vs)), max
}
