package driver

import (
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Profile is the optional timing breakdown spec §4.4/§5 describes:
// parse, build+merge, inference, normalise durations for one run,
// stamped with a run ID so repeated CLI invocations are distinguishable
// in logs (grounded on siegeai-siegelistener's prometheus + uuid pair).
type Profile struct {
	RunID      string
	Parse      time.Duration
	BuildMerge time.Duration
	Inference  time.Duration
	Normalise  time.Duration
}

// NewProfile starts a fresh profile stamped with a new run ID.
func NewProfile() *Profile {
	return &Profile{RunID: uuid.NewString()}
}

// Registry gathers the breakdown into a dedicated prometheus registry,
// one gauge per phase, labelled by run ID.
func (p *Profile) Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "genson",
		Subsystem: "infer",
		Name:      "phase_duration_seconds",
		Help:      "Duration of each inference pipeline phase, by run.",
	}, []string{"run_id", "phase"})
	reg.MustRegister(gauge)

	for phase, d := range map[string]time.Duration{
		"parse":       p.Parse,
		"build_merge": p.BuildMerge,
		"inference":   p.Inference,
		"normalise":   p.Normalise,
	} {
		gauge.WithLabelValues(p.RunID, phase).Set(d.Seconds())
	}
	return reg
}

// WritePrometheusText writes the breakdown in Prometheus text
// exposition format.
func (p *Profile) WritePrometheusText(w io.Writer) error {
	families, err := p.Registry().Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the breakdown as one compact JSON object, the
// human-facing counterpart to WritePrometheusText.
func (p *Profile) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(map[string]any{
		"run_id":             p.RunID,
		"parse_seconds":      p.Parse.Seconds(),
		"build_merge_seconds": p.BuildMerge.Seconds(),
		"inference_seconds":  p.Inference.Seconds(),
		"normalise_seconds":  p.Normalise.Seconds(),
	})
}
