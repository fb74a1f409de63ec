package physics

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Tunables holds every solver/scheduler constant a host may want to
// override without a recompile. The zero value is invalid — use
// DefaultTunables() or LoadTunables to get a populated value.
type Tunables struct {
	Gravity [3]float32 `yaml:"gravity"`

	SolverIterations   int `yaml:"solver_iterations"`
	PositionIterations int `yaml:"position_iterations"`
	MaxSubSteps        int `yaml:"max_sub_steps"`

	MaxFrameStep          float32 `yaml:"max_frame_step"`
	PenetrationSlop       float32 `yaml:"penetration_slop"`
	PositionCorrection    float32 `yaml:"position_correction"`
	RestitutionThreshold  float32 `yaml:"restitution_threshold"`
	Baumgarte             float32 `yaml:"baumgarte"`
	WarmStartScale        float32 `yaml:"warm_start_scale"`
	CachePersistenceFrame uint32  `yaml:"cache_persistence_frames"`
}

// DefaultTunables matches the engine's documented defaults.
func DefaultTunables() Tunables {
	return Tunables{
		Gravity: [3]float32{0, -9.81, 0},

		SolverIterations:   10,
		PositionIterations: 4,
		MaxSubSteps:        6,

		MaxFrameStep:          0.1,
		PenetrationSlop:       0.005,
		PositionCorrection:    0.75,
		RestitutionThreshold:  1.0,
		Baumgarte:             0.22,
		WarmStartScale:        0.95,
		CachePersistenceFrame: 45,
	}
}

// LoadTunables reads a YAML document describing tunables, starting
// from the defaults so a partial document only overrides what it sets.
func LoadTunables(path string) (Tunables, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tunables{}, err
	}
	defer f.Close()
	return LoadTunablesFromReader(f)
}

// LoadTunablesFromReader is LoadTunables against an already-open reader.
func LoadTunablesFromReader(r io.Reader) (Tunables, error) {
	t := DefaultTunables()
	data, err := io.ReadAll(r)
	if err != nil {
		return Tunables{}, err
	}
	if len(data) == 0 {
		return t, nil
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tunables{}, err
	}
	return t, nil
}
