package physics2d

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Tuning collects the solver's tunable constants. Iterations and
// RelaxIterations are pinned to 1 by DefaultTuning below, which keeps the
// per-step solve cost predictable while still exposing the knob for
// hosts that want to experiment with more iterations.
type Tuning struct {
	Iterations      int `yaml:"iterations"`
	RelaxIterations int `yaml:"relax_iterations"`

	BlocksPerWorker int `yaml:"blocks_per_worker"`
	MinBodyBlock    int `yaml:"min_body_block"`
	SIMDLaneWidth   int `yaml:"simd_lane_width"`

	SleepThreshold float32 `yaml:"sleep_threshold"`
	TimeToSleep    float32 `yaml:"time_to_sleep"`

	AABBMargin      float32 `yaml:"aabb_margin"`
	MaxRotation     float32 `yaml:"max_rotation"`
	MaxLinearSpeed  float32 `yaml:"max_linear_speed"`
	CoreFraction    float32 `yaml:"core_fraction"`

	ContinuousEnabled bool `yaml:"continuous_enabled"`

	ContactHertz           float32 `yaml:"contact_hertz"`
	StaticContactHertz     float32 `yaml:"static_contact_hertz"`
	ContactDampingRatio    float32 `yaml:"contact_damping_ratio"`
	JointHertz             float32 `yaml:"joint_hertz"`
	JointDampingRatio      float32 `yaml:"joint_damping_ratio"`
	RestitutionThreshold   float32 `yaml:"restitution_threshold"`

	MaxContinuousSensorHits int `yaml:"max_continuous_sensor_hits"`
}

// DefaultTuning returns reasonable production defaults: a max rotation of
// 0.25*pi radians (an eighth of a turn) per step, a 0.25 core fraction used for CCD fallback
// and chain-segment pruning, and an 8-hit continuous sensor cap.
func DefaultTuning() Tuning {
	return Tuning{
		Iterations:      1,
		RelaxIterations: 1,

		BlocksPerWorker: 4,
		MinBodyBlock:    32,
		SIMDLaneWidth:   4,

		SleepThreshold: 0.05,
		TimeToSleep:    0.5,

		AABBMargin:     0.1,
		MaxRotation:    0.25 * 3.14159265, // 0.25*pi rad (45 degrees) per step, matching B2_MAX_ROTATION
		MaxLinearSpeed: 400,
		CoreFraction:   0.25,

		ContinuousEnabled: true,

		ContactHertz:         30,
		StaticContactHertz:   60,
		ContactDampingRatio:  10,
		JointHertz:           60,
		JointDampingRatio:    2,
		RestitutionThreshold: 1.0,

		MaxContinuousSensorHits: 8,
	}
}

// LoadTuning decodes a YAML document into a Tuning, starting from
// DefaultTuning so a partial document only overrides the fields it sets.
func LoadTuning(r io.Reader) (Tuning, error) {
	t := DefaultTuning()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&t); err != nil && err != io.EOF {
		return Tuning{}, err
	}
	return t, nil
}
