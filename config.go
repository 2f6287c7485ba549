package kairos

import (
	"io"

	"gopkg.in/yaml.v3"
)

// maxAutoCancelBatch is the default auto-cancel poll interval: the run
// loop polls the active token's cancelled state every this-many
// synchronous iterations, bounding cancellation latency to this many
// steps without per-step cost.
const maxAutoCancelBatch = 512

// Config tunes runtime knobs otherwise left as package constants.
// Nil configs behave as DefaultConfig() throughout this package.
type Config struct {
	// MaxAutoCancelBatch overrides the auto-cancel poll interval.
	MaxAutoCancelBatch int `yaml:"max_auto_cancel_batch"`
	// DefaultParallelism is loaded and defaulted like the other fields;
	// no function in this package reads it, since every traversal takes
	// its width as an explicit argument.
	DefaultParallelism int `yaml:"default_parallelism"`
	// TrampolineQueueCapacity is loaded and defaulted like the other
	// fields; no function in this package reads it, and
	// NewImmediateTrampoline takes no capacity.
	TrampolineQueueCapacity int `yaml:"trampoline_queue_capacity"`
}

// DefaultConfig returns the runtime's built-in tuning constants.
func DefaultConfig() *Config {
	return &Config{
		MaxAutoCancelBatch:      maxAutoCancelBatch,
		DefaultParallelism:      1,
		TrampolineQueueCapacity: 8,
	}
}

// LoadConfig parses a YAML runtime-tuning document, filling unset fields
// (zero values) from DefaultConfig.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}
	def := DefaultConfig()
	if cfg.MaxAutoCancelBatch <= 0 {
		cfg.MaxAutoCancelBatch = def.MaxAutoCancelBatch
	}
	if cfg.DefaultParallelism <= 0 {
		cfg.DefaultParallelism = def.DefaultParallelism
	}
	if cfg.TrampolineQueueCapacity <= 0 {
		cfg.TrampolineQueueCapacity = def.TrampolineQueueCapacity
	}
	return cfg, nil
}

// batchSize returns cfg's auto-cancel batch, defaulting when cfg is nil.
func (cfg *Config) batchSize() int {
	if cfg == nil || cfg.MaxAutoCancelBatch <= 0 {
		return maxAutoCancelBatch
	}
	return cfg.MaxAutoCancelBatch
}
