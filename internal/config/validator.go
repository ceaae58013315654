package config

import (
	"github.com/FerroO2000/valico/internal/telemetry"
)

// Validator is an utility struct for validating a configuration.
type Validator struct {
	tel *telemetry.Telemetry

	anomalyCollector *AnomalyCollector
}

// NewValidator returns a new validator.
func NewValidator(tel *telemetry.Telemetry) *Validator {
	return &Validator{
		tel: tel,

		anomalyCollector: newAnomalyCollector(),
	}
}

// Validate validates the given configuration.
// Anomalies are corrected with their fallback values and logged as warnings,
// never treated as fatal.
func (v *Validator) Validate(config Config) {
	config.Validate(v.anomalyCollector)

	for _, an := range v.anomalyCollector.drain() {
		v.tel.LogWarn("config anomaly", an.logArgs()...)
	}
}
