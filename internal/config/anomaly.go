package config

// anomaly records one rejected configuration value together with the
// fallback that replaced it.
type anomaly struct {
	field    string
	reason   string
	actual   any
	fallback any
}

func (an anomaly) logArgs() []any {
	return []any{
		"field", an.field, "reason", an.reason,
		"actual", an.actual, "fallback", an.fallback,
	}
}

// AnomalyCollector accumulates the anomalies found while validating a
// configuration.
type AnomalyCollector struct {
	anomalies []anomaly
}

func newAnomalyCollector() *AnomalyCollector {
	return &AnomalyCollector{}
}

func (ac *AnomalyCollector) add(field, reason string, actual, fallback any) {
	ac.anomalies = append(ac.anomalies, anomaly{
		field:    field,
		reason:   reason,
		actual:   actual,
		fallback: fallback,
	})
}

// drain returns the collected anomalies and resets the collector, so one
// validator can be reused across configurations.
func (ac *AnomalyCollector) drain() []anomaly {
	anomalies := ac.anomalies
	ac.anomalies = nil

	return anomalies
}
