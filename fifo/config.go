package fifo

import (
	"github.com/FerroO2000/valico/internal/config"
)

//////////////
//  CONFIG  //
//////////////

// Default values for the FIFO configuration.
const (
	DefaultConfigDataWidth = 8
	DefaultConfigDepth     = 16
)

// Config contains the construction-time parameters of the FIFO.
type Config struct {
	// DataWidth is the width of a data word in bits.
	// Words are truncated to this width on write.
	//
	// Default: 8
	DataWidth int

	// Depth is the number of storage slots.
	// It must be a positive power of two.
	//
	// Default: 16
	Depth int
}

// NewConfig returns the default FIFO configuration.
func NewConfig() *Config {
	return &Config{
		DataWidth: DefaultConfigDataWidth,
		Depth:     DefaultConfigDepth,
	}
}

// Validate checks the configuration.
func (c *Config) Validate(ac *config.AnomalyCollector) {
	config.CheckInRange(ac, "DataWidth", &c.DataWidth, 1, 64, DefaultConfigDataWidth)
	config.CheckPowerOfTwo(ac, "Depth", &c.Depth, DefaultConfigDepth)
}
