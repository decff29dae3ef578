// Package config holds the run configuration: grid layout, battery
// model, tick pacing, and collaborator settings. Loaded from YAML with
// every field defaulted, then validated before the simulation starts.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full run configuration.
type Config struct {
	// World layout.
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Agents          int     `yaml:"agents"`
	Seed            int64   `yaml:"seed"` // 0 = random layout each run
	DirtyPercent    float64 `yaml:"dirty_percent"`
	ObstaclePercent float64 `yaml:"obstacle_percent"`

	// Run length and pacing.
	MaxTicks       uint64 `yaml:"max_ticks"`
	TickIntervalMs int    `yaml:"tick_interval_ms"` // 0 = run flat out

	// Battery model.
	MaxBattery      int  `yaml:"max_battery"`
	CriticalBattery int  `yaml:"critical_battery"`
	SafeBattery     int  `yaml:"safe_battery"`
	MoveCost        int  `yaml:"move_cost"`
	CleanCost       int  `yaml:"clean_cost"`
	ChargeRate      int  `yaml:"charge_rate"`
	IdleRandomMove  bool `yaml:"idle_random_move"`

	// Collaborators.
	APIPort int    `yaml:"api_port"` // 0 = API disabled
	DBPath  string `yaml:"db_path"`  // "" = persistence disabled
}

// Default returns the standard run configuration.
func Default() Config {
	return Config{
		Width:           10,
		Height:          10,
		Agents:          1,
		Seed:            42,
		DirtyPercent:    0.3,
		ObstaclePercent: 0.2,
		MaxTicks:        1000,
		TickIntervalMs:  0,
		MaxBattery:      100,
		CriticalBattery: 20,
		SafeBattery:     90,
		MoveCost:        1,
		CleanCost:       1,
		ChargeRate:      5,
		IdleRandomMove:  true,
		APIPort:         0,
		DBPath:          "data/gridsweep.db",
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects impossible setups before the simulation starts.
func (c Config) Validate() error {
	if c.Width < 2 || c.Height < 2 {
		return fmt.Errorf("grid must be at least 2x2, got %dx%d", c.Width, c.Height)
	}
	if c.Agents < 1 {
		return fmt.Errorf("need at least one agent, got %d", c.Agents)
	}
	if c.DirtyPercent < 0 || c.DirtyPercent > 1 {
		return fmt.Errorf("dirty_percent %.2f outside [0,1]", c.DirtyPercent)
	}
	if c.ObstaclePercent < 0 || c.ObstaclePercent > 1 {
		return fmt.Errorf("obstacle_percent %.2f outside [0,1]", c.ObstaclePercent)
	}

	total := c.Width * c.Height
	obstacles := int(float64(total) * c.ObstaclePercent)
	dirty := int(float64(total) * c.DirtyPercent)
	if c.Agents+obstacles+dirty > total {
		return fmt.Errorf("placement exceeds grid capacity: %d stations + %d obstacles + %d dirty > %d cells",
			c.Agents, obstacles, dirty, total)
	}

	if c.MaxBattery <= 0 {
		return fmt.Errorf("max_battery must be positive, got %d", c.MaxBattery)
	}
	if c.CriticalBattery <= 0 || c.CriticalBattery >= c.SafeBattery || c.SafeBattery > c.MaxBattery {
		return fmt.Errorf("battery thresholds must satisfy 0 < critical (%d) < safe (%d) <= max (%d)",
			c.CriticalBattery, c.SafeBattery, c.MaxBattery)
	}
	if c.MoveCost < 0 || c.CleanCost < 0 {
		return fmt.Errorf("action costs cannot be negative (move %d, clean %d)", c.MoveCost, c.CleanCost)
	}
	if c.ChargeRate <= 0 {
		return fmt.Errorf("charge_rate must be positive, got %d", c.ChargeRate)
	}
	if c.MaxTicks == 0 {
		return fmt.Errorf("max_ticks must be positive")
	}
	return nil
}
