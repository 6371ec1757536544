package config

import "time"

type Scheduler struct {
	IntervalMin   time.Duration `env:"FETCH_INTERVAL_MIN" envDefault:"10m"`
	IntervalMax   time.Duration `env:"FETCH_INTERVAL_MAX" envDefault:"15m"`
	StartDelayMin time.Duration `env:"START_DELAY_MIN" envDefault:"5s"`
	StartDelayMax time.Duration `env:"START_DELAY_MAX" envDefault:"30s"`
}
