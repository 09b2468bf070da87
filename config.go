package flotilla

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

const configFilePermission = 0o644

type Config struct {
	Aggregator AggregatorConfig `toml:"aggregator"`
	Client     ClientConfig     `toml:"client"`
	Simulation SimulationConfig `toml:"simulation"`
}

type AggregatorConfig struct {
	ClientID  string `toml:"client_id"`
	ClientKey string `toml:"client_key"`
	ChannelID string `toml:"channel_id"`
	HTTPURL   string `toml:"http_url"`
}

type ClientConfig struct {
	ClientID  string `toml:"client_id"`
	ClientKey string `toml:"client_key"`
	ChannelID string `toml:"channel_id"`
	DataPath  string `toml:"data_path"`
}

type SimulationConfig struct {
	ClientCount  uint64  `toml:"client_count"`
	TotalRounds  uint64  `toml:"total_rounds"`
	LocalEpochs  uint64  `toml:"local_epochs"`
	LearningRate float64 `toml:"learning_rate"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func SaveConfig(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, configFilePermission); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
