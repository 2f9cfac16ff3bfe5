package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vorakit/redistream/pkg/logging"
)

type config struct {
	RedisAddress string          `yaml:"redis_address"`
	Stream       string          `yaml:"stream"`
	Group        string          `yaml:"group"`
	Consumer     string          `yaml:"consumer"` // empty means generate one
	Logging      logging.Options `yaml:"logging"`
}

func defaultConfig() config {
	return config{
		RedisAddress: "127.0.0.1:6379",
		Stream:       "ConsumerTest",
		Group:        "MyGroup",
		Logging:      logging.Options{Stdout: true, Level: "info"},
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}
