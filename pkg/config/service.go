package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/NotCoffee418/raven_usb/pkg/pathing"
)

var (
	ActiveRavenConfig    *RavenConfig
	ActiveListenerConfig *ListenerConfig
)

func DefaultRavenConfig() *RavenConfig {
	return &RavenConfig{
		SerialDevice:        "/dev/ttyUSB0",
		Baudrate:            115200,
		QueryTimeoutSeconds: 30,
		ListenAddress:       "0.0.0.0",
		ListenPort:          9040,
	}
}

func DefaultListenerConfig() *ListenerConfig {
	return &ListenerConfig{
		RavenAPIHost: "localhost:9040",
		TLSEnabled:   false,
	}
}

func LoadRavenConfig() error {
	cfg, err := LoadRavenConfigFrom(pathing.GetConfigPath("raven.toml"))
	if err != nil {
		return err
	}
	ActiveRavenConfig = cfg
	return nil
}

func LoadListenerConfig() error {
	cfg, err := LoadListenerConfigFrom(pathing.GetConfigPath("listener.toml"))
	if err != nil {
		return err
	}
	ActiveListenerConfig = cfg
	return nil
}

// LoadRavenConfigFrom reads the file, writing the defaults there first if
// it doesn't exist.
func LoadRavenConfigFrom(configPath string) (*RavenConfig, error) {
	cfg := DefaultRavenConfig()
	if err := loadOrCreate(configPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadListenerConfigFrom(configPath string) (*ListenerConfig, error) {
	cfg := DefaultListenerConfig()
	if err := loadOrCreate(configPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Values missing from an existing file keep the defaults already in cfg.
func loadOrCreate(configPath string, cfg any) error {
	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := pathing.EnsureDir(configPath); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", configPath, err)
		}
		defer cfgFile.Close()
		return toml.NewEncoder(cfgFile).Encode(cfg)
	}

	// Load existing config
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return fmt.Errorf("failed to load %s: %w", configPath, err)
	}
	return nil
}
