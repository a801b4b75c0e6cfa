package config

import "time"

type ListenerConfig struct {
	// host:port of raven_api
	RavenAPIHost string `toml:"raven_api_host"`
	TLSEnabled   bool   `toml:"tls_enabled"`
}

type RavenConfig struct {
	SerialDevice string `toml:"serial_device"`
	Baudrate     uint   `toml:"baudrate"`
	// How long a get_* command waits for its reply.
	QueryTimeoutSeconds int    `toml:"query_timeout_seconds"`
	ListenAddress       string `toml:"listen_address"`
	ListenPort          int    `toml:"listen_port"`
}

func (c *RavenConfig) QueryTimeout() time.Duration {
	if c.QueryTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}
