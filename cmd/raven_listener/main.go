// Prints the readings bridged by raven_api as JSON lines.
// Depends on raven_api being online.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/NotCoffee418/raven_usb/pkg/config"
	"github.com/NotCoffee418/raven_usb/pkg/interpreter"
	"github.com/NotCoffee418/raven_usb/pkg/types"
)

func main() {
	if err := config.LoadListenerConfig(); err != nil {
		log.Fatalf("Failed to load listener config: %v", err)
	}

	// Set the host:port from env var RAVEN_API_HOST
	host := os.Getenv("RAVEN_API_HOST")
	if host == "" {
		host = config.ActiveListenerConfig.RavenAPIHost
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Subscribe to websocket with revive
	interpreter.StartListener(ctx, host, config.ActiveListenerConfig.TLSEnabled, handleReading)
}

func handleReading(reading types.Reading) {
	fmt.Println(string(reading.ToJsonBytes()))
}
