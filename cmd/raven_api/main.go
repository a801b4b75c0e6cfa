// Raven API owns the RAVEn stick and bridges its readings over HTTP and websockets.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/NotCoffee418/raven_usb/pkg/config"
	"github.com/NotCoffee418/raven_usb/pkg/raven"
	"github.com/NotCoffee418/raven_usb/pkg/types"
)

func main() {
	// Load config
	if err := config.LoadRavenConfig(); err != nil {
		log.Fatalf("Failed to load raven config: %v", err)
	}
	cfg := config.ActiveRavenConfig

	device, err := raven.NewWithBaudrate(cfg.SerialDevice, cfg.Baudrate)
	if err != nil {
		log.Fatalf("Failed to open RAVEn: %v", err)
	}
	defer device.Close()

	bridge := newBridge(device, cfg.QueryTimeout())
	go bridge.pollEvents(context.Background())

	listener := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)
	log.Printf("Starting RAVEn API on %s", listener)
	log.Fatal(http.ListenAndServe(listener, bridge.routes()))
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeReading(w http.ResponseWriter, reading types.Reading) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(reading.ToJsonBytes())
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, raven.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, raven.ErrNotReady):
		status = http.StatusServiceUnavailable
	}
	writeJson(w, status, map[string]string{"error": err.Error()})
}
