// Interrogate the RAVEn USB stick and print its readings as JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/NotCoffee418/raven_usb/pkg/config"
	"github.com/NotCoffee418/raven_usb/pkg/raven"
	"github.com/NotCoffee418/raven_usb/pkg/types"
)

const (
	exitOK = iota
	exitError
	exitConfig
	exitTimeout
	exitNotReady
	exitTransport
)

func main() {
	if err := config.LoadRavenConfig(); err != nil {
		log.Printf("Failed to load config, using defaults: %v", err)
		config.ActiveRavenConfig = config.DefaultRavenConfig()
	}
	cfg := config.ActiveRavenConfig

	port := flag.String("port", cfg.SerialDevice, "Serial port of the USB stick")
	timeout := flag.Duration("timeout", cfg.QueryTimeout(), "How long to wait for each reply")
	polls := flag.Int("polls", 1000, "Number of events to long poll for")
	info := flag.Bool("info", false, "Print device info and exit")
	reset := flag.Bool("reset", false, "Factory reset the device and exit")
	flag.Parse()

	os.Exit(run(*port, cfg.Baudrate, *timeout, *polls, *info, *reset))
}

func run(port string, baudrate uint, timeout time.Duration, polls int, info, reset bool) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := raven.NewWithBaudrate(port, baudrate)
	if err != nil {
		return report(err)
	}
	defer r.Close()

	if reset {
		if err := r.FactoryReset(); err != nil {
			return report(err)
		}
		fmt.Println("true")
		return exitOK
	}

	if info {
		deviceInfo, err := r.GetDeviceInfo(ctx, timeout)
		if err != nil {
			return report(err)
		}
		printReading(deviceInfo)
		return exitOK
	}

	status, err := r.GetConnectionStatus(ctx, timeout)
	if err != nil {
		return report(err)
	}
	printReading(status)

	summation, err := r.GetSummationDelivered(ctx, timeout)
	if err != nil {
		return report(err)
	}
	printReading(summation)

	// The stick's scheduler pushes instantaneous demand on its own.
	for i := 0; i < polls; i++ {
		reading, err := r.LongPoll(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return exitOK
			}
			return report(err)
		}
		printReading(reading)
	}
	return exitOK
}

func printReading(reading types.Reading) {
	fmt.Println(string(reading.ToJsonBytes()))
}

func report(err error) int {
	fmt.Fprintln(os.Stderr, "error:", err)
	switch {
	case errors.Is(err, raven.ErrNoPort):
		return exitConfig
	case errors.Is(err, raven.ErrTimeout):
		return exitTimeout
	case errors.Is(err, raven.ErrNotReady):
		return exitNotReady
	case errors.Is(err, raven.ErrTransport):
		return exitTransport
	default:
		return exitError
	}
}
