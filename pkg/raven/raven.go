// Package raven talks to a Rainforest RAVEn USB stick. A Raven sends
// commands over the serial link and waits for the matching reading, which a
// background goroutine decodes from the device's XML output.
//
// Getters for the same reading kind share one freshness flag, so two
// overlapping calls of e.g. GetInstantaneousDemand may see each other's reply.
package raven

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NotCoffee418/raven_usb/pkg/port_reader"
	"github.com/NotCoffee418/raven_usb/pkg/types"
)

// Used by the getters when no timeout is given.
const DefaultTimeout = 30 * time.Second

// Device command names.
const (
	CmdInitialize                   = "initialize"
	CmdGetConnectionStatus          = "get_connection_status"
	CmdGetInstantaneousDemand       = "get_instantaneous_demand"
	CmdGetCurrentSummationDelivered = "get_current_summation_delivered"
	CmdGetDeviceInfo                = "get_device_info"
	CmdFactoryReset                 = "factory_reset"
)

type Raven struct {
	reader *port_reader.RavenReader
	store  *readingStore
	ready  atomic.Bool

	readErrMutex sync.Mutex
	readErr      error
}

// New opens the serial port, starts reading and initializes the device.
func New(port string) (*Raven, error) {
	return NewWithBaudrate(port, port_reader.DefaultBaudrate)
}

// NewWithBaudrate is New with a configured line speed. 0 means 115200.
func NewWithBaudrate(port string, baudrate uint) (*Raven, error) {
	if port == "" {
		return nil, ErrNoPort
	}

	reader := port_reader.NewRavenReader(port, baudrate)
	if err := reader.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return start(reader)
}

// NewFromConn is New for a link that is already open.
func NewFromConn(conn io.ReadWriteCloser) (*Raven, error) {
	if conn == nil {
		return nil, ErrNoPort
	}
	return start(port_reader.NewRavenReaderFromConn(conn))
}

func start(reader *port_reader.RavenReader) (*Raven, error) {
	r := &Raven{
		reader: reader,
		store:  newReadingStore(),
	}

	go reader.StartReading(r.store.publish, r.handleReadError)
	r.ready.Store(true)

	if err := r.command(CmdInitialize); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Raven) handleReadError(err error) {
	r.readErrMutex.Lock()
	r.readErr = err
	r.readErrMutex.Unlock()
}

// ReadErr returns the error that stopped the background reader, if any.
// Once set, no more readings arrive and pending calls run into their timeout.
func (r *Raven) ReadErr() error {
	r.readErrMutex.Lock()
	defer r.readErrMutex.Unlock()
	return r.readErr
}

// Close stops the reader and closes the link. Later calls fail with ErrNotReady.
func (r *Raven) Close() error {
	if !r.ready.Swap(false) {
		return nil
	}
	return r.reader.StopReading()
}

func (r *Raven) GetConnectionStatus(ctx context.Context, timeout time.Duration) (*types.ConnectionStatus, error) {
	reading, err := r.query(ctx, "get_connection_status", CmdGetConnectionStatus, types.KindConnectionStatus, timeout)
	if err != nil {
		return nil, err
	}
	return reading.(*types.ConnectionStatus), nil
}

func (r *Raven) GetInstantaneousDemand(ctx context.Context, timeout time.Duration) (*types.InstantaneousDemand, error) {
	reading, err := r.query(ctx, "get_instantaneous_demand", CmdGetInstantaneousDemand, types.KindInstantaneousDemand, timeout)
	if err != nil {
		return nil, err
	}
	return reading.(*types.InstantaneousDemand), nil
}

func (r *Raven) GetSummationDelivered(ctx context.Context, timeout time.Duration) (*types.SummationDelivered, error) {
	reading, err := r.query(ctx, "get_summation_delivered", CmdGetCurrentSummationDelivered, types.KindSummationDelivered, timeout)
	if err != nil {
		return nil, err
	}
	return reading.(*types.SummationDelivered), nil
}

func (r *Raven) GetDeviceInfo(ctx context.Context, timeout time.Duration) (*types.DeviceInfo, error) {
	reading, err := r.query(ctx, "get_device_info", CmdGetDeviceInfo, types.KindDeviceInfo, timeout)
	if err != nil {
		return nil, err
	}
	return reading.(*types.DeviceInfo), nil
}

// FactoryReset returns as soon as the command is written.
// The device resets without replying.
func (r *Raven) FactoryReset() error {
	if !r.ready.Load() {
		return fmt.Errorf("factory_reset: %w", ErrNotReady)
	}
	return r.command(CmdFactoryReset)
}

// LongPoll blocks until the device completes any reading, returns it and
// consumes the event. Only ctx ends the wait early.
func (r *Raven) LongPoll(ctx context.Context) (types.Reading, error) {
	if !r.ready.Load() {
		return nil, fmt.Errorf("long_poll: %w", ErrNotReady)
	}
	return r.store.waitUntilFresh(ctx, types.KindNone, 0)
}

// Latest returns the last reading of the kind, fresh or not.
func (r *Raven) Latest(kind types.ReadingKind) types.Reading {
	return r.store.latest(kind)
}

func (r *Raven) query(
	ctx context.Context,
	op string,
	cmd string,
	kind types.ReadingKind,
	timeout time.Duration,
) (types.Reading, error) {
	if !r.ready.Load() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotReady)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	r.store.clearFresh(kind)
	if err := r.command(cmd); err != nil {
		return nil, err
	}

	reading, err := r.store.waitUntilFresh(ctx, kind, timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reading, nil
}

func (r *Raven) command(name string) error {
	if err := r.reader.SendCommand(name); err != nil {
		log.Printf("Error sending %s: %v", name, err)
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}
