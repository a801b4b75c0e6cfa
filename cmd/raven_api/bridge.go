package main

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/NotCoffee418/raven_usb/pkg/types"
	"github.com/gorilla/websocket"
)

// device is the part of *raven.Raven the bridge uses.
type device interface {
	GetConnectionStatus(ctx context.Context, timeout time.Duration) (*types.ConnectionStatus, error)
	GetInstantaneousDemand(ctx context.Context, timeout time.Duration) (*types.InstantaneousDemand, error)
	GetSummationDelivered(ctx context.Context, timeout time.Duration) (*types.SummationDelivered, error)
	GetDeviceInfo(ctx context.Context, timeout time.Duration) (*types.DeviceInfo, error)
	LongPoll(ctx context.Context) (types.Reading, error)
	ReadErr() error
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// bridge is the single consumer of the device. Queries are serialized since
// overlapping gets of the same kind would share one freshness flag.
type bridge struct {
	device  device
	timeout time.Duration

	queryMutex sync.Mutex

	latestMutex sync.RWMutex
	latest      types.Reading

	// ws clients for broadcasting live readings
	wsClients      map[*websocket.Conn]bool
	wsClientsMutex sync.RWMutex
}

func newBridge(d device, timeout time.Duration) *bridge {
	return &bridge{
		device:    d,
		timeout:   timeout,
		wsClients: make(map[*websocket.Conn]bool),
	}
}

func (b *bridge) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Nothing reconnects a dead reader, queries can only time out from here.
		if err := b.device.ReadErr(); err != nil {
			writeJson(w, http.StatusServiceUnavailable, map[string]string{
				"message": "RAVEn USB API",
				"status":  "reader stopped",
				"error":   err.Error(),
			})
			return
		}
		writeJson(w, http.StatusOK, map[string]string{
			"message": "RAVEn USB API",
			"status":  "running",
		})
	})

	mux.HandleFunc("/connection", b.query(func(ctx context.Context) (types.Reading, error) {
		return b.device.GetConnectionStatus(ctx, b.timeout)
	}))
	mux.HandleFunc("/demand", b.query(func(ctx context.Context) (types.Reading, error) {
		return b.device.GetInstantaneousDemand(ctx, b.timeout)
	}))
	mux.HandleFunc("/summation", b.query(func(ctx context.Context) (types.Reading, error) {
		return b.device.GetSummationDelivered(ctx, b.timeout)
	}))
	mux.HandleFunc("/device", b.query(func(ctx context.Context) (types.Reading, error) {
		return b.device.GetDeviceInfo(ctx, b.timeout)
	}))

	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		reading := b.getLatest()
		if reading == nil {
			writeJson(w, http.StatusNotFound, map[string]string{
				"error": "No readings available yet",
			})
			return
		}
		writeJson(w, http.StatusOK, types.NewEventMessage(reading))
	})

	mux.HandleFunc("/ws", b.serveWs)
	return mux
}

func (b *bridge) query(fn func(ctx context.Context) (types.Reading, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.queryMutex.Lock()
		reading, err := fn(r.Context())
		b.queryMutex.Unlock()

		if err != nil {
			writeError(w, err)
			return
		}
		writeReading(w, reading)
	}
}

// pollEvents long polls the device forever and fans every event out.
func (b *bridge) pollEvents(ctx context.Context) {
	for {
		reading, err := b.device.LongPoll(ctx)
		if err != nil {
			log.Printf("Stopped polling RAVEn events: %v", err)
			return
		}

		b.latestMutex.Lock()
		b.latest = reading
		b.latestMutex.Unlock()

		b.broadcast(reading)
	}
}

func (b *bridge) getLatest() types.Reading {
	b.latestMutex.RLock()
	defer b.latestMutex.RUnlock()
	return b.latest
}

func (b *bridge) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	// Send current reading immediately if available, before broadcasts
	// can write to the same connection.
	if reading := b.getLatest(); reading != nil {
		conn.WriteMessage(websocket.TextMessage, types.NewEventMessage(reading).ToJsonBytes())
	}
	b.addClient(conn)

	// Keep connection alive
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			b.removeClient(conn)
			break
		}
	}
}

func (b *bridge) broadcast(reading types.Reading) {
	b.wsClientsMutex.RLock()
	clients := make([]*websocket.Conn, 0, len(b.wsClients))
	for client := range b.wsClients {
		clients = append(clients, client)
	}
	b.wsClientsMutex.RUnlock()

	payload := types.NewEventMessage(reading).ToJsonBytes()
	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.removeClient(client)
		}
	}
}

func (b *bridge) addClient(conn *websocket.Conn) {
	b.wsClientsMutex.Lock()
	b.wsClients[conn] = true
	b.wsClientsMutex.Unlock()
}

func (b *bridge) removeClient(conn *websocket.Conn) {
	b.wsClientsMutex.Lock()
	delete(b.wsClients, conn)
	b.wsClientsMutex.Unlock()
	conn.Close()
}
