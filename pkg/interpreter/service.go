package interpreter

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/NotCoffee418/raven_usb/pkg/types"
	"github.com/gorilla/websocket"
)

const (
	maxRetries     = 10
	baseRetryDelay = 2 * time.Second
	maxRetryDelay  = 60 * time.Second
)

// Manage websocket connection to raven_api and call funcToCall for each
// bridged reading. Returns when ctx is done or retries are exhausted.
func StartListener(ctx context.Context, host string, tls bool, funcToCall func(reading types.Reading)) {
	scheme := "ws"
	if tls {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: host, Path: "/ws"}

	retryCount := 0

	for {
		if retryCount > 0 {
			// Calculate retry delay with exponential backoff
			retryDelay := time.Duration(1<<(retryCount-1)) * baseRetryDelay
			if retryDelay > maxRetryDelay {
				retryDelay = maxRetryDelay
			}

			log.Printf("Retrying connection in %v... (attempt %d/%d)", retryDelay, retryCount+1, maxRetries)
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				log.Println("Shutdown requested during retry wait")
				return
			}
		}

		log.Printf("Connecting to %s", u.String())

		dialer := *websocket.DefaultDialer
		dialer.HandshakeTimeout = 10 * time.Second
		c, _, err := dialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Connection failed: %v", err)
			retryCount++
			if retryCount >= maxRetries {
				log.Printf("Max retries (%d) reached. Giving up.", maxRetries)
				return
			}
			continue
		}

		log.Println("Connected! Accepting RAVEn readings.")
		retryCount = 0

		connectionBroken := handleConnection(ctx, c, funcToCall)
		c.Close()

		if !connectionBroken {
			return
		}
		log.Println("Connection lost, will retry...")
		retryCount = 1
	}
}

// Returns true when the connection broke, false on a requested shutdown.
func handleConnection(
	ctx context.Context,
	c *websocket.Conn,
	funcToCall func(reading types.Reading),
) bool {
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("WebSocket error: %v", err)
				} else {
					log.Printf("Connection closed: %v", err)
				}
				return
			}

			if messageType != websocket.TextMessage {
				log.Printf("Received unexpected message type: %d", messageType)
				continue
			}
			if reading := types.EventFromJsonBytes(message); reading != nil {
				funcToCall(reading)
			} else {
				log.Printf("Failed to parse event: %s", string(message))
			}
		}
	}()

	// Keep the connection alive, demand events can be minutes apart.
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return true
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Printf("Failed to send ping: %v", err)
			}
		case <-ctx.Done():
			log.Println("Shutdown requested, closing connection...")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Error sending close message:", err)
			}

			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return false
		}
	}
}
