package types

import (
	"encoding/json"
	"log"
)

// EventMessage wraps a reading for transport over the websocket bridge.
type EventMessage struct {
	Kind    string          `json:"kind"`
	Reading json.RawMessage `json:"reading"`
}

func NewEventMessage(reading Reading) *EventMessage {
	return &EventMessage{
		Kind:    reading.Kind().String(),
		Reading: reading.ToJsonBytes(),
	}
}

func (m *EventMessage) ToJsonBytes() []byte {
	return toJsonBytes(m)
}

// EventFromJsonBytes decodes a bridged event back into its typed reading.
// Returns nil when the message can't be understood.
func EventFromJsonBytes(data []byte) Reading {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Error unmarshaling event: %v", err)
		return nil
	}

	var reading Reading
	switch ParseReadingKind(msg.Kind) {
	case KindConnectionStatus:
		reading = &ConnectionStatus{}
	case KindInstantaneousDemand:
		reading = &InstantaneousDemand{}
	case KindSummationDelivered:
		reading = &SummationDelivered{}
	case KindDeviceInfo:
		reading = &DeviceInfo{}
	default:
		return nil
	}

	if err := json.Unmarshal(msg.Reading, reading); err != nil {
		log.Printf("Error unmarshaling %s reading: %v", msg.Kind, err)
		return nil
	}
	return reading
}
