package port_reader

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/NotCoffee418/raven_usb/pkg/types"
)

// ParseFragment decodes a completed fragment into its reading.
// Fragments with an unknown root element yield a nil reading and no error.
func ParseFragment(fragment string) (types.Reading, error) {
	root, err := rootElement(fragment)
	if err != nil {
		return nil, err
	}

	switch root {
	case "ConnectionStatus":
		var raw connectionStatusXml
		if err := xml.Unmarshal([]byte(fragment), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", root, err)
		}
		return handleConnectionStatus(&raw), nil
	case "InstantaneousDemand":
		var raw instantaneousDemandXml
		if err := xml.Unmarshal([]byte(fragment), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", root, err)
		}
		return handleInstantaneousDemand(&raw), nil
	case "CurrentSummationDelivered":
		var raw summationXml
		if err := xml.Unmarshal([]byte(fragment), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", root, err)
		}
		return handleSummation(&raw), nil
	case "DeviceInfo":
		var raw deviceInfoXml
		if err := xml.Unmarshal([]byte(fragment), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", root, err)
		}
		return handleDeviceInfo(&raw), nil
	}
	return nil, nil
}

func rootElement(fragment string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(fragment))
	for {
		token, err := decoder.Token()
		if err != nil {
			return "", fmt.Errorf("failed to find root element: %w", err)
		}
		if start, ok := token.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}
