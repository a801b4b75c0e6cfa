package types

import (
	"encoding/json"
	"log"
)

// ReadingKind identifies which kind of reading the device completed.
type ReadingKind uint8

const (
	KindNone ReadingKind = iota
	KindConnectionStatus
	KindInstantaneousDemand
	KindSummationDelivered
	KindDeviceInfo

	kindCount
)

// KindCount is the number of reading kinds including KindNone.
const KindCount = int(kindCount)

var kindNames = [...]string{
	KindNone:                "None",
	KindConnectionStatus:    "ConnectionStatus",
	KindInstantaneousDemand: "InstantaneousDemand",
	KindSummationDelivered:  "SummationDelivered",
	KindDeviceInfo:          "DeviceInfo",
}

func (k ReadingKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// ParseReadingKind is the inverse of String. Unknown names map to KindNone.
func ParseReadingKind(name string) ReadingKind {
	for kind, kindName := range kindNames {
		if kindName == name {
			return ReadingKind(kind)
		}
	}
	return KindNone
}

// Reading is implemented by every decoded device response.
type Reading interface {
	Kind() ReadingKind
	ToJsonBytes() []byte
}

type ConnectionState uint8

const (
	ConnectionUnknown ConnectionState = iota
	ConnectionConnected
	ConnectionFailed
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionConnected:
		return "connected"
	case ConnectionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func parseConnectionState(name string) ConnectionState {
	switch name {
	case "connected":
		return ConnectionConnected
	case "failed":
		return ConnectionFailed
	default:
		return ConnectionUnknown
	}
}

// ConnectionLink is only present while the device is joined to a meter.
type ConnectionLink struct {
	LinkStrength int64
	Channel      int
	ExtPanID     int64
	ShortAddr    string
}

type ConnectionStatus struct {
	IsConnected bool
	State       ConnectionState
	Status      string
	// Optional when State is ConnectionUnknown.
	Description string
	// Non-nil if and only if IsConnected.
	Link *ConnectionLink
}

type InstantaneousDemand struct {
	Demand     float64 `json:"demand"`
	RawDemand  int64   `json:"raw_demand"`
	Multiplier int64   `json:"multiplier"`
	Divisor    int64   `json:"divisor"`
	Timestamp  string  `json:"timestamp"`
}

type SummationDelivered struct {
	RawSummationDelivered uint64  `json:"raw_summation_delivered"`
	RawSummationReceived  uint64  `json:"raw_summation_received"`
	SummationDelivered    float64 `json:"summation_delivered"`
	SummationReceived     float64 `json:"summation_received"`
	Multiplier            int64   `json:"multiplier"`
	Divisor               int64   `json:"divisor"`
	Timestamp             string  `json:"timestamp"`
}

type DeviceInfo struct {
	DeviceMac    string `json:"device_mac"`
	InstallCode  string `json:"install_code"`
	LinkKey      string `json:"link_key"`
	FWVersion    string `json:"fw_version"`
	HWVersion    string `json:"hw_version"`
	ImageType    string `json:"image_type"`
	Manufacturer string `json:"manufacturer"`
	ModelID      string `json:"model_id"`
	DateCode     string `json:"date_code"`
}

func (*ConnectionStatus) Kind() ReadingKind    { return KindConnectionStatus }
func (*InstantaneousDemand) Kind() ReadingKind { return KindInstantaneousDemand }
func (*SummationDelivered) Kind() ReadingKind  { return KindSummationDelivered }
func (*DeviceInfo) Kind() ReadingKind          { return KindDeviceInfo }

func (r *ConnectionStatus) ToJsonBytes() []byte    { return toJsonBytes(r) }
func (r *InstantaneousDemand) ToJsonBytes() []byte { return toJsonBytes(r) }
func (r *SummationDelivered) ToJsonBytes() []byte  { return toJsonBytes(r) }
func (r *DeviceInfo) ToJsonBytes() []byte          { return toJsonBytes(r) }

type connectionStatusJson struct {
	IsConnected  bool    `json:"is_connected"`
	LinkStrength *int64  `json:"link_strength,omitempty"`
	Channel      *int    `json:"channel,omitempty"`
	Description  *string `json:"description,omitempty"`
	ExtPanID     *int64  `json:"ext_pan_id,omitempty"`
	ShortAddr    *string `json:"short_addr,omitempty"`
	Status       string  `json:"status"`
	State        string  `json:"state"`
}

// MarshalJSON flattens the link fields next to the status, the way the
// device reports them. A connected status always carries every link key,
// even when the value is empty.
func (r *ConnectionStatus) MarshalJSON() ([]byte, error) {
	out := connectionStatusJson{
		IsConnected: r.IsConnected,
		Status:      r.Status,
		State:       r.State.String(),
	}
	if r.Description != "" || r.Link != nil {
		out.Description = &r.Description
	}
	if r.Link != nil {
		out.LinkStrength = &r.Link.LinkStrength
		out.Channel = &r.Link.Channel
		out.ExtPanID = &r.Link.ExtPanID
		out.ShortAddr = &r.Link.ShortAddr
	}
	return json.Marshal(out)
}

func (r *ConnectionStatus) UnmarshalJSON(data []byte) error {
	var in connectionStatusJson
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = ConnectionStatus{
		IsConnected: in.IsConnected,
		State:       parseConnectionState(in.State),
		Status:      in.Status,
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.IsConnected {
		r.Link = &ConnectionLink{}
		if in.ShortAddr != nil {
			r.Link.ShortAddr = *in.ShortAddr
		}
		if in.LinkStrength != nil {
			r.Link.LinkStrength = *in.LinkStrength
		}
		if in.Channel != nil {
			r.Link.Channel = *in.Channel
		}
		if in.ExtPanID != nil {
			r.Link.ExtPanID = *in.ExtPanID
		}
	}
	return nil
}

func toJsonBytes(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling reading: %v", err)
		return nil
	}
	return data
}
