package port_reader

import (
	"strconv"
	"strings"

	"github.com/NotCoffee418/raven_usb/pkg/ravenutils"
	"github.com/NotCoffee418/raven_usb/pkg/types"
)

type connectionStatusXml struct {
	Status       string  `xml:"Status"`
	LinkStrength string  `xml:"LinkStrength"`
	Channel      string  `xml:"Channel"`
	Description  *string `xml:"Description"`
	ExtPanId     string  `xml:"ExtPanId"`
	ShortAddr    string  `xml:"ShortAddr"`
}

type instantaneousDemandXml struct {
	Demand     string `xml:"Demand"`
	Multiplier string `xml:"Multiplier"`
	Divisor    string `xml:"Divisor"`
	TimeStamp  string `xml:"TimeStamp"`
}

type summationXml struct {
	SummationDelivered string `xml:"SummationDelivered"`
	SummationReceived  string `xml:"SummationReceived"`
	Multiplier         string `xml:"Multiplier"`
	Divisor            string `xml:"Divisor"`
	TimeStamp          string `xml:"TimeStamp"`
}

type deviceInfoXml struct {
	DeviceMacId  string `xml:"DeviceMacId"`
	InstallCode  string `xml:"InstallCode"`
	LinkKey      string `xml:"LinkKey"`
	FWVersion    string `xml:"FWVersion"`
	HWVersion    string `xml:"HWVersion"`
	ImageType    string `xml:"ImageType"`
	Manufacturer string `xml:"Manufacturer"`
	ModelId      string `xml:"ModelId"`
	DateCode     string `xml:"DateCode"`
}

func handleConnectionStatus(raw *connectionStatusXml) *types.ConnectionStatus {
	status := raw.Status

	if status == "Connected" {
		channel, err := strconv.Atoi(strings.TrimSpace(raw.Channel))
		if err != nil {
			channel = 0
		}
		return &types.ConnectionStatus{
			IsConnected: true,
			State:       types.ConnectionConnected,
			Status:      status,
			Description: deref(raw.Description),
			Link: &types.ConnectionLink{
				LinkStrength: ravenutils.HexToInt(raw.LinkStrength),
				Channel:      channel,
				ExtPanID:     ravenutils.HexToInt(raw.ExtPanId),
				ShortAddr:    raw.ShortAddr,
			},
		}
	}

	if strings.Contains(status, "Fail") {
		return &types.ConnectionStatus{
			State:       types.ConnectionFailed,
			Status:      status,
			Description: status,
		}
	}

	// Older firmware sends a Description along with other states.
	return &types.ConnectionStatus{
		State:       types.ConnectionUnknown,
		Status:      status,
		Description: deref(raw.Description),
	}
}

func handleInstantaneousDemand(raw *instantaneousDemandXml) *types.InstantaneousDemand {
	rawDemand := ravenutils.HexToSigned32(raw.Demand)
	multiplier := ravenutils.HexToInt(raw.Multiplier)
	divisor := ravenutils.HexToInt(raw.Divisor)

	return &types.InstantaneousDemand{
		Demand:     ravenutils.DecodeScaled(rawDemand, multiplier, divisor),
		RawDemand:  rawDemand,
		Multiplier: multiplier,
		Divisor:    divisor,
		Timestamp:  ravenutils.DecodeHexTimestamp(raw.TimeStamp),
	}
}

func handleSummation(raw *summationXml) *types.SummationDelivered {
	delivered := ravenutils.HexToUint(raw.SummationDelivered)
	received := ravenutils.HexToUint(raw.SummationReceived)
	multiplier := ravenutils.GuardZero(ravenutils.HexToInt(raw.Multiplier))
	divisor := ravenutils.GuardZero(ravenutils.HexToInt(raw.Divisor))

	return &types.SummationDelivered{
		RawSummationDelivered: delivered,
		RawSummationReceived:  received,
		SummationDelivered:    ravenutils.DecodeScaledUnsigned(delivered, multiplier, divisor),
		SummationReceived:     ravenutils.DecodeScaledUnsigned(received, multiplier, divisor),
		Multiplier:            multiplier,
		Divisor:               divisor,
		// Unparseable timestamps fall back to the device epoch.
		Timestamp: ravenutils.DecodeHexTimestamp(raw.TimeStamp),
	}
}

func handleDeviceInfo(raw *deviceInfoXml) *types.DeviceInfo {
	return &types.DeviceInfo{
		DeviceMac:    ravenutils.HexToMac(raw.DeviceMacId),
		InstallCode:  ravenutils.HexToMac(raw.InstallCode),
		LinkKey:      raw.LinkKey,
		FWVersion:    raw.FWVersion,
		HWVersion:    raw.HWVersion,
		ImageType:    raw.ImageType,
		Manufacturer: raw.Manufacturer,
		ModelID:      raw.ModelId,
		DateCode:     raw.DateCode,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
