package port_reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NotCoffee418/raven_usb/pkg/ravenutils"
	"github.com/NotCoffee418/raven_usb/pkg/types"
)

const connectedFragment = `<ConnectionStatus>
  <Status>Connected</Status>
  <LinkStrength>0x64</LinkStrength>
  <Channel>11</Channel>
  <Description>x</Description>
  <ExtPanId>0x1234</ExtPanId>
  <ShortAddr>0xabcd</ShortAddr>
</ConnectionStatus>
`

func TestParseFragment_ConnectionStatusConnected(t *testing.T) {
	reading, err := ParseFragment(connectedFragment)
	require.NoError(t, err)

	status, ok := reading.(*types.ConnectionStatus)
	require.True(t, ok)
	assert.True(t, status.IsConnected)
	assert.Equal(t, types.ConnectionConnected, status.State)
	assert.Equal(t, "Connected", status.Status)
	assert.Equal(t, "x", status.Description)
	require.NotNil(t, status.Link)
	assert.Equal(t, int64(100), status.Link.LinkStrength)
	assert.Equal(t, 11, status.Link.Channel)
	assert.Equal(t, int64(4660), status.Link.ExtPanID)
	assert.Equal(t, "0xabcd", status.Link.ShortAddr)
}

func TestParseFragment_ConnectionStatusFail(t *testing.T) {
	reading, err := ParseFragment("<ConnectionStatus><Status>NetworkFail</Status></ConnectionStatus>")
	require.NoError(t, err)

	status := reading.(*types.ConnectionStatus)
	assert.False(t, status.IsConnected)
	assert.Equal(t, types.ConnectionFailed, status.State)
	assert.Equal(t, "NetworkFail", status.Status)
	assert.Equal(t, "NetworkFail", status.Description)
	assert.Nil(t, status.Link)
}

func TestParseFragment_ConnectionStatusUnknown(t *testing.T) {
	reading, err := ParseFragment("<ConnectionStatus><Status>Rejoining</Status></ConnectionStatus>")
	require.NoError(t, err)

	status := reading.(*types.ConnectionStatus)
	assert.False(t, status.IsConnected)
	assert.Equal(t, types.ConnectionUnknown, status.State)
	assert.Equal(t, "Rejoining", status.Status)
	assert.Empty(t, status.Description)
	assert.Nil(t, status.Link)

	reading, err = ParseFragment("<ConnectionStatus><Status>Joining</Status><Description>Scanning</Description></ConnectionStatus>")
	require.NoError(t, err)
	assert.Equal(t, "Scanning", reading.(*types.ConnectionStatus).Description)
}

func TestParseFragment_InstantaneousDemand(t *testing.T) {
	fragment := `<InstantaneousDemand>
  <DeviceMacId>0xd8d5b90000001234</DeviceMacId>
  <Demand>0xFFFFFE0C</Demand>
  <Multiplier>0x00000001</Multiplier>
  <Divisor>0x000003e8</Divisor>
  <TimeStamp>0x224da786</TimeStamp>
</InstantaneousDemand>
`
	reading, err := ParseFragment(fragment)
	require.NoError(t, err)

	demand := reading.(*types.InstantaneousDemand)
	assert.Equal(t, int64(-500), demand.RawDemand)
	assert.Equal(t, -0.5, demand.Demand)
	assert.Equal(t, int64(1), demand.Multiplier)
	assert.Equal(t, int64(1000), demand.Divisor)
	assert.Equal(t, ravenutils.FormatTimestamp(ravenutils.DecodeTimestamp(0x224da786)), demand.Timestamp)
}

func TestParseFragment_InstantaneousDemandZeroDivisor(t *testing.T) {
	reading, err := ParseFragment("<InstantaneousDemand><Demand>0x64</Demand><Multiplier>0x0</Multiplier><Divisor>0x0</Divisor></InstantaneousDemand>")
	require.NoError(t, err)

	demand := reading.(*types.InstantaneousDemand)
	assert.Equal(t, 100.0, demand.Demand)
	// Reported formatting is kept as sent.
	assert.Equal(t, int64(0), demand.Multiplier)
	assert.Equal(t, int64(0), demand.Divisor)
}

func TestParseFragment_Summation(t *testing.T) {
	fragment := `<CurrentSummationDelivered>
  <SummationDelivered>0x0000000001321a5f</SummationDelivered>
  <SummationReceived>0x00000000000003e8</SummationReceived>
  <Multiplier>0x00000000</Multiplier>
  <Divisor>0x000003e8</Divisor>
  <TimeStamp>not-hex</TimeStamp>
</CurrentSummationDelivered>
`
	reading, err := ParseFragment(fragment)
	require.NoError(t, err)

	summation := reading.(*types.SummationDelivered)
	assert.Equal(t, uint64(0x1321a5f), summation.RawSummationDelivered)
	assert.Equal(t, uint64(1000), summation.RawSummationReceived)
	assert.Equal(t, int64(1), summation.Multiplier)
	assert.Equal(t, int64(1000), summation.Divisor)
	assert.Equal(t, float64(0x1321a5f)/1000, summation.SummationDelivered)
	assert.Equal(t, 1.0, summation.SummationReceived)
	assert.Equal(t, ravenutils.FormatTimestamp(ravenutils.DecodeTimestamp(0)), summation.Timestamp)
}

func TestParseFragment_DeviceInfo(t *testing.T) {
	fragment := `<DeviceInfo>
  <DeviceMacId>0xd8d5b90000001234</DeviceMacId>
  <InstallCode>0xbad</InstallCode>
  <LinkKey>0x0123456789abcdef0123456789abcdef</LinkKey>
  <FWVersion>2.0.0 (7400)</FWVersion>
  <HWVersion>1.2.3</HWVersion>
  <ImageType>0x1301</ImageType>
  <Manufacturer>Rainforest Automation, Inc.</Manufacturer>
  <ModelId>Z105-2-EMU2-LEDD_JM</ModelId>
  <DateCode>2013103023220630</DateCode>
</DeviceInfo>
`
	reading, err := ParseFragment(fragment)
	require.NoError(t, err)

	info := reading.(*types.DeviceInfo)
	assert.Equal(t, "d8:d5:b9:00:00:00:12:34", info.DeviceMac)
	assert.Equal(t, ravenutils.MacSentinel, info.InstallCode)
	assert.Equal(t, "0x0123456789abcdef0123456789abcdef", info.LinkKey)
	assert.Equal(t, "2.0.0 (7400)", info.FWVersion)
	assert.Equal(t, "1.2.3", info.HWVersion)
	assert.Equal(t, "0x1301", info.ImageType)
	assert.Equal(t, "Rainforest Automation, Inc.", info.Manufacturer)
	assert.Equal(t, "Z105-2-EMU2-LEDD_JM", info.ModelID)
	assert.Equal(t, "2013103023220630", info.DateCode)
}

func TestParseFragment_UnknownRootIgnored(t *testing.T) {
	reading, err := ParseFragment("<TimeCluster><UTCTime>0x1</UTCTime></TimeCluster>")
	assert.NoError(t, err)
	assert.Nil(t, reading)
}

func TestParseFragment_Malformed(t *testing.T) {
	_, err := ParseFragment("")
	assert.Error(t, err)

	_, err = ParseFragment("<ConnectionStatus><Status>Connected</Status>")
	assert.Error(t, err)
}
