package port_reader

import (
	"bufio"
	"io"
	"sync"
	"sync/atomic"
)

type RavenReader struct {
	port       string
	baudrate   uint
	serialPort io.ReadWriteCloser
	lineReader *bufio.Reader
	writeMutex sync.Mutex
	stopSignal atomic.Bool

	framer *Framer
}

// Framer cuts the line stream from the device into XML fragments.
// Not safe for concurrent use, it belongs to the read loop.
type Framer struct {
	inFragment bool
	buffer     []byte
}

// The top level elements a fragment can start with.
var fragmentElements = []string{
	"InstantaneousDemand",
	"CurrentSummationDelivered",
	"ConnectionStatus",
	"DeviceInfo",
}
