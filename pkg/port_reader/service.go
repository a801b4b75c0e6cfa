package port_reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/NotCoffee418/raven_usb/pkg/types"
	"github.com/jacobsa/go-serial/serial"
)

// The RAVEn stick only talks at 115200 8N1.
const DefaultBaudrate uint = 115200

var ErrNotConnected = errors.New("serial port not connected")

// Initialize a new RavenReader client. Call Connect before reading.
func NewRavenReader(port string, baudrate uint) *RavenReader {
	if baudrate == 0 {
		baudrate = DefaultBaudrate
	}
	return &RavenReader{
		port:     port,
		baudrate: baudrate,
		framer:   NewFramer(),
	}
}

// NewRavenReaderFromConn wraps a link that is already open.
func NewRavenReaderFromConn(conn io.ReadWriteCloser) *RavenReader {
	reader := NewRavenReader("", DefaultBaudrate)
	reader.attach(conn)
	return reader
}

// Open the connection to the serial port.
func (p *RavenReader) Connect() error {
	options := serial.OpenOptions{
		PortName:        p.port,
		BaudRate:        p.baudrate,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	}

	port, err := serial.Open(options)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	p.attach(port)
	log.Printf("Connected to RAVEn on %s", p.port)
	return nil
}

func (p *RavenReader) attach(conn io.ReadWriteCloser) {
	p.serialPort = conn
	p.lineReader = bufio.NewReader(conn)
}

// Start listening for device output. Blocks until the link fails or
// StopReading is called, so run it in a goroutine.
// handleReading is called on the reading goroutine for every decoded
// fragment, in arrival order.
// handleError receives the read error that ended the loop. It is not
// called after StopReading.
func (p *RavenReader) StartReading(
	handleReading func(reading types.Reading),
	handleError func(error),
) {
	for {
		line, err := p.readLine()
		if line != "" {
			p.handleLine(line, handleReading)
		}
		if err != nil {
			if p.stopSignal.Load() {
				log.Println("Stop signal received, reader stopped")
				return
			}
			// Nothing reconnects the link, no further events will arrive.
			log.Printf("Error reading from RAVEn, stopping reader: %v", err)
			handleError(err)
			return
		}
	}
}

func (p *RavenReader) handleLine(line string, handleReading func(reading types.Reading)) {
	fragment, ok := p.framer.Feed(line)
	if !ok {
		return
	}

	reading, err := ParseFragment(fragment)
	if err != nil {
		log.Printf("Skipping malformed fragment: %v", err)
		return
	}
	if reading == nil {
		return
	}
	handleReading(reading)
}

func (p *RavenReader) StopReading() error {
	p.stopSignal.Store(true)
	return p.disconnect()
}

// SendCommand writes a single Command element to the device.
// It does not wait for any reply.
func (p *RavenReader) SendCommand(name string) error {
	if p.serialPort == nil {
		return ErrNotConnected
	}

	cmd := fmt.Sprintf("<Command><Name>%s</Name></Command>\n", name)

	p.writeMutex.Lock()
	defer p.writeMutex.Unlock()
	if _, err := io.WriteString(p.serialPort, cmd); err != nil {
		return fmt.Errorf("failed to send %s: %w", name, err)
	}
	return nil
}

func (p *RavenReader) disconnect() error {
	if p.serialPort == nil {
		return nil
	}
	err := p.serialPort.Close()
	log.Println("Disconnected from RAVEn")
	return err
}

func (p *RavenReader) readLine() (string, error) {
	if p.lineReader == nil {
		return "", ErrNotConnected
	}
	return p.lineReader.ReadString('\n')
}
