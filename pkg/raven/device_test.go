package raven

import (
	"errors"
	"io"
	"strings"
	"sync"
)

// fakeDevice stands in for the RAVEn stick. Every command written to it is
// recorded and, if a reply is registered for it, answered line by line.
type fakeDevice struct {
	*io.PipeReader
	out *io.PipeWriter

	mu       sync.Mutex
	commands []string
	replies  map[string][]string
	failW    error
}

func newFakeDevice() *fakeDevice {
	r, w := io.Pipe()
	return &fakeDevice{PipeReader: r, out: w, replies: map[string][]string{}}
}

func (d *fakeDevice) reply(command string, lines ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replies[command] = lines
}

// emit pushes unsolicited device output.
func (d *fakeDevice) emit(lines ...string) {
	go func() {
		for _, line := range lines {
			if _, err := io.WriteString(d.out, line+"\n"); err != nil {
				return
			}
		}
	}()
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	if d.failW != nil {
		d.mu.Unlock()
		return 0, d.failW
	}
	name := commandName(string(p))
	d.commands = append(d.commands, name)
	lines := d.replies[name]
	d.mu.Unlock()

	if lines != nil {
		d.emit(lines...)
	}
	return len(p), nil
}

func (d *fakeDevice) failWrites(err error) {
	d.mu.Lock()
	d.failW = err
	d.mu.Unlock()
}

func (d *fakeDevice) sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commands...)
}

func commandName(raw string) string {
	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimPrefix(raw, "<Command><Name>")
	return strings.TrimSuffix(raw, "</Name></Command>")
}

var errUnplugged = errors.New("device unplugged")

