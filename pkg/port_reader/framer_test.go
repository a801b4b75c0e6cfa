package port_reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feedAll(f *Framer, lines ...string) []string {
	var fragments []string
	for _, line := range lines {
		if fragment, ok := f.Feed(line); ok {
			fragments = append(fragments, fragment)
		}
	}
	return fragments
}

func TestFramer_MultiLineFragment(t *testing.T) {
	f := NewFramer()
	fragments := feedAll(f,
		"noise before\n",
		"<InstantaneousDemand>\n",
		"  <Demand>0x000001f4</Demand>\n",
		"</InstantaneousDemand>\n",
		"noise after\n",
	)

	assert.Equal(t, []string{
		"<InstantaneousDemand>\n  <Demand>0x000001f4</Demand>\n</InstantaneousDemand>\n",
	}, fragments)
	assert.False(t, f.inFragment)
}

func TestFramer_SingleLineFragment(t *testing.T) {
	f := NewFramer()
	line := "<DeviceInfo><ModelId>Z105-2-EMU2-LEDD_JM</ModelId></DeviceInfo>\n"
	assert.Equal(t, []string{line}, feedAll(f, line))
}

func TestFramer_NewOpeningTagDiscardsPartial(t *testing.T) {
	f := NewFramer()
	fragments := feedAll(f,
		"<ConnectionStatus>\n",
		"  <Status>Joining</Status>\n",
		"<InstantaneousDemand>\n",
		"  <Demand>0x01</Demand>\n",
		"</InstantaneousDemand>\n",
	)

	assert.Equal(t, []string{
		"<InstantaneousDemand>\n  <Demand>0x01</Demand>\n</InstantaneousDemand>\n",
	}, fragments)
}

func TestFramer_ClosingTagOutsideFragmentIgnored(t *testing.T) {
	f := NewFramer()
	assert.Empty(t, feedAll(f, "</ConnectionStatus>\n", "<Status>x</Status>\n"))
	assert.False(t, f.inFragment)
}

func TestFramer_UnknownElementsIgnored(t *testing.T) {
	f := NewFramer()
	assert.Empty(t, feedAll(f,
		"<TimeCluster>\n",
		"  <UTCTime>0x1c8d5c52</UTCTime>\n",
		"</TimeCluster>\n",
	))
}

func TestFramer_SubstringMatchTriggers(t *testing.T) {
	// Tags are found anywhere in the line, even inside unrelated text.
	f := NewFramer()
	fragments := feedAll(f,
		"<Note>saw <DeviceInfo> in a log</Note>\n",
		"done </DeviceInfo> here\n",
	)
	assert.Equal(t, []string{
		"<Note>saw <DeviceInfo> in a log</Note>\ndone </DeviceInfo> here\n",
	}, fragments)
}
