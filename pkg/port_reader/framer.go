package port_reader

import "strings"

func NewFramer() *Framer {
	return &Framer{}
}

// Feed takes one line of device output. When the line completes a fragment
// the whole fragment is returned with ok set.
//
// Tags are matched by plain substring search, not XML tokenizing, so a
// whitelisted tag inside unrelated text will also start or end a fragment.
func (f *Framer) Feed(line string) (fragment string, ok bool) {
	// A new opening tag always wins, even halfway through a fragment.
	if isOpeningElement(line) {
		f.inFragment = true
		f.buffer = f.buffer[:0]
	}

	if f.inFragment && isClosingElement(line) {
		f.buffer = append(f.buffer, line...)
		f.inFragment = false
		return string(f.buffer), true
	}

	if f.inFragment {
		f.buffer = append(f.buffer, line...)
	}
	return "", false
}

func isOpeningElement(line string) bool {
	for _, elem := range fragmentElements {
		if strings.Contains(line, "<"+elem+">") {
			return true
		}
	}
	return false
}

func isClosingElement(line string) bool {
	for _, elem := range fragmentElements {
		if strings.Contains(line, "</"+elem+">") {
			return true
		}
	}
	return false
}
