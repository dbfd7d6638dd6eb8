package tkb

import (
	"unicode"
	"unicode/utf8"

	"github.com/akeil/tkb/internal/logging"
)

// Shortcuts maps single characters to labels.
//
// Every label gets the first character (scanning left to right) that was not
// claimed by one of the labels before it.
type Shortcuts struct {
	labels  []string
	byKey   map[rune]string
	byLabel map[string]shortcut
}

type shortcut struct {
	key rune
	// pos and end are the byte offsets of key in the label
	pos int
	end int
}

// DeriveShortcuts assigns a shortcut character to each label.
//
// Labels are processed in order. A label where every character is already
// taken gets no shortcut, this is logged as a warning.
func DeriveShortcuts(labels []string) Shortcuts {
	s := Shortcuts{
		labels:  labels,
		byKey:   make(map[rune]string),
		byLabel: make(map[string]shortcut),
	}

	for _, label := range labels {
		if _, done := s.byLabel[label]; done {
			continue
		}

		assigned := false
		for pos, r := range label {
			if unicode.IsSpace(r) {
				continue
			}
			if _, taken := s.byKey[r]; taken {
				continue
			}
			_, size := utf8.DecodeRuneInString(label[pos:])
			s.byKey[r] = label
			s.byLabel[label] = shortcut{key: r, pos: pos, end: pos + size}
			assigned = true
			break
		}

		if !assigned {
			logging.Warning("No shortcut available for label %q", label)
		}
	}

	return s
}

// Label returns the label bound to the given key.
func (s Shortcuts) Label(key rune) (string, bool) {
	l, ok := s.byKey[key]
	return l, ok
}

// Key returns the shortcut key for a label.
func (s Shortcuts) Key(label string) (rune, bool) {
	sc, ok := s.byLabel[label]
	return sc.key, ok
}

// Map returns a copy of the key to label mapping.
func (s Shortcuts) Map() map[rune]string {
	m := make(map[rune]string, len(s.byKey))
	for k, v := range s.byKey {
		m[k] = v
	}
	return m
}

// Missing lists the labels that did not get a shortcut, in label order.
func (s Shortcuts) Missing() []string {
	missing := make([]string, 0)
	for _, l := range s.labels {
		if _, ok := s.byLabel[l]; !ok {
			missing = append(missing, l)
		}
	}
	return missing
}

// Split cuts a label around its shortcut character, so that the character
// can be highlighted. Labels without a shortcut are returned as prefix.
func (s Shortcuts) Split(label string) (prefix, key, suffix string) {
	sc, ok := s.byLabel[label]
	if !ok {
		return label, "", ""
	}
	return label[:sc.pos], label[sc.pos:sc.end], label[sc.end:]
}
