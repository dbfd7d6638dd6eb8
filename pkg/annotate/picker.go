package annotate

import (
	"sync"

	"github.com/akeil/tkb"
)

// LabelPicker holds the label that new boxes get.
// Labels can be picked by their shortcut key.
type LabelPicker struct {
	schema    tkb.Schema
	shortcuts tkb.Shortcuts

	mx       sync.Mutex
	current  string
	onChange func(label string)
}

// NewLabelPicker sets up a picker for the labels of a schema.
// The first label is selected.
func NewLabelPicker(schema tkb.Schema) *LabelPicker {
	p := &LabelPicker{
		schema:    schema,
		shortcuts: tkb.DeriveShortcuts(schema.Labels),
	}
	if len(schema.Labels) > 0 {
		p.current = schema.Labels[0]
	}
	return p
}

// Labels lists the labels in schema order.
func (p *LabelPicker) Labels() []string {
	out := make([]string, len(p.schema.Labels))
	copy(out, p.schema.Labels)
	return out
}

func (p *LabelPicker) Shortcuts() tkb.Shortcuts {
	return p.shortcuts
}

// Current is the selected label.
func (p *LabelPicker) Current() string {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.current
}

// OnChange sets a func that is called when another label is selected.
func (p *LabelPicker) OnChange(f func(label string)) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.onChange = f
}

// Select makes label the current label.
func (p *LabelPicker) Select(label string) error {
	if !p.schema.Has(label) {
		return tkb.NewValidationError("unknown label %q", label)
	}
	p.set(label)
	return nil
}

// Press selects the label bound to the key.
// It returns false if no label has that shortcut.
func (p *LabelPicker) Press(key rune) (string, bool) {
	label, ok := p.shortcuts.Label(key)
	if !ok {
		return "", false
	}
	p.set(label)
	return label, true
}

func (p *LabelPicker) set(label string) {
	p.mx.Lock()
	changed := p.current != label
	p.current = label
	f := p.onChange
	p.mx.Unlock()

	if changed && f != nil {
		f(label)
	}
}

// Button is the text for a label's button, split around the shortcut key.
// Without a shortcut, the whole display name is in prefix.
func (p *LabelPicker) Button(label string) (prefix, key, suffix string) {
	name := p.schema.DisplayName(label)
	if name != label {
		return name, "", ""
	}
	return p.shortcuts.Split(label)
}
