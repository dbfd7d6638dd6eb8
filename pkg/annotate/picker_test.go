package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/tkb"
)

func TestLabelPicker(t *testing.T) {
	p := NewLabelPicker(tkb.Schema{Labels: []string{"cat", "car", "dog"}})
	assert.Equal(t, "cat", p.Current())

	var changes []string
	p.OnChange(func(label string) {
		changes = append(changes, label)
	})

	label, ok := p.Press('a')
	require.True(t, ok)
	assert.Equal(t, "car", label)
	assert.Equal(t, "car", p.Current())

	_, ok = p.Press('x')
	assert.False(t, ok)
	assert.Equal(t, "car", p.Current())

	// same label again is not a change
	p.Press('a')
	p.Press('d')
	assert.Equal(t, []string{"car", "dog"}, changes)

	assert.NoError(t, p.Select("cat"))
	assert.True(t, tkb.IsValidationError(p.Select("cow")))
	assert.Equal(t, "cat", p.Current())
}

func TestLabelPickerButton(t *testing.T) {
	p := NewLabelPicker(tkb.Schema{
		Labels: []string{"theorem", "lemma", "proof"},
		Names:  map[string]string{"proof": "Proof (any)"},
	})

	prefix, key, suffix := p.Button("lemma")
	assert.Equal(t, "", prefix)
	assert.Equal(t, "l", key)
	assert.Equal(t, "emma", suffix)

	prefix, key, suffix = p.Button("theorem")
	assert.Equal(t, "", prefix)
	assert.Equal(t, "t", key)
	assert.Equal(t, "heorem", suffix)

	prefix, key, _ = p.Button("proof")
	assert.Equal(t, "Proof (any)", prefix)
	assert.Equal(t, "", key)
}

func TestLabelPickerEmpty(t *testing.T) {
	p := NewLabelPicker(tkb.Schema{})
	assert.Equal(t, "", p.Current())
	assert.Empty(t, p.Labels())
}
