package tkb

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPaper(t *testing.T) {
	data, err := os.ReadFile("./testdata/paper.json")
	require.NoError(t, err)

	var p Paper
	err = json.Unmarshal(data, &p)
	require.NoError(t, err)

	assert.Equal(t, "2101.00001", p.ID)
	assert.Equal(t, "/papers/2101.00001/pdf", p.PDF)
	assert.Equal(t, LayerStatus{Count: 2, Training: true}, p.ClassStatus["results"])
	assert.Equal(t, []string{"header", "results"}, p.SortedClasses())
	assert.NoError(t, p.Validate())
}

func TestReadLayers(t *testing.T) {
	data, err := os.ReadFile("./testdata/layers.json")
	require.NoError(t, err)

	var layers []Layer
	err = json.Unmarshal(data, &layers)
	require.NoError(t, err)
	require.Len(t, layers, 3)

	l := layers[0]
	assert.Equal(t, "2101.00001-a8Kq", l.PK())
	assert.Equal(t, Annotated, l.Status)
	assert.Equal(t, 2021, l.Created.Year())
	assert.True(t, l.IsTraining(), "training tag")
	assert.NoError(t, l.Validate())

	assert.True(t, layers[1].Created.IsZero(), "UNK date")
	assert.Equal(t, PreAnnotation, layers[1].Status)
	assert.False(t, layers[1].IsTraining())

	assert.Equal(t, Pending, layers[2].Status)
}

func TestLayerRoundtrip(t *testing.T) {
	l := Layer{ID: "L1", PaperID: "P1", Class: "results", Status: Pending}
	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"pending"`)
	assert.Contains(t, string(data), `"created":"UNK"`)

	l.Status = Status(42)
	_, err = json.Marshal(l)
	assert.Error(t, err)
}

func TestValidateLayer(t *testing.T) {
	l := Layer{ID: "L1", PaperID: "P1", Class: "results"}
	assert.NoError(t, l.Validate())

	l.PaperID = ""
	assert.True(t, IsValidationError(l.Validate()))
	l.PaperID = "P1"

	l.Class = ""
	assert.Error(t, l.Validate())
	l.Class = "results"

	l.Status = Status(100)
	assert.Error(t, l.Validate())
}

func TestValidateAnnotation(t *testing.T) {
	a := Annotation{ID: "A1", PaperID: "P1", LayerID: "L1", PageNum: 1,
		MinH: 10, MinV: 10, MaxH: 110, MaxV: 30, Label: "proof"}
	assert.NoError(t, a.Validate())
	assert.Equal(t, 100.0, a.Width())
	assert.Equal(t, 20.0, a.Height())

	a.PageNum = 0
	assert.Error(t, a.Validate())
	a.PageNum = 1

	a.MaxH = 5
	assert.Error(t, a.Validate(), "inverted box")
	a.MaxH = 110

	a.LayerID = ""
	assert.Error(t, a.Validate())
}

func TestSchema(t *testing.T) {
	s := Schema{
		Labels: []string{"theorem", "proof"},
		Names:  map[string]string{"theorem": "Theorem"},
	}
	assert.NoError(t, s.Validate())
	assert.Equal(t, "Theorem", s.DisplayName("theorem"))
	assert.Equal(t, "proof", s.DisplayName("proof"))
	assert.True(t, s.Has("proof"))
	assert.False(t, s.Has("lemma"))

	assert.Error(t, Schema{}.Validate())
	assert.Error(t, Schema{Labels: []string{"a", "a"}}.Validate())
}
