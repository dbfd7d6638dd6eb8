// Package annotate holds the state behind the per-class and per-model
// sections of the annotation view: which layers exist, which are shown,
// which were just created and which controls wait for the service.
package annotate

import (
	"context"
	"fmt"
	"sync"

	"github.com/akeil/tkb"
	"github.com/akeil/tkb/internal/logging"
)

// DefaultName is the name for blank layers.
const DefaultName = "Untitled"

// Blank is the control that creates layers without an extractor.
const Blank = ""

// AlertFunc shows a message to the user.
type AlertFunc func(msg string)

// Kind tells if a section is for an annotation class or a layer model.
type Kind int

const (
	ClassSection Kind = iota
	ModelSection
)

func (k Kind) String() string {
	switch k {
	case ClassSection:
		return "class"
	case ModelSection:
		return "model"
	default:
		return "unknown"
	}
}

// Section lists the layers of one class or model on a paper and creates new
// ones.
// It is safe for concurrent use.
type Section struct {
	repo    tkb.Repository
	paperID string
	id      string
	kind    Kind
	alert   AlertFunc
	picker  *LabelPicker

	mx         sync.Mutex
	layers     []tkb.Layer
	extractors []tkb.Extractor
	visible    map[string]bool
	fresh      map[string]bool
	busy       map[string]bool
	sources    map[string]string
}

// NewClassSection sets up the section for an annotation class.
func NewClassSection(repo tkb.Repository, paperID string, c tkb.AnnotationClass, alert AlertFunc) *Section {
	return newSection(repo, paperID, c.ID, ClassSection, c.Schema, alert)
}

// NewModelSection sets up the section for a layer model.
// Model sections have no extractors.
func NewModelSection(repo tkb.Repository, paperID string, m tkb.Model, alert AlertFunc) *Section {
	return newSection(repo, paperID, m.ID, ModelSection, m.Schema, alert)
}

func newSection(repo tkb.Repository, paperID, id string, k Kind, schema tkb.Schema, alert AlertFunc) *Section {
	if alert == nil {
		alert = func(msg string) {
			logging.Warning("%v", msg)
		}
	}
	return &Section{
		repo:    repo,
		paperID: paperID,
		id:      id,
		kind:    k,
		alert:   alert,
		picker:  NewLabelPicker(schema),
		visible: make(map[string]bool),
		fresh:   make(map[string]bool),
		busy:    make(map[string]bool),
		sources: make(map[string]string),
	}
}

// ID is the class or model id.
func (s *Section) ID() string {
	return s.id
}

func (s *Section) Kind() Kind {
	return s.kind
}

func (s *Section) PaperID() string {
	return s.paperID
}

// Picker is the label selection for this section.
func (s *Section) Picker() *LabelPicker {
	return s.picker
}

// Load fetches the layers of the section and, for classes, the extractors.
func (s *Section) Load(ctx context.Context) error {
	all, err := s.repo.Layers(ctx, s.paperID)
	if err != nil {
		return err
	}

	var extractors []tkb.Extractor
	if s.kind == ClassSection {
		extractors, err = s.repo.Extractors(ctx, s.id)
		if err != nil {
			return err
		}
	}

	tree := tkb.BuildTree(s.paperID, []string{s.id}, all)
	tree.Sort(tkb.DefaultSort)
	layers := tree.Section(s.id).Layers()

	s.mx.Lock()
	defer s.mx.Unlock()
	s.layers = layers
	s.extractors = extractors
	logging.Debug("Section %v %q has %d layers, %d extractors", s.kind, s.id, len(layers), len(extractors))
	return nil
}

// Layers returns the layers of this section.
// Layers created through the section come last, in creation order.
func (s *Section) Layers() []tkb.Layer {
	s.mx.Lock()
	defer s.mx.Unlock()
	out := make([]tkb.Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Extractors lists the extractors that can create layers for this section.
func (s *Section) Extractors() []tkb.Extractor {
	s.mx.Lock()
	defer s.mx.Unlock()
	out := make([]tkb.Extractor, len(s.extractors))
	copy(out, s.extractors)
	return out
}

// CreateLayer creates a new layer for the section.
//
// from is the id of the extractor that produces the layer, or Blank. It also
// names the control that triggered the request; the control is busy until
// the service answers. An empty name becomes DefaultName for blank layers and
// "from.<extractor>" otherwise.
//
// On success, the layer is appended, shown and marked as new. On failure,
// the message from the service is sent to the alert func.
func (s *Section) CreateLayer(ctx context.Context, name, from string) (tkb.Layer, error) {
	if name == "" {
		name = defaultName(from)
	}

	s.mx.Lock()
	if s.busy[from] {
		s.mx.Unlock()
		return tkb.Layer{}, fmt.Errorf("a layer from %q is already being created", controlName(from))
	}
	if from != Blank && s.kind == ModelSection {
		s.mx.Unlock()
		return tkb.Layer{}, tkb.NewValidationError("model %q has no extractors", s.id)
	}
	s.busy[from] = true
	s.mx.Unlock()

	req := tkb.NewLayer{
		PaperID: s.paperID,
		Class:   s.id,
		Name:    name,
		From:    from,
	}
	l, err := s.repo.CreateLayer(ctx, req)

	s.mx.Lock()
	delete(s.busy, from)
	if err != nil {
		s.mx.Unlock()
		logging.Info("Could not create layer %q for %v %q: %v", name, s.kind, s.id, err)
		s.alert(tkb.ErrorMessage(err))
		return tkb.Layer{}, err
	}

	s.layers = append(s.layers, l)
	s.visible[l.ID] = true
	s.fresh[l.ID] = true
	if from != Blank {
		s.sources[l.ID] = from
	}
	s.mx.Unlock()

	logging.Debug("Created layer %q (%q) for %v %q", l.ID, l.Name, s.kind, s.id)
	return l, nil
}

func defaultName(from string) string {
	if from == Blank {
		return DefaultName
	}
	return "from." + from
}

func controlName(from string) string {
	if from == Blank {
		return "blank"
	}
	return from
}

// Busy tells if the control for the given extractor (or Blank) waits for
// the service.
func (s *Section) Busy(from string) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.busy[from]
}

// Source returns the extractor that produced a layer created through this
// section.
func (s *Section) Source(layerID string) (string, bool) {
	s.mx.Lock()
	defer s.mx.Unlock()
	src, ok := s.sources[layerID]
	return src, ok
}

// Toggle shows or hides a layer and returns the new state.
func (s *Section) Toggle(layerID string) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	v := !s.visible[layerID]
	if v {
		s.visible[layerID] = true
	} else {
		delete(s.visible, layerID)
	}
	return v
}

func (s *Section) Visible(layerID string) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.visible[layerID]
}

// VisibleLayers returns the layers that are shown, in section order.
func (s *Section) VisibleLayers() []tkb.Layer {
	s.mx.Lock()
	defer s.mx.Unlock()
	out := make([]tkb.Layer, 0, len(s.visible))
	for _, l := range s.layers {
		if s.visible[l.ID] {
			out = append(out, l)
		}
	}
	return out
}

// IsNew tells if the layer was created through this section.
func (s *Section) IsNew(layerID string) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.fresh[layerID]
}

// Seen removes the "new" mark from a layer.
func (s *Section) Seen(layerID string) {
	s.mx.Lock()
	defer s.mx.Unlock()
	delete(s.fresh, layerID)
}

// SetTraining marks a layer as training data (or not).
// The change is applied locally at once; if the service rejects it, the
// previous state is restored and the alert func is called.
func (s *Section) SetTraining(ctx context.Context, layerID string, training bool) error {
	s.mx.Lock()
	prev, ok := s.layer(layerID)
	if !ok {
		s.mx.Unlock()
		return tkb.NewNotFound("no layer %q in %v %q", layerID, s.kind, s.id)
	}
	next := prev
	next.Training = training
	s.replace(next)
	s.mx.Unlock()

	confirmed, err := s.repo.UpdateLayer(ctx, next)
	if err != nil {
		s.mx.Lock()
		s.replace(prev)
		s.mx.Unlock()
		s.alert(tkb.ErrorMessage(err))
		return err
	}

	s.mx.Lock()
	s.replace(confirmed)
	s.mx.Unlock()
	return nil
}

func (s *Section) layer(id string) (tkb.Layer, bool) {
	for _, l := range s.layers {
		if l.ID == id {
			return l, true
		}
	}
	return tkb.Layer{}, false
}

func (s *Section) replace(l tkb.Layer) {
	for i := range s.layers {
		if s.layers[i].ID == l.ID {
			s.layers[i] = l
			return
		}
	}
}
