package tkb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Status is the annotation state of a layer.
type Status int

const (
	// PreAnnotation layers were produced by an extractor and not reviewed.
	PreAnnotation Status = iota
	// Pending layers are being reviewed.
	Pending
	// Annotated layers have been checked by a human.
	Annotated
)

// createdFormat is the date format used by the service for creation dates.
const createdFormat = "02/01/06"

// Paper is a research article known to the annotation service.
type Paper struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// PDF is the (service relative) URL for the PDF document.
	PDF string `json:"pdf"`
	// ClassStatus summarizes the layers for each annotation class or model.
	ClassStatus map[string]LayerStatus `json:"classStatus"`
}

// LayerStatus is the per-class summary of the layers of a paper.
type LayerStatus struct {
	Count    int  `json:"count"`
	Training bool `json:"training"`
}

func (p Paper) PK() string {
	return p.ID
}

// Validate checks the minimum requirements for a paper.
func (p Paper) Validate() error {
	if p.ID == "" {
		return NewValidationError("paper id must not be empty")
	}
	return nil
}

// Layer is a named set of bounding box annotations on a paper.
//
// Layer ids are only unique within a paper, the primary key includes the
// paper id.
type Layer struct {
	ID      string `json:"id"`
	PaperID string `json:"paperId"`
	// Class is the kind of the layer, the id of an annotation class or model.
	Class    string     `json:"class"`
	Name     string     `json:"name"`
	Training bool       `json:"training"`
	Status   Status     `json:"status"`
	Created  Date       `json:"created"`
	Tags     []LayerTag `json:"tags,omitempty"`
}

func (l Layer) PK() string {
	return l.PaperID + "-" + l.ID
}

// IsTraining tells if the layer is used as training data,
// either directly or through one of its tags.
func (l Layer) IsTraining() bool {
	if l.Training {
		return true
	}
	for _, t := range l.Tags {
		if t.Training() {
			return true
		}
	}
	return false
}

func (l Layer) Validate() error {
	if l.ID == "" {
		return NewValidationError("layer id must not be empty")
	}
	if l.PaperID == "" {
		return NewValidationError("layer %q has no paper id", l.ID)
	}
	if l.Class == "" {
		return NewValidationError("layer %q has no class", l.ID)
	}
	switch l.Status {
	case PreAnnotation, Pending, Annotated:
		// ok
	default:
		return NewValidationError("invalid layer status %v", l.Status)
	}
	return nil
}

// BestLayer returns the most recently created layer of the given class.
// Returns false if there is no such layer.
func BestLayer(layers []Layer, class string) (Layer, bool) {
	var best Layer
	found := false
	for _, l := range layers {
		if l.Class != class {
			continue
		}
		if !found || l.Created.After(best.Created.Time) {
			best = l
			found = true
		}
	}
	return best, found
}

// LayerTag groups annotation layers.
type LayerTag struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Readonly bool                   `json:"readonly"`
	Data     map[string]interface{} `json:"data"`
	// Counts is the number of tagged layers per class.
	Counts map[string]int `json:"counts,omitempty"`
}

func (t LayerTag) PK() string {
	return t.ID
}

func (t LayerTag) Validate() error {
	if t.ID == "" {
		return NewValidationError("tag id must not be empty")
	}
	if t.Name == "" {
		return NewValidationError("tag %q needs a name", t.ID)
	}
	return nil
}

// Total is the number of tagged layers over all classes.
func (t LayerTag) Total() int {
	n := 0
	for _, c := range t.Counts {
		n += c
	}
	return n
}

// Training tells if the tag marks its layers as training data.
func (t LayerTag) Training() bool {
	v, ok := t.Data["training"].(bool)
	return ok && v
}

// Annotation is a single labelled bounding box on one page of a paper.
type Annotation struct {
	ID      string  `json:"id"`
	PaperID string  `json:"paperId"`
	LayerID string  `json:"layerId"`
	PageNum int     `json:"pageNum"`
	MinH    float64 `json:"minH"`
	MinV    float64 `json:"minV"`
	MaxH    float64 `json:"maxH"`
	MaxV    float64 `json:"maxV"`
	Label   string  `json:"label"`
}

func (a Annotation) PK() string {
	return a.PaperID + "-" + a.LayerID + "-" + a.ID
}

// Width is the horizontal extent of the box.
func (a Annotation) Width() float64 {
	return a.MaxH - a.MinH
}

// Height is the vertical extent of the box.
func (a Annotation) Height() float64 {
	return a.MaxV - a.MinV
}

func (a Annotation) Validate() error {
	if a.PaperID == "" || a.LayerID == "" {
		return NewValidationError("annotation %q is missing paper or layer id", a.ID)
	}
	if a.PageNum < 1 {
		return NewValidationError("invalid page number %v", a.PageNum)
	}
	if a.MinH > a.MaxH || a.MinV > a.MaxV {
		return NewValidationError("invalid bounding box (%v,%v)-(%v,%v)", a.MinH, a.MinV, a.MaxH, a.MaxV)
	}
	if a.Label == "" {
		return NewValidationError("annotation %q has no label", a.ID)
	}
	return nil
}

// Schema is the set of labels that layers of a class or model can use.
type Schema struct {
	Labels []string `json:"labels"`
	// Names maps labels to display names. Labels without an entry are
	// displayed as they are.
	Names map[string]string `json:"names,omitempty"`
}

// DisplayName returns the name to show for the given label.
func (s Schema) DisplayName(label string) string {
	if n, ok := s.Names[label]; ok && n != "" {
		return n
	}
	return label
}

// Has tells if the label is part of this schema.
func (s Schema) Has(label string) bool {
	for _, l := range s.Labels {
		if l == label {
			return true
		}
	}
	return false
}

func (s Schema) Validate() error {
	if len(s.Labels) == 0 {
		return NewValidationError("schema has no labels")
	}
	seen := make(map[string]bool, len(s.Labels))
	for _, l := range s.Labels {
		if l == "" {
			return NewValidationError("empty label in schema")
		}
		if seen[l] {
			return NewValidationError("duplicate label %q", l)
		}
		seen[l] = true
	}
	return nil
}

// Model is a layer model, a labelling schema that is not tied to an
// annotation class.
type Model struct {
	ID     string `json:"id"`
	Schema Schema `json:"schema"`
}

func (m Model) PK() string {
	return m.ID
}

// AnnotationClass is a kind of annotation (e.g. "results", "header") with
// its labels. Classes can restrict themselves to regions labelled by a
// parent class.
type AnnotationClass struct {
	ID      string   `json:"id"`
	Schema  Schema   `json:"schema"`
	Parents []string `json:"parents,omitempty"`
}

func (c AnnotationClass) PK() string {
	return c.ID
}

// Extractor is a (trainable) model that produces new layers for an
// annotation class.
type Extractor struct {
	// ID is "<class>.<name>".
	ID          string `json:"id"`
	ClassID     string `json:"classId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Trainable   bool   `json:"trainable"`
}

func (e Extractor) PK() string {
	return e.ClassID + "-" + e.ID
}

// SortedClasses returns the keys of a paper's class status in order.
func (p Paper) SortedClasses() []string {
	keys := make([]string, 0, len(p.ClassStatus))
	for k := range p.ClassStatus {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Date is a calendar date as sent by the service ("dd/mm/yy").
// Unknown dates are represented by the zero time.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	err := json.Unmarshal(b, &s)
	if err != nil {
		return err
	}

	if s == "" || s == "UNK" {
		*d = Date{}
		return nil
	}

	t, err := time.Parse(createdFormat, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q", s)
		}
	}

	*d = Date{t}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	s := "UNK"
	if !d.IsZero() {
		s = d.Format(createdFormat)
	}

	buf := bytes.NewBufferString(`"`)
	buf.WriteString(s)
	buf.WriteString(`"`)

	return buf.Bytes(), nil
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var str string
	err := json.Unmarshal(b, &str)
	if err != nil {
		return err
	}

	var st Status
	switch str {
	case "", "pre-annotation":
		st = PreAnnotation
	case "pending":
		st = Pending
	case "annotated":
		st = Annotated
	default:
		return fmt.Errorf("invalid layer status %q", str)
	}

	*s = st
	return nil
}

func (s Status) MarshalJSON() ([]byte, error) {
	str := s.String()
	if str == "UNKNOWN" {
		return nil, fmt.Errorf("invalid layer status %v", int(s))
	}

	buf := bytes.NewBufferString(`"`)
	buf.WriteString(str)
	buf.WriteString(`"`)

	return buf.Bytes(), nil
}

func (s Status) String() string {
	switch s {
	case PreAnnotation:
		return "pre-annotation"
	case Pending:
		return "pending"
	case Annotated:
		return "annotated"
	default:
		return "UNKNOWN"
	}
}
