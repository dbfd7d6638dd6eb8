package tkb

import (
	"context"
	"io"
)

// Entity is implemented by all resource models.
// The primary key includes the ids of all ancestors.
type Entity interface {
	PK() string
}

// Transport sends JSON requests to the annotation service.
//
// URLs are absolute, as built by Resource.ListURL and Resource.DetailURL
// with the transport's BaseURL.
type Transport interface {
	BaseURL() string
	// Do sends payload (if not nil) as JSON and decodes the response into
	// dst (if not nil).
	Do(ctx context.Context, method, url string, payload, dst interface{}) error
}

// Repository is the interface for the annotation service as seen by the
// layer containers and the command line tool.
type Repository interface {
	// Papers lists papers. Supported query parameters are "search",
	// "offset", "limit" and "order".
	Papers(ctx context.Context, query Params) ([]Paper, error)
	Paper(ctx context.Context, id string) (Paper, error)
	// DeletePaper removes a paper with all of its layers.
	DeletePaper(ctx context.Context, id string) error

	// Layers lists the annotation layers of a paper.
	Layers(ctx context.Context, paperID string) ([]Layer, error)
	Layer(ctx context.Context, paperID, id string) (Layer, error)
	// CreateLayer creates a new layer, blank or produced by the extractor
	// named in req.From.
	CreateLayer(ctx context.Context, req NewLayer) (Layer, error)
	UpdateLayer(ctx context.Context, l Layer) (Layer, error)
	DeleteLayer(ctx context.Context, paperID, id string) error

	Annotations(ctx context.Context, paperID, layerID string, query Params) ([]Annotation, error)
	CreateAnnotation(ctx context.Context, a Annotation) (Annotation, error)
	UpdateAnnotation(ctx context.Context, a Annotation) (Annotation, error)

	Models(ctx context.Context) ([]Model, error)
	Classes(ctx context.Context) ([]AnnotationClass, error)
	Extractors(ctx context.Context, classID string) ([]Extractor, error)
	// Tags lists the layer tags with their layer counts per class.
	Tags(ctx context.Context) ([]LayerTag, error)
	CreateTag(ctx context.Context, t LayerTag) (LayerTag, error)
}

// NewLayer is the request to create a layer.
type NewLayer struct {
	PaperID string `json:"-"`
	Class   string `json:"class"`
	Name    string `json:"name"`
	// From is the id of the extractor that should produce the layer.
	From string `json:"from,omitempty"`
}

func (n NewLayer) Validate() error {
	if n.PaperID == "" {
		return NewValidationError("new layer needs a paper id")
	}
	if n.Class == "" {
		return NewValidationError("new layer needs a class")
	}
	if n.Name == "" {
		return NewValidationError("new layer needs a name")
	}
	return nil
}

// Cache stores binary data, e.g. the PDF documents for papers.
type Cache interface {
	Get(key string) (io.ReadCloser, error)
	Put(key string, r io.Reader) error
	Delete(key string) error
}
