package tkb

import (
	"net/url"
	"strings"
)

// DefaultURL is the base URL of a locally running annotation service.
const DefaultURL = "http://localhost:8000"

// idParam is the parameter that holds a resource's own id.
const idParam = "id"

// Params are the parameters for a resource request.
// Ancestor ids go into the URL path, everything else into the query string.
type Params map[string]string

// NewParams creates Params from alternating keys and values.
// A trailing key without a value is ignored.
func NewParams(kv ...string) Params {
	p := make(Params, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		p[kv[i]] = kv[i+1]
	}
	return p
}

// With returns a copy of p with an additional parameter.
func (p Params) With(key, value string) Params {
	c := make(Params, len(p)+1)
	for k, v := range p {
		c[k] = v
	}
	c[key] = value
	return c
}

// Resource describes a REST entity: where its collection lives and which
// ancestor ids scope it.
//
// The collection path contains a {placeholder} for every ancestor key, e.g.
// "/papers/{paperId}/layers/".
type Resource struct {
	Name string
	Path string
	// Keys are the ancestor parameters, outermost first.
	Keys []string
}

// PaperResource are the papers known to the service.
var PaperResource = Resource{
	Name: "paper",
	Path: "/papers/",
}

// ModelResource are the layer models (labelling schemas).
var ModelResource = Resource{
	Name: "model",
	Path: "/layers/",
}

// LayerResource are the annotation layers of a paper.
var LayerResource = Resource{
	Name: "layer",
	Path: "/papers/{paperId}/layers/",
	Keys: []string{"paperId"},
}

// AnnotationLayerResource is the layer listing used by class sections.
var AnnotationLayerResource = LayerResource

// AnnotationResource are the bounding boxes of a layer.
var AnnotationResource = Resource{
	Name: "annotation",
	Path: "/papers/{paperId}/layers/{layerId}/bbx/",
	Keys: []string{"paperId", "layerId"},
}

// AnnotationClassResource are the annotation classes.
var AnnotationClassResource = Resource{
	Name: "class",
	Path: "/classes/",
}

// AnnotationExtractorResource are the extractors for an annotation class.
var AnnotationExtractorResource = Resource{
	Name: "extractor",
	Path: "/classes/{classId}/extractors/",
	Keys: []string{"classId"},
}

// LayerTagResource are the tags that group layers.
var LayerTagResource = Resource{
	Name: "tag",
	Path: "/tags/",
}

// PK builds the primary key for an entity: the ancestor ids and the
// entity's own id, joined with "-".
func (r Resource) PK(p Params) (string, error) {
	parts := make([]string, 0, len(r.Keys)+1)
	for _, k := range r.Keys {
		v, err := r.require(p, k)
		if err != nil {
			return "", err
		}
		parts = append(parts, v)
	}
	id, err := r.require(p, idParam)
	if err != nil {
		return "", err
	}
	parts = append(parts, id)
	return strings.Join(parts, "-"), nil
}

// DetailURL is the URL for a single entity.
func (r Resource) DetailURL(base string, p Params) (string, error) {
	coll, err := r.collectionPath(p)
	if err != nil {
		return "", err
	}
	id, err := r.require(p, idParam)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(base, "/") + coll + url.PathEscape(id), nil
}

// ListURL is the URL for the collection. All parameters except the
// ancestor ids are added as query parameters, sorted by key.
func (r Resource) ListURL(base string, p Params) (string, error) {
	coll, err := r.collectionPath(p)
	if err != nil {
		return "", err
	}

	u := strings.TrimRight(base, "/") + coll
	q := r.query(p)
	if len(q) > 0 {
		// Encode sorts by key
		u += "?" + q.Encode()
	}
	return u, nil
}

// ListKey identifies a list request independent of the service URL.
func (r Resource) ListKey(p Params) (string, error) {
	return r.ListURL("", p)
}

// Scope returns only the ancestor ids from p.
func (r Resource) Scope(p Params) Params {
	s := make(Params, len(r.Keys))
	for _, k := range r.Keys {
		if v, ok := p[k]; ok {
			s[k] = v
		}
	}
	return s
}

func (r Resource) isKey(k string) bool {
	for _, key := range r.Keys {
		if key == k {
			return true
		}
	}
	return false
}

func (r Resource) query(p Params) url.Values {
	q := url.Values{}
	for k, v := range p {
		if r.isKey(k) {
			continue
		}
		q.Set(k, v)
	}
	return q
}

func (r Resource) collectionPath(p Params) (string, error) {
	path := r.Path
	for _, k := range r.Keys {
		v, err := r.require(p, k)
		if err != nil {
			return "", err
		}
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}
	return path, nil
}

func (r Resource) require(p Params, key string) (string, error) {
	v := p[key]
	if v == "" {
		return "", &MissingParamError{Resource: r.Name, Param: key}
	}
	return v, nil
}
