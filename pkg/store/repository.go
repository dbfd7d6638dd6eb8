package store

import (
	"context"

	"github.com/akeil/tkb"
	"github.com/akeil/tkb/internal/logging"
)

var _ tkb.Repository = (*Store)(nil)

func (s *Store) Papers(ctx context.Context, query tkb.Params) ([]tkb.Paper, error) {
	return List[tkb.Paper](ctx, s, tkb.PaperResource, query)
}

func (s *Store) Paper(ctx context.Context, id string) (tkb.Paper, error) {
	return Detail[tkb.Paper](ctx, s, tkb.PaperResource, tkb.NewParams("id", id))
}

// DeletePaper removes a paper. Its cached layers are dropped.
func (s *Store) DeletePaper(ctx context.Context, id string) error {
	err := s.Delete(ctx, tkb.PaperResource, tkb.NewParams("id", id))
	if err != nil {
		return err
	}

	err = s.InvalidateList(tkb.LayerResource, tkb.NewParams("paperId", id))
	if err != nil {
		logging.Warning("Failed to drop layers of paper %q: %v", id, err)
	}
	return nil
}

func (s *Store) invalidatePaper(id string) {
	err := s.Invalidate(tkb.PaperResource, tkb.NewParams("id", id))
	if err != nil {
		logging.Warning("Failed to invalidate paper %q: %v", id, err)
	}
}

func (s *Store) Layers(ctx context.Context, paperID string) ([]tkb.Layer, error) {
	return List[tkb.Layer](ctx, s, tkb.LayerResource, tkb.NewParams("paperId", paperID))
}

func (s *Store) Layer(ctx context.Context, paperID, id string) (tkb.Layer, error) {
	return Detail[tkb.Layer](ctx, s, tkb.LayerResource, tkb.NewParams("paperId", paperID, "id", id))
}

// CreateLayer creates a layer and appends it to the cached layers of the
// paper.
func (s *Store) CreateLayer(ctx context.Context, req tkb.NewLayer) (tkb.Layer, error) {
	err := req.Validate()
	if err != nil {
		return tkb.Layer{}, err
	}
	l, err := Create[tkb.Layer](ctx, s, tkb.LayerResource, tkb.NewParams("paperId", req.PaperID), req)
	if err != nil {
		return l, err
	}

	// the paper's class status is outdated now
	s.invalidatePaper(req.PaperID)
	return l, nil
}

// DeleteLayer removes a layer and drops it and its boxes from the cache.
func (s *Store) DeleteLayer(ctx context.Context, paperID, id string) error {
	err := s.Delete(ctx, tkb.LayerResource, tkb.NewParams("paperId", paperID, "id", id))
	if err != nil {
		return err
	}

	err = s.InvalidateList(tkb.AnnotationResource, tkb.NewParams("paperId", paperID, "layerId", id))
	if err != nil {
		logging.Warning("Failed to drop boxes of layer %q: %v", id, err)
	}
	s.invalidatePaper(paperID)
	return nil
}

// UpdateLayer changes a layer optimistically.
func (s *Store) UpdateLayer(ctx context.Context, l tkb.Layer) (tkb.Layer, error) {
	p := tkb.NewParams("paperId", l.PaperID, "id", l.ID)
	return Update(ctx, s, tkb.LayerResource, p, l, nil)
}

func (s *Store) Annotations(ctx context.Context, paperID, layerID string, query tkb.Params) ([]tkb.Annotation, error) {
	p := query.With("paperId", paperID).With("layerId", layerID)
	return List[tkb.Annotation](ctx, s, tkb.AnnotationResource, p)
}

func (s *Store) CreateAnnotation(ctx context.Context, a tkb.Annotation) (tkb.Annotation, error) {
	p := tkb.NewParams("paperId", a.PaperID, "layerId", a.LayerID)
	return Create[tkb.Annotation](ctx, s, tkb.AnnotationResource, p, a)
}

// UpdateAnnotation changes a bounding box (e.g. its label) optimistically.
func (s *Store) UpdateAnnotation(ctx context.Context, a tkb.Annotation) (tkb.Annotation, error) {
	err := a.Validate()
	if err != nil {
		return a, err
	}
	p := tkb.NewParams("paperId", a.PaperID, "layerId", a.LayerID, "id", a.ID)
	return Update(ctx, s, tkb.AnnotationResource, p, a, nil)
}

func (s *Store) Models(ctx context.Context) ([]tkb.Model, error) {
	return List[tkb.Model](ctx, s, tkb.ModelResource, nil)
}

func (s *Store) Classes(ctx context.Context) ([]tkb.AnnotationClass, error) {
	return List[tkb.AnnotationClass](ctx, s, tkb.AnnotationClassResource, nil)
}

func (s *Store) Extractors(ctx context.Context, classID string) ([]tkb.Extractor, error) {
	return List[tkb.Extractor](ctx, s, tkb.AnnotationExtractorResource, tkb.NewParams("classId", classID))
}

func (s *Store) Tags(ctx context.Context) ([]tkb.LayerTag, error) {
	return List[tkb.LayerTag](ctx, s, tkb.LayerTagResource, nil)
}

func (s *Store) CreateTag(ctx context.Context, t tkb.LayerTag) (tkb.LayerTag, error) {
	err := t.Validate()
	if err != nil {
		return t, err
	}
	return Create[tkb.LayerTag](ctx, s, tkb.LayerTagResource, nil, t)
}
