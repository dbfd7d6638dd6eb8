package tkb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPK(t *testing.T) {
	pk, err := LayerResource.PK(NewParams("paperId", "P1", "id", "L1"))
	require.NoError(t, err)
	assert.Equal(t, "P1-L1", pk)

	pk, err = AnnotationResource.PK(NewParams("paperId", "P1", "layerId", "L1", "id", "A1"))
	require.NoError(t, err)
	assert.Equal(t, "P1-L1-A1", pk)

	pk, err = PaperResource.PK(NewParams("id", "P1"))
	require.NoError(t, err)
	assert.Equal(t, "P1", pk)

	// entity keys agree with the resource keys
	assert.Equal(t, "P1-L1", Layer{ID: "L1", PaperID: "P1"}.PK())
	assert.Equal(t, "P1-L1-A1", Annotation{ID: "A1", PaperID: "P1", LayerID: "L1"}.PK())
}

func TestMissingAncestor(t *testing.T) {
	cases := []struct {
		name string
		res  Resource
		p    Params
		want string
	}{
		{"layer list", LayerResource, Params{}, "paperId"},
		{"annotation list without layer", AnnotationResource, NewParams("paperId", "P1"), "layerId"},
		{"annotation list without paper", AnnotationResource, NewParams("layerId", "L1"), "paperId"},
		{"extractors", AnnotationExtractorResource, NewParams("classId", ""), "classId"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u, err := c.res.ListURL(DefaultURL, c.p)
			require.Error(t, err)
			assert.Empty(t, u)
			assert.True(t, IsMissingParam(err))
			assert.Contains(t, err.Error(), c.want)

			_, err = c.res.DetailURL(DefaultURL, c.p.With("id", "X"))
			assert.True(t, IsMissingParam(err))

			_, err = c.res.PK(c.p.With("id", "X"))
			assert.True(t, IsMissingParam(err))
		})
	}

	_, err := PaperResource.DetailURL(DefaultURL, Params{})
	assert.True(t, IsMissingParam(err))
}

func TestDetailURL(t *testing.T) {
	u, err := PaperResource.DetailURL(DefaultURL, NewParams("id", "P1"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/papers/P1", u)

	u, err = LayerResource.DetailURL(DefaultURL+"/", NewParams("paperId", "P1", "id", "L1"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/papers/P1/layers/L1", u)

	u, err = AnnotationResource.DetailURL(DefaultURL, NewParams("paperId", "P1", "layerId", "L1", "id", "A 1"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/papers/P1/layers/L1/bbx/A%201", u)
}

func TestListURL(t *testing.T) {
	u, err := LayerResource.ListURL(DefaultURL, NewParams("paperId", "P1"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/papers/P1/layers/", u)

	u, err = ModelResource.ListURL(DefaultURL, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/layers/", u)

	// ancestor ids never end up in the query
	u, err = AnnotationResource.ListURL(DefaultURL, NewParams("paperId", "P1", "layerId", "L1", "page", "3"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/papers/P1/layers/L1/bbx/?page=3", u)
}

func TestListURLSortedQuery(t *testing.T) {
	one := Params{}
	one["paperId"] = "P1"
	one["training"] = "true"
	one["class"] = "results"
	one["limit"] = "10"

	other := Params{}
	other["limit"] = "10"
	other["class"] = "results"
	other["paperId"] = "P1"
	other["training"] = "true"

	a, err := LayerResource.ListURL(DefaultURL, one)
	require.NoError(t, err)
	b, err := LayerResource.ListURL(DefaultURL, other)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, "http://localhost:8000/papers/P1/layers/?class=results&limit=10&training=true", a)

	c, err := LayerResource.ListURL(DefaultURL, NewParams("training", "true", "paperId", "P1", "limit", "10", "class", "results"))
	require.NoError(t, err)
	assert.Equal(t, a, c)

	key, err := LayerResource.ListKey(one)
	require.NoError(t, err)
	assert.Equal(t, "/papers/P1/layers/?class=results&limit=10&training=true", key)
}

func TestScope(t *testing.T) {
	s := AnnotationResource.Scope(NewParams("paperId", "P1", "layerId", "L1", "page", "2"))
	assert.Equal(t, Params{"paperId": "P1", "layerId": "L1"}, s)
}
