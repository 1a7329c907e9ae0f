package pipeline

import (
	"testing"

	"github.com/BhautikVekariya21/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stageNames(b *Builder) []string {
	var names []string
	for _, st := range b.Stages() {
		names = append(names, st[0].Key)
	}
	return names
}

func TestSearchSkippedWhenQueryEmpty(t *testing.T) {
	b := New().Search("idx", "", "title").Match(bson.D{{Key: "isPublished", Value: true}})
	assert.Equal(t, []string{"$match"}, stageNames(b))

	b = New().Search("idx", "go", "title", "description")
	require.Len(t, b.Stages(), 1)
	search := b.Stages()[0][0].Value.(bson.D)
	assert.Equal(t, "idx", search[0].Value)
	text := search[1].Value.(bson.D)
	assert.Equal(t, "go", text[0].Value)
	assert.Equal(t, []string{"title", "description"}, text[1].Value)
}

func TestLookupPipelineEmbedsSubStages(t *testing.T) {
	sub := New().Project(bson.D{{Key: "username", Value: 1}})
	b := New().LookupPipeline("users", "owner", "_id", "owner", sub)

	lookup := b.Stages()[0][0].Value.(bson.D)
	assert.Equal(t, "pipeline", lookup[4].Key)
	assert.Equal(t, sub.Stages(), lookup[4].Value)
}

func TestFirstCountContainsShapes(t *testing.T) {
	viewer := primitive.NewObjectID()
	b := New().
		First("owner").
		Count("likes", "likesCount").
		Contains("likes.likedBy", viewer, "isLiked")

	assert.Equal(t, []string{"$addFields", "$addFields", "$addFields"}, stageNames(b))

	first := b.Stages()[0][0].Value.(bson.D)
	assert.Equal(t, "owner", first[0].Key)
	ifNull := first[0].Value.(bson.D)
	assert.Equal(t, "$ifNull", ifNull[0].Key)

	count := b.Stages()[1][0].Value.(bson.D)
	assert.Equal(t, "likesCount", count[0].Key)
	assert.Equal(t, "$size", count[0].Value.(bson.D)[0].Key)

	contains := b.Stages()[2][0].Value.(bson.D)
	assert.Equal(t, "isLiked", contains[0].Key)
	cond := contains[0].Value.(bson.D)[0]
	assert.Equal(t, "$cond", cond.Key)
	in := cond.Value.(bson.D)[0].Value.(bson.D)[0]
	assert.Equal(t, "$in", in.Key)
	assert.Equal(t, viewer, in.Value.(bson.A)[0])
}

func TestPaginateFacet(t *testing.T) {
	b := New().Sort(bson.D{{Key: "createdAt", Value: -1}}).Paginate(domain.NewPageRequest(3, 20))

	assert.Equal(t, []string{"$sort", "$facet"}, stageNames(b))
	facet := b.Stages()[1][0].Value.(bson.D)
	data := facet[1].Value.(bson.A)
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(40)}}, data[0])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(20)}}, data[1])
}

func TestStagesReturnsCopy(t *testing.T) {
	b := New().Limit(1)
	s := b.Stages()
	s[0] = bson.D{{Key: "$skip", Value: 1}}
	assert.Equal(t, "$limit", b.Stages()[0][0].Key)
}

func TestFacetedPage(t *testing.T) {
	var f Faceted[int]
	f.Data = []int{1, 2, 3, 4, 5}
	f.Metadata = append(f.Metadata, struct {
		Total int64 `bson:"total"`
	}{Total: 15})

	p := f.Page(domain.NewPageRequest(2, 10))
	assert.Equal(t, int64(15), p.TotalDocs)
	assert.Len(t, p.Docs, 5)
	assert.False(t, p.HasNextPage)

	var empty Faceted[int]
	ep := empty.Page(domain.NewPageRequest(1, 10))
	assert.Equal(t, int64(0), ep.TotalDocs)
	assert.Empty(t, ep.Docs)
}
