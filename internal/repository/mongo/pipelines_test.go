package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func ops(p mongo.Pipeline) []string {
	out := make([]string, 0, len(p))
	for _, st := range p {
		out = append(out, st[0].Key)
	}
	return out
}

func stageValue(t *testing.T, p mongo.Pipeline, op string) bson.D {
	t.Helper()
	for _, st := range p {
		if st[0].Key == op {
			v, ok := st[0].Value.(bson.D)
			require.True(t, ok, "stage %s is not a document", op)
			return v
		}
	}
	t.Fatalf("stage %s not found in %v", op, ops(p))
	return nil
}

func lookupAs(p mongo.Pipeline) []string {
	var as []string
	for _, st := range p {
		if st[0].Key != "$lookup" {
			continue
		}
		for _, e := range st[0].Value.(bson.D) {
			if e.Key == "as" {
				as = append(as, e.Value.(string))
			}
		}
	}
	return as
}

func TestVideoFeedPipelineSearchComesFirst(t *testing.T) {
	owner := primitive.NewObjectID()
	p := videoFeedPipeline("search-videos", repository.VideoFeedQuery{
		Search:  "golang",
		OwnerID: &owner,
		Page:    domain.NewPageRequest(1, 10),
	})

	names := ops(p)
	assert.Equal(t, "$search", names[0])
	assert.Equal(t, "$match", names[1])
	assert.Equal(t, "$facet", names[len(names)-1])

	match := stageValue(t, p, "$match")
	assert.Equal(t, bson.D{{Key: "owner", Value: owner}, {Key: "isPublished", Value: true}}, match)
	assert.Equal(t, []string{"ownerDetails"}, lookupAs(p))
}

func TestVideoFeedPipelineWithoutSearch(t *testing.T) {
	p := videoFeedPipeline("idx", repository.VideoFeedQuery{Page: domain.NewPageRequest(2, 5)})
	assert.Equal(t, "$match", ops(p)[0])
	assert.Equal(t, bson.D{{Key: "isPublished", Value: true}}, stageValue(t, p, "$match"))
}

func TestFeedSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, feedSort("", false))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, feedSort("password", false))
	assert.Equal(t, bson.D{{Key: "views", Value: 1}, {Key: "_id", Value: 1}}, feedSort("views", false))
	assert.Equal(t, bson.D{{Key: "title", Value: -1}, {Key: "_id", Value: -1}}, feedSort("title", true))
}

func TestVideoDetailPipelineVisibility(t *testing.T) {
	id, viewer := primitive.NewObjectID(), primitive.NewObjectID()
	p := videoDetailPipeline(id, viewer)

	match := stageValue(t, p, "$match")
	assert.Equal(t, id, match[0].Value)
	assert.Equal(t, "$or", match[1].Key)
	assert.Equal(t, bson.A{
		bson.D{{Key: "isPublished", Value: true}},
		bson.D{{Key: "owner", Value: viewer}},
	}, match[1].Value)
	assert.Equal(t, []string{"likes", "owner"}, lookupAs(p))
	assert.Equal(t, "$project", ops(p)[len(p)-1])
}

func TestTogglePublishUpdateNegatesServerSide(t *testing.T) {
	upd := togglePublishUpdate()
	require.Len(t, upd, 1)
	set := upd[0][0].Value.(bson.D)
	assert.Equal(t, "isPublished", set[0].Key)
	assert.Equal(t, bson.D{{Key: "$not", Value: bson.A{"$isPublished"}}}, set[0].Value)
}

func TestVideoCommentsPipelinePaginates(t *testing.T) {
	p := videoCommentsPipeline(primitive.NewObjectID(), primitive.NewObjectID(), domain.NewPageRequest(2, 10))
	names := ops(p)
	assert.Equal(t, "$facet", names[len(names)-1])
	assert.Contains(t, names, "$sort")
	assert.ElementsMatch(t, []string{"owner", "likes"}, lookupAs(p))
}

func TestChannelProfilePipelineCounts(t *testing.T) {
	p := channelProfilePipeline("alice", primitive.NewObjectID())
	assert.Equal(t, bson.D{{Key: "username", Value: "alice"}}, stageValue(t, p, "$match"))
	assert.Equal(t, []string{"subscribers", "subscribedTo"}, lookupAs(p))
}

func TestPlaylistDetailKeepsOnlyPublished(t *testing.T) {
	p := playlistDetailPipeline(primitive.NewObjectID())
	lookup := stageValue(t, p, "$lookup")
	var sub mongo.Pipeline
	for _, e := range lookup {
		if e.Key == "pipeline" {
			sub = e.Value.(mongo.Pipeline)
		}
	}
	require.NotEmpty(t, sub)
	assert.Equal(t, bson.D{{Key: "$match", Value: bson.D{{Key: "isPublished", Value: true}}}}, sub[0])
}

func TestSubscribedChannelsLatestVideo(t *testing.T) {
	p := subscribedChannelsPipeline(primitive.NewObjectID())
	lookup := stageValue(t, p, "$lookup")
	var sub mongo.Pipeline
	for _, e := range lookup {
		if e.Key == "pipeline" {
			sub = e.Value.(mongo.Pipeline)
		}
	}
	require.NotEmpty(t, sub)
	// The channel sub-pipeline joins that channel's videos newest first, one of them.
	inner := sub[0][0].Value.(bson.D)
	var latest mongo.Pipeline
	for _, e := range inner {
		if e.Key == "pipeline" {
			latest = e.Value.(mongo.Pipeline)
		}
	}
	assert.Equal(t, []string{"$match", "$sort", "$limit", "$project"}, ops(latest))
}

func TestChannelStatsPipelineGroups(t *testing.T) {
	p := channelStatsPipeline(primitive.NewObjectID())
	assert.Equal(t, []string{"$match", "$lookup", "$addFields", "$group", "$project"}, ops(p))
}

func TestOrderByHistory(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	videos := []domain.HistoryVideo{{ID: c}, {ID: a}}

	got := orderByHistory([]primitive.ObjectID{a, b, c}, videos)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].ID)
	assert.Equal(t, c, got[1].ID)
}

func TestRunSagaSkipsParentWhenDependentFails(t *testing.T) {
	var ran []string
	step := func(name string, err error) cascadeStep {
		return cascadeStep{name: name, run: func(context.Context) error {
			ran = append(ran, name)
			return err
		}}
	}

	err := runSaga(context.Background(), []cascadeStep{
		step("likes", nil),
		step("comments", errors.New("boom")),
		step("video", nil),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrCascadeIncomplete)
	assert.Contains(t, err.Error(), "comments")
	assert.Equal(t, []string{"likes", "comments"}, ran)

	ran = nil
	require.NoError(t, runSaga(context.Background(), []cascadeStep{
		step("likes", nil),
		step("comments", nil),
		step("video", nil),
	}))
	assert.Equal(t, []string{"likes", "comments", "video"}, ran)
}

func TestTransactionsUnsupported(t *testing.T) {
	assert.True(t, transactionsUnsupported(mongo.CommandError{Code: 20, Message: "IllegalOperation"}))
	assert.True(t, transactionsUnsupported(errors.New("Transaction numbers are only allowed on a replica set member or mongos")))
	assert.False(t, transactionsUnsupported(errors.New("connection reset")))
}
