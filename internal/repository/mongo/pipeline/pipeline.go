// Package pipeline composes aggregation pipelines out of small named stages.
//
// Every view in the repository layer is a chain of these calls. The stages
// keep the shapes views depend on (flattened joins, counts, membership flags)
// in one place so a pipeline reads top to bottom like the document it builds.
package pipeline

import (
	"github.com/BhautikVekariya21/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Builder accumulates stages. The zero value is not usable; call New.
type Builder struct {
	stages mongo.Pipeline
}

// New starts an empty pipeline.
func New() *Builder {
	return &Builder{stages: mongo.Pipeline{}}
}

// Stages returns the rendered pipeline.
func (b *Builder) Stages() mongo.Pipeline {
	out := make(mongo.Pipeline, len(b.stages))
	copy(out, b.stages)
	return out
}

func (b *Builder) add(op string, value interface{}) *Builder {
	b.stages = append(b.stages, bson.D{{Key: op, Value: value}})
	return b
}

// Search adds an Atlas full-text $search over paths. An empty query adds nothing.
// $search must be the first stage, so call it before anything else.
func (b *Builder) Search(index, query string, paths ...string) *Builder {
	if query == "" {
		return b
	}
	return b.add("$search", bson.D{
		{Key: "index", Value: index},
		{Key: "text", Value: bson.D{
			{Key: "query", Value: query},
			{Key: "path", Value: paths},
		}},
	})
}

// Match filters documents.
func (b *Builder) Match(filter bson.D) *Builder {
	return b.add("$match", filter)
}

// Lookup joins from another collection into the array field as.
func (b *Builder) Lookup(from, localField, foreignField, as string) *Builder {
	return b.add("$lookup", bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	})
}

// LookupPipeline joins like Lookup and runs sub on the joined documents.
func (b *Builder) LookupPipeline(from, localField, foreignField, as string, sub *Builder) *Builder {
	return b.add("$lookup", bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
		{Key: "pipeline", Value: sub.Stages()},
	})
}

// First replaces the array field with its first element, or null when empty.
func (b *Builder) First(field string) *Builder {
	return b.AddFields(bson.D{{Key: field, Value: firstOf("$" + field)}})
}

// Count sets as to the length of the array field. A missing field counts as zero.
func (b *Builder) Count(field, as string) *Builder {
	return b.AddFields(bson.D{{Key: as, Value: sizeOf("$" + field)}})
}

// Contains sets as to whether value appears in the array at path.
func (b *Builder) Contains(path string, value interface{}, as string) *Builder {
	return b.AddFields(bson.D{{Key: as, Value: bson.D{
		{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{value, bson.D{{Key: "$ifNull", Value: bson.A{"$" + path, bson.A{}}}}}}}},
			{Key: "then", Value: true},
			{Key: "else", Value: false},
		}},
	}}})
}

// AddFields computes new fields.
func (b *Builder) AddFields(fields bson.D) *Builder {
	return b.add("$addFields", fields)
}

// Unwind flattens an array field into one document per element.
func (b *Builder) Unwind(field string) *Builder {
	return b.add("$unwind", "$"+field)
}

// Sort orders documents.
func (b *Builder) Sort(keys bson.D) *Builder {
	return b.add("$sort", keys)
}

// Project reshapes documents.
func (b *Builder) Project(fields bson.D) *Builder {
	return b.add("$project", fields)
}

// Limit caps the number of documents.
func (b *Builder) Limit(n int64) *Builder {
	return b.add("$limit", n)
}

// Group aggregates documents.
func (b *Builder) Group(stage bson.D) *Builder {
	return b.add("$group", stage)
}

// Paginate ends the pipeline with a $facet that returns the total count and
// one page of data in a single document. Decode it into Faceted.
func (b *Builder) Paginate(req domain.PageRequest) *Builder {
	return b.add("$facet", bson.D{
		{Key: "metadata", Value: bson.A{bson.D{{Key: "$count", Value: "total"}}}},
		{Key: "data", Value: bson.A{
			bson.D{{Key: "$skip", Value: req.Skip()}},
			bson.D{{Key: "$limit", Value: req.Limit}},
		}},
	})
}

// Faceted is the single document produced by Paginate.
type Faceted[T any] struct {
	Metadata []struct {
		Total int64 `bson:"total"`
	} `bson:"metadata"`
	Data []T `bson:"data"`
}

// Page converts the facet output into the pagination envelope.
func (f Faceted[T]) Page(req domain.PageRequest) domain.Page[T] {
	var total int64
	if len(f.Metadata) > 0 {
		total = f.Metadata[0].Total
	}
	return domain.NewPage(f.Data, total, req)
}

// Sum is a $sum accumulator expression over a field.
func Sum(field string) bson.D {
	return bson.D{{Key: "$sum", Value: "$" + field}}
}

func firstOf(expr string) bson.D {
	return bson.D{{Key: "$ifNull", Value: bson.A{
		bson.D{{Key: "$arrayElemAt", Value: bson.A{expr, 0}}},
		nil,
	}}}
}

func sizeOf(expr string) bson.D {
	return bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{expr, bson.A{}}}}}}
}
