package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	Get(ctx context.Context, documentID string) (*Document, error)
	List(ctx context.Context, filters map[string]interface{}, limit, offset int64) ([]Document, int64, error)
	Search(ctx context.Context, query, documentType string, limit int64) ([]Document, error)
	Recent(ctx context.Context, limit int64) ([]Document, error)
	CountByStatus(ctx context.Context, status DocumentStatus) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	GroupByType(ctx context.Context) ([]TypeCount, error)

	// ReplaceWorkflow writes the step list and recomputed status if and only
	// if the document is still at the given revision. A lost race returns
	// apperr.ErrConflict.
	ReplaceWorkflow(ctx context.Context, documentID string, revision int64, steps []WorkflowStep, status DocumentStatus) error

	// AppendSignature appends one signature under the same revision check.
	AppendSignature(ctx context.Context, documentID string, revision int64, sig ElectronicSignature) error

	// SetStatus sets the status unconditionally (rejection is absolute).
	SetStatus(ctx context.Context, documentID string, status DocumentStatus) error
}

// TypeCount is one bucket of the dashboard's per-type aggregation.
type TypeCount struct {
	Type  string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

type DocumentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDocumentRepository(mongodb *database.MongodbDB) DocumentRepository {
	return &DocumentRepositoryImpl{
		Collection: mongodb.DB.Collection("documents"),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *Document) error {
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, doc)
	return err
}

func (r *DocumentRepositoryImpl) Get(ctx context.Context, documentID string) (*Document, error) {
	var doc Document
	err := r.Collection.FindOne(ctx, bson.M{"id": documentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("document %s: %w", documentID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) List(ctx context.Context, filters map[string]interface{}, limit, offset int64) ([]Document, int64, error) {
	query := bson.M{}
	for k, v := range filters {
		if str, ok := v.(string); ok && str == "" {
			continue
		}
		query[k] = v
	}

	opts := options.Find().SetLimit(limit).SetSkip(offset)
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []Document
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	if docs == nil {
		docs = []Document{}
	}

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// searchFilter builds the case-insensitive $or filter over title,
// description and tags, optionally narrowed to one document type.
func searchFilter(query, documentType string) bson.M {
	pattern := primitive.Regex{Pattern: query, Options: "i"}
	filter := bson.M{
		"$or": []bson.M{
			{"title": bson.M{"$regex": pattern}},
			{"description": bson.M{"$regex": pattern}},
			{"tags": bson.M{"$regex": pattern}},
		},
	}
	if documentType != "" {
		filter["document_type"] = documentType
	}
	return filter
}

func (r *DocumentRepositoryImpl) Search(ctx context.Context, query, documentType string, limit int64) ([]Document, error) {
	cursor, err := r.Collection.Find(ctx, searchFilter(query, documentType), options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	var docs []Document
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

func (r *DocumentRepositoryImpl) Recent(ctx context.Context, limit int64) ([]Document, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []Document
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

func (r *DocumentRepositoryImpl) CountByStatus(ctx context.Context, status DocumentStatus) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"status": status})
}

func (r *DocumentRepositoryImpl) CountAll(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}

func (r *DocumentRepositoryImpl) GroupByType(ctx context.Context) ([]TypeCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$document_type", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var counts []TypeCount
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []TypeCount{}
	}
	return counts, nil
}

func (r *DocumentRepositoryImpl) ReplaceWorkflow(ctx context.Context, documentID string, revision int64, steps []WorkflowStep, status DocumentStatus) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"id": documentID, "revision": revision},
		bson.M{
			"$set": bson.M{
				"approval_workflow": steps,
				"status":            status,
				"modified_at":       time.Now(),
			},
			"$inc": bson.M{"revision": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("document %s revision %d: %w", documentID, revision, apperr.ErrConflict)
	}
	return nil
}

func (r *DocumentRepositoryImpl) AppendSignature(ctx context.Context, documentID string, revision int64, sig ElectronicSignature) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"id": documentID, "revision": revision},
		bson.M{
			"$push": bson.M{"signatures": sig},
			"$set":  bson.M{"modified_at": time.Now()},
			"$inc":  bson.M{"revision": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("document %s revision %d: %w", documentID, revision, apperr.ErrConflict)
	}
	return nil
}

func (r *DocumentRepositoryImpl) SetStatus(ctx context.Context, documentID string, status DocumentStatus) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"id": documentID},
		bson.M{
			"$set": bson.M{"status": status, "modified_at": time.Now()},
			"$inc": bson.M{"revision": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("document %s: %w", documentID, apperr.ErrNotFound)
	}
	return nil
}
