package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aura-go/domain/job"
	"aura-go/domain/segmentation"
)

// jobDocument is the MongoDB document structure for jobs.
type jobDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Slot        int                `bson:"slot"`
	FileID      string             `bson:"file_id"`
	Route       string             `bson:"route"`
	Request     requestDocument    `bson:"request"`
	Status      string             `bson:"status"`
	Error       string             `bson:"error,omitempty"`
	SubmittedAt time.Time          `bson:"submitted_at"`
	FinishedAt  time.Time          `bson:"finished_at,omitempty"`
}

// requestDocument is the MongoDB document structure for a submitted request body.
type requestDocument struct {
	Type           string          `bson:"type"`
	K              int             `bson:"k"`
	MaxIterations  int             `bson:"max_iterations"`
	WindowSize     int             `bson:"window_size"`
	Threshold      int             `bson:"threshold"`
	ClustersNumber int             `bson:"clusters_number"`
	SeedPoints     []pointDocument `bson:"seed_points,omitempty"`
}

type pointDocument struct {
	X float64 `bson:"x"`
	Y float64 `bson:"y"`
}

// jobCollection holds one document per submitted job.
const jobCollection = "job"

// MongoJobRepository implements job.Repository using MongoDB.
type MongoJobRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoJobRepository creates a new MongoDB-based job repository.
func NewMongoJobRepository(db *MongoDB, logger *slog.Logger) *MongoJobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoJobRepository{
		collection: db.Collection(jobCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the indexes history queries rely on. It is
// idempotent.
func (r *MongoJobRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "submitted_at", Value: -1}},
			Options: options.Index().SetName("submitted_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "file_id", Value: 1}},
			Options: options.Index().SetName("file_id"),
		},
	}
	names, err := r.collection.Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("failed to create job indexes: %w", err)
	}
	r.logger.Debug("Job indexes ready", "indexes", names)
	return nil
}

// FindByID retrieves a job by its unique identifier.
func (r *MongoJobRepository) FindByID(ctx context.Context, id string) (*job.Job, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid ID format: %w", err)
	}

	var doc jobDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	return documentToJob(&doc), nil
}

// FindRecent retrieves up to limit jobs, newest first.
func (r *MongoJobRepository) FindRecent(ctx context.Context, limit int) ([]*job.Job, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []jobDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}

	jobs := make([]*job.Job, len(docs))
	for i := range docs {
		jobs[i] = documentToJob(&docs[i])
	}
	return jobs, nil
}

// Insert creates a new job.
func (r *MongoJobRepository) Insert(ctx context.Context, j *job.Job) error {
	result, err := r.collection.InsertOne(ctx, jobToDocument(j))
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		j.ID = oid.Hex()
	}

	r.logger.Info("Job inserted", "id", j.ID, "type", j.Request.Type, "file_id", j.FileID)
	return nil
}

// UpdateStatus records the outcome of a job.
func (r *MongoJobRepository) UpdateStatus(ctx context.Context, id string, status job.Status, errMsg string, finishedAt time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"status":      string(status),
		"error":       errMsg,
		"finished_at": finishedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if result.MatchedCount == 0 {
		return job.ErrJobNotFound
	}

	r.logger.Info("Job status updated", "id", id, "status", status)
	return nil
}

// DeleteAll removes every job.
func (r *MongoJobRepository) DeleteAll(ctx context.Context) error {
	result, err := r.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to delete jobs: %w", err)
	}
	r.logger.Info("Job history cleared", "count", result.DeletedCount)
	return nil
}

// documentToJob converts a MongoDB document to a domain Job.
func documentToJob(doc *jobDocument) *job.Job {
	j := &job.Job{
		ID:     doc.ID.Hex(),
		Slot:   doc.Slot,
		FileID: doc.FileID,
		Route:  doc.Route,
		Request: segmentation.Request{
			Type:           segmentation.AlgorithmType(doc.Request.Type),
			K:              doc.Request.K,
			MaxIterations:  doc.Request.MaxIterations,
			WindowSize:     doc.Request.WindowSize,
			Threshold:      doc.Request.Threshold,
			ClustersNumber: doc.Request.ClustersNumber,
			SeedPoints:     make([]segmentation.SeedPoint, len(doc.Request.SeedPoints)),
		},
		Status:      job.Status(doc.Status),
		Error:       doc.Error,
		SubmittedAt: doc.SubmittedAt,
		FinishedAt:  doc.FinishedAt,
	}

	for i, p := range doc.Request.SeedPoints {
		j.Request.SeedPoints[i] = segmentation.SeedPoint{X: p.X, Y: p.Y}
	}

	return j
}

// jobToDocument converts a domain Job to a MongoDB document.
func jobToDocument(j *job.Job) *jobDocument {
	doc := &jobDocument{
		Slot:   j.Slot,
		FileID: j.FileID,
		Route:  j.Route,
		Request: requestDocument{
			Type:           string(j.Request.Type),
			K:              j.Request.K,
			MaxIterations:  j.Request.MaxIterations,
			WindowSize:     j.Request.WindowSize,
			Threshold:      j.Request.Threshold,
			ClustersNumber: j.Request.ClustersNumber,
		},
		Status:      string(j.Status),
		Error:       j.Error,
		SubmittedAt: j.SubmittedAt,
		FinishedAt:  j.FinishedAt,
	}

	if j.ID != "" {
		if oid, err := primitive.ObjectIDFromHex(j.ID); err == nil {
			doc.ID = oid
		}
	}

	if len(j.Request.SeedPoints) > 0 {
		doc.Request.SeedPoints = make([]pointDocument, len(j.Request.SeedPoints))
		for i, p := range j.Request.SeedPoints {
			doc.Request.SeedPoints[i] = pointDocument{X: p.X, Y: p.Y}
		}
	}

	return doc
}

// Ensure MongoJobRepository implements job.Repository
var _ job.Repository = (*MongoJobRepository)(nil)
