package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"video-transcriber/pkg/domain"
)

// ErrVideoNotFound is returned when a video id does not resolve to a record.
var ErrVideoNotFound = errors.New("video not found")

// Client wraps the MongoDB client and the video collection
type Client struct {
	mongoClient *mongo.Client
	database    *mongo.Database
	collection  *mongo.Collection
}

// NewClient creates a new database client
func NewClient(connectionString, databaseName, collectionName string) *Client {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		// Return client with nil - error will be caught during Connect()
		return &Client{}
	}

	database := mongoClient.Database(databaseName)
	collection := database.Collection(collectionName)

	return &Client{
		mongoClient: mongoClient,
		database:    database,
		collection:  collection,
	}
}

// Connect establishes connection to MongoDB
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// InsertVideo creates a new video record and returns it with the assigned id.
func (c *Client) InsertVideo(ctx context.Context, video domain.Video) (domain.Video, error) {
	if c.collection == nil {
		return video, fmt.Errorf("collection not initialized")
	}

	if video.ID.IsZero() {
		video.ID = primitive.NewObjectID()
	}

	if _, err := c.collection.InsertOne(ctx, video); err != nil {
		return video, fmt.Errorf("insert video: %w", err)
	}
	return video, nil
}

// FindVideoByID looks a video up by its hex id. An unknown or malformed id
// yields ErrVideoNotFound.
func (c *Client) FindVideoByID(ctx context.Context, id string) (domain.Video, error) {
	if c.collection == nil {
		return domain.Video{}, fmt.Errorf("collection not initialized")
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Video{}, ErrVideoNotFound
	}

	var video domain.Video
	err = c.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&video)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Video{}, ErrVideoNotFound
	}
	if err != nil {
		return domain.Video{}, fmt.Errorf("find video: %w", err)
	}
	return video, nil
}

// UpdateVideo replaces the stored record's mutable fields with the given
// value. Concurrent writers are last-write-wins; there is no compare-and-swap.
func (c *Client) UpdateVideo(ctx context.Context, video domain.Video) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}
	if video.ID.IsZero() {
		return fmt.Errorf("video id is required")
	}

	res, err := c.collection.ReplaceOne(ctx, bson.M{"_id": video.ID}, video)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrVideoNotFound
	}
	return nil
}

// GetAllVideos returns every video, newest upload first.
func (c *Client) GetAllVideos(ctx context.Context) ([]domain.Video, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	opts := options.Find().SetSort(bson.D{{Key: "upload_date", Value: -1}})
	cursor, err := c.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer cursor.Close(ctx)

	var videos []domain.Video
	for cursor.Next(ctx) {
		var video domain.Video
		if err := cursor.Decode(&video); err != nil {
			continue // Skip invalid documents
		}
		videos = append(videos, video)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return videos, nil
}
