package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/markyai/studio-backend/internal/database"
	"github.com/markyai/studio-backend/internal/models"
)

const imagesCollection = "generated_images"

// MongoImageStore keeps generated-image records in a MongoDB collection.
// Selected with STORAGE_BACKEND=mongo; the document-store analogue of the
// original app's Firestore revisions.
type MongoImageStore struct{}

func NewMongoImageStore() *MongoImageStore {
	return &MongoImageStore{}
}

func (s *MongoImageStore) collection() *mongo.Collection {
	return database.MongoDB.Collection(imagesCollection)
}

func (s *MongoImageStore) Save(ctx context.Context, image *models.GeneratedImage) (string, error) {
	if image.UserID == "" {
		return "", ErrUnauthenticated
	}

	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	if image.Timestamp.IsZero() {
		image.Timestamp = time.Now().UTC()
	}

	if _, err := s.collection().InsertOne(ctx, image); err != nil {
		return "", err
	}
	return image.ID, nil
}

func (s *MongoImageStore) List(ctx context.Context, userID string) ([]models.GeneratedImage, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := s.collection().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	images := make([]models.GeneratedImage, 0)
	if err := cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (s *MongoImageStore) Delete(ctx context.Context, userID, imageID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	result, err := s.collection().DeleteOne(ctx, bson.M{"_id": imageID, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrImageNotFound
	}
	return nil
}

// EnsureImageIndexes creates the owner/timestamp index used by List.
func EnsureImageIndexes(ctx context.Context) error {
	_, err := database.MongoDB.Collection(imagesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
