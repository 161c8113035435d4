package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"kairooms/pkg/config"
	"kairooms/pkg/model"
)

const LockCollectionName = "room_locks"

// RoomLockRepository manages the advisory locks that serialize booking
// creation per (date, room).
type RoomLockRepository interface {
	// Create inserts the lock; a duplicate key error means the slot is
	// already being booked.
	Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoRoomLockRepository struct {
	collection *mongo.Collection
}

func NewRoomLockRepository(cfg *config.Config) RoomLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoRoomLockRepository) Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
	lock.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoRoomLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
