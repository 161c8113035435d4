package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	userserrors "kairooms/internal/users/errors"
	"kairooms/pkg/config"
	"kairooms/pkg/model"
)

const CollectionName = "users"

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByResetToken matches a reset token that expires strictly after
	// now. Expired tokens behave exactly like missing ones.
	FindByResetToken(ctx context.Context, resetToken string, now time.Time) (*model.User, error)
	FindPending(ctx context.Context) ([]*model.User, error)

	MarkVerified(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, id string, update *model.ProfileUpdate) (*model.User, error)
	SetAvatar(ctx context.Context, id, avatar string) (*model.User, error)
	ClearAvatar(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, id, resetToken string, expires time.Time) error
	ReplacePassword(ctx context.Context, id, passwordHash string) error
	MarkApproved(ctx context.Context, id string) error
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoUserRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	user.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return userserrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) FindByResetToken(ctx context.Context, resetToken string, now time.Time) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{
		"reset_password_token":   resetToken,
		"reset_password_expires": bson.M{"$gt": now},
	})
}

func (r *mongoUserRepository) FindPending(ctx context.Context) ([]*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"verified":    true,
		"is_approved": false,
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find pending users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode pending users: %w", err)
	}

	return users, nil
}

func (r *mongoUserRepository) MarkVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"verified": true},
		"$unset": bson.M{"verification_code": ""},
	})
}

func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id string, update *model.ProfileUpdate) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}

	set := bson.M{}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Email != "" {
		set["email"] = update.Email
	}
	if update.Phone != "" {
		set["phone"] = update.Phone
	}
	if update.Department != "" {
		set["department"] = update.Department
	}
	if len(set) == 0 {
		return r.findOne(ctx, bson.M{"_id": objectID})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, userserrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &user, nil
}

func (r *mongoUserRepository) SetAvatar(ctx context.Context, id, avatar string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"avatar": avatar}}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to set avatar: %w", err)
	}

	return &user, nil
}

func (r *mongoUserRepository) ClearAvatar(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$unset": bson.M{"avatar": ""},
	})
}

func (r *mongoUserRepository) SetResetToken(ctx context.Context, id, resetToken string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"reset_password_token":   resetToken,
			"reset_password_expires": expires,
		},
	})
}

// ReplacePassword installs the new hash and clears both reset fields in the
// same update.
func (r *mongoUserRepository) ReplacePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"password_hash": passwordHash},
		"$unset": bson.M{
			"reset_password_token":   "",
			"reset_password_expires": "",
		},
	})
}

func (r *mongoUserRepository) MarkApproved(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"is_approved": true},
	})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return userserrors.ErrNotFound
	}

	return nil
}
