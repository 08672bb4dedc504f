package repositories

import (
	"context"
	"time"

	"github.com/arefin88/vidora/backend/internal/models"
	"github.com/arefin88/vidora/backend/pkg/errno"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PreferenceRepository owns the per-user delivery matrix. Get never fails with a
// missing document: defaults are written on first access so later field updates
// have a base to mutate.
type PreferenceRepository interface {
	Get(ctx context.Context, userID uint) (*models.NotificationPreferences, error)
	Replace(ctx context.Context, prefs *models.NotificationPreferences) error
	SetField(ctx context.Context, userID uint, channel string, notifType models.NotificationType, enabled bool) error
	SetChannel(ctx context.Context, userID uint, channel string, enabled bool) error
}

// MongoPreferenceRepository implements PreferenceRepository on MongoDB
type MongoPreferenceRepository struct {
	collection *mongo.Collection
}

// NewMongoPreferenceRepository creates a new MongoPreferenceRepository
func NewMongoPreferenceRepository(db *mongo.Database) *MongoPreferenceRepository {
	return &MongoPreferenceRepository{collection: db.Collection("notification_preferences")}
}

// Get returns the user's preference document, creating and persisting the
// all-enabled default when nothing is stored. Documents written before a new
// notification type existed are backfilled the same way.
func (r *MongoPreferenceRepository) Get(ctx context.Context, userID uint) (*models.NotificationPreferences, error) {
	var prefs models.NotificationPreferences
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&prefs)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
		defaults := models.DefaultNotificationPreferences(userID)
		if _, err := r.collection.InsertOne(ctx, defaults); err != nil && !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		return defaults, nil
	}

	if prefs.FillDefaults() {
		if err := r.Replace(ctx, &prefs); err != nil {
			return nil, err
		}
	}
	return &prefs, nil
}

// Replace upserts the whole document.
func (r *MongoPreferenceRepository) Replace(ctx context.Context, prefs *models.NotificationPreferences) error {
	prefs.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": prefs.UserID}, prefs, opts)
	return err
}

// SetField upserts a single channel/type flag.
func (r *MongoPreferenceRepository) SetField(ctx context.Context, userID uint, channel string, notifType models.NotificationType, enabled bool) error {
	if !models.ValidChannel(channel) {
		return errno.ErrInvalidArgument.Wrap("unknown channel " + channel)
	}
	if !notifType.Valid() {
		return errno.ErrInvalidArgument.Wrap("unknown notification type " + string(notifType))
	}

	// Make sure the defaulted document exists before the targeted update.
	if _, err := r.Get(ctx, userID); err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			channel + "." + string(notifType): enabled,
			"updated_at":                      time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

// SetChannel sets every type's flag within one channel bucket in a single update.
func (r *MongoPreferenceRepository) SetChannel(ctx context.Context, userID uint, channel string, enabled bool) error {
	if !models.ValidChannel(channel) {
		return errno.ErrInvalidArgument.Wrap("unknown channel " + channel)
	}

	if _, err := r.Get(ctx, userID); err != nil {
		return err
	}

	fields := bson.M{"updated_at": time.Now()}
	for _, t := range models.NotificationTypes {
		fields[channel+"."+string(t)] = enabled
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": fields})
	return err
}
