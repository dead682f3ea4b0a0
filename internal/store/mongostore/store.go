// Package mongostore keeps ride bookings in the camelCase "rides" collection
// used by the earlier Node deployment, so existing documents are served
// without migration.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
	"github.com/chachabrian/ridebook-backend/internal/models"
)

const (
	dbTimeout       = 3 * time.Second
	ridesCollection = "rides"
)

type Store struct {
	client *mongo.Client
	rides  *mongo.Collection
}

// Connect dials uri, verifies the connection and ensures the rides indexes.
func Connect(ctx context.Context, uri, database string, log *zap.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := &Store{client: client, rides: client.Database(database).Collection(ridesCollection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("connected to MongoDB", zap.String("database", database))
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.rides.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "sharedUserIds", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create ride indexes: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) Create(ctx context.Context, ride *models.RideBooking) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.rides.InsertOne(ctx, ride)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ledger.ErrConflict, ride.BookingID)
	}
	return err
}

func (s *Store) FindByBookingID(ctx context.Context, bookingID string) (*models.RideBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var ride models.RideBooking
	err := s.rides.FindOne(ctx, byBookingID(bookingID)).Decode(&ride)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	withEmptyArrays(&ride)
	return &ride, nil
}

func (s *Store) History(ctx context.Context, userID string) ([]models.RideBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cursor, err := s.rides.Find(ctx, historyFilter(userID), options.Find().SetSort(historySort()))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rides := make([]models.RideBooking, 0)
	if err := cursor.All(ctx, &rides); err != nil {
		return nil, fmt.Errorf("failed to decode rides: %w", err)
	}
	for i := range rides {
		withEmptyArrays(&rides[i])
	}
	return rides, nil
}

func (s *Store) UpdateFeedback(ctx context.Context, bookingID, feedback string) (*models.RideBooking, error) {
	return s.findAndSet(ctx, bookingID, bson.M{"feedback": feedback})
}

func (s *Store) UpdateStatus(ctx context.Context, bookingID string, status models.RideStatus) (*models.RideBooking, error) {
	return s.findAndSet(ctx, bookingID, bson.M{"status": status})
}

func (s *Store) findAndSet(ctx context.Context, bookingID string, set bson.M) (*models.RideBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var ride models.RideBooking
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.rides.FindOneAndUpdate(ctx, byBookingID(bookingID), bson.M{"$set": set}, opts).Decode(&ride)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	withEmptyArrays(&ride)
	return &ride, nil
}

// AppendSharedName relies on $addToSet, which never inserts a duplicate.
func (s *Store) AppendSharedName(ctx context.Context, bookingID, name string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.rides.UpdateOne(ctx, byBookingID(bookingID), sharedNameUpdate(name))
	return err
}

// withEmptyArrays replaces missing shared-rider arrays, found on documents
// written before the fields existed, with empty ones.
func withEmptyArrays(ride *models.RideBooking) {
	if ride.SharedUserIDs == nil {
		ride.SharedUserIDs = pq.StringArray{}
	}
	if ride.SharedUserNames == nil {
		ride.SharedUserNames = pq.StringArray{}
	}
}

func byBookingID(bookingID string) bson.M {
	return bson.M{"bookingId": bookingID}
}

func historyFilter(userID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"userId": userID},
		bson.M{"sharedUserIds": userID},
	}}
}

// historySort orders newest first; _id breaks ties in insertion order.
func historySort() bson.D {
	return bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}}
}

func sharedNameUpdate(name string) bson.M {
	return bson.M{"$addToSet": bson.M{"sharedUserNames": name}}
}
