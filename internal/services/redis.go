package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
)

const RideUpdatesChannel = "ride:updates"

// InitRedis connects to redisURL and verifies the connection.
func InitRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return client, nil
}

// RidePublisher publishes ride events to Redis pub/sub.
type RidePublisher struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

func NewRidePublisher(client *redis.Client) *RidePublisher {
	return &RidePublisher{client: client, channel: RideUpdatesChannel, timeout: 2 * time.Second}
}

// Notify publishes the event on the ride updates channel.
func (p *RidePublisher) Notify(ctx context.Context, event ledger.RideEvent) error {
	data, err := rideUpdatePayload(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.client.Publish(ctx, p.channel, data).Err()
}

func rideUpdatePayload(event ledger.RideEvent) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"rideId":    event.Ride.BookingID,
		"event":     event.Type,
		"status":    event.Ride.Status,
		"riders":    event.Ride.Riders(),
		"data":      event.Ride,
		"timestamp": event.At.Unix(),
	})
}
