package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"

	"github.com/chachabrian/ridebook-backend/internal/config"
	"github.com/chachabrian/ridebook-backend/internal/ledger"
)

const receiptFolder = "receipts"

// Booking ids may be caller supplied; keep them inside the receipt folder.
var receiptName = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

// Receipt is the archived summary of a completed ride.
type Receipt struct {
	BookingID   string    `json:"bookingId"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Type        string    `json:"type,omitempty"`
	Fare        float64   `json:"fare"`
	Distance    *float64  `json:"distance,omitempty"`
	DriverName  string    `json:"driverName"`
	CarName     string    `json:"carName"`
	UserName    string    `json:"userName"`
	Riders      []string  `json:"riders"`
	BookedAt    time.Time `json:"bookedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// ReceiptArchiver writes a receipt for every completed ride, to S3 when AWS
// credentials are configured and to a local directory otherwise.
type ReceiptArchiver struct {
	uploader *s3manager.Uploader
	bucket   string
	region   string
	dir      string
	log      *zap.Logger
}

// InitStorage initializes either S3 or local storage based on configuration
func InitStorage(cfg config.Storage, log *zap.Logger) (*ReceiptArchiver, error) {
	a := &ReceiptArchiver{log: log}

	if cfg.Region != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("S3 bucket name not configured")
		}
		sess, err := session.NewSession(&aws.Config{
			Region:      aws.String(cfg.Region),
			Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %v", err)
		}
		a.uploader = s3manager.NewUploader(sess)
		a.bucket = cfg.Bucket
		a.region = cfg.Region
		log.Info("receipts archived to S3", zap.String("bucket", cfg.Bucket))
		return a, nil
	}

	a.dir = cfg.ReceiptDir
	if err := os.MkdirAll(filepath.Join(a.dir, receiptFolder), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory: %v", err)
	}
	log.Warn("AWS S3 not configured, archiving receipts locally", zap.String("dir", a.dir))
	return a, nil
}

// IsUsingS3 returns true if S3 storage is being used
func (a *ReceiptArchiver) IsUsingS3() bool {
	return a.uploader != nil
}

// Notify archives a receipt when the event completes a ride.
func (a *ReceiptArchiver) Notify(ctx context.Context, event ledger.RideEvent) error {
	if event.Type != ledger.EventCompleted {
		return nil
	}
	location, err := a.Archive(ctx, NewReceipt(event))
	if err != nil {
		return err
	}
	a.log.Info("receipt archived", zap.String("bookingId", event.Ride.BookingID), zap.String("location", location))
	return nil
}

func NewReceipt(event ledger.RideEvent) Receipt {
	ride := event.Ride
	return Receipt{
		BookingID:   ride.BookingID,
		From:        ride.From,
		To:          ride.To,
		Type:        ride.Type,
		Fare:        ride.Fare,
		Distance:    ride.Distance,
		DriverName:  ride.DriverName,
		CarName:     ride.CarName,
		UserName:    ride.UserName,
		Riders:      ride.Riders(),
		BookedAt:    ride.Date,
		CompletedAt: event.At,
	}
}

// Archive stores the receipt and returns its URL or file path. A later
// completion of the same booking overwrites the earlier receipt.
func (a *ReceiptArchiver) Archive(ctx context.Context, receipt Receipt) (string, error) {
	body, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s.json", receiptFolder, receiptName.Replace(receipt.BookingID))

	if a.IsUsingS3() {
		_, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload to S3: %v", err)
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key), nil
	}

	path := filepath.Join(a.dir, filepath.FromSlash(key))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to save receipt: %v", err)
	}
	return path, nil
}
