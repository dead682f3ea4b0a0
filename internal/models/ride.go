package models

import (
	"slices"
	"time"

	"github.com/lib/pq"
)

type RideStatus string

const (
	RideStatusConfirmed RideStatus = "confirmed"
	RideStatusCancelled RideStatus = "cancelled"
	RideStatusCompleted RideStatus = "completed"
)

// RideBooking is the persisted record of one ride/payment transaction.
// json and bson names are the camelCase keys already present in the rides
// collection.
type RideBooking struct {
	ID              uint           `json:"-" bson:"-" gorm:"primaryKey"`
	BookingID       string         `json:"bookingId" bson:"bookingId" gorm:"uniqueIndex;not null"`
	From            string         `json:"from" bson:"from"`
	To              string         `json:"to" bson:"to"`
	UserID          string         `json:"userId" bson:"userId" gorm:"index;not null"`
	UserName        string         `json:"userName" bson:"userName"`
	Type            string         `json:"type" bson:"type"`
	SharedUserIDs   pq.StringArray `json:"sharedUserIds" bson:"sharedUserIds" gorm:"type:text[];not null;default:'{}'"`
	SharedUserNames pq.StringArray `json:"sharedUserNames" bson:"sharedUserNames" gorm:"type:text[];not null;default:'{}'"`
	Fare            float64        `json:"fare" bson:"fare"`
	DriverName      string         `json:"driverName" bson:"driverName"`
	CarName         string         `json:"carName" bson:"carName"`
	Date            time.Time      `json:"date" bson:"date" gorm:"not null;index"`
	Feedback        string         `json:"feedback,omitempty" bson:"feedback,omitempty"`
	Distance        *float64       `json:"distance,omitempty" bson:"distance,omitempty"`
	Status          RideStatus     `json:"status" bson:"status" gorm:"not null;default:'confirmed'"`
	Stars           *float64       `json:"stars,omitempty" bson:"stars,omitempty"`
	CreatedAt       time.Time      `json:"-" bson:"-"`
	UpdatedAt       time.Time      `json:"-" bson:"-"`
}

// TableName specifies the table name
func (RideBooking) TableName() string {
	return "rides"
}

// HasCoRider reports whether userID is listed in SharedUserIDs.
func (r RideBooking) HasCoRider(userID string) bool {
	return slices.Contains(r.SharedUserIDs, userID)
}

// Riders returns the owner followed by every co-rider, without duplicates.
func (r RideBooking) Riders() []string {
	riders := make([]string, 0, len(r.SharedUserIDs)+1)
	riders = append(riders, r.UserID)
	for _, id := range r.SharedUserIDs {
		if !slices.Contains(riders, id) {
			riders = append(riders, id)
		}
	}
	return riders
}

// Clone returns a copy that shares no slices or pointers with r.
func (r RideBooking) Clone() RideBooking {
	c := r
	c.SharedUserIDs = append(pq.StringArray{}, r.SharedUserIDs...)
	c.SharedUserNames = append(pq.StringArray{}, r.SharedUserNames...)
	if r.Distance != nil {
		d := *r.Distance
		c.Distance = &d
	}
	if r.Stars != nil {
		s := *r.Stars
		c.Stars = &s
	}
	return c
}
