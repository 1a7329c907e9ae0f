package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Every user is also a channel others can subscribe to.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Username     string               `bson:"username" json:"username"` // Unique, stored lowercase
	Email        string               `bson:"email" json:"email"`       // Unique, stored lowercase
	FullName     string               `bson:"fullName" json:"fullName"`
	Avatar       Media                `bson:"avatar" json:"avatar"`
	CoverImage   *Media               `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	WatchHistory []primitive.ObjectID `bson:"watchHistory" json:"watchHistory"`
	PasswordHash string               `bson:"password" json:"-"`               // Never expose this via JSON
	RefreshToken string               `bson:"refreshToken,omitempty" json:"-"` // Single active session token
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Sanitized returns a copy without credentials, safe to hand to callers.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = ""
	if c.WatchHistory == nil {
		c.WatchHistory = []primitive.ObjectID{}
	}
	return &c
}
