package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a document in the users collection. Registered users carry a
// password hash; guests instead carry a last-activity timestamp that the
// collection's TTL index expires them on.
type User struct {
	ID           primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Username     string             `json:"username"   bson:"username"`
	PasswordHash string             `json:"-"          bson:"password_hash,omitempty"`
	IsGuest      bool               `json:"is_guest"   bson:"is_guest"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	LastActivity time.Time          `json:"-"          bson:"last_activity,omitempty"`
}

// SignupRequest is the JSON body for POST /api/user/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/user/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
