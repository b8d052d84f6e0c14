package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleKOL   = "kol"
	RoleBrand = "brand"
)

// User represents a platform user stored in MongoDB. Followers and Following
// are reactor sets of user IDs (hex strings), kept symmetric: an ID appears in
// A's Following iff A's ID appears in that user's Followers.
type User struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	Name        string             `json:"name" bson:"name"`
	Role        string             `json:"role" bson:"role"` // kol or brand
	Avatar      string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio         string             `json:"bio,omitempty" bson:"bio,omitempty"`
	FirebaseUID string             `json:"-" bson:"firebase_uid,omitempty"`
	Followers   []string           `json:"followers" bson:"followers"`
	Following   []string           `json:"following" bson:"following"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// UserCompact is the trimmed user shape embedded in enriched responses
type UserCompact struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// ToCompact converts a User to its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
		Avatar:   u.Avatar,
	}
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Role     string `json:"role" validate:"required,oneof=kol brand"`
}

// SigninRequest defines the request body for local sign-in
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for the Firebase token exchange
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateProfileRequest defines the request body for updating the own profile
type UpdateProfileRequest struct {
	Name   string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio    string `json:"bio,omitempty" validate:"omitempty,max=300"`
	Avatar string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
