package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Image is a reference to an asset stored on the external media host.
// Either both fields are set or the image is absent entirely.
type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"public_id"`
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`

	Verified          bool   `bson:"verified" json:"verified"`
	VerificationToken string `bson:"verificationToken,omitempty" json:"-"`

	Avatar    *Image `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt int64  `bson:"createdAt" json:"createdAt"`
}

// Author is the denormalized slice of a User attached to posts and
// comments in responses. Populated by the store, never persisted.
type Author struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}
