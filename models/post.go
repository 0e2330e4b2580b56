package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Category  string               `bson:"category,omitempty" json:"category"` // Optional
	Image     *Image               `bson:"image,omitempty" json:"image,omitempty"`
	AuthorID  primitive.ObjectID   `bson:"author" json:"authorId"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt int64                `bson:"createdAt" json:"createdAt"`
	Author    *Author              `bson:"-" json:"author,omitempty"` // Populated in response only
}
