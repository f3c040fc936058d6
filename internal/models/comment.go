package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentStatus is the moderation state of a comment. Deleted comments keep
// their record so thread structure survives.
type CommentStatus string

const (
	CommentActive  CommentStatus = "active"
	CommentDeleted CommentStatus = "deleted"
	CommentHidden  CommentStatus = "hidden"
)

// Comment target types.
const (
	TargetProblem = "Problem"
	TargetIdea    = "Idea"
	TargetStartup = "Startup"
)

const CommentsCollection = "comments"

// Comment attaches to a Problem, Idea, or Startup via (TargetType, TargetID).
// One level of nesting: a reply carries ParentComment, replies to replies are
// not modeled. A reply's parent must share the same target.
type Comment struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
	Content       string              `bson:"content" json:"content"`
	Author        string              `bson:"author" json:"author"`
	TargetType    string              `bson:"targetType" json:"targetType"`
	TargetID      primitive.ObjectID  `bson:"targetId" json:"targetId"`
	ParentComment *primitive.ObjectID `bson:"parentComment,omitempty" json:"parentComment,omitempty"`
	Likes         []string            `bson:"likes" json:"-"`
	IsEdited      bool                `bson:"isEdited" json:"isEdited"`
	EditedAt      *time.Time          `bson:"editedAt,omitempty" json:"editedAt,omitempty"`
	Status        CommentStatus       `bson:"status" json:"status"`
}

func (c *Comment) LikeCount() int { return len(c.Likes) }
