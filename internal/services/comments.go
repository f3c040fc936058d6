package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vjhub/vjhub-backend/internal/database"
	"github.com/vjhub/vjhub-backend/internal/models"
)

var (
	// ErrParentTargetMismatch rejects replies whose parent hangs off a
	// different entity.
	ErrParentTargetMismatch = errors.New("parent comment belongs to a different target")
	// ErrNestedReply rejects replies to replies; threads are one level deep.
	ErrNestedReply = errors.New("replies to replies are not supported")
)

// DeletedCommentPlaceholder replaces the content of soft-deleted comments.
// The record itself is kept so replies stay attached.
const DeletedCommentPlaceholder = "[Comment deleted]"

// targetCollections maps a comment target type to its collection.
var targetCollections = map[string]string{
	models.TargetProblem: models.ProblemsCollection,
	models.TargetIdea:    models.IdeasCollection,
	models.TargetStartup: models.StartupsCollection,
}

// ValidTargetType reports whether s is one of Problem, Idea, Startup.
func ValidTargetType(s string) bool {
	_, ok := targetCollections[s]
	return ok
}

// TargetExists checks the entity store matching targetType for the given id.
func TargetExists(ctx context.Context, targetType string, targetID primitive.ObjectID) (bool, error) {
	collection, ok := targetCollections[targetType]
	if !ok {
		return false, nil
	}
	err := database.DB.Collection(collection).FindOne(ctx, bson.M{"_id": targetID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ValidateReplyParent checks that a reply's parent shares the reply's target
// and is itself top-level.
func ValidateReplyParent(parent *models.Comment, targetType string, targetID primitive.ObjectID) error {
	if parent.TargetType != targetType || parent.TargetID != targetID {
		return ErrParentTargetMismatch
	}
	if parent.ParentComment != nil {
		return ErrNestedReply
	}
	return nil
}

// SoftDelete marks a comment deleted in place: placeholder content, deleted
// status. Identity, target, parent link and timestamps of the thread survive
// so replies stay attached.
func SoftDelete(c *models.Comment, now time.Time) {
	c.Content = DeletedCommentPlaceholder
	c.Status = models.CommentDeleted
	c.UpdatedAt = now
}

// GetComment loads a comment by id. Returns (nil, nil) when absent.
func GetComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var c models.Comment
	err := database.DB.Collection(models.CommentsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountReplies counts active direct children of a comment.
func CountReplies(ctx context.Context, parentID primitive.ObjectID) (int64, error) {
	return database.DB.Collection(models.CommentsCollection).CountDocuments(ctx, bson.M{
		"parentComment": parentID,
		"status":        models.CommentActive,
	})
}

// CountActiveComments counts active comments attached to a target, replies
// included. Used for the commentsCount annotation on detail responses.
func CountActiveComments(ctx context.Context, targetType string, targetID primitive.ObjectID) (int64, error) {
	return database.DB.Collection(models.CommentsCollection).CountDocuments(ctx, bson.M{
		"targetType": targetType,
		"targetId":   targetID,
		"status":     models.CommentActive,
	})
}
