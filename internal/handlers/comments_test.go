package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vjhub/vjhub-backend/internal/models"
)

func TestCommentListFilterActiveOnly(t *testing.T) {
	targetID := primitive.NewObjectID()
	filter := commentListFilter(models.TargetProblem, targetID, nil)

	// Soft-deleted comments keep their record but must never appear in
	// listings or totals.
	if filter["status"] != models.CommentActive {
		t.Errorf("status filter = %v, want %q", filter["status"], models.CommentActive)
	}
	if filter["targetType"] != models.TargetProblem || filter["targetId"] != targetID {
		t.Errorf("target filter = %v", filter)
	}
}

func TestCommentListFilterParent(t *testing.T) {
	targetID := primitive.NewObjectID()

	top := commentListFilter(models.TargetIdea, targetID, nil)
	exists, ok := top["parentComment"].(bson.M)
	if !ok || exists["$exists"] != false {
		t.Errorf("top-level filter parentComment = %v, want $exists:false", top["parentComment"])
	}

	parentID := primitive.NewObjectID()
	replies := commentListFilter(models.TargetIdea, targetID, &parentID)
	if replies["parentComment"] != parentID {
		t.Errorf("reply filter parentComment = %v, want %v", replies["parentComment"], parentID)
	}
	if replies["status"] != models.CommentActive {
		t.Errorf("reply filter status = %v, want %q", replies["status"], models.CommentActive)
	}
}
