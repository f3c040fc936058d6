package services

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vjhub/vjhub-backend/internal/models"
)

func TestValidateReplyParent(t *testing.T) {
	targetID := primitive.NewObjectID()
	parent := &models.Comment{
		ID:         primitive.NewObjectID(),
		TargetType: models.TargetProblem,
		TargetID:   targetID,
	}

	if err := ValidateReplyParent(parent, models.TargetProblem, targetID); err != nil {
		t.Errorf("same-target reply rejected: %v", err)
	}
	if err := ValidateReplyParent(parent, models.TargetIdea, targetID); err != ErrParentTargetMismatch {
		t.Errorf("cross-type reply: got %v, want ErrParentTargetMismatch", err)
	}
	if err := ValidateReplyParent(parent, models.TargetProblem, primitive.NewObjectID()); err != ErrParentTargetMismatch {
		t.Errorf("cross-entity reply: got %v, want ErrParentTargetMismatch", err)
	}

	grandparent := primitive.NewObjectID()
	nested := &models.Comment{
		ID:            primitive.NewObjectID(),
		TargetType:    models.TargetProblem,
		TargetID:      targetID,
		ParentComment: &grandparent,
	}
	if err := ValidateReplyParent(nested, models.TargetProblem, targetID); err != ErrNestedReply {
		t.Errorf("reply to a reply: got %v, want ErrNestedReply", err)
	}
}

func TestSoftDelete(t *testing.T) {
	parentID := primitive.NewObjectID()
	created := time.Now().Add(-time.Hour)
	c := &models.Comment{
		ID:            primitive.NewObjectID(),
		CreatedAt:     created,
		Content:       "original content",
		Author:        "u1",
		TargetType:    models.TargetIdea,
		TargetID:      primitive.NewObjectID(),
		ParentComment: &parentID,
		Likes:         []string{"u2"},
		Status:        models.CommentActive,
	}
	id, target := c.ID, c.TargetID

	now := time.Now()
	SoftDelete(c, now)

	if c.Content != DeletedCommentPlaceholder {
		t.Errorf("content = %q, want placeholder", c.Content)
	}
	if c.Status != models.CommentDeleted {
		t.Errorf("status = %q, want deleted", c.Status)
	}
	if !c.UpdatedAt.Equal(now) {
		t.Errorf("updatedAt = %v, want %v", c.UpdatedAt, now)
	}

	// Thread structure survives: the record keeps its identity and links so
	// replies stay attached.
	if c.ID != id || c.TargetID != target {
		t.Error("soft delete changed identity fields")
	}
	if c.ParentComment == nil || *c.ParentComment != parentID {
		t.Error("soft delete detached the parent link")
	}
	if c.Author != "u1" || !c.CreatedAt.Equal(created) {
		t.Error("soft delete altered author or creation time")
	}
}
