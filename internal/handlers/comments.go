package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vjhub/vjhub-backend/internal/database"
	"github.com/vjhub/vjhub-backend/internal/middleware"
	"github.com/vjhub/vjhub-backend/internal/models"
	"github.com/vjhub/vjhub-backend/internal/services"
	"github.com/vjhub/vjhub-backend/internal/validate"
)

// CommentRequest is the create payload for a comment or reply.
type CommentRequest struct {
	Content       string `json:"content"`
	TargetType    string `json:"targetType"`
	TargetID      string `json:"targetId"`
	ParentComment string `json:"parentComment,omitempty"`
}

func (req *CommentRequest) validate() validate.Errors {
	var errs validate.Errors
	errs.Length("content", req.Content, 1, 2000)
	errs.OneOf("targetType", req.TargetType,
		models.TargetProblem, models.TargetIdea, models.TargetStartup)
	errs.ObjectID("targetId", req.TargetID)
	if req.ParentComment != "" {
		errs.ObjectID("parentComment", req.ParentComment)
	}
	return errs
}

func commentMap(c *models.Comment, user *models.User, authors map[string]models.AuthorRef, replyCount int64) map[string]interface{} {
	m := map[string]interface{}{
		"id":         c.ID.Hex(),
		"content":    c.Content,
		"targetType": c.TargetType,
		"targetId":   c.TargetID.Hex(),
		"status":     c.Status,
		"isEdited":   c.IsEdited,
		"editedAt":   c.EditedAt,
		"createdAt":  c.CreatedAt,
		"updatedAt":  c.UpdatedAt,
		"likeCount":  c.LikeCount(),
		"isLiked":    user != nil && services.HasVoted(c.Likes, user.ID),
		"replyCount": replyCount,
	}
	if c.ParentComment != nil {
		m["parentComment"] = c.ParentComment.Hex()
	}
	if ref, ok := authors[c.Author]; ok {
		m["author"] = ref
	} else {
		m["author"] = models.AuthorRef{ID: c.Author}
	}
	return m
}

// commentListFilter builds the list query. Only active comments are listed;
// soft-deleted and hidden records stay out of both pages and totals. Without
// a parent it matches top-level comments only.
func commentListFilter(targetType string, targetID primitive.ObjectID, parentID *primitive.ObjectID) bson.M {
	filter := bson.M{
		"targetType": targetType,
		"targetId":   targetID,
		"status":     models.CommentActive,
	}
	if parentID != nil {
		filter["parentComment"] = *parentID
	} else {
		filter["parentComment"] = bson.M{"$exists": false}
	}
	return filter
}

// ListComments handles GET /api/comments. targetType and targetId are
// required. Without parentComment it returns top-level comments only;
// with it, the replies of that comment.
func ListComments(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	page, limit, skip := parsePagination(r, 20)

	targetType := r.URL.Query().Get("targetType")
	if !services.ValidTargetType(targetType) {
		respondBadRequest(w, "targetType must be Problem, Idea or Startup")
		return
	}
	targetID, ok := objectIDParam(r.URL.Query().Get("targetId"))
	if !ok {
		respondBadRequest(w, "Valid targetId is required")
		return
	}

	var parentID *primitive.ObjectID
	if parent := r.URL.Query().Get("parentComment"); parent != "" {
		id, ok := objectIDParam(parent)
		if !ok {
			respondBadRequest(w, "Valid parentComment is required")
			return
		}
		parentID = &id
	}
	filter := commentListFilter(targetType, targetID, parentID)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	coll := database.DB.Collection(models.CommentsCollection)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		respondServerError(w, "list comments", err)
		return
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		respondServerError(w, "decode comments", err)
		return
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		respondServerError(w, "count comments", err)
		return
	}

	authorIDs := make([]string, 0, len(comments))
	for i := range comments {
		authorIDs = append(authorIDs, comments[i].Author)
	}
	authors, err := services.GetAuthorRefs(authorIDs)
	if err != nil {
		respondServerError(w, "resolve comment authors", err)
		return
	}

	items := make([]map[string]interface{}, 0, len(comments))
	for i := range comments {
		replyCount := int64(0)
		if comments[i].ParentComment == nil {
			replyCount, err = services.CountReplies(ctx, comments[i].ID)
			if err != nil {
				respondServerError(w, "count replies", err)
				return
			}
		}
		items = append(items, commentMap(&comments[i], user, authors, replyCount))
	}

	respondOK(w, "", map[string]interface{}{
		"comments":   items,
		"pagination": paginationBlock(page, limit, total),
	})
}

// CreateComment handles POST /api/comments (authenticated). The target entity
// must exist; a reply's parent must exist, be attached to the same target, and
// itself be top-level.
func CreateComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	if errs := req.validate(); !errs.OK() {
		respondValidation(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	targetID, _ := objectIDParam(req.TargetID)
	exists, err := services.TargetExists(ctx, req.TargetType, targetID)
	if err != nil {
		respondServerError(w, "verify comment target", err)
		return
	}
	if !exists {
		respondNotFound(w, req.TargetType+" not found")
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentComment != "" {
		id, _ := objectIDParam(req.ParentComment)
		parent, err := services.GetComment(ctx, id)
		if err != nil {
			respondServerError(w, "get parent comment", err)
			return
		}
		if parent == nil {
			respondNotFound(w, "Parent comment not found")
			return
		}
		switch services.ValidateReplyParent(parent, req.TargetType, targetID) {
		case services.ErrParentTargetMismatch:
			respondBadRequest(w, "Parent comment belongs to a different target")
			return
		case services.ErrNestedReply:
			respondBadRequest(w, "Replies to replies are not supported")
			return
		}
		parentID = &id
	}

	now := time.Now()
	comment := models.Comment{
		ID:            primitive.NewObjectID(),
		CreatedAt:     now,
		UpdatedAt:     now,
		Content:       req.Content,
		Author:        user.ID,
		TargetType:    req.TargetType,
		TargetID:      targetID,
		ParentComment: parentID,
		Likes:         []string{},
		Status:        models.CommentActive,
	}

	if _, err := database.DB.Collection(models.CommentsCollection).InsertOne(ctx, comment); err != nil {
		respondServerError(w, "create comment", err)
		return
	}

	authors, _ := services.GetAuthorRefs([]string{user.ID})
	respondCreated(w, "Comment created successfully", map[string]interface{}{
		"comment": commentMap(&comment, user, authors, 0),
	})
}

// UpdateComment handles PUT /api/comments/{id} (author/admin). Edits mark the
// comment as edited with a timestamp.
func UpdateComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	var errs validate.Errors
	errs.Length("content", req.Content, 1, 2000)
	if !errs.OK() {
		respondValidation(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	comment, err := services.GetComment(ctx, id)
	if err != nil {
		respondServerError(w, "get comment", err)
		return
	}
	if comment == nil || comment.Status == models.CommentDeleted {
		respondNotFound(w, "Comment not found")
		return
	}
	if !canModify(comment.Author, user) {
		respondForbidden(w, "Not authorized to update this comment")
		return
	}

	now := time.Now()
	comment.Content = req.Content
	comment.IsEdited = true
	comment.EditedAt = &now
	comment.UpdatedAt = now

	_, err = database.DB.Collection(models.CommentsCollection).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"content":   comment.Content,
			"isEdited":  true,
			"editedAt":  now,
			"updatedAt": now,
		},
	})
	if err != nil {
		respondServerError(w, "update comment", err)
		return
	}

	replyCount, _ := services.CountReplies(ctx, id)
	authors, _ := services.GetAuthorRefs([]string{comment.Author})
	respondOK(w, "Comment updated successfully", map[string]interface{}{
		"comment": commentMap(comment, user, authors, replyCount),
	})
}

// DeleteComment handles DELETE /api/comments/{id} (author/admin). Soft
// delete: the record survives with placeholder content so replies keep their
// anchor.
func DeleteComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	comment, err := services.GetComment(ctx, id)
	if err != nil {
		respondServerError(w, "get comment", err)
		return
	}
	if comment == nil || comment.Status == models.CommentDeleted {
		respondNotFound(w, "Comment not found")
		return
	}
	if !canModify(comment.Author, user) {
		respondForbidden(w, "Not authorized to delete this comment")
		return
	}

	services.SoftDelete(comment, time.Now())
	_, err = database.DB.Collection(models.CommentsCollection).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"content":   comment.Content,
			"status":    comment.Status,
			"updatedAt": comment.UpdatedAt,
		},
	})
	if err != nil {
		respondServerError(w, "delete comment", err)
		return
	}

	respondOK(w, "Comment deleted successfully", nil)
}

// ToggleCommentLike handles POST /api/comments/{id}/like.
func ToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	comment, err := services.GetComment(ctx, id)
	if err != nil {
		respondServerError(w, "get comment", err)
		return
	}
	if comment == nil || comment.Status == models.CommentDeleted {
		respondNotFound(w, "Comment not found")
		return
	}

	likes, liked := services.ToggleVote(comment.Likes, user.ID)
	comment.Likes = likes

	if err := services.SaveVoteSets(ctx, models.CommentsCollection, id, bson.M{
		"likes": comment.Likes,
	}); err != nil {
		respondServerError(w, "toggle comment like", err)
		return
	}

	message := "Like removed successfully"
	if liked {
		message = "Comment liked successfully"
	}
	respondOK(w, message, map[string]interface{}{
		"likeCount": comment.LikeCount(),
		"isLiked":   liked,
	})
}
