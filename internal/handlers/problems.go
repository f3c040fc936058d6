package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vjhub/vjhub-backend/internal/database"
	"github.com/vjhub/vjhub-backend/internal/middleware"
	"github.com/vjhub/vjhub-backend/internal/models"
	"github.com/vjhub/vjhub-backend/internal/services"
	"github.com/vjhub/vjhub-backend/internal/validate"
)

// ProblemRequest is the create/update payload for a problem.
type ProblemRequest struct {
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Background  string   `json:"background,omitempty"`
	Scalability string   `json:"scalability,omitempty"`
	MarketSize  string   `json:"marketSize,omitempty"`
	Competitors []string `json:"competitors,omitempty"`
	CurrentGaps string   `json:"currentGaps,omitempty"`
	Status      string   `json:"status,omitempty"`
}

func (req *ProblemRequest) validate() validate.Errors {
	var errs validate.Errors
	errs.Length("title", req.Title, 5, 200)
	errs.Length("excerpt", req.Excerpt, 10, 300)
	errs.Length("description", req.Description, 50, 5000)
	errs.Length("background", req.Background, 0, 2000)
	errs.Length("scalability", req.Scalability, 0, 1000)
	errs.Length("marketSize", req.MarketSize, 0, 500)
	errs.Length("currentGaps", req.CurrentGaps, 0, 2000)
	for _, tag := range req.Tags {
		errs.Length("tags", tag, 1, 50)
	}
	if req.Status != "" {
		errs.OneOf("status", req.Status,
			string(models.StatusDraft), string(models.StatusPublished), string(models.StatusArchived))
	}
	return errs
}

// problemMap shapes a problem for the API: derived vote counts, the
// requester's membership flags, and no raw vote-ID sets.
func problemMap(p *models.Problem, user *models.User, authors map[string]models.AuthorRef) map[string]interface{} {
	m := map[string]interface{}{
		"id":            p.ID.Hex(),
		"title":         p.Title,
		"excerpt":       p.Excerpt,
		"description":   p.Description,
		"image":         p.Image,
		"tags":          p.Tags,
		"background":    p.Background,
		"scalability":   p.Scalability,
		"marketSize":    p.MarketSize,
		"competitors":   p.Competitors,
		"currentGaps":   p.CurrentGaps,
		"views":         p.Views,
		"status":        p.Status,
		"featured":      p.Featured,
		"createdAt":     p.CreatedAt,
		"updatedAt":     p.UpdatedAt,
		"upvoteCount":   p.UpvoteCount(),
		"downvoteCount": p.DownvoteCount(),
		"netVotes":      p.NetVotes(),
		"isUpvoted":     user != nil && services.HasVoted(p.Upvotes, user.ID),
		"isDownvoted":   user != nil && services.HasVoted(p.Downvotes, user.ID),
	}
	if ref, ok := authors[p.Author]; ok {
		m["author"] = ref
	} else {
		m["author"] = models.AuthorRef{ID: p.Author}
	}
	return m
}

// findProblems runs the list query. Popular and trending sorts need derived
// fields, so they go through an aggregation pipeline; the rest use a plain
// find with an index-backed sort.
func findProblems(ctx context.Context, filter bson.M, sort string, skip, limit int) ([]models.Problem, error) {
	coll := database.DB.Collection(models.ProblemsCollection)
	var cursor *mongo.Cursor
	var err error

	switch sort {
	case "popular":
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: filter}},
			bson.D{{Key: "$addFields", Value: bson.M{"upvoteCount": bson.M{"$size": "$upvotes"}}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "upvoteCount", Value: -1}, {Key: "views", Value: -1}}}},
			bson.D{{Key: "$skip", Value: int64(skip)}},
			bson.D{{Key: "$limit", Value: int64(limit)}},
		}
		cursor, err = coll.Aggregate(ctx, pipeline)
	case "trending":
		// score = upvoteCount + views/10 + daysSinceCreation
		score := bson.M{"$add": bson.A{
			bson.M{"$size": "$upvotes"},
			bson.M{"$divide": bson.A{"$views", 10}},
			bson.M{"$divide": bson.A{bson.M{"$subtract": bson.A{"$$NOW", "$createdAt"}}, 86400000}},
		}}
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: filter}},
			bson.D{{Key: "$addFields", Value: bson.M{"trendingScore": score}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "trendingScore", Value: -1}}}},
			bson.D{{Key: "$skip", Value: int64(skip)}},
			bson.D{{Key: "$limit", Value: int64(limit)}},
		}
		cursor, err = coll.Aggregate(ctx, pipeline)
	default:
		order := -1 // newest
		if sort == "oldest" {
			order = 1
		}
		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: order}}).
			SetSkip(int64(skip)).
			SetLimit(int64(limit))
		cursor, err = coll.Find(ctx, filter, opts)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var problems []models.Problem
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}

// ListProblems handles GET /api/problems with filtering, sorting, pagination.
func ListProblems(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	page, limit, skip := parsePagination(r, 10)
	sort := r.URL.Query().Get("sort")

	filter := bson.M{"status": models.StatusPublished}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	if tags := r.URL.Query().Get("tags"); tags != "" {
		filter["tags"] = bson.M{"$in": splitLowerList(tags)}
	}
	if author := r.URL.Query().Get("author"); author != "" {
		filter["author"] = author
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	problems, err := findProblems(ctx, filter, sort, skip, limit)
	if err != nil {
		respondServerError(w, "list problems", err)
		return
	}

	total, err := database.DB.Collection(models.ProblemsCollection).CountDocuments(ctx, filter)
	if err != nil {
		respondServerError(w, "count problems", err)
		return
	}

	authorIDs := make([]string, 0, len(problems))
	for i := range problems {
		authorIDs = append(authorIDs, problems[i].Author)
	}
	authors, err := services.GetAuthorRefs(authorIDs)
	if err != nil {
		respondServerError(w, "resolve problem authors", err)
		return
	}

	items := make([]map[string]interface{}, 0, len(problems))
	for i := range problems {
		items = append(items, problemMap(&problems[i], user, authors))
	}

	respondOK(w, "", map[string]interface{}{
		"problems":   items,
		"pagination": paginationBlock(page, limit, total),
	})
}

// getProblemByID loads a problem. Returns (nil, nil) when absent.
func getProblemByID(ctx context.Context, id primitive.ObjectID) (*models.Problem, error) {
	var p models.Problem
	err := database.DB.Collection(models.ProblemsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProblem handles GET /api/problems/{id}. Unpublished problems are
// visible only to their owner or an admin; the view counter bumps
// fire-and-forget.
func GetProblem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	problem, err := getProblemByID(ctx, id)
	if err != nil {
		respondServerError(w, "get problem", err)
		return
	}
	if problem == nil || (problem.Status != models.StatusPublished && !canModify(problem.Author, user)) {
		respondNotFound(w, "Problem not found")
		return
	}

	go incrementViews(models.ProblemsCollection, id)

	commentsCount, err := services.CountActiveComments(ctx, models.TargetProblem, id)
	if err != nil {
		respondServerError(w, "count problem comments", err)
		return
	}

	authors, err := services.GetAuthorRefs([]string{problem.Author})
	if err != nil {
		respondServerError(w, "resolve problem author", err)
		return
	}

	m := problemMap(problem, user, authors)
	m["commentsCount"] = commentsCount

	respondOK(w, "", map[string]interface{}{"problem": m})
}

// incrementViews bumps the views counter without blocking the response.
func incrementViews(collection string, id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	database.DB.Collection(collection).UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
}

// CreateProblem handles POST /api/problems (authenticated).
func CreateProblem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req ProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	if errs := req.validate(); !errs.OK() {
		respondValidation(w, errs)
		return
	}

	now := time.Now()
	problem := models.Problem{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Description: req.Description,
		Image:       req.Image,
		Author:      user.ID,
		Tags:        lowerTags(req.Tags),
		Background:  req.Background,
		Scalability: req.Scalability,
		MarketSize:  req.MarketSize,
		Competitors: req.Competitors,
		CurrentGaps: req.CurrentGaps,
		Upvotes:     []string{},
		Downvotes:   []string{},
		Status:      models.StatusPublished,
	}
	if req.Status != "" {
		problem.Status = models.EntityStatus(req.Status)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := database.DB.Collection(models.ProblemsCollection).InsertOne(ctx, problem); err != nil {
		respondServerError(w, "create problem", err)
		return
	}

	authors, _ := services.GetAuthorRefs([]string{user.ID})
	respondCreated(w, "Problem created successfully", map[string]interface{}{
		"problem": problemMap(&problem, user, authors),
	})
}

// UpdateProblem handles PUT /api/problems/{id} (owner/admin).
func UpdateProblem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	var req ProblemRequest
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

	problem, err := getProblemByID(ctx, id)
	if err != nil {
		respondServerError(w, "get problem", err)
		return
	}
	if problem == nil {
		respondNotFound(w, "Problem not found")
		return
	}
	if !canModify(problem.Author, user) {
		respondForbidden(w, "Not authorized to update this problem")
		return
	}

	problem.Title = req.Title
	problem.Excerpt = req.Excerpt
	problem.Description = req.Description
	problem.Image = req.Image
	problem.Background = req.Background
	problem.Scalability = req.Scalability
	problem.MarketSize = req.MarketSize
	problem.Competitors = req.Competitors
	problem.CurrentGaps = req.CurrentGaps
	if len(req.Tags) > 0 {
		problem.Tags = lowerTags(req.Tags)
	}
	if req.Status != "" {
		problem.Status = models.EntityStatus(req.Status)
	}
	problem.UpdatedAt = time.Now()

	if _, err := database.DB.Collection(models.ProblemsCollection).ReplaceOne(ctx, bson.M{"_id": id}, problem); err != nil {
		respondServerError(w, "update problem", err)
		return
	}

	authors, _ := services.GetAuthorRefs([]string{problem.Author})
	respondOK(w, "Problem updated successfully", map[string]interface{}{
		"problem": problemMap(problem, user, authors),
	})
}

// DeleteProblem handles DELETE /api/problems/{id} (owner/admin).
func DeleteProblem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	problem, err := getProblemByID(ctx, id)
	if err != nil {
		respondServerError(w, "get problem", err)
		return
	}
	if problem == nil {
		respondNotFound(w, "Problem not found")
		return
	}
	if !canModify(problem.Author, user) {
		respondForbidden(w, "Not authorized to delete this problem")
		return
	}

	if _, err := database.DB.Collection(models.ProblemsCollection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		respondServerError(w, "delete problem", err)
		return
	}

	respondOK(w, "Problem deleted successfully", nil)
}

// VoteRequest is the directional vote payload.
type VoteRequest struct {
	Type string `json:"type"`
}

// VoteProblem handles POST /api/problems/{id}/vote. Directional: the user
// lands in exactly the set matching type, regardless of prior state.
func VoteProblem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}
	direction, err := services.ParseVoteDirection(req.Type)
	if err != nil {
		respondBadRequest(w, "Vote type must be upvote or downvote")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	problem, err := getProblemByID(ctx, id)
	if err != nil {
		respondServerError(w, "get problem", err)
		return
	}
	if problem == nil {
		respondNotFound(w, "Problem not found")
		return
	}

	problem.Upvotes, problem.Downvotes, _ = services.ApplyVote(problem.Upvotes, problem.Downvotes, user.ID, direction)

	if err := services.SaveVoteSets(ctx, models.ProblemsCollection, id, bson.M{
		"upvotes":   problem.Upvotes,
		"downvotes": problem.Downvotes,
	}); err != nil {
		respondServerError(w, "vote problem", err)
		return
	}

	respondOK(w, "Problem "+req.Type+"d successfully", map[string]interface{}{
		"upvoteCount":   problem.UpvoteCount(),
		"downvoteCount": problem.DownvoteCount(),
		"netVotes":      problem.NetVotes(),
	})
}

// RemoveProblemVote handles DELETE /api/problems/{id}/vote. Idempotent.
func RemoveProblemVote(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	problem, err := getProblemByID(ctx, id)
	if err != nil {
		respondServerError(w, "get problem", err)
		return
	}
	if problem == nil {
		respondNotFound(w, "Problem not found")
		return
	}

	problem.Upvotes, problem.Downvotes = services.RemoveVote(problem.Upvotes, problem.Downvotes, user.ID)

	if err := services.SaveVoteSets(ctx, models.ProblemsCollection, id, bson.M{
		"upvotes":   problem.Upvotes,
		"downvotes": problem.Downvotes,
	}); err != nil {
		respondServerError(w, "remove problem vote", err)
		return
	}

	respondOK(w, "Vote removed successfully", map[string]interface{}{
		"upvoteCount":   problem.UpvoteCount(),
		"downvoteCount": problem.DownvoteCount(),
		"netVotes":      problem.NetVotes(),
	})
}
