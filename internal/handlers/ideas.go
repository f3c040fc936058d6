package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
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

// IdeaRequest is the create/update payload for an idea.
type IdeaRequest struct {
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	ProblemID            string                 `json:"problemId"`
	Team                 []models.TeamMember    `json:"team"`
	Stage                int                    `json:"stage"`
	Mentor               string                 `json:"mentor,omitempty"`
	Attachments          []string               `json:"attachments,omitempty"`
	Contact              string                 `json:"contact"`
	Tags                 []string               `json:"tags,omitempty"`
	BusinessModel        string                 `json:"businessModel,omitempty"`
	TargetMarket         string                 `json:"targetMarket,omitempty"`
	CompetitiveAdvantage string                 `json:"competitiveAdvantage,omitempty"`
	FundingNeeds         string                 `json:"fundingNeeds,omitempty"`
	Timeline             []models.TimelineEntry `json:"timeline,omitempty"`
	Status               string                 `json:"status,omitempty"`
}

func (req *IdeaRequest) validate() validate.Errors {
	var errs validate.Errors
	errs.Length("title", req.Title, 5, 200)
	errs.Length("description", req.Description, 50, 5000)
	errs.ObjectID("problemId", req.ProblemID)
	errs.IntRange("stage", req.Stage, 1, 9)
	if len(req.Team) == 0 {
		errs.Add("team", "At least one team member is required")
	}
	for _, member := range req.Team {
		errs.Required("team.name", member.Name)
		errs.Email("team.email", member.Email)
		errs.Required("team.role", member.Role)
	}
	errs.Email("contact", req.Contact)
	errs.Length("businessModel", req.BusinessModel, 0, 2000)
	errs.Length("targetMarket", req.TargetMarket, 0, 1000)
	errs.Length("competitiveAdvantage", req.CompetitiveAdvantage, 0, 1000)
	errs.Length("fundingNeeds", req.FundingNeeds, 0, 1000)
	if req.Status != "" {
		errs.OneOf("status", req.Status,
			string(models.StatusDraft), string(models.StatusPublished), string(models.StatusArchived))
	}
	return errs
}

func ideaMap(i *models.Idea, user *models.User, authors map[string]models.AuthorRef) map[string]interface{} {
	m := map[string]interface{}{
		"id":                   i.ID.Hex(),
		"title":                i.Title,
		"description":          i.Description,
		"problemId":            i.ProblemID.Hex(),
		"team":                 i.Team,
		"stage":                i.Stage,
		"stageLabel":           models.StageLabel(i.Stage),
		"mentor":               i.Mentor,
		"attachments":          i.Attachments,
		"contact":              i.Contact,
		"views":                i.Views,
		"status":               i.Status,
		"featured":             i.Featured,
		"tags":                 i.Tags,
		"businessModel":        i.BusinessModel,
		"targetMarket":         i.TargetMarket,
		"competitiveAdvantage": i.CompetitiveAdvantage,
		"fundingNeeds":         i.FundingNeeds,
		"timeline":             i.Timeline,
		"createdAt":            i.CreatedAt,
		"updatedAt":            i.UpdatedAt,
		"upvoteCount":          i.UpvoteCount(),
		"downvoteCount":        i.DownvoteCount(),
		"netVotes":             i.NetVotes(),
		"isUpvoted":            user != nil && services.HasVoted(i.Upvotes, user.ID),
		"isDownvoted":          user != nil && services.HasVoted(i.Downvotes, user.ID),
	}
	if ref, ok := authors[i.Author]; ok {
		m["author"] = ref
	} else {
		m["author"] = models.AuthorRef{ID: i.Author}
	}
	return m
}

func findIdeas(ctx context.Context, filter bson.M, sort string, skip, limit int) ([]models.Idea, error) {
	coll := database.DB.Collection(models.IdeasCollection)
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
	case "stage":
		opts := options.Find().
			SetSort(bson.D{{Key: "stage", Value: -1}, {Key: "createdAt", Value: -1}}).
			SetSkip(int64(skip)).
			SetLimit(int64(limit))
		cursor, err = coll.Find(ctx, filter, opts)
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

	var ideas []models.Idea
	if err := cursor.All(ctx, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// ListIdeas handles GET /api/ideas.
func ListIdeas(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	page, limit, skip := parsePagination(r, 10)
	sort := r.URL.Query().Get("sort")

	filter := bson.M{"status": models.StatusPublished}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	if problemID := r.URL.Query().Get("problemId"); problemID != "" {
		if id, ok := objectIDParam(problemID); ok {
			filter["problemId"] = id
		}
	}
	if stage := r.URL.Query().Get("stage"); stage != "" {
		if v, err := strconv.Atoi(stage); err == nil {
			filter["stage"] = v
		}
	}
	if author := r.URL.Query().Get("author"); author != "" {
		filter["author"] = author
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ideas, err := findIdeas(ctx, filter, sort, skip, limit)
	if err != nil {
		respondServerError(w, "list ideas", err)
		return
	}

	total, err := database.DB.Collection(models.IdeasCollection).CountDocuments(ctx, filter)
	if err != nil {
		respondServerError(w, "count ideas", err)
		return
	}

	authorIDs := make([]string, 0, len(ideas))
	for i := range ideas {
		authorIDs = append(authorIDs, ideas[i].Author)
	}
	authors, err := services.GetAuthorRefs(authorIDs)
	if err != nil {
		respondServerError(w, "resolve idea authors", err)
		return
	}

	items := make([]map[string]interface{}, 0, len(ideas))
	for i := range ideas {
		items = append(items, ideaMap(&ideas[i], user, authors))
	}

	respondOK(w, "", map[string]interface{}{
		"ideas":      items,
		"pagination": paginationBlock(page, limit, total),
	})
}

func getIdeaByID(ctx context.Context, id primitive.ObjectID) (*models.Idea, error) {
	var i models.Idea
	err := database.DB.Collection(models.IdeasCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&i)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// GetIdea handles GET /api/ideas/{id}.
func GetIdea(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	idea, err := getIdeaByID(ctx, id)
	if err != nil {
		respondServerError(w, "get idea", err)
		return
	}
	if idea == nil || (idea.Status != models.StatusPublished && !canModify(idea.Author, user)) {
		respondNotFound(w, "Idea not found")
		return
	}

	go incrementViews(models.IdeasCollection, id)

	commentsCount, err := services.CountActiveComments(ctx, models.TargetIdea, id)
	if err != nil {
		respondServerError(w, "count idea comments", err)
		return
	}

	authors, err := services.GetAuthorRefs([]string{idea.Author})
	if err != nil {
		respondServerError(w, "resolve idea author", err)
		return
	}

	m := ideaMap(idea, user, authors)
	m["commentsCount"] = commentsCount

	respondOK(w, "", map[string]interface{}{"idea": m})
}

// CreateIdea handles POST /api/ideas (authenticated). The referenced problem
// must exist.
func CreateIdea(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req IdeaRequest
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

	problemID, _ := objectIDParam(req.ProblemID)
	problem, err := getProblemByID(ctx, problemID)
	if err != nil {
		respondServerError(w, "verify idea problem", err)
		return
	}
	if problem == nil {
		respondNotFound(w, "Problem not found")
		return
	}

	now := time.Now()
	idea := models.Idea{
		ID:                   primitive.NewObjectID(),
		CreatedAt:            now,
		UpdatedAt:            now,
		Title:                req.Title,
		Description:          req.Description,
		ProblemID:            problemID,
		Author:               user.ID,
		Team:                 req.Team,
		Stage:                req.Stage,
		Mentor:               req.Mentor,
		Attachments:          req.Attachments,
		Contact:              req.Contact,
		Upvotes:              []string{},
		Downvotes:            []string{},
		Status:               models.StatusPublished,
		Tags:                 lowerTags(req.Tags),
		BusinessModel:        req.BusinessModel,
		TargetMarket:         req.TargetMarket,
		CompetitiveAdvantage: req.CompetitiveAdvantage,
		FundingNeeds:         req.FundingNeeds,
		Timeline:             req.Timeline,
	}
	if req.Status != "" {
		idea.Status = models.EntityStatus(req.Status)
	}

	if _, err := database.DB.Collection(models.IdeasCollection).InsertOne(ctx, idea); err != nil {
		respondServerError(w, "create idea", err)
		return
	}

	authors, _ := services.GetAuthorRefs([]string{user.ID})
	respondCreated(w, "Idea created successfully", map[string]interface{}{
		"idea": ideaMap(&idea, user, authors),
	})
}

// UpdateIdea handles PUT /api/ideas/{id} (owner/admin). The problem reference
// is re-verified only when it changes.
func UpdateIdea(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	var req IdeaRequest
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

	idea, err := getIdeaByID(ctx, id)
	if err != nil {
		respondServerError(w, "get idea", err)
		return
	}
	if idea == nil {
		respondNotFound(w, "Idea not found")
		return
	}
	if !canModify(idea.Author, user) {
		respondForbidden(w, "Not authorized to update this idea")
		return
	}

	problemID, _ := objectIDParam(req.ProblemID)
	if problemID != idea.ProblemID {
		problem, err := getProblemByID(ctx, problemID)
		if err != nil {
			respondServerError(w, "verify idea problem", err)
			return
		}
		if problem == nil {
			respondNotFound(w, "Problem not found")
			return
		}
	}

	idea.Title = req.Title
	idea.Description = req.Description
	idea.ProblemID = problemID
	idea.Team = req.Team
	idea.Stage = req.Stage
	idea.Mentor = req.Mentor
	idea.Attachments = req.Attachments
	idea.Contact = req.Contact
	idea.BusinessModel = req.BusinessModel
	idea.TargetMarket = req.TargetMarket
	idea.CompetitiveAdvantage = req.CompetitiveAdvantage
	idea.FundingNeeds = req.FundingNeeds
	idea.Timeline = req.Timeline
	if len(req.Tags) > 0 {
		idea.Tags = lowerTags(req.Tags)
	}
	if req.Status != "" {
		idea.Status = models.EntityStatus(req.Status)
	}
	idea.UpdatedAt = time.Now()

	if _, err := database.DB.Collection(models.IdeasCollection).ReplaceOne(ctx, bson.M{"_id": id}, idea); err != nil {
		respondServerError(w, "update idea", err)
		return
	}

	authors, _ := services.GetAuthorRefs([]string{idea.Author})
	respondOK(w, "Idea updated successfully", map[string]interface{}{
		"idea": ideaMap(idea, user, authors),
	})
}

// DeleteIdea handles DELETE /api/ideas/{id} (owner/admin).
func DeleteIdea(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	idea, err := getIdeaByID(ctx, id)
	if err != nil {
		respondServerError(w, "get idea", err)
		return
	}
	if idea == nil {
		respondNotFound(w, "Idea not found")
		return
	}
	if !canModify(idea.Author, user) {
		respondForbidden(w, "Not authorized to delete this idea")
		return
	}

	if _, err := database.DB.Collection(models.IdeasCollection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		respondServerError(w, "delete idea", err)
		return
	}

	respondOK(w, "Idea deleted successfully", nil)
}

// VoteIdea handles POST /api/ideas/{id}/vote (directional).
func VoteIdea(w http.ResponseWriter, r *http.Request) {
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

	idea, err := getIdeaByID(ctx, id)
	if err != nil {
		respondServerError(w, "get idea", err)
		return
	}
	if idea == nil {
		respondNotFound(w, "Idea not found")
		return
	}

	idea.Upvotes, idea.Downvotes, _ = services.ApplyVote(idea.Upvotes, idea.Downvotes, user.ID, direction)

	if err := services.SaveVoteSets(ctx, models.IdeasCollection, id, bson.M{
		"upvotes":   idea.Upvotes,
		"downvotes": idea.Downvotes,
	}); err != nil {
		respondServerError(w, "vote idea", err)
		return
	}

	respondOK(w, "Idea "+req.Type+"d successfully", map[string]interface{}{
		"upvoteCount":   idea.UpvoteCount(),
		"downvoteCount": idea.DownvoteCount(),
		"netVotes":      idea.NetVotes(),
	})
}

// RemoveIdeaVote handles DELETE /api/ideas/{id}/vote. Idempotent.
func RemoveIdeaVote(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	idea, err := getIdeaByID(ctx, id)
	if err != nil {
		respondServerError(w, "get idea", err)
		return
	}
	if idea == nil {
		respondNotFound(w, "Idea not found")
		return
	}

	idea.Upvotes, idea.Downvotes = services.RemoveVote(idea.Upvotes, idea.Downvotes, user.ID)

	if err := services.SaveVoteSets(ctx, models.IdeasCollection, id, bson.M{
		"upvotes":   idea.Upvotes,
		"downvotes": idea.Downvotes,
	}); err != nil {
		respondServerError(w, "remove idea vote", err)
		return
	}

	respondOK(w, "Vote removed successfully", map[string]interface{}{
		"upvoteCount":   idea.UpvoteCount(),
		"downvoteCount": idea.DownvoteCount(),
		"netVotes":      idea.NetVotes(),
	})
}
