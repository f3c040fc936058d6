package handlers

import (
	"context"
	"encoding/json"
	"errors"
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

// StartupRequest is the create/update payload for a startup.
type StartupRequest struct {
	Name                 string                 `json:"name"`
	Description          string                 `json:"description"`
	IdeaID               string                 `json:"ideaId,omitempty"`
	Team                 []models.TeamMember    `json:"team"`
	Stage                int                    `json:"stage"`
	FundingStatus        string                 `json:"fundingStatus,omitempty"`
	FundingAmount        float64                `json:"fundingAmount,omitempty"`
	Schemes              []string               `json:"schemes,omitempty"`
	Milestones           []models.Milestone     `json:"milestones,omitempty"`
	OnePager             string                 `json:"onePager,omitempty"`
	PitchDeck            string                 `json:"pitchDeck,omitempty"`
	Website              string                 `json:"website,omitempty"`
	Logo                 string                 `json:"logo,omitempty"`
	Industry             []string               `json:"industry"`
	Location             string                 `json:"location,omitempty"`
	FoundedDate          time.Time              `json:"foundedDate"`
	Employees            int                    `json:"employees,omitempty"`
	Revenue              float64                `json:"revenue,omitempty"`
	BusinessModel        string                 `json:"businessModel"`
	TargetMarket         string                 `json:"targetMarket"`
	CompetitiveAdvantage string                 `json:"competitiveAdvantage"`
	SocialLinks          *models.SocialLinks    `json:"socialLinks,omitempty"`
	Status               string                 `json:"status,omitempty"`
	Tags                 []string               `json:"tags,omitempty"`
}

func (req *StartupRequest) validate() validate.Errors {
	var errs validate.Errors
	errs.Length("name", req.Name, 2, 100)
	errs.Length("description", req.Description, 50, 5000)
	if req.IdeaID != "" {
		errs.ObjectID("ideaId", req.IdeaID)
	}
	errs.IntRange("stage", req.Stage, 1, 9)
	if len(req.Team) == 0 {
		errs.Add("team", "At least one team member is required")
	}
	for _, member := range req.Team {
		errs.Required("team.name", member.Name)
		errs.Email("team.email", member.Email)
		errs.Required("team.role", member.Role)
	}
	if len(req.Industry) == 0 {
		errs.Add("industry", "At least one industry is required")
	}
	errs.Length("businessModel", req.BusinessModel, 10, 2000)
	errs.Length("targetMarket", req.TargetMarket, 10, 1000)
	errs.Length("competitiveAdvantage", req.CompetitiveAdvantage, 10, 1000)
	if req.FoundedDate.IsZero() {
		errs.Add("foundedDate", "foundedDate is required")
	}
	if req.Status != "" {
		errs.OneOf("status", req.Status,
			string(models.StartupActive), string(models.StartupAcquired),
			string(models.StartupClosed), string(models.StartupPaused))
	}
	return errs
}

func startupMap(s *models.Startup, user *models.User, authors map[string]models.AuthorRef) map[string]interface{} {
	m := map[string]interface{}{
		"id":                   s.ID.Hex(),
		"name":                 s.Name,
		"description":          s.Description,
		"team":                 s.Team,
		"stage":                s.Stage,
		"stageLabel":           models.StageLabel(s.Stage),
		"fundingStatus":        s.FundingStatus,
		"fundingAmount":        s.FundingAmount,
		"schemes":              s.Schemes,
		"milestones":           s.Milestones,
		"completedMilestones":  s.CompletedMilestones(),
		"onePager":             s.OnePager,
		"pitchDeck":            s.PitchDeck,
		"website":              s.Website,
		"logo":                 s.Logo,
		"industry":             s.Industry,
		"location":             s.Location,
		"foundedDate":          s.FoundedDate,
		"employees":            s.Employees,
		"revenue":              s.Revenue,
		"businessModel":        s.BusinessModel,
		"targetMarket":         s.TargetMarket,
		"competitiveAdvantage": s.CompetitiveAdvantage,
		"socialLinks":          s.SocialLinks,
		"status":               s.Status,
		"featured":             s.Featured,
		"views":                s.Views,
		"tags":                 s.Tags,
		"createdAt":            s.CreatedAt,
		"updatedAt":            s.UpdatedAt,
		"upvoteCount":          s.UpvoteCount(),
		"isUpvoted":            user != nil && services.HasVoted(s.Upvotes, user.ID),
	}
	if s.IdeaID != nil {
		m["ideaId"] = s.IdeaID.Hex()
	}
	if ref, ok := authors[s.Founder]; ok {
		m["founder"] = ref
	} else {
		m["founder"] = models.AuthorRef{ID: s.Founder}
	}
	return m
}

func findStartups(ctx context.Context, filter bson.M, sort string, skip, limit int) ([]models.Startup, error) {
	coll := database.DB.Collection(models.StartupsCollection)
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
	case "funding":
		opts := options.Find().
			SetSort(bson.D{{Key: "fundingAmount", Value: -1}, {Key: "createdAt", Value: -1}}).
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

	var startups []models.Startup
	if err := cursor.All(ctx, &startups); err != nil {
		return nil, err
	}
	return startups, nil
}

// ListStartups handles GET /api/startups. Defaults to active startups; pass
// status to see other lifecycle states.
func ListStartups(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	page, limit, skip := parsePagination(r, 10)
	sort := r.URL.Query().Get("sort")

	filter := bson.M{"status": models.StartupActive}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	if industry := r.URL.Query().Get("industry"); industry != "" {
		filter["industry"] = bson.M{"$in": splitLowerList(industry)}
	}
	if founder := r.URL.Query().Get("founder"); founder != "" {
		filter["founder"] = founder
	}
	if stage := r.URL.Query().Get("stage"); stage != "" {
		if v, err := strconv.Atoi(stage); err == nil {
			filter["stage"] = v
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	startups, err := findStartups(ctx, filter, sort, skip, limit)
	if err != nil {
		respondServerError(w, "list startups", err)
		return
	}

	total, err := database.DB.Collection(models.StartupsCollection).CountDocuments(ctx, filter)
	if err != nil {
		respondServerError(w, "count startups", err)
		return
	}

	founderIDs := make([]string, 0, len(startups))
	for i := range startups {
		founderIDs = append(founderIDs, startups[i].Founder)
	}
	authors, err := services.GetAuthorRefs(founderIDs)
	if err != nil {
		respondServerError(w, "resolve startup founders", err)
		return
	}

	items := make([]map[string]interface{}, 0, len(startups))
	for i := range startups {
		items = append(items, startupMap(&startups[i], user, authors))
	}

	respondOK(w, "", map[string]interface{}{
		"startups":   items,
		"pagination": paginationBlock(page, limit, total),
	})
}

func getStartupByID(ctx context.Context, id primitive.ObjectID) (*models.Startup, error) {
	var s models.Startup
	err := database.DB.Collection(models.StartupsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStartup handles GET /api/startups/{id}.
func GetStartup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	startup, err := getStartupByID(ctx, id)
	if err != nil {
		respondServerError(w, "get startup", err)
		return
	}
	if startup == nil || (startup.Status != models.StartupActive && !canModify(startup.Founder, user)) {
		respondNotFound(w, "Startup not found")
		return
	}

	go incrementViews(models.StartupsCollection, id)

	commentsCount, err := services.CountActiveComments(ctx, models.TargetStartup, id)
	if err != nil {
		respondServerError(w, "count startup comments", err)
		return
	}

	authors, err := services.GetAuthorRefs([]string{startup.Founder})
	if err != nil {
		respondServerError(w, "resolve startup founder", err)
		return
	}

	m := startupMap(startup, user, authors)
	m["commentsCount"] = commentsCount

	respondOK(w, "", map[string]interface{}{"startup": m})
}

// CreateStartup handles POST /api/startups (authenticated). An ideaId, when
// given, must reference an existing idea.
func CreateStartup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req StartupRequest
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

	var ideaID *primitive.ObjectID
	if req.IdeaID != "" {
		id, _ := objectIDParam(req.IdeaID)
		idea, err := getIdeaByID(ctx, id)
		if err != nil {
			respondServerError(w, "verify startup idea", err)
			return
		}
		if idea == nil {
			respondNotFound(w, "Idea not found")
			return
		}
		ideaID = &id
	}

	now := time.Now()
	startup := models.Startup{
		ID:                   primitive.NewObjectID(),
		CreatedAt:            now,
		UpdatedAt:            now,
		Name:                 req.Name,
		Description:          req.Description,
		IdeaID:               ideaID,
		Founder:              user.ID,
		Team:                 req.Team,
		Stage:                req.Stage,
		FundingStatus:        req.FundingStatus,
		FundingAmount:        req.FundingAmount,
		Schemes:              req.Schemes,
		Upvotes:              []string{},
		Milestones:           req.Milestones,
		OnePager:             req.OnePager,
		PitchDeck:            req.PitchDeck,
		Website:              req.Website,
		Logo:                 req.Logo,
		Industry:             lowerTags(req.Industry),
		Location:             req.Location,
		FoundedDate:          req.FoundedDate,
		Employees:            req.Employees,
		Revenue:              req.Revenue,
		BusinessModel:        req.BusinessModel,
		TargetMarket:         req.TargetMarket,
		CompetitiveAdvantage: req.CompetitiveAdvantage,
		SocialLinks:          req.SocialLinks,
		Status:               models.StartupActive,
		Tags:                 lowerTags(req.Tags),
	}
	if req.Status != "" {
		startup.Status = models.StartupStatus(req.Status)
	}

	if _, err := database.DB.Collection(models.StartupsCollection).InsertOne(ctx, startup); err != nil {
		respondServerError(w, "create startup", err)
		return
	}

	authors, _ := services.GetAuthorRefs([]string{user.ID})
	respondCreated(w, "Startup created successfully", map[string]interface{}{
		"startup": startupMap(&startup, user, authors),
	})
}

// UpdateStartup handles PUT /api/startups/{id} (founder/admin). The idea
// reference is re-verified only when it changes.
func UpdateStartup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	var req StartupRequest
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

	startup, err := getStartupByID(ctx, id)
	if err != nil {
		respondServerError(w, "get startup", err)
		return
	}
	if startup == nil {
		respondNotFound(w, "Startup not found")
		return
	}
	if !canModify(startup.Founder, user) {
		respondForbidden(w, "Not authorized to update this startup")
		return
	}

	var ideaID *primitive.ObjectID
	if req.IdeaID != "" {
		parsed, _ := objectIDParam(req.IdeaID)
		if startup.IdeaID == nil || *startup.IdeaID != parsed {
			idea, err := getIdeaByID(ctx, parsed)
			if err != nil {
				respondServerError(w, "verify startup idea", err)
				return
			}
			if idea == nil {
				respondNotFound(w, "Idea not found")
				return
			}
		}
		ideaID = &parsed
	}

	startup.Name = req.Name
	startup.Description = req.Description
	startup.IdeaID = ideaID
	startup.Team = req.Team
	startup.Stage = req.Stage
	startup.FundingStatus = req.FundingStatus
	startup.FundingAmount = req.FundingAmount
	startup.Schemes = req.Schemes
	startup.Milestones = req.Milestones
	startup.OnePager = req.OnePager
	startup.PitchDeck = req.PitchDeck
	startup.Website = req.Website
	startup.Logo = req.Logo
	startup.Industry = lowerTags(req.Industry)
	startup.Location = req.Location
	startup.FoundedDate = req.FoundedDate
	startup.Employees = req.Employees
	startup.Revenue = req.Revenue
	startup.BusinessModel = req.BusinessModel
	startup.TargetMarket = req.TargetMarket
	startup.CompetitiveAdvantage = req.CompetitiveAdvantage
	startup.SocialLinks = req.SocialLinks
	if len(req.Tags) > 0 {
		startup.Tags = lowerTags(req.Tags)
	}
	if req.Status != "" {
		startup.Status = models.StartupStatus(req.Status)
	}
	startup.UpdatedAt = time.Now()

	if _, err := database.DB.Collection(models.StartupsCollection).ReplaceOne(ctx, bson.M{"_id": id}, startup); err != nil {
		respondServerError(w, "update startup", err)
		return
	}

	authors, _ := services.GetAuthorRefs([]string{startup.Founder})
	respondOK(w, "Startup updated successfully", map[string]interface{}{
		"startup": startupMap(startup, user, authors),
	})
}

// DeleteStartup handles DELETE /api/startups/{id} (founder/admin).
func DeleteStartup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	startup, err := getStartupByID(ctx, id)
	if err != nil {
		respondServerError(w, "get startup", err)
		return
	}
	if startup == nil {
		respondNotFound(w, "Startup not found")
		return
	}
	if !canModify(startup.Founder, user) {
		respondForbidden(w, "Not authorized to delete this startup")
		return
	}

	if _, err := database.DB.Collection(models.StartupsCollection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		respondServerError(w, "delete startup", err)
		return
	}

	respondOK(w, "Startup deleted successfully", nil)
}

// ToggleStartupVote handles POST /api/startups/{id}/vote. Startups carry a
// single upvote set with toggle semantics, so there is no body and no
// DELETE route.
func ToggleStartupVote(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	startup, err := getStartupByID(ctx, id)
	if err != nil {
		respondServerError(w, "get startup", err)
		return
	}
	if startup == nil {
		respondNotFound(w, "Startup not found")
		return
	}

	upvotes, added := services.ToggleVote(startup.Upvotes, user.ID)
	startup.Upvotes = upvotes

	if err := services.SaveVoteSets(ctx, models.StartupsCollection, id, bson.M{
		"upvotes": startup.Upvotes,
	}); err != nil {
		respondServerError(w, "toggle startup vote", err)
		return
	}

	message := "Upvote removed successfully"
	if added {
		message = "Startup upvoted successfully"
	}
	respondOK(w, message, map[string]interface{}{
		"upvoteCount": startup.UpvoteCount(),
		"isUpvoted":   added,
	})
}

// MilestoneRequest flips a milestone's completion flag. The rest of the
// milestone (title, date, description) is immutable through this endpoint.
type MilestoneRequest struct {
	Completed bool `json:"completed"`
}

var errMilestoneIndex = errors.New("milestone index out of range")

// setMilestoneCompletion updates only the completed flag of the milestone at
// index, leaving its other fields untouched.
func setMilestoneCompletion(milestones []models.Milestone, index int, completed bool) error {
	if index < 0 || index >= len(milestones) {
		return errMilestoneIndex
	}
	milestones[index].Completed = completed
	return nil
}

// UpdateMilestone handles PUT /api/startups/{id}/milestones/{index}
// (founder/admin). Milestones are addressed by array index.
func UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	id, ok := objectIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "Valid id is required")
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		respondBadRequest(w, "Invalid milestone index")
		return
	}

	var req MilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	startup, err := getStartupByID(ctx, id)
	if err != nil {
		respondServerError(w, "get startup", err)
		return
	}
	if startup == nil {
		respondNotFound(w, "Startup not found")
		return
	}
	if !canModify(startup.Founder, user) {
		respondForbidden(w, "Not authorized to update this startup")
		return
	}
	if err := setMilestoneCompletion(startup.Milestones, index, req.Completed); err != nil {
		respondBadRequest(w, "Invalid milestone index")
		return
	}
	startup.UpdatedAt = time.Now()

	_, err = database.DB.Collection(models.StartupsCollection).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"milestones": startup.Milestones,
			"updatedAt":  startup.UpdatedAt,
		},
	})
	if err != nil {
		respondServerError(w, "update milestone", err)
		return
	}

	respondOK(w, "Milestone updated successfully", map[string]interface{}{
		"milestones":          startup.Milestones,
		"completedMilestones": startup.CompletedMilestones(),
	})
}
