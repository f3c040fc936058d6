package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const IdeasCollection = "ideas"

// StageLabels maps the 1-9 stage number to its display label.
var StageLabels = []string{
	"Ideation", "Research", "Validation", "Prototype", "Testing",
	"Launch Prep", "MVP Launch", "Growth", "Scale/Exit",
}

// StageLabel returns the display label for a 1-9 stage, or "Unknown".
func StageLabel(stage int) string {
	if stage < 1 || stage > len(StageLabels) {
		return "Unknown"
	}
	return StageLabels[stage-1]
}

// TeamMember is an embedded team entry on an Idea.
type TeamMember struct {
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Role   string `bson:"role" json:"role"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
	UserID string `bson:"userId,omitempty" json:"userId,omitempty"`
}

// TimelineEntry is a planned milestone on an Idea.
type TimelineEntry struct {
	Milestone  string    `bson:"milestone" json:"milestone"`
	TargetDate time.Time `bson:"targetDate" json:"targetDate"`
	Completed  bool      `bson:"completed" json:"completed"`
}

// Idea is a proposed solution to a Problem.
type Idea struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
	Title                string             `bson:"title" json:"title"`
	Description          string             `bson:"description" json:"description"`
	ProblemID            primitive.ObjectID `bson:"problemId" json:"problemId"`
	Author               string             `bson:"author" json:"author"`
	Team                 []TeamMember       `bson:"team" json:"team"`
	Stage                int                `bson:"stage" json:"stage"`
	Mentor               string             `bson:"mentor,omitempty" json:"mentor,omitempty"`
	Attachments          []string           `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Contact              string             `bson:"contact" json:"contact"`
	Upvotes              []string           `bson:"upvotes" json:"-"`
	Downvotes            []string           `bson:"downvotes" json:"-"`
	Views                int64              `bson:"views" json:"views"`
	Status               EntityStatus       `bson:"status" json:"status"`
	Featured             bool               `bson:"featured" json:"featured"`
	Tags                 []string           `bson:"tags" json:"tags"`
	BusinessModel        string             `bson:"businessModel,omitempty" json:"businessModel,omitempty"`
	TargetMarket         string             `bson:"targetMarket,omitempty" json:"targetMarket,omitempty"`
	CompetitiveAdvantage string             `bson:"competitiveAdvantage,omitempty" json:"competitiveAdvantage,omitempty"`
	FundingNeeds         string             `bson:"fundingNeeds,omitempty" json:"fundingNeeds,omitempty"`
	Timeline             []TimelineEntry    `bson:"timeline,omitempty" json:"timeline,omitempty"`
}

func (i *Idea) UpvoteCount() int   { return len(i.Upvotes) }
func (i *Idea) DownvoteCount() int { return len(i.Downvotes) }
func (i *Idea) NetVotes() int      { return len(i.Upvotes) - len(i.Downvotes) }
