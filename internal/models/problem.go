package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntityStatus is the publication state of a Problem or Idea.
type EntityStatus string

const (
	StatusDraft     EntityStatus = "draft"
	StatusPublished EntityStatus = "published"
	StatusArchived  EntityStatus = "archived"
)

const ProblemsCollection = "problems"

// Problem is a student-posted problem statement. Vote sets hold user IDs;
// counts are always derived at read time, never stored.
type Problem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	Title       string             `bson:"title" json:"title"`
	Excerpt     string             `bson:"excerpt" json:"excerpt"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Author      string             `bson:"author" json:"author"`
	Tags        []string           `bson:"tags" json:"tags"`
	Background  string             `bson:"background,omitempty" json:"background,omitempty"`
	Scalability string             `bson:"scalability,omitempty" json:"scalability,omitempty"`
	MarketSize  string             `bson:"marketSize,omitempty" json:"marketSize,omitempty"`
	Competitors []string           `bson:"competitors,omitempty" json:"competitors,omitempty"`
	CurrentGaps string             `bson:"currentGaps,omitempty" json:"currentGaps,omitempty"`
	Upvotes     []string           `bson:"upvotes" json:"-"`
	Downvotes   []string           `bson:"downvotes" json:"-"`
	Views       int64              `bson:"views" json:"views"`
	Status      EntityStatus       `bson:"status" json:"status"`
	Featured    bool               `bson:"featured" json:"featured"`
}

func (p *Problem) UpvoteCount() int   { return len(p.Upvotes) }
func (p *Problem) DownvoteCount() int { return len(p.Downvotes) }
func (p *Problem) NetVotes() int      { return len(p.Upvotes) - len(p.Downvotes) }
