package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StartupStatus is the lifecycle state of a Startup.
type StartupStatus string

const (
	StartupActive   StartupStatus = "active"
	StartupAcquired StartupStatus = "acquired"
	StartupClosed   StartupStatus = "closed"
	StartupPaused   StartupStatus = "paused"
)

const StartupsCollection = "startups"

// Milestone is an embedded progress marker on a Startup, addressed by index.
type Milestone struct {
	Title       string    `bson:"title" json:"title"`
	Date        time.Time `bson:"date" json:"date"`
	Completed   bool      `bson:"completed" json:"completed"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
}

// SocialLinks holds optional outbound links for a Startup.
type SocialLinks struct {
	Website  string `bson:"website,omitempty" json:"website,omitempty"`
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter  string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook string `bson:"facebook,omitempty" json:"facebook,omitempty"`
}

// Startup tracks a venture grown out of an Idea. Startups support upvotes
// only (toggle semantics), no downvotes.
type Startup struct {
	ID                   primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CreatedAt            time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time           `bson:"updatedAt" json:"updatedAt"`
	Name                 string              `bson:"name" json:"name"`
	Description          string              `bson:"description" json:"description"`
	IdeaID               *primitive.ObjectID `bson:"ideaId,omitempty" json:"ideaId,omitempty"`
	Founder              string              `bson:"founder" json:"founder"`
	Team                 []TeamMember        `bson:"team" json:"team"`
	Stage                int                 `bson:"stage" json:"stage"`
	FundingStatus        string              `bson:"fundingStatus" json:"fundingStatus"`
	FundingAmount        float64             `bson:"fundingAmount,omitempty" json:"fundingAmount,omitempty"`
	Schemes              []string            `bson:"schemes,omitempty" json:"schemes,omitempty"`
	Upvotes              []string            `bson:"upvotes" json:"-"`
	Milestones           []Milestone         `bson:"milestones" json:"milestones"`
	OnePager             string              `bson:"onePager,omitempty" json:"onePager,omitempty"`
	PitchDeck            string              `bson:"pitchDeck,omitempty" json:"pitchDeck,omitempty"`
	Website              string              `bson:"website,omitempty" json:"website,omitempty"`
	Logo                 string              `bson:"logo,omitempty" json:"logo,omitempty"`
	Industry             []string            `bson:"industry" json:"industry"`
	Location             string              `bson:"location,omitempty" json:"location,omitempty"`
	FoundedDate          time.Time           `bson:"foundedDate" json:"foundedDate"`
	Employees            int                 `bson:"employees,omitempty" json:"employees,omitempty"`
	Revenue              float64             `bson:"revenue,omitempty" json:"revenue,omitempty"`
	BusinessModel        string              `bson:"businessModel" json:"businessModel"`
	TargetMarket         string              `bson:"targetMarket" json:"targetMarket"`
	CompetitiveAdvantage string              `bson:"competitiveAdvantage" json:"competitiveAdvantage"`
	SocialLinks          *SocialLinks        `bson:"socialLinks,omitempty" json:"socialLinks,omitempty"`
	Status               StartupStatus       `bson:"status" json:"status"`
	Featured             bool                `bson:"featured" json:"featured"`
	Views                int64               `bson:"views" json:"views"`
	Tags                 []string            `bson:"tags" json:"tags"`
}

func (s *Startup) UpvoteCount() int { return len(s.Upvotes) }

// CompletedMilestones counts milestones flagged as completed.
func (s *Startup) CompletedMilestones() int {
	n := 0
	for _, m := range s.Milestones {
		if m.Completed {
			n++
		}
	}
	return n
}
