package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vjhub/vjhub-backend/internal/database"
)

// VoteDirection selects between the two mutually exclusive vote sets.
type VoteDirection string

const (
	VoteUp   VoteDirection = "upvote"
	VoteDown VoteDirection = "downvote"
)

// ErrInvalidVoteType is returned for a direction outside {upvote, downvote}.
var ErrInvalidVoteType = fmt.Errorf("vote type must be %s or %s", VoteUp, VoteDown)

// ParseVoteDirection validates a client-supplied vote type.
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch VoteDirection(s) {
	case VoteUp, VoteDown:
		return VoteDirection(s), nil
	}
	return "", ErrInvalidVoteType
}

// HasVoted reports membership of userID in a vote/like set.
func HasVoted(set []string, userID string) bool {
	for _, id := range set {
		if id == userID {
			return true
		}
	}
	return false
}

func withoutID(set []string, userID string) []string {
	out := make([]string, 0, len(set))
	for _, id := range set {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// ApplyVote strips userID from both sets, then inserts it into the set
// matching direction. A user is therefore in at most one set afterwards.
// Re-casting the same direction reasserts it; switching flips both
// memberships in one pass.
func ApplyVote(upvotes, downvotes []string, userID string, direction VoteDirection) (up, down []string, err error) {
	if direction != VoteUp && direction != VoteDown {
		return upvotes, downvotes, ErrInvalidVoteType
	}
	up = withoutID(upvotes, userID)
	down = withoutID(downvotes, userID)
	if direction == VoteUp {
		up = append(up, userID)
	} else {
		down = append(down, userID)
	}
	return up, down, nil
}

// RemoveVote strips userID from both sets. Idempotent; no error if absent.
func RemoveVote(upvotes, downvotes []string, userID string) (up, down []string) {
	return withoutID(upvotes, userID), withoutID(downvotes, userID)
}

// ToggleVote flips userID's membership in a single set (Startup upvote,
// Comment like). Reports whether the user is a member afterwards.
func ToggleVote(set []string, userID string) (out []string, added bool) {
	if HasVoted(set, userID) {
		return withoutID(set, userID), false
	}
	return append(append([]string{}, set...), userID), true
}

// SaveVoteSets persists updated vote sets on a document. Read-modify-write
// with last-writer-wins semantics; concurrent votes race at the store.
func SaveVoteSets(ctx context.Context, collection string, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	_, err := database.DB.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": fields})
	return err
}
