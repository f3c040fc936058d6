package services

import (
	"reflect"
	"testing"
)

func TestParseVoteDirection(t *testing.T) {
	if d, err := ParseVoteDirection("upvote"); err != nil || d != VoteUp {
		t.Errorf("ParseVoteDirection(upvote) = %v, %v", d, err)
	}
	if d, err := ParseVoteDirection("downvote"); err != nil || d != VoteDown {
		t.Errorf("ParseVoteDirection(downvote) = %v, %v", d, err)
	}
	if _, err := ParseVoteDirection("sideways"); err == nil {
		t.Error("ParseVoteDirection(sideways) should fail")
	}
	if _, err := ParseVoteDirection(""); err == nil {
		t.Error("ParseVoteDirection(empty) should fail")
	}
}

func TestApplyVoteNewVote(t *testing.T) {
	up, down, err := ApplyVote(nil, nil, "u1", VoteUp)
	if err != nil {
		t.Fatal(err)
	}
	if !HasVoted(up, "u1") || HasVoted(down, "u1") {
		t.Errorf("after upvote: up=%v down=%v", up, down)
	}
}

func TestApplyVoteFlip(t *testing.T) {
	up := []string{"u1", "u2"}
	down := []string{"u3"}

	up, down, err := ApplyVote(up, down, "u1", VoteDown)
	if err != nil {
		t.Fatal(err)
	}
	if HasVoted(up, "u1") {
		t.Errorf("u1 still in upvotes after flip: %v", up)
	}
	if !HasVoted(down, "u1") {
		t.Errorf("u1 missing from downvotes after flip: %v", down)
	}
	if !HasVoted(up, "u2") || !HasVoted(down, "u3") {
		t.Error("flip disturbed other voters")
	}
}

func TestApplyVoteReassert(t *testing.T) {
	up := []string{"u1"}
	up, down, err := ApplyVote(up, nil, "u1", VoteUp)
	if err != nil {
		t.Fatal(err)
	}
	if len(up) != 1 || len(down) != 0 {
		t.Errorf("reasserting the same vote should not duplicate: up=%v down=%v", up, down)
	}
}

func TestApplyVoteExclusivity(t *testing.T) {
	// A voter is never in both sets no matter the sequence of casts.
	var up, down []string
	var err error
	for _, d := range []VoteDirection{VoteUp, VoteDown, VoteDown, VoteUp, VoteDown} {
		up, down, err = ApplyVote(up, down, "u1", d)
		if err != nil {
			t.Fatal(err)
		}
		if HasVoted(up, "u1") && HasVoted(down, "u1") {
			t.Fatalf("u1 in both sets after %s", d)
		}
		if !HasVoted(up, "u1") && !HasVoted(down, "u1") {
			t.Fatalf("u1 in neither set after %s", d)
		}
	}
}

func TestApplyVoteInvalidDirection(t *testing.T) {
	up := []string{"u1"}
	down := []string{"u2"}
	gotUp, gotDown, err := ApplyVote(up, down, "u3", "sideways")
	if err != ErrInvalidVoteType {
		t.Errorf("expected ErrInvalidVoteType, got %v", err)
	}
	if !reflect.DeepEqual(gotUp, up) || !reflect.DeepEqual(gotDown, down) {
		t.Error("invalid direction must not mutate the sets")
	}
}

func TestRemoveVoteIdempotent(t *testing.T) {
	up := []string{"u1", "u2"}
	down := []string{"u3"}

	up, down = RemoveVote(up, down, "u1")
	if HasVoted(up, "u1") {
		t.Errorf("u1 still present after removal: %v", up)
	}

	// Removing again is a no-op, not an error.
	up2, down2 := RemoveVote(up, down, "u1")
	if !reflect.DeepEqual(up2, up) || !reflect.DeepEqual(down2, down) {
		t.Error("second removal changed the sets")
	}
}

func TestToggleVote(t *testing.T) {
	set, added := ToggleVote(nil, "u1")
	if !added || !HasVoted(set, "u1") {
		t.Errorf("first toggle should add: set=%v added=%v", set, added)
	}

	set, added = ToggleVote(set, "u1")
	if added || HasVoted(set, "u1") {
		t.Errorf("second toggle should remove: set=%v added=%v", set, added)
	}
}

func TestToggleVoteDoesNotMutateInput(t *testing.T) {
	orig := []string{"u1", "u2"}
	ToggleVote(orig, "u3")
	if !reflect.DeepEqual(orig, []string{"u1", "u2"}) {
		t.Errorf("input slice mutated: %v", orig)
	}
}

func TestHasVoted(t *testing.T) {
	set := []string{"a", "b"}
	if !HasVoted(set, "a") {
		t.Error("a should be a member")
	}
	if HasVoted(set, "c") {
		t.Error("c should not be a member")
	}
	if HasVoted(nil, "a") {
		t.Error("nil set has no members")
	}
}
