package validate

import (
	"strings"
	"testing"
)

func TestLength(t *testing.T) {
	var errs Errors
	errs.Length("title", "valid title", 5, 200)
	if !errs.OK() {
		t.Errorf("valid title rejected: %v", errs)
	}

	errs = nil
	errs.Length("title", "shrt", 5, 200)
	if errs.OK() {
		t.Error("4-char title should fail a 5-char minimum")
	}

	errs = nil
	errs.Length("title", strings.Repeat("x", 201), 5, 200)
	if errs.OK() {
		t.Error("201-char title should fail a 200-char maximum")
	}

	// Whitespace doesn't count toward the minimum.
	errs = nil
	errs.Length("title", "  ab  ", 5, 200)
	if errs.OK() {
		t.Error("padded 2-char title should fail a 5-char minimum")
	}
}

func TestLengthOptional(t *testing.T) {
	var errs Errors
	errs.Length("background", "", 0, 2000)
	if !errs.OK() {
		t.Errorf("empty optional field rejected: %v", errs)
	}

	errs = nil
	errs.Length("background", strings.Repeat("x", 2001), 0, 2000)
	if errs.OK() {
		t.Error("overlong optional field should fail")
	}
}

func TestRequired(t *testing.T) {
	var errs Errors
	errs.Required("firstName", "Ada")
	if !errs.OK() {
		t.Errorf("non-empty value rejected: %v", errs)
	}

	errs = nil
	errs.Required("firstName", "   ")
	if errs.OK() {
		t.Error("whitespace-only value should fail")
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@uni.edu", "x+tag@example.org"}
	for _, v := range valid {
		var errs Errors
		errs.Email("email", v)
		if !errs.OK() {
			t.Errorf("valid email %q rejected", v)
		}
	}

	invalid := []string{"", "plain", "@nope.com", "a@b", "a b@c.com", "a@"}
	for _, v := range invalid {
		var errs Errors
		errs.Email("email", v)
		if errs.OK() {
			t.Errorf("invalid email %q accepted", v)
		}
	}
}

func TestIntRange(t *testing.T) {
	var errs Errors
	errs.IntRange("stage", 1, 1, 9)
	errs.IntRange("stage", 9, 1, 9)
	if !errs.OK() {
		t.Errorf("boundary values rejected: %v", errs)
	}

	errs = nil
	errs.IntRange("stage", 0, 1, 9)
	errs.IntRange("stage", 10, 1, 9)
	if len(errs) != 2 {
		t.Errorf("out-of-range values accepted: %v", errs)
	}
}

func TestOneOf(t *testing.T) {
	var errs Errors
	errs.OneOf("status", "draft", "draft", "published", "archived")
	if !errs.OK() {
		t.Errorf("allowed value rejected: %v", errs)
	}

	errs = nil
	errs.OneOf("status", "bogus", "draft", "published", "archived")
	if errs.OK() {
		t.Error("disallowed value accepted")
	}
}

func TestObjectID(t *testing.T) {
	var errs Errors
	errs.ObjectID("problemId", "507f1f77bcf86cd799439011")
	if !errs.OK() {
		t.Errorf("valid ObjectID rejected: %v", errs)
	}

	errs = nil
	errs.ObjectID("problemId", "not-an-id")
	if errs.OK() {
		t.Error("invalid ObjectID accepted")
	}
}

func TestErrorsAccumulate(t *testing.T) {
	var errs Errors
	errs.Required("a", "")
	errs.Required("b", "")
	errs.Email("c", "bad")
	if len(errs) != 3 {
		t.Errorf("expected 3 accumulated errors, got %d", len(errs))
	}
	if errs[0].Field != "a" || errs[1].Field != "b" || errs[2].Field != "c" {
		t.Errorf("errors out of order: %v", errs)
	}
}
