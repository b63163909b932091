package types

import (
	"errors"
	"testing"
)

func TestValidateExternalID(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in string
		ok bool
	}{
		{"ext1", true}, {"a", true}, {"   ", true}, {"", false},
	}
	for _, c := range cases {
		err := ValidateExternalID(c.in)
		if c.ok && err != nil {
			t.Fatalf("expected ok for %q, got %v", c.in, err)
		}
		if !c.ok && !errors.Is(err, ErrMissingExternalID) {
			t.Fatalf("expected ErrMissingExternalID for %q, got %v", c.in, err)
		}
	}
}

func TestValidateFavoriteID(t *testing.T) {
	t.Parallel()
	if err := ValidateFavoriteID(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range []int{0, -1} {
		if err := ValidateFavoriteID(id); !errors.Is(err, ErrMissingFavoriteID) {
			t.Fatalf("expected ErrMissingFavoriteID for %d, got %v", id, err)
		}
	}
}

func TestFavoriteDataWithout(t *testing.T) {
	t.Parallel()
	in := FavoriteData{"user_id": 5, "name": "x"}
	out := in.Without("user_id")
	if _, ok := out["user_id"]; ok {
		t.Fatal("user_id should be stripped")
	}
	if out["name"] != "x" {
		t.Fatalf("name lost: %+v", out)
	}
	if _, ok := in["user_id"]; !ok {
		t.Fatal("input map must not be mutated")
	}
}
