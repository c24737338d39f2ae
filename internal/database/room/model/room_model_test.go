package model

import (
	"strings"
	"testing"
)

func TestNewCode(t *testing.T) {
	t.Parallel()

	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		code := NewCode()
		if len(code) != CodeLength {
			t.Fatalf("expected %d characters, got %q", CodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("unexpected character %q in %q", r, code)
			}
		}
		seen[code] = struct{}{}
	}

	if len(seen) < 90 {
		t.Errorf("codes repeat too often: %d unique of 100", len(seen))
	}
}

func TestNewRoom(t *testing.T) {
	t.Parallel()

	r := NewRoom("ABC123", "host", "first_to_5")
	if r.ID == "" || r.Teams[0].ID == "" || r.Teams[0].ID == r.Teams[1].ID {
		t.Fatalf("ids must be generated and distinct: %+v", r)
	}
	if r.Teams[0].Number != 1 || r.Teams[1].Number != 2 {
		t.Errorf("teams must be numbered 1 and 2: %+v", r.Teams)
	}

	r.Teams[0].Players = []Player{{UserID: "u1", Username: "one"}}
	if !r.Teams[0].Has("u1") || r.Teams[1].Has("u1") {
		t.Error("Has must only match the team's players")
	}
}
