package domain

import "testing"

func TestProposal_Passed(t *testing.T) {
	cases := []struct {
		name    string
		votesF  int64
		votesA  int64
		expects bool
	}{
		{"majority for", 2_000_000, 1_000_000, true},
		{"majority against", 1_000_000, 2_000_000, false},
		{"tie fails", 1_000_000, 1_000_000, false},
		{"no votes fails", 0, 0, false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			p := &Proposal{VotesFor: tt.votesF, VotesAgainst: tt.votesA}
			if p.Passed() != tt.expects {
				t.Errorf("expected passed=%v", tt.expects)
			}
		})
	}
}

func TestProposal_Clone(t *testing.T) {
	p := &Proposal{ID: 1, Voters: map[string]bool{"staker-1": true}}

	c := p.Clone()
	c.Voters["staker-2"] = true

	if p.HasVoted("staker-2") {
		t.Error("clone must not share the voters map")
	}
	if !c.HasVoted("staker-1") {
		t.Error("clone must carry existing voters")
	}
}
