package domain

import "time"

// Proposal is a stake-weighted proposal to change the system default
// interest rate. Vote weight is snapshotted at vote time; withdrawing
// stake afterwards does not reduce recorded votes.
type Proposal struct {
	ID           uint64
	ProposedRate int64
	VotesFor     int64
	VotesAgainst int64
	Voters       map[string]bool
	CreatedAt    time.Time
	Finalized    bool
}

// HasVoted reports whether the identity already voted on the proposal.
func (p *Proposal) HasVoted(id string) bool {
	return p.Voters[id]
}

// Passed reports whether the proposal carries.
func (p *Proposal) Passed() bool {
	return p.VotesFor > p.VotesAgainst
}

// Clone returns a deep copy.
func (p *Proposal) Clone() *Proposal {
	c := *p
	c.Voters = make(map[string]bool, len(p.Voters))
	for k, v := range p.Voters {
		c.Voters[k] = v
	}
	return &c
}
