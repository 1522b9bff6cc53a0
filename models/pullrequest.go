package models

// PullRequest represents a pull request associated with a deployed commit.
type PullRequest struct {
	Number     int
	Title      string
	Body       string
	URL        string
	HeadBranch string
	BaseBranch string
	// Author is the platform handle shown in the message. A trailing
	// "(#N)" back-reference in the title replaces it with the author of
	// the linked pull request.
	Author string
	// Tickets are the issue-tracker tickets resolved for this PR.
	// Identifiers within the list are unique.
	Tickets []Ticket
}

// HasTicket reports whether a ticket with the given identifier is already
// attached to the pull request.
func (p *PullRequest) HasTicket(identifier string) bool {
	for _, t := range p.Tickets {
		if t.Identifier == identifier {
			return true
		}
	}
	return false
}

// AddTicket appends t unless a ticket with the same identifier is present.
func (p *PullRequest) AddTicket(t Ticket) {
	if p.HasTicket(t.Identifier) {
		return
	}
	p.Tickets = append(p.Tickets, t)
}

// Ticket is an issue-tracker reference resolved from a branch name or from
// free text (e.g. "ABC-123").
type Ticket struct {
	Identifier string
	Title      string
	URL        string
}
