package linear

import (
	"regexp"
	"strings"
)

// Ticket references look like "ABC-123": an alphabetic team prefix, a
// hyphen, and the issue number. Branch resolution only accepts a leading
// reference; text resolution picks up every token in the scanned string.
var (
	branchTicketPattern = regexp.MustCompile(`^[A-Za-z]+-\d+`)
	ticketTokenPattern  = regexp.MustCompile(`\b[A-Za-z]+-\d+\b`)
)

// BranchTicketID returns the ticket identifier a branch name starts with,
// normalized to upper case, or "" when the branch carries none.
// "zup-421-fix-login" yields "ZUP-421"; "feature/zup-421" yields "".
func BranchTicketID(branch string) string {
	m := branchTicketPattern.FindString(branch)
	if m == "" {
		return ""
	}
	return strings.ToUpper(m)
}

// TicketIDs returns every ticket-style token found in text, normalized to
// upper case, deduplicated, in order of first appearance.
func TicketIDs(text string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range ticketTokenPattern.FindAllString(text, -1) {
		id := strings.ToUpper(m)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
