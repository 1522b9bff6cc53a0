package models

import "time"

// Deployment is a recorded release event on the source-hosting platform.
// Fetched per invocation and never mutated.
type Deployment struct {
	ID          int64
	SHA         string
	Environment string
	CreatedAt   time.Time
}

// Commit is a single commit inside a base→head comparison.
type Commit struct {
	SHA string
	// Parents is the parent count; more than one marks a merge commit,
	// which is excluded from pull request correlation.
	Parents int
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return c.Parents > 1
}
