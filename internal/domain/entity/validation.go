package entity

import (
	"regexp"
	"time"
)

// DateLayout is the canonical date format used throughout the pipeline
// for run dates, archive filenames and report titles.
const DateLayout = "2006-01-02"

// arXiv identifiers: modern "2408.01234" (optionally with version suffix)
// or legacy "math.AG/0601001" style.
var paperIDPattern = regexp.MustCompile(`^([a-z-]+(\.[A-Z]{2})?/\d{7}|\d{4}\.\d{4,5})(v\d+)?$`)

// ValidatePaperID checks that an arXiv identifier is well formed.
// Returns a ValidationError for empty or malformed identifiers.
func ValidatePaperID(id string) error {
	if id == "" {
		return &ValidationError{Field: "id", Message: "paper ID is required"}
	}
	if !paperIDPattern.MatchString(id) {
		return &ValidationError{Field: "id", Message: "malformed arXiv identifier: " + id}
	}
	return nil
}

// ValidateDate checks that a run date string is in YYYY-MM-DD form.
func ValidateDate(date string) error {
	if date == "" {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return &ValidationError{Field: "date", Message: "date must be YYYY-MM-DD: " + date}
	}
	return nil
}

// ValidatePaper checks the invariants a fetched paper must satisfy before
// entering the pipeline: a well-formed ID and a non-empty title.
func ValidatePaper(p *Paper) error {
	if p == nil {
		return &ValidationError{Field: "paper", Message: "paper is required"}
	}
	if err := ValidatePaperID(p.ID); err != nil {
		return err
	}
	if p.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	return nil
}
