// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package access

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DocType is forced onto every record by Update.
	DocType = "access"
	// Partition prefixes every document id, a leftover of the partitioned
	// document store this schema started life in.
	Partition = "teams"
)

// Roles, ordered by privilege
const (
	RoleAdmin   = "admin"
	RoleEditor  = "editor"
	RoleUser    = "user"
	RoleRemoved = "removed"
)

// Invitation statuses. Invited is the only non-terminal one: it moves to
// accepted or ignored and never back.
const (
	StatusAccepted = "accepted"
	StatusIgnored  = "ignored"
	StatusInvited  = "invited"
)

var (
	Roles    = []string{RoleAdmin, RoleEditor, RoleUser, RoleRemoved}
	Statuses = []string{StatusAccepted, StatusIgnored, StatusInvited}
)

// RoleNum returns the numeric rank used for authorization comparisons.
// Higher rank means more privilege. Removed (and any unknown role) ranks
// below every valid role, so a removed user fails every rank check.
func RoleNum(acl string) int {
	switch acl {
	case RoleAdmin:
		return 100
	case RoleEditor:
		return 50
	case RoleUser:
		return 10
	}
	return math.MinInt
}

// Record is one user's relationship to one team.
type Record struct {
	ID           string `json:"_id,omitempty"`
	Rev          string `json:"_rev,omitempty"`
	DocType      string `json:"doc_type,omitempty"`
	CreatorSub   string `json:"creator_sub,omitempty"`
	DateCreated  string `json:"date_created,omitempty"`
	DateModified string `json:"date_modified,omitempty"`
	Email        string `json:"email"`
	Team         string `json:"team"`
	Sub          string `json:"sub,omitempty"` // set once the invitation is accepted
	ACL          string `json:"acl,omitempty"`
	Status       string `json:"status,omitempty"`
}

// NewDocID generates a partitioned document id: "teams:" + dashless uuid4.
func NewDocID() string {
	return Partition + ":" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Blank returns a fresh record with a new unique id, empty email/team and
// status "invited". Everything else is filled by Update before the write.
func Blank() Record {
	return Record{
		ID:     NewDocID(),
		Email:  "",
		Team:   "",
		Status: StatusInvited,
	}
}

// Creating strips server-assigned fields from a record in place, in
// anticipation of using it as a template for a new document.
func Creating(doc *Record) {
	doc.ID = ""
	doc.Rev = ""
	doc.CreatorSub = ""
	doc.DateCreated = ""
}

// Update is the single normalization point before every write: it assigns
// an id, creator and creation date if absent (date_created is never
// overwritten once set), always refreshes date_modified, forces team and
// doc_type, and lowercases the email. Idempotent.
func Update(sub string, doc *Record, teamID string) {
	if doc.ID == "" {
		doc.ID = NewDocID()
	}
	if doc.CreatorSub == "" {
		doc.CreatorSub = sub
	}
	if doc.DateCreated == "" {
		doc.DateCreated = nowISO()
	}
	doc.Email = strings.ToLower(doc.Email)
	doc.Team = teamID
	doc.DateModified = nowISO()
	doc.DocType = DocType
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Result reports what Validate found. Stripped fields were removed but do
// not make the document invalid; missing or invalid ones do.
type Result struct {
	Missing  []string // required fields absent
	Invalid  []string // fields violating a constraint
	Stripped []string // unknown fields removed from the document
}

func (r Result) OK() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

var required = []string{"doc_type", "email", "team", "acl", "status"}

// properties is the full declared field set; anything else is stripped.
var properties = []string{
	"_id", "_rev", "doc_type", "creator_sub", "date_created",
	"date_modified", "email", "team", "sub", "acl", "status",
}

// Validate checks the raw JSON form of a record against the schema,
// removing any property outside the declared set. The map form is used so
// unknown client fields can be detected and stripped before persistence.
func Validate(doc map[string]any) Result {
	var res Result

	for key := range doc {
		if !slices.Contains(properties, key) {
			delete(doc, key)
			res.Stripped = append(res.Stripped, key)
		}
	}
	slices.Sort(res.Stripped)

	for _, key := range required {
		if _, ok := doc[key]; !ok {
			res.Missing = append(res.Missing, key)
		}
	}

	for _, key := range properties {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		val, isString := raw.(string)
		if !isString {
			res.Invalid = append(res.Invalid, key)
			continue
		}
		switch key {
		case "doc_type":
			if val != DocType {
				res.Invalid = append(res.Invalid, key)
			}
		case "email":
			if len(val) < 6 {
				res.Invalid = append(res.Invalid, key)
			}
		case "team":
			if len(val) < 1 {
				res.Invalid = append(res.Invalid, key)
			}
		case "acl":
			if !slices.Contains(Roles, val) {
				res.Invalid = append(res.Invalid, key)
			}
		case "status":
			if !slices.Contains(Statuses, val) {
				res.Invalid = append(res.Invalid, key)
			}
		}
	}

	return res
}
