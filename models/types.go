package models

// Contest type constants
const (
	TypeCandidate  = "Candidate"
	TypeReferendum = "Referendum"
)

// Request types

type CreateTeamRequest struct {
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// UpdateInviteRequest is the caller-side accept/ignore of their own
// invitation. Status must be "accepted" or "ignored".
type UpdateInviteRequest struct {
	Status string `json:"status"`
}

// Domain types

type Team struct {
	Slug         string `json:"slug"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description,omitempty"`
	CreatorSub   string `json:"creator_sub,omitempty"`
	DateCreated  string `json:"date_created,omitempty"`
	DateModified string `json:"date_modified,omitempty"`
}

type Election struct {
	ID           string `json:"_id,omitempty"`
	Rev          string `json:"_rev,omitempty"`
	Team         string `json:"team"`
	Name         string `json:"name"`
	ElectionDate string `json:"election_date,omitempty"` // MM/dd/yy display format
	DateCreated  string `json:"date_created,omitempty"`
	DateModified string `json:"date_modified,omitempty"`
}

// ContestDoc holds an ordered list of contests. Contests are edited and
// deleted at sub-document granularity, so callers address a contest by
// document id plus index within the document.
type ContestDoc struct {
	ID       string    `json:"_id,omitempty"`
	Rev      string    `json:"_rev,omitempty"`
	Team     string    `json:"team"`
	Contests []Contest `json:"contests"`
}

type Contest struct {
	Office          string      `json:"office"`
	Type            string      `json:"type"`
	ReferendumTitle string      `json:"referendumTitle,omitempty"`
	ReferendumText  string      `json:"referendumText,omitempty"`
	Candidates      []Candidate `json:"candidates"`
}

type Candidate struct {
	Name         string `json:"name"`
	Party        string `json:"party"`
	CandidateURL string `json:"candidateUrl"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Editing      bool   `json:"editing"` // UI editing flag, carried through as-is
}

// MergedContest is a contest flattened out of its document, tagged with the
// owning document id and its index within that document.
type MergedContest struct {
	Contest
	DocID    string `json:"doc_id"`
	DocIndex int    `json:"doc_index"`
}

// Ballot is the client-only local ballot: contest key (office, or
// referendum title for referendum contests) to chosen candidate. Never
// synchronized to the server.
type Ballot struct {
	Votes map[string]Candidate `json:"votes"`
}

// BallotKey returns the ballot key for a contest. Referenda have no fixed
// office, so they key by referendum title.
func BallotKey(c Contest) string {
	if c.Type == TypeReferendum {
		return c.ReferendumTitle
	}
	return c.Office
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
