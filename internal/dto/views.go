package dto

// EntrantPublicView is what anonymous voters see.
type EntrantPublicView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Photo    string `json:"photo"`
}

// EntrantAdminView adds the live tally for dashboards and reports.
type EntrantAdminView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Photo      string `json:"photo"`
	TotalVotes int64  `json:"total_votes"`
}

// DashboardStats is the system-wide aggregate view.
type DashboardStats struct {
	TotalVotesSystem int64            `json:"total_votes_system"`
	VotesByCategory  map[string]int64 `json:"votes_by_category"`
}

// VoteUpdate is broadcast to live observers on every accepted vote.
type VoteUpdate struct {
	Type          string `json:"type"`
	EntrantID     string `json:"contestant_id"`
	NewTotalVotes int64  `json:"new_total_votes"`
	SystemTotal   int64  `json:"system_total"`
}

const VoteUpdateType = "VOTE_UPDATE"

type LoginRequest struct {
	Username string `json:"username"`
}

type LoginResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type VoteRequest struct {
	UserID    string `json:"user_id"`
	EntrantID string `json:"contestant_id"`
}
