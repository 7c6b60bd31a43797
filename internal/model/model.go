// Package model defines the entity records produced by a harvest run.
// All types are plain value records built once from parsed portal
// responses and never mutated afterwards.
package model

// Competition is one tournament or league instance for a year and grade.
// The portal-assigned ID is its natural key.
type Competition struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	GradeLabel string `json:"gradeLabel"`
	StyleLabel string `json:"styleLabel"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Venue      string `json:"venue"`
	StageCount int    `json:"stageCount"`
}

// Team is one squad registered under a competition. The same team (by
// portal ID) may appear under several competitions; CompetitionID records
// the association the row was harvested from.
type Team struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EmblemURL     string `json:"emblemUrl"`
	Virtual       bool   `json:"virtual"`
	CompetitionID string `json:"competitionId"`
	GradeLabel    string `json:"gradeLabel"`
}

// Player is one roster entry. The portal exposes no stable player ID, so
// the natural key is the composite (TeamID, Name, SquadNumber).
type Player struct {
	TeamID      string `json:"teamId"`
	Name        string `json:"name"`
	SquadNumber string `json:"squadNumber"`
	Position    string `json:"position"`
	PhotoURL    string `json:"photoUrl"`
	BirthDate   string `json:"birthDate"`
	Height      string `json:"height"`
	Weight      string `json:"weight"`
	Ended       bool   `json:"ended"`
	GradeLabel  string `json:"gradeLabel"`
}

// Key returns the composite natural key used for de-duplication.
func (p Player) Key() string {
	return p.TeamID + "|" + p.Name + "|" + p.SquadNumber
}

// MatchResult is one scheduled or finished game, keyed by the portal's
// per-game ID. Scores are kept as the portal's text values; an empty
// score means the game has not been played.
type MatchResult struct {
	GameID        string `json:"gameId"`
	CompetitionID string `json:"competitionId"`
	MatchNumber   string `json:"matchNumber"`
	GroupName     string `json:"groupName"`
	KickoffTime   string `json:"kickoffTime"`
	Venue         string `json:"venue"`
	Date          string `json:"date"`
	HomeTeam      string `json:"homeTeam"`
	AwayTeam      string `json:"awayTeam"`
	HomeScore     string `json:"homeScore"`
	AwayScore     string `json:"awayScore"`
	HomePKScore   string `json:"homePkScore"`
	AwayPKScore   string `json:"awayPkScore"`
	ScoreSummary  string `json:"scoreSummary"`
	GradeLabel    string `json:"gradeLabel"`
}

// Finished reports whether the game carries a score, which is the filter
// for requesting match detail.
func (r MatchResult) Finished() bool {
	if r.ScoreSummary != "" {
		return true
	}
	return r.HomeScore != "" && r.AwayScore != ""
}
