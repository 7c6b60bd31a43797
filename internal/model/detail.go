package model

// MatchDetail is the full report for one finished game, keyed by the
// game ID plus its owning competition. The header fields mirror the
// MatchResult the detail was requested for.
type MatchDetail struct {
	GameID        string `json:"gameId"`
	CompetitionID string `json:"competitionId"`
	Date          string `json:"date"`
	KickoffTime   string `json:"kickoffTime"`
	Venue         string `json:"venue"`
	HomeTeam      string `json:"homeTeam"`
	AwayTeam      string `json:"awayTeam"`
	HomeScore     string `json:"homeScore"`
	AwayScore     string `json:"awayScore"`
	HomePKScore   string `json:"homePkScore"`
	AwayPKScore   string `json:"awayPkScore"`

	HomeFirstHalf  string `json:"homeFirstHalf"`
	HomeSecondHalf string `json:"homeSecondHalf"`
	AwayFirstHalf  string `json:"awayFirstHalf"`
	AwaySecondHalf string `json:"awaySecondHalf"`

	Referee       string `json:"referee"`
	Weather       string `json:"weather"`
	Attendance    int    `json:"attendance"`
	ElapsedMinute int    `json:"elapsedMinute"`
	HomeCoach     string `json:"homeCoach"`
	AwayCoach     string `json:"awayCoach"`
	HomeYellow    int    `json:"homeYellow"`
	HomeRed       int    `json:"homeRed"`
	AwayYellow    int    `json:"awayYellow"`
	AwayRed       int    `json:"awayRed"`

	Events []Event `json:"events"`

	HomeStarters    []LineupPlayer `json:"homeStarters"`
	HomeSubstitutes []LineupPlayer `json:"homeSubstitutes"`
	AwayStarters    []LineupPlayer `json:"awayStarters"`
	AwaySubstitutes []LineupPlayer `json:"awaySubstitutes"`
}

// Event is one timeline entry (goal, card, substitution) inside a match
// detail, in the order the portal reports them.
type Event struct {
	PlayerName  string `json:"playerName"`
	TypeCode    string `json:"typeCode"`
	Minute      int    `json:"minute"`
	SquadNumber string `json:"squadNumber"`
	Side        string `json:"side"`
	Penalty     bool   `json:"penalty"`
}

// LineupPlayer is one entry of a match lineup table.
type LineupPlayer struct {
	Name          string `json:"name"`
	Position      string `json:"position"`
	SquadNumber   string `json:"squadNumber"`
	MinutesPlayed int    `json:"minutesPlayed"`
	Status        string `json:"status"`
	Captain       bool   `json:"captain"`
	GoalMinutes   string `json:"goalMinutes"`
	CardMinutes   string `json:"cardMinutes"`
	AssistMinutes string `json:"assistMinutes"`
}
