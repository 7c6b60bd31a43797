package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/youthball/portal-crawler/internal/model"
)

// flexString decodes a JSON value that the portal serves sometimes as a
// string and sometimes as a bare number, depending on endpoint and
// season.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

func (s flexString) String() string { return string(s) }

// listEnvelope is the common wrapper of the portal's listing endpoints.
// Most endpoints put list/totalCnt at the top level; the competition
// listing wraps them once more under "data". The one-level fallback is a
// deliberate compatibility shim, not a generic search.
type listEnvelope struct {
	TotalCnt int             `json:"totalCnt"`
	List     json.RawMessage `json:"list"`
	Data     *struct {
		TotalCnt int             `json:"totalCnt"`
		List     json.RawMessage `json:"list"`
	} `json:"data"`
}

func decodeList[T any](body []byte) ([]T, int, error) {
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, fmt.Errorf("decode listing: %w", err)
	}

	raw, total := env.List, env.TotalCnt
	if len(raw) == 0 && env.Data != nil {
		raw, total = env.Data.List, env.Data.TotalCnt
	}
	if len(raw) == 0 {
		return nil, total, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, fmt.Errorf("decode listing items: %w", err)
	}
	return items, total, nil
}

type competitionItem struct {
	Idx        flexString `json:"competitionIdx"`
	Name       string     `json:"competitionName"`
	GradeName  string     `json:"gradeName"`
	StyleName  string     `json:"styleName"`
	StartDate  string     `json:"startDate"`
	EndDate    string     `json:"endDate"`
	Place      string     `json:"place"`
	StageCount flexString `json:"stageCount"`
}

func (it competitionItem) toModel() model.Competition {
	return model.Competition{
		ID:         it.Idx.String(),
		Title:      it.Name,
		GradeLabel: it.GradeName,
		StyleLabel: it.StyleName,
		StartDate:  it.StartDate,
		EndDate:    it.EndDate,
		Venue:      it.Place,
		StageCount: atoi(it.StageCount.String()),
	}
}

type matchItem struct {
	GameIdx        flexString `json:"gameIdx"`
	CompetitionIdx flexString `json:"competitionIdx"`
	GameNo         string     `json:"gameNo"`
	GroupName      string     `json:"groupName"`
	GameTime       string     `json:"gameTime"`
	Place          string     `json:"place"`
	GameDate       string     `json:"gameDate"`
	HomeTeamName   string     `json:"homeTeamName"`
	AwayTeamName   string     `json:"awayTeamName"`
	HomeScore      flexString `json:"homeScore"`
	AwayScore      flexString `json:"awayScore"`
	HomePKScore    flexString `json:"homePkScore"`
	AwayPKScore    flexString `json:"awayPkScore"`
	ScoreDesc      string     `json:"scoreDesc"`
	GradeName      string     `json:"gradeName"`
}

func (it matchItem) toModel(competitionID string) model.MatchResult {
	owner := it.CompetitionIdx.String()
	if owner == "" {
		owner = competitionID
	}
	return model.MatchResult{
		GameID:        it.GameIdx.String(),
		CompetitionID: owner,
		MatchNumber:   it.GameNo,
		GroupName:     it.GroupName,
		KickoffTime:   it.GameTime,
		Venue:         it.Place,
		Date:          it.GameDate,
		HomeTeam:      it.HomeTeamName,
		AwayTeam:      it.AwayTeamName,
		HomeScore:     it.HomeScore.String(),
		AwayScore:     it.AwayScore.String(),
		HomePKScore:   it.HomePKScore.String(),
		AwayPKScore:   it.AwayPKScore.String(),
		ScoreSummary:  it.ScoreDesc,
		GradeLabel:    it.GradeName,
	}
}

type teamItem struct {
	TeamIdx        flexString `json:"teamIdx"`
	TeamName       string     `json:"teamName"`
	EmblemURL      string     `json:"emblemUrl"`
	VirtualYn      string     `json:"virtualYn"`
	CompetitionIdx flexString `json:"competitionIdx"`
	GradeName      string     `json:"gradeName"`
}

func (it teamItem) toModel(competitionID string) model.Team {
	owner := it.CompetitionIdx.String()
	if owner == "" {
		owner = competitionID
	}
	return model.Team{
		ID:            it.TeamIdx.String(),
		Name:          it.TeamName,
		EmblemURL:     it.EmblemURL,
		Virtual:       yn(it.VirtualYn),
		CompetitionID: owner,
		GradeLabel:    it.GradeName,
	}
}

type playerItem struct {
	TeamIdx    flexString `json:"teamIdx"`
	PlayerName string     `json:"playerName"`
	BackNo     flexString `json:"backNo"`
	Position   string     `json:"position"`
	PhotoURL   string     `json:"photoUrl"`
	BirthDate  string     `json:"birthDate"`
	Height     flexString `json:"height"`
	Weight     flexString `json:"weight"`
	EndYn      string     `json:"endYn"`
	GradeName  string     `json:"gradeName"`
}

func (it playerItem) toModel(team model.Team) model.Player {
	teamID := it.TeamIdx.String()
	if teamID == "" {
		teamID = team.ID
	}
	grade := it.GradeName
	if grade == "" {
		grade = team.GradeLabel
	}
	return model.Player{
		TeamID:      teamID,
		Name:        it.PlayerName,
		SquadNumber: it.BackNo.String(),
		Position:    it.Position,
		PhotoURL:    it.PhotoURL,
		BirthDate:   it.BirthDate,
		Height:      it.Height.String(),
		Weight:      it.Weight.String(),
		Ended:       yn(it.EndYn),
		GradeLabel:  grade,
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func yn(s string) bool { return s == "Y" || s == "y" }
