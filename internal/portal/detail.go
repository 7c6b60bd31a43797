package portal

import (
	"github.com/youthball/portal-crawler/internal/model"
	"github.com/youthball/portal-crawler/internal/protocol"
)

// Response table ids of the game-detail RPC.
const (
	tableGameInfo   = "gameInfo"
	tableEventList  = "eventList"
	tableLineupHome = "lineupHome"
	tableLineupAway = "lineupAway"
)

const starterStatus = "S"

// buildDetail maps the decoded protocol tables onto a typed MatchDetail.
// Header fields mirror the MatchResult the detail was requested for;
// every table lookup is best-effort because the remote schema drifts
// between seasons.
func buildDetail(result model.MatchResult, tables map[string][]protocol.Row) *model.MatchDetail {
	detail := &model.MatchDetail{
		GameID:        result.GameID,
		CompetitionID: result.CompetitionID,
		Date:          result.Date,
		KickoffTime:   result.KickoffTime,
		Venue:         result.Venue,
		HomeTeam:      result.HomeTeam,
		AwayTeam:      result.AwayTeam,
		HomeScore:     result.HomeScore,
		AwayScore:     result.AwayScore,
		HomePKScore:   result.HomePKScore,
		AwayPKScore:   result.AwayPKScore,
	}

	if rows := tables[tableGameInfo]; len(rows) > 0 {
		info := rows[0]
		detail.HomeFirstHalf = info.Get("HOME_HALF1")
		detail.HomeSecondHalf = info.Get("HOME_HALF2")
		detail.AwayFirstHalf = info.Get("AWAY_HALF1")
		detail.AwaySecondHalf = info.Get("AWAY_HALF2")
		detail.Referee = info.Get("REFEREE")
		detail.Weather = info.Get("WEATHER")
		detail.Attendance = atoi(info.Get("SPECTATORS"))
		detail.ElapsedMinute = atoi(info.Get("PLAY_TIME"))
		detail.HomeCoach = info.Get("HOME_COACH")
		detail.AwayCoach = info.Get("AWAY_COACH")
		detail.HomeYellow = atoi(info.Get("HOME_YELLOW"))
		detail.HomeRed = atoi(info.Get("HOME_RED"))
		detail.AwayYellow = atoi(info.Get("AWAY_YELLOW"))
		detail.AwayRed = atoi(info.Get("AWAY_RED"))
	}

	for _, row := range tables[tableEventList] {
		detail.Events = append(detail.Events, model.Event{
			PlayerName:  row.Get("PLAYER_NAME"),
			TypeCode:    row.Get("EVENT_CD"),
			Minute:      atoi(row.Get("EVENT_MINUTE")),
			SquadNumber: row.Get("BACK_NO"),
			Side:        row.Get("TEAM_SIDE"),
			Penalty:     yn(row.Get("PK_YN")),
		})
	}

	detail.HomeStarters, detail.HomeSubstitutes = splitLineup(tables[tableLineupHome])
	detail.AwayStarters, detail.AwaySubstitutes = splitLineup(tables[tableLineupAway])

	return detail
}

// splitLineup partitions one lineup table into starters and substitutes
// by its status column, keeping the portal's row order within each list.
func splitLineup(rows []protocol.Row) (starters, substitutes []model.LineupPlayer) {
	for _, row := range rows {
		entry := model.LineupPlayer{
			Name:          row.Get("PLAYER_NAME"),
			Position:      row.Get("POSITION"),
			SquadNumber:   row.Get("BACK_NO"),
			MinutesPlayed: atoi(row.Get("PLAY_MINUTE")),
			Status:        row.Get("STATUS"),
			Captain:       yn(row.Get("CAPTAIN_YN")),
			GoalMinutes:   row.Get("GOAL_MINUTES"),
			CardMinutes:   row.Get("CARD_MINUTES"),
			AssistMinutes: row.Get("ASSIST_MINUTES"),
		}
		if entry.Status == starterStatus {
			starters = append(starters, entry)
		} else {
			substitutes = append(substitutes, entry)
		}
	}
	return starters, substitutes
}
