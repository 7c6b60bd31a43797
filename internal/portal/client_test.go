package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/youthball/portal-crawler/internal/model"
	"github.com/youthball/portal-crawler/internal/protocol"
)

func newTestClient(t *testing.T, handler http.Handler, session Session) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client := NewClient(Config{
		BaseURL:  ts.URL,
		PageSize: 10,
		Session:  session,
	}, zap.NewNop())
	return client, ts
}

func TestCompetitions_DrainsPagesThroughNestedEnvelope(t *testing.T) {
	t.Parallel()

	const total = 25
	mux := http.NewServeMux()
	mux.HandleFunc(pathCompetitionList, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "2026", r.FormValue("year"))
		require.Equal(t, "1", r.FormValue("gradeCd"))

		page, _ := strconv.Atoi(r.FormValue("pageNo"))
		size, _ := strconv.Atoi(r.FormValue("pageSize"))
		var items []map[string]any
		for i := (page - 1) * size; i < total && i < page*size; i++ {
			items = append(items, map[string]any{
				// Numeric id on purpose: the portal mixes types.
				"competitionIdx":  100 + i,
				"competitionName": fmt.Sprintf("Cup %d", i),
				"gradeName":       "elementary",
			})
		}
		// The competition listing nests the payload one level down.
		resp := map[string]any{"data": map[string]any{"totalCnt": total, "list": items}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	client, _ := newTestClient(t, mux, Session{})
	comps := client.Competitions(context.Background(), 2026, "1")

	require.Len(t, comps, total)
	require.Equal(t, "100", comps[0].ID)
	require.Equal(t, "Cup 24", comps[24].Title)
	require.Equal(t, "elementary", comps[7].GradeLabel)
}

func TestMatchResults_TransportFailureYieldsNoData(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(pathMatchList, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	})

	client, _ := newTestClient(t, mux, Session{})
	require.Nil(t, client.MatchResults(context.Background(), "101", "2026-03"))
}

func TestMatchResults_MalformedPayloadYieldsNoData(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(pathMatchList, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	client, _ := newTestClient(t, mux, Session{})
	require.Nil(t, client.MatchResults(context.Background(), "101", "2026-03"))
}

func TestTeams_FallsBackToRequestedCompetition(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(pathCompetitionTeam, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "101", r.FormValue("competitionId"))
		_, _ = w.Write([]byte(`{"totalCnt":2,"list":[
			{"teamIdx":"7","teamName":"FC North","virtualYn":"N","competitionIdx":"101"},
			{"teamIdx":"8","teamName":"Select XI","virtualYn":"Y"}
		]}`))
	})

	client, _ := newTestClient(t, mux, Session{})
	teams := client.Teams(context.Background(), "101")

	require.Len(t, teams, 2)
	require.False(t, teams[0].Virtual)
	require.True(t, teams[1].Virtual)
	// Row without an owner inherits the requested competition.
	require.Equal(t, "101", teams[1].CompetitionID)
}

func TestPlayers_MapsRoster(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(pathTeamPlayers, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "7", r.FormValue("teamId"))
		require.Equal(t, "101", r.FormValue("competitionId"))
		_, _ = w.Write([]byte(`{"list":[
			{"playerName":"Lee","backNo":9,"position":"FW","height":"172","endYn":"N"}
		]}`))
	})

	client, _ := newTestClient(t, mux, Session{})
	players := client.Players(context.Background(), model.Team{ID: "7", CompetitionID: "101", GradeLabel: "middle"})

	require.Len(t, players, 1)
	require.Equal(t, "7", players[0].TeamID)
	require.Equal(t, "9", players[0].SquadNumber)
	require.Equal(t, "middle", players[0].GradeLabel) // inherited from the team row
	require.False(t, players[0].Ended)
}

func TestMatchDetail_RequiresSession(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.NewServeMux(), Session{})
	require.False(t, client.DetailEnabled())
	require.Nil(t, client.MatchDetail(context.Background(), model.MatchResult{GameID: "5001"}))
}

func TestMatchDetail_FullRoundTrip(t *testing.T) {
	t.Parallel()

	session := Session{UserID: "scout01", Secret: "hunter2", SessionID: "abc123"}

	mux := http.NewServeMux()
	mux.HandleFunc(pathGameDetail, func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get(headerTransactionID))

		state, err := r.Cookie(stateCookie)
		require.NoError(t, err)
		require.Equal(t, protocol.EncodeSecret("hunter2"), state.Value)
		sid, err := r.Cookie(sessionCookie)
		require.NoError(t, err)
		require.Equal(t, "abc123", sid.Value)

		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<Root version="1.0">
  <Parameters><Parameter id="ErrorCode">0</Parameter></Parameters>
  <Dataset id="gameInfo"><Rows><Row>
    <Col id="HOME_HALF1">1</Col><Col id="HOME_HALF2">1</Col>
    <Col id="AWAY_HALF1">0</Col><Col id="AWAY_HALF2">1</Col>
    <Col id="REFEREE">Kim</Col><Col id="WEATHER">rain</Col>
    <Col id="SPECTATORS">120</Col><Col id="PLAY_TIME">80</Col>
    <Col id="HOME_COACH">Choi</Col><Col id="AWAY_COACH">Han</Col>
    <Col id="HOME_YELLOW">2</Col><Col id="AWAY_RED">1</Col>
  </Row></Rows></Dataset>
  <Dataset id="eventList"><Rows>
    <Row><Col id="PLAYER_NAME">Lee</Col><Col id="EVENT_CD">G</Col><Col id="EVENT_MINUTE">23</Col><Col id="BACK_NO">9</Col><Col id="TEAM_SIDE">H</Col><Col id="PK_YN">N</Col></Row>
    <Row><Col id="PLAYER_NAME">Park</Col><Col id="EVENT_CD">G</Col><Col id="EVENT_MINUTE">77</Col><Col id="BACK_NO">11</Col><Col id="TEAM_SIDE">A</Col><Col id="PK_YN">Y</Col></Row>
  </Rows></Dataset>
  <Dataset id="lineupHome"><Rows>
    <Row><Col id="PLAYER_NAME">Lee</Col><Col id="STATUS">S</Col><Col id="BACK_NO">9</Col><Col id="PLAY_MINUTE">80</Col><Col id="CAPTAIN_YN">Y</Col><Col id="GOAL_MINUTES">23</Col></Row>
    <Row><Col id="PLAYER_NAME">Jung</Col><Col id="STATUS">B</Col><Col id="BACK_NO">14</Col><Col id="PLAY_MINUTE">12</Col></Row>
  </Rows></Dataset>
  <Dataset id="lineupAway"><Rows>
    <Row><Col id="PLAYER_NAME">Park</Col><Col id="STATUS">S</Col><Col id="BACK_NO">11</Col></Row>
  </Rows></Dataset>
</Root>`))
	})

	client, _ := newTestClient(t, mux, session)
	require.True(t, client.DetailEnabled())

	result := model.MatchResult{
		GameID:        "5001",
		CompetitionID: "101",
		Date:          "2026-03-01",
		HomeTeam:      "FC North",
		AwayTeam:      "FC South",
		HomeScore:     "2",
		AwayScore:     "1",
	}
	detail := client.MatchDetail(context.Background(), result)
	require.NotNil(t, detail)

	require.Equal(t, "5001", detail.GameID)
	require.Equal(t, "101", detail.CompetitionID)
	require.Equal(t, "FC North", detail.HomeTeam)
	require.Equal(t, "1", detail.HomeFirstHalf)
	require.Equal(t, "Kim", detail.Referee)
	require.Equal(t, 120, detail.Attendance)
	require.Equal(t, 80, detail.ElapsedMinute)
	require.Equal(t, 2, detail.HomeYellow)
	require.Equal(t, 1, detail.AwayRed)

	require.Len(t, detail.Events, 2)
	require.Equal(t, "Lee", detail.Events[0].PlayerName)
	require.Equal(t, 23, detail.Events[0].Minute)
	require.False(t, detail.Events[0].Penalty)
	require.True(t, detail.Events[1].Penalty)

	require.Len(t, detail.HomeStarters, 1)
	require.True(t, detail.HomeStarters[0].Captain)
	require.Equal(t, "23", detail.HomeStarters[0].GoalMinutes)
	require.Len(t, detail.HomeSubstitutes, 1)
	require.Equal(t, "Jung", detail.HomeSubstitutes[0].Name)
	require.Equal(t, 12, detail.HomeSubstitutes[0].MinutesPlayed)
	require.Len(t, detail.AwayStarters, 1)
	require.Empty(t, detail.AwaySubstitutes)
}

func TestMatchDetail_ProtocolErrorYieldsNoDetail(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(pathGameDetail, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<Root version="1.0"><Parameters>
			<Parameter id="ErrorCode">-94</Parameter>
			<Parameter id="ErrorMsg">session expired</Parameter>
		</Parameters></Root>`))
	})

	client, _ := newTestClient(t, mux, Session{UserID: "scout01", Secret: "hunter2"})
	require.Nil(t, client.MatchDetail(context.Background(), model.MatchResult{GameID: "5001", CompetitionID: "101"}))
}
