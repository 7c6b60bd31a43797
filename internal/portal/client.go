// Package portal is the typed client for the competition portal. It
// hides the two request shapes the portal speaks — keyed POSTs returning
// JSON listings and a session-authenticated XML RPC returning named
// tables — behind operations that yield entity values. Any transport,
// parse or protocol failure degrades to "no data for this item" and is
// logged here; nothing at this layer escalates.
package portal

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/youthball/portal-crawler/internal/metrics"
	"github.com/youthball/portal-crawler/internal/model"
	"github.com/youthball/portal-crawler/internal/protocol"
)

const (
	pathCompetitionList = "/web/competition/list"
	pathMatchList       = "/web/match/list"
	pathCompetitionTeam = "/web/competition/teams"
	pathTeamPlayers     = "/web/team/players"
	pathGameDetail      = "/rpc/gameDetail.do"

	headerTransactionID = "X-Transaction-Id"

	stateCookie   = "portal_state"
	sessionCookie = "JSESSIONID"

	defaultPageSize = 30
	defaultTimeout  = 15 * time.Second
)

// Session carries the portal credentials. All fields optional; the
// detail RPC needs UserID and Secret.
type Session struct {
	UserID    string
	Secret    string
	SessionID string
}

// Enabled reports whether the session can authenticate protocol calls.
func (s Session) Enabled() bool {
	return s.UserID != "" && s.Secret != ""
}

// Config controls the portal client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Delay     time.Duration // fixed spacing between portal calls
	PageSize  int
	UserAgent string
	Session   Session
}

// Client performs all portal traffic for one harvest run. Session
// cookies are attached once at construction and reused for the client's
// lifetime; there is no refresh or re-authentication.
type Client struct {
	http     *resty.Client
	codec    *protocol.Codec
	limiter  *rate.Limiter
	session  Session
	pageSize int
	logger   *zap.Logger
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	r := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout)
	if cfg.UserAgent != "" {
		r.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.Session.Enabled() {
		cookies := []*http.Cookie{
			{Name: stateCookie, Value: protocol.EncodeSecret(cfg.Session.Secret)},
		}
		if cfg.Session.SessionID != "" {
			cookies = append(cookies, &http.Cookie{Name: sessionCookie, Value: cfg.Session.SessionID})
		}
		r.SetCookies(cookies)
	}

	every := rate.Inf
	if cfg.Delay > 0 {
		every = rate.Every(cfg.Delay)
	}

	return &Client{
		http:     r,
		codec:    protocol.NewCodec(logger),
		limiter:  rate.NewLimiter(every, 1),
		session:  cfg.Session,
		pageSize: pageSize,
		logger:   logger,
	}
}

// DetailEnabled reports whether session credentials allow the match
// detail stage to run.
func (c *Client) DetailEnabled() bool {
	return c.session.Enabled()
}

// postJSON performs a rate-limited form POST and returns the raw body of
// a successful response.
func (c *Client) postJSON(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(params).
		Post(path)
	if err != nil {
		metrics.ObserveRequest(path, "error")
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		metrics.ObserveRequest(path, "error")
		return nil, fmt.Errorf("post %s: status %d", path, resp.StatusCode())
	}
	metrics.ObserveRequest(path, "ok")
	return resp.Body(), nil
}

// postProtocol performs one XML RPC round trip and returns the decoded
// tables, or nil when the session is not configured or the call failed.
func (c *Client) postProtocol(ctx context.Context, competitionID, gameID string) map[string][]protocol.Row {
	if !c.session.Enabled() {
		return nil
	}

	payload, err := c.codec.EncodeRequest(competitionID, gameID, c.session.UserID, c.session.Secret)
	if err != nil {
		c.logger.Error("encode detail request",
			zap.String("competition_id", competitionID),
			zap.String("game_id", gameID),
			zap.Error(err),
		)
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Warn("rate limit wait", zap.Error(err))
		return nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/xml; charset=UTF-8").
		SetHeader(headerTransactionID, uuid.NewString()).
		SetBody(payload).
		Post(pathGameDetail)
	if err != nil {
		metrics.ObserveRequest(pathGameDetail, "error")
		c.logger.Warn("detail call failed",
			zap.String("competition_id", competitionID),
			zap.String("game_id", gameID),
			zap.Error(err),
		)
		return nil
	}
	if !resp.IsSuccess() {
		metrics.ObserveRequest(pathGameDetail, "error")
		c.logger.Warn("detail call failed",
			zap.String("competition_id", competitionID),
			zap.String("game_id", gameID),
			zap.Int("status", resp.StatusCode()),
		)
		return nil
	}
	metrics.ObserveRequest(pathGameDetail, "ok")

	tables, err := c.codec.DecodeResponse(resp.Body())
	if err != nil {
		c.logger.Warn("detail decode failed",
			zap.String("competition_id", competitionID),
			zap.String("game_id", gameID),
			zap.Error(err),
		)
		return nil
	}
	return tables
}

// Competitions drains the competition listing for one year and grade
// code.
func (c *Client) Competitions(ctx context.Context, year int, gradeCode string) []model.Competition {
	return FetchAll(ctx, c.pageSize, func(ctx context.Context, page, size int) (*Page[model.Competition], error) {
		body, err := c.postJSON(ctx, pathCompetitionList, map[string]string{
			"year":     strconv.Itoa(year),
			"gradeCd":  gradeCode,
			"pageNo":   strconv.Itoa(page),
			"pageSize": strconv.Itoa(size),
		})
		if err != nil {
			c.logger.Warn("competition page failed",
				zap.Int("year", year),
				zap.String("grade_cd", gradeCode),
				zap.Int("page", page),
				zap.Error(err),
			)
			return nil, err
		}

		items, total, err := decodeList[competitionItem](body)
		if err != nil {
			c.logger.Warn("competition page unparsable",
				zap.Int("year", year),
				zap.String("grade_cd", gradeCode),
				zap.Int("page", page),
				zap.Error(err),
			)
			return nil, err
		}

		comps := make([]model.Competition, 0, len(items))
		for _, it := range items {
			comps = append(comps, it.toModel())
		}
		return &Page[model.Competition]{Total: total, Items: comps}, nil
	})
}

// MatchResults fetches the results of one competition for one
// year-month bucket (YYYY-MM).
func (c *Client) MatchResults(ctx context.Context, competitionID, month string) []model.MatchResult {
	body, err := c.postJSON(ctx, pathMatchList, map[string]string{
		"competitionId": competitionID,
		"searchMonth":   month,
	})
	if err != nil {
		c.logger.Warn("match list failed",
			zap.String("competition_id", competitionID),
			zap.String("month", month),
			zap.Error(err),
		)
		return nil
	}

	items, _, err := decodeList[matchItem](body)
	if err != nil {
		c.logger.Warn("match list unparsable",
			zap.String("competition_id", competitionID),
			zap.String("month", month),
			zap.Error(err),
		)
		return nil
	}

	results := make([]model.MatchResult, 0, len(items))
	for _, it := range items {
		results = append(results, it.toModel(competitionID))
	}
	return results
}

// Teams fetches the teams registered under one competition.
func (c *Client) Teams(ctx context.Context, competitionID string) []model.Team {
	body, err := c.postJSON(ctx, pathCompetitionTeam, map[string]string{
		"competitionId": competitionID,
	})
	if err != nil {
		c.logger.Warn("team list failed",
			zap.String("competition_id", competitionID),
			zap.Error(err),
		)
		return nil
	}

	items, _, err := decodeList[teamItem](body)
	if err != nil {
		c.logger.Warn("team list unparsable",
			zap.String("competition_id", competitionID),
			zap.Error(err),
		)
		return nil
	}

	teams := make([]model.Team, 0, len(items))
	for _, it := range items {
		teams = append(teams, it.toModel(competitionID))
	}
	return teams
}

// Players fetches the roster of one team under its owning competition.
func (c *Client) Players(ctx context.Context, team model.Team) []model.Player {
	body, err := c.postJSON(ctx, pathTeamPlayers, map[string]string{
		"teamId":        team.ID,
		"competitionId": team.CompetitionID,
	})
	if err != nil {
		c.logger.Warn("player list failed",
			zap.String("team_id", team.ID),
			zap.Error(err),
		)
		return nil
	}

	items, _, err := decodeList[playerItem](body)
	if err != nil {
		c.logger.Warn("player list unparsable",
			zap.String("team_id", team.ID),
			zap.Error(err),
		)
		return nil
	}

	players := make([]model.Player, 0, len(items))
	for _, it := range items {
		players = append(players, it.toModel(team))
	}
	return players
}

// MatchDetail fetches the full report of one finished game through the
// XML RPC. Returns nil when detail is unavailable for any reason.
func (c *Client) MatchDetail(ctx context.Context, result model.MatchResult) *model.MatchDetail {
	tables := c.postProtocol(ctx, result.CompetitionID, result.GameID)
	if len(tables) == 0 {
		return nil
	}
	return buildDetail(result, tables)
}
