// Package crawler drives the five-stage harvest pipeline: competition
// discovery, match results, match detail, team rosters, players. Each
// stage fans out over the previous stage's output under a fixed
// concurrency ceiling; a failed item degrades to "no data" and never
// disturbs its siblings or the run.
package crawler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/youthball/portal-crawler/internal/metrics"
	"github.com/youthball/portal-crawler/internal/model"
	"github.com/youthball/portal-crawler/internal/pool"
)

// Portal is the slice of the portal client the pipeline consumes. All
// operations return "no data" as an empty result, never an error.
type Portal interface {
	DetailEnabled() bool
	Competitions(ctx context.Context, year int, gradeCode string) []model.Competition
	MatchResults(ctx context.Context, competitionID, month string) []model.MatchResult
	Teams(ctx context.Context, competitionID string) []model.Team
	Players(ctx context.Context, team model.Team) []model.Player
	MatchDetail(ctx context.Context, result model.MatchResult) *model.MatchDetail
}

// Grade is one configured age bracket with its portal listing codes.
type Grade struct {
	Label string
	Codes []string
}

// Config holds the run parameters of one harvest.
type Config struct {
	Years       []int
	Grades      []Grade
	Limit       int // truncate discovered competitions; 0 = unlimited
	Concurrency int
	Delay       time.Duration // stagger between fan-out starts
}

// Harvest bundles the collections of one completed run.
type Harvest struct {
	Competitions []model.Competition
	Results      []model.MatchResult
	Details      []model.MatchDetail
	Teams        []model.Team // raw per-competition associations
	Players      []model.Player
	Stats        model.CrawlStats
}

// Crawler orchestrates one harvest run.
type Crawler struct {
	portal Portal
	cfg    Config
	logger *zap.Logger
}

// New builds a Crawler. Years and grades are contract requirements; a
// run without them is a caller bug, not a degraded harvest.
func New(portal Portal, cfg Config, logger *zap.Logger) *Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Crawler{portal: portal, cfg: cfg, logger: logger}
}

// Run executes all stages and returns the aggregated harvest. Per-item
// data loss has already been logged at the point of loss; Run itself
// always completes.
func (c *Crawler) Run(ctx context.Context) *Harvest {
	start := time.Now()
	opts := pool.Options{Limit: c.cfg.Concurrency, Delay: c.cfg.Delay}

	competitions := c.discoverCompetitions(ctx)
	results := c.fetchResults(ctx, competitions, opts)
	details := c.fetchDetails(ctx, results, opts)
	teams := c.fetchTeams(ctx, competitions, opts)

	uniqueTeams := dedupeBy(teams, func(t model.Team) string { return t.ID })
	players := c.fetchPlayers(ctx, uniqueTeams, opts)

	elapsed := time.Since(start)
	harvest := &Harvest{
		Competitions: competitions,
		Results:      results,
		Details:      details,
		Teams:        teams,
		Players:      players,
		Stats: model.CrawlStats{
			Years:          c.cfg.Years,
			Competitions:   len(competitions),
			Results:        len(results),
			Details:        len(details),
			Teams:          len(teams),
			UniqueTeams:    len(uniqueTeams),
			Players:        len(players),
			ElapsedSeconds: elapsed.Seconds(),
		},
	}

	c.logger.Info("harvest complete",
		zap.Ints("years", c.cfg.Years),
		zap.Int("competitions", harvest.Stats.Competitions),
		zap.Int("results", harvest.Stats.Results),
		zap.Int("details", harvest.Stats.Details),
		zap.Int("teams", harvest.Stats.Teams),
		zap.Int("players", harvest.Stats.Players),
		zap.Duration("took", elapsed),
	)
	return harvest
}

// discoverCompetitions drains the listing for every (year, grade code)
// pair, merges and de-duplicates by competition id, then applies the
// optional result-count limit used for bounded test runs.
func (c *Crawler) discoverCompetitions(ctx context.Context) []model.Competition {
	start := time.Now()

	var merged []model.Competition
	for _, year := range c.cfg.Years {
		for _, grade := range c.cfg.Grades {
			for _, code := range grade.Codes {
				found := c.portal.Competitions(ctx, year, code)
				c.logger.Debug("grade listing drained",
					zap.Int("year", year),
					zap.String("grade", grade.Label),
					zap.String("grade_cd", code),
					zap.Int("competitions", len(found)),
				)
				merged = append(merged, found...)
			}
		}
	}

	competitions := dedupeBy(merged, func(cm model.Competition) string { return cm.ID })
	if c.cfg.Limit > 0 && len(competitions) > c.cfg.Limit {
		competitions = competitions[:c.cfg.Limit]
	}

	c.finishStage("discover_competitions", "competitions", len(competitions), start)
	return competitions
}

// fetchResults pulls every competition's results month by month. The
// buckets overlap at month boundaries on the portal side, so rows are
// de-duplicated by game id per competition and once more globally.
func (c *Crawler) fetchResults(ctx context.Context, competitions []model.Competition, opts pool.Options) []model.MatchResult {
	start := time.Now()

	merged := pool.FlatMap(ctx, competitions, opts, func(ctx context.Context, comp model.Competition) []model.MatchResult {
		months := monthRange(comp.StartDate, comp.EndDate)
		if len(months) == 0 {
			c.logger.Warn("competition has no parsable date range",
				zap.String("competition_id", comp.ID),
				zap.String("start", comp.StartDate),
			)
			return nil
		}
		var rows []model.MatchResult
		for _, month := range months {
			rows = append(rows, c.portal.MatchResults(ctx, comp.ID, month)...)
		}
		return dedupeBy(rows, func(r model.MatchResult) string { return r.GameID })
	})

	results := dedupeBy(merged, func(r model.MatchResult) string { return r.GameID })
	c.finishStage("fetch_results", "results", len(results), start)
	return results
}

// fetchDetails pulls the XML RPC report for every finished game. The
// stage is skipped entirely when no session credentials are configured.
func (c *Crawler) fetchDetails(ctx context.Context, results []model.MatchResult, opts pool.Options) []model.MatchDetail {
	if !c.portal.DetailEnabled() {
		c.logger.Info("detail stage skipped: no session credentials")
		return []model.MatchDetail{}
	}
	start := time.Now()

	var finished []model.MatchResult
	for _, r := range results {
		if r.Finished() {
			finished = append(finished, r)
		}
	}

	details := pool.Map(ctx, finished, opts, func(ctx context.Context, r model.MatchResult) (model.MatchDetail, bool) {
		d := c.portal.MatchDetail(ctx, r)
		if d == nil {
			return model.MatchDetail{}, false
		}
		return *d, true
	})

	c.finishStage("fetch_details", "details", len(details), start)
	return details
}

// fetchTeams pulls every competition's team list. The raw list keeps
// duplicate teams across competitions; the unique view is derived later.
func (c *Crawler) fetchTeams(ctx context.Context, competitions []model.Competition, opts pool.Options) []model.Team {
	start := time.Now()

	teams := pool.FlatMap(ctx, competitions, opts, func(ctx context.Context, comp model.Competition) []model.Team {
		return c.portal.Teams(ctx, comp.ID)
	})

	c.finishStage("fetch_teams", "teams", len(teams), start)
	return teams
}

// fetchPlayers pulls the roster of every unique team that has a known
// owning competition, de-duplicated by (team, name, squad number).
func (c *Crawler) fetchPlayers(ctx context.Context, uniqueTeams []model.Team, opts pool.Options) []model.Player {
	start := time.Now()

	var eligible []model.Team
	for _, t := range uniqueTeams {
		if t.CompetitionID != "" {
			eligible = append(eligible, t)
		}
	}

	merged := pool.FlatMap(ctx, eligible, opts, func(ctx context.Context, team model.Team) []model.Player {
		return c.portal.Players(ctx, team)
	})

	players := dedupeBy(merged, model.Player.Key)
	c.finishStage("fetch_players", "players", len(players), start)
	return players
}

func (c *Crawler) finishStage(stage, kind string, count int, start time.Time) {
	took := time.Since(start)
	metrics.ObserveStage(stage, took)
	metrics.AddItems(kind, count)
	c.logger.Info("stage complete",
		zap.String("stage", stage),
		zap.Int(kind, count),
		zap.Duration("took", took),
	)
}
