package joiner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Vodeneev/statjoin/internal/pkg/cache"
	"github.com/Vodeneev/statjoin/internal/pkg/config"
	"github.com/Vodeneev/statjoin/internal/pkg/models"
	"github.com/Vodeneev/statjoin/internal/pkg/performance"
	"github.com/Vodeneev/statjoin/internal/pkg/sources"
	"github.com/Vodeneev/statjoin/internal/pkg/stats"
	"github.com/Vodeneev/statjoin/internal/pkg/storage"
	"github.com/Vodeneev/statjoin/internal/pkg/validation"
)

// ErrUnknownSport is returned for a sport missing from config.
var ErrUnknownSport = errors.New("unknown sport")

// OddsSource fetches moneyline rows for an odds feed sport key.
type OddsSource interface {
	FetchOdds(ctx context.Context, sportKey string) ([]sources.OddsRow, error)
}

// Notifier is told about every refresh that did not match all picks.
type Notifier interface {
	NotifyOutcome(ctx context.Context, o *Outcome) error
}

// Deps are the collaborators of a Service. Nil fields are optional except Odds.
type Deps struct {
	Odds    OddsSource
	Tables  map[string]sources.TableSource // by sport name; built from config when nil
	Cache   cache.Store
	Storage storage.ReportStorage
	Notify  Notifier
	Tracker *performance.Tracker
}

// Service fetches picks and team stats for a sport and reconciles them.
type Service struct {
	cfg     *config.Config
	odds    OddsSource
	tables  map[string]sources.TableSource
	cache   cache.Store
	storage storage.ReportStorage
	notify  Notifier
	tracker *performance.Tracker

	sanitizer *validation.Sanitizer
	validator *validation.Validator

	asyncMu     sync.Mutex
	asyncCancel context.CancelFunc
}

func NewService(cfg *config.Config, deps Deps) *Service {
	tables := deps.Tables
	if tables == nil {
		tables = NewTableSources(cfg)
	}
	tracker := deps.Tracker
	if tracker == nil {
		tracker = performance.GetTracker()
	}
	return &Service{
		cfg:     cfg,
		odds:    deps.Odds,
		tables:  tables,
		cache:   deps.Cache,
		storage: deps.Storage,
		notify:  deps.Notify,
		tracker: tracker,

		sanitizer: validation.NewSanitizer(),
		validator: validation.NewValidator(),
	}
}

// NewTableSources builds one table source per configured sport from its stats_format.
func NewTableSources(cfg *config.Config) map[string]sources.TableSource {
	out := make(map[string]sources.TableSource, len(cfg.Sports))
	sheets := sources.NewSheetClient(cfg.Sheets.Timeout)
	for name, s := range cfg.Sports {
		switch s.StatsFormat {
		case config.FormatHTML:
			out[name] = sources.NewHTMLClient(cfg.Sheets.Timeout, s.TableSelector)
		case config.FormatHTMLJS:
			out[name] = sources.NewBrowserClient(s.TableSelector, cfg.Browser.Wait, cfg.Browser.Timeout)
		default:
			out[name] = sheets
		}
	}
	return out
}

// Refresh fetches odds and stats for sport in parallel, reconciles them and
// records the run. An odds failure fails the refresh; a stats failure yields
// an outcome with no stats and StatsError set.
func (s *Service) Refresh(ctx context.Context, sport string, filter sources.Filter) (*Outcome, error) {
	name, sc, ok := s.cfg.Sport(sport)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSport, sport)
	}
	if s.odds == nil {
		return nil, fmt.Errorf("odds source is not configured")
	}

	start := time.Now()
	runID := uuid.NewString()
	statsURL := s.cfg.StatsURL(sc)

	var (
		rows      []sources.OddsRow
		table     stats.Table
		statsErr  error
		oddsTook  time.Duration
		statsTook time.Duration
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.Now()
		defer func() { oddsTook = time.Since(t) }()
		v, hit, err := cache.GetOrFetch(gctx, s.cache, "odds:"+sc.OddsKey, s.cfg.Cache.TTL,
			func(ctx context.Context) ([]sources.OddsRow, error) {
				return s.odds.FetchOdds(ctx, sc.OddsKey)
			})
		s.recordCache(hit)
		if err != nil && !errors.Is(err, cache.ErrWrite) {
			return fmt.Errorf("failed to fetch odds for %s: %w", name, err)
		}
		if err != nil {
			slog.Warn("Odds cache write failed", "sport", name, "error", err)
		}
		rows = v
		return nil
	})
	g.Go(func() error {
		t := time.Now()
		defer func() { statsTook = time.Since(t) }()
		src, ok := s.tables[name]
		if !ok {
			statsErr = fmt.Errorf("no stats source for %s", name)
			return nil
		}
		v, hit, err := cache.GetOrFetch(gctx, s.cache, "stats:"+statsURL, s.cfg.Cache.TTL,
			func(ctx context.Context) (stats.Table, error) {
				return src.FetchTable(ctx, statsURL)
			})
		s.recordCache(hit)
		if err != nil && !errors.Is(err, cache.ErrWrite) {
			statsErr = fmt.Errorf("failed to fetch stats for %s: %w", name, err)
			return nil
		}
		if err != nil {
			slog.Warn("Stats cache write failed", "sport", name, "error", err)
		}
		table = v
		return nil
	})
	if err := g.Wait(); err != nil {
		s.tracker.RecordRun(performance.RunTiming{
			RunID: runID, Sport: name, OddsFetch: oddsTook, StatsFetch: statsTook,
			Total: time.Since(start), Status: "error",
		}, performance.RunStats{})
		return nil, err
	}

	picks := s.sanitizer.SanitizePicks(sources.PicksFromOdds(sources.FilterOdds(rows, filter)))
	opts := reconcileOptions(s.cfg.Reconcile.ExactOnly)

	reconcileStart := time.Now()
	var o *Outcome
	if statsErr != nil {
		o = failedOutcome(picks, statsErr, opts...)
	} else {
		o = Evaluate(picks, table, s.cfg.TeamColumn(sc), opts...)
	}
	reconcileTook := time.Since(reconcileStart)
	o.RunID = runID
	o.Sport = name

	s.tracker.RecordRun(performance.RunTiming{
		RunID:      runID,
		Sport:      name,
		OddsFetch:  oddsTook,
		StatsFetch: statsTook,
		Reconcile:  reconcileTook,
		Total:      time.Since(start),
		Status:     string(o.Report.Status),
		Success:    o.StatsErr == nil,
	}, performance.RunStats{
		Picks:          o.Report.Picks,
		Stats:          o.Report.Stats,
		Matched:        o.Report.Matched,
		UnmatchedPicks: o.Report.UnmatchedPicks,
		SchemaError:    errors.Is(o.StatsErr, stats.ErrSchema),
	})

	logArgs := []any{
		"run_id", runID, "sport", name, "status", o.Report.Status,
		"picks", o.Report.Picks, "stats", o.Report.Stats, "matched", o.Report.Matched,
		"duration", time.Since(start),
	}
	if o.StatsErr != nil {
		slog.Warn("Reconcile run without stats", append(logArgs, "error", o.StatsErr)...)
	} else if o.Report.UnmatchedPicks > 0 {
		slog.Warn("Reconcile run left picks unmatched", append(logArgs, "unmatched", o.Report.UnmatchedPickNames)...)
	} else {
		slog.Info("Reconcile run complete", logArgs...)
	}

	s.persist(ctx, o, start)
	if s.notify != nil && o.Report.Picks > 0 && !o.Report.OK() {
		if err := s.notify.NotifyOutcome(ctx, o); err != nil {
			slog.Warn("Failed to queue reconcile notification", "run_id", runID, "error", err)
		}
	}
	return o, nil
}

// Reconcile runs a stateless join of caller-supplied picks and stats.
// It fails only when a pick does not validate.
func (s *Service) Reconcile(picks []models.PickRecord, table stats.Table, teamColumn string, exactOnly bool) (*Outcome, error) {
	picks = s.sanitizer.SanitizePicks(picks)
	if err := s.validator.ValidatePicks(picks); err != nil {
		return nil, err
	}
	if teamColumn == "" {
		teamColumn = s.cfg.Sheets.TeamColumn
	}
	o := Evaluate(picks, table, teamColumn, reconcileOptions(exactOnly || s.cfg.Reconcile.ExactOnly)...)
	o.RunID = uuid.NewString()
	return o, nil
}

func (s *Service) persist(ctx context.Context, o *Outcome, at time.Time) {
	if s.storage == nil {
		return
	}
	rec := &storage.ReportRecord{
		RunID:      o.RunID,
		Sport:      o.Sport,
		StatsError: o.StatsError,
		Report:     o.Report,
		CreatedAt:  at.UTC(),
	}
	if err := s.storage.StoreReport(ctx, rec); err != nil {
		slog.Error("Failed to store reconcile report", "run_id", o.RunID, "error", err)
	}
}

func (s *Service) recordCache(hit bool) {
	if s.cache != nil {
		s.tracker.RecordCache(hit)
	}
}

// RecentReports returns stored run summaries, newest first.
func (s *Service) RecentReports(ctx context.Context, limit int) ([]storage.ReportRecord, error) {
	if s.storage == nil {
		return nil, errNoStorage
	}
	return s.storage.RecentReports(ctx, limit)
}

var errNoStorage = errors.New("report storage is not configured")
