package navis

import (
	"context"
	"fmt"
	"time"

	"github.com/chrissnell/marinewx/pkg/config"
	decoder "github.com/chrissnell/marinewx/pkg/navis"
	"go.uber.org/zap"
)

// DefaultWindow is the history window used when none is configured
const DefaultWindow = 60 * time.Minute

// Report is the result of polling a station: statistics over the history
// window when any record was usable, and the instantaneous live reading when
// the live query succeeded.
type Report struct {
	Station              string              `json:"station"`
	From                 time.Time           `json:"from"`
	To                   time.Time           `json:"to"`
	Statistics           *decoder.Statistics `json:"statistics,omitempty"`
	Live                 *decoder.Reading    `json:"live,omitempty"`
	LiveTemperatureValid bool                `json:"live_temperature_valid"`
}

// Station polls one configured Navis sensor.
type Station struct {
	name   string
	client *Client
	window time.Duration
	opts   decoder.AggregateOptions
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewStation validates cfg and builds a Station for it
func NewStation(cfg config.StationData, logger *zap.SugaredLogger) (*Station, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var timeout time.Duration
	if cfg.Timeout != "" {
		var err error
		timeout, err = time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("station [%s] has an invalid timeout %q: %w", cfg.Name, cfg.Timeout, err)
		}
	}

	dirRange, err := decoder.ParseDirectionRange(cfg.DirectionRange)
	if err != nil {
		return nil, fmt.Errorf("station [%s]: %w", cfg.Name, err)
	}

	window := DefaultWindow
	if cfg.WindowMinutes > 0 {
		window = time.Duration(cfg.WindowMinutes) * time.Minute
	}

	logger = logger.With("station", cfg.Name)

	client, err := NewClient(cfg.BaseURL, cfg.ViewUser, cfg.IMEI, timeout, logger)
	if err != nil {
		return nil, err
	}

	return &Station{
		name:   cfg.Name,
		client: client,
		window: window,
		opts:   decoder.AggregateOptions{DirectionRange: dirRange},
		logger: logger,
		now:    time.Now,
	}, nil
}

// StationName returns the configured name
func (s *Station) StationName() string {
	return s.name
}

// SetDirectionRange overrides the configured direction filter
func (s *Station) SetDirectionRange(r decoder.DirectionRange) {
	s.opts.DirectionRange = r
}

// Report summarises the last window of history (the configured window when
// window is zero). If the history is unavailable or holds no usable records,
// the live reading alone is returned; an error is returned only when neither
// source produced data.
func (s *Station) Report(ctx context.Context, window time.Duration) (*Report, error) {
	if window <= 0 {
		window = s.window
	}

	if err := s.client.Bootstrap(ctx); err != nil {
		return nil, err
	}

	to := s.now()
	report := &Report{
		Station: s.name,
		From:    to.Add(-window),
		To:      to,
	}

	historyErr := s.summarizeHistory(ctx, report)
	if historyErr != nil {
		s.logger.Warnf("history unavailable, falling back to live reading: %v", historyErr)
	}

	liveErr := s.readLive(ctx, report)
	if liveErr != nil {
		if historyErr != nil {
			return nil, fmt.Errorf("station [%s]: %w; live reading: %v", s.name, historyErr, liveErr)
		}
		s.logger.Warnf("live reading unavailable: %v", liveErr)
	}

	return report, nil
}

func (s *Station) summarizeHistory(ctx context.Context, report *Report) error {
	raw, err := s.client.FetchHistory(ctx, report.From, report.To)
	if err != nil {
		return err
	}

	stats, err := decoder.Summarize(raw, s.opts)
	if err != nil {
		return err
	}

	if stats.Rejected > 0 {
		s.logger.Debugf("skipped %d undecodable records", stats.Rejected)
	}
	s.logger.Infof("summarised %d readings between %s and %s",
		stats.Count, report.From.Format(time.RFC3339), report.To.Format(time.RFC3339))

	report.Statistics = stats
	return nil
}

func (s *Station) readLive(ctx context.Context, report *Report) error {
	body, err := s.client.FetchLive(ctx)
	if err != nil {
		return err
	}

	reading, err := decoder.ParseLive(body)
	if err != nil {
		return err
	}

	report.Live = &reading
	report.LiveTemperatureValid = reading.TemperatureValid()
	return nil
}
