package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/dbx"
	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/dmitrijs2005/cloudygo/internal/server/models"
	"github.com/dmitrijs2005/cloudygo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cloudygo/internal/server/weather"
)

// WeatherProvider returns current conditions for a city.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (*weather.Report, error)
}

type WeatherService struct {
	conn        *dbx.Conn
	repomanager repomanager.RepositoryManager
	provider    WeatherProvider
	now         func() time.Time
	log         logging.Logger
}

func NewWeatherService(conn *dbx.Conn, m repomanager.RepositoryManager, p WeatherProvider, l logging.Logger) *WeatherService {
	return &WeatherService{
		conn:        conn,
		repomanager: m,
		provider:    p,
		now:         time.Now,
		log:         l.With("module", "weather"),
	}
}

// Lookup fetches the weather for city. When userID is set the result is also
// appended to that user's history; recording failures are logged and ignored.
func (s *WeatherService) Lookup(ctx context.Context, city, userID string) (*weather.Report, error) {
	report, err := s.provider.Current(ctx, city)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		if err := s.record(ctx, userID, report); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "history not recorded", "user_id", userID, logging.Err(err))
		}
	}

	return report, nil
}

// Record fetches the weather for city and appends it to the user's history.
// A user that no longer exists is common.ErrorNotFound.
func (s *WeatherService) Record(ctx context.Context, city, userID string) (*weather.Report, error) {
	report, err := s.provider.Current(ctx, city)
	if err != nil {
		return nil, err
	}

	if err := s.record(ctx, userID, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *WeatherService) record(ctx context.Context, userID string, r *weather.Report) error {
	db, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return err
	}

	return s.repomanager.History(db).Append(ctx, userID, models.HistoryEntry{
		City:        r.City,
		Lon:         r.Lon,
		Lat:         r.Lat,
		Temperature: r.Temperature,
		RecordedAt:  s.now(),
	})
}
