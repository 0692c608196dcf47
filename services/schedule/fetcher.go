package schedule

import (
	"context"
	"strconv"

	"github.com/Adriel2503/agente-reserva/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ScheduleSource loads a company's weekly schedule from the information service.
type ScheduleSource interface {
	FetchWeeklySchedule(ctx context.Context, companyID int) (models.WeeklySchedule, error)
}

// Fetcher serves schedules from the cache and falls back to the source on a miss.
type Fetcher struct {
	cache  *Cache
	source ScheduleSource
	logger *zap.Logger
	group  singleflight.Group
}

func NewFetcher(cache *Cache, source ScheduleSource, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{cache: cache, source: source, logger: logger}
}

// FetchSchedule returns the cached schedule or loads it once. Concurrent misses for
// the same company share one remote call. Errors are returned for the caller to degrade on.
func (f *Fetcher) FetchSchedule(ctx context.Context, companyID int) (models.WeeklySchedule, error) {
	if schedule, ok := f.cache.Get(companyID); ok {
		f.logger.Debug("Schedule cache hit", zap.Int("companyID", companyID))
		return schedule, nil
	}

	v, err, shared := f.group.Do(strconv.Itoa(companyID), func() (any, error) {
		f.logger.Info("Fetching schedule", zap.Int("companyID", companyID))
		schedule, err := f.source.FetchWeeklySchedule(ctx, companyID)
		if err != nil {
			return models.WeeklySchedule{}, err
		}
		f.cache.Put(companyID, schedule)
		return schedule, nil
	})
	if err != nil {
		f.logger.Warn("Schedule fetch failed", zap.Int("companyID", companyID), zap.Error(err))
		return models.WeeklySchedule{}, err
	}
	if shared {
		f.logger.Debug("Schedule fetch shared", zap.Int("companyID", companyID))
	}
	return v.(models.WeeklySchedule), nil
}
