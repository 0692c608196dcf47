package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/Adriel2503/agente-reserva/services/remote"
)

// stubSource counts calls and returns a fixed schedule or error.
type stubSource struct {
	calls    atomic.Int32
	schedule models.WeeklySchedule
	err      error
	delay    time.Duration
}

func (s *stubSource) FetchWeeklySchedule(ctx context.Context, companyID int) (models.WeeklySchedule, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return models.WeeklySchedule{}, s.err
	}
	return s.schedule, nil
}

func TestFetchScheduleHitsCacheSecondTime(t *testing.T) {
	source := &stubSource{schedule: mondayOnly("09:00-18:00")}
	fetcher := NewFetcher(NewCache(5*time.Minute), source, nil)

	first, err := fetcher.FetchSchedule(context.Background(), 3)
	require.NoError(t, err)
	second, err := fetcher.FetchSchedule(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, source.calls.Load())
}

func TestFetchScheduleRefetchesAfterTTL(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	source := &stubSource{schedule: mondayOnly("09:00-18:00")}
	fetcher := NewFetcher(NewCache(5*time.Minute, WithClock(clock.Now)), source, nil)

	_, err := fetcher.FetchSchedule(context.Background(), 3)
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)
	_, err = fetcher.FetchSchedule(context.Background(), 3)
	require.NoError(t, err)

	assert.EqualValues(t, 2, source.calls.Load())
}

func TestFetchScheduleFailureIsNotCached(t *testing.T) {
	source := &stubSource{err: &remote.Error{Op: "OBTENER_HORARIO_REUNIONES", Kind: remote.KindTimeout}}
	cache := NewCache(5 * time.Minute)
	fetcher := NewFetcher(cache, source, nil)

	_, err := fetcher.FetchSchedule(context.Background(), 9)
	assert.ErrorIs(t, err, remote.ErrTimeout)
	_, err = fetcher.FetchSchedule(context.Background(), 9)
	assert.Error(t, err)

	assert.EqualValues(t, 2, source.calls.Load())
	assert.Equal(t, 0, cache.Len())
}

func TestFetchScheduleCollapsesConcurrentMisses(t *testing.T) {
	source := &stubSource{schedule: mondayOnly("09:00-18:00"), delay: 50 * time.Millisecond}
	fetcher := NewFetcher(NewCache(5*time.Minute), source, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := fetcher.FetchSchedule(context.Background(), 1)
			assert.NoError(t, err)
			assert.Equal(t, "09:00-18:00", s.Days[0])
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, source.calls.Load(), int32(2))
}
