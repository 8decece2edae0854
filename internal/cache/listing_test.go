package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cimillas/ticket-sales/internal/domain"
)

type countingObserver struct {
	hits, misses int
}

func (o *countingObserver) ObserveCacheLookup(hit bool) {
	if hit {
		o.hits++
		return
	}
	o.misses++
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListingCache_GetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	obs := &countingObserver{}
	c := NewListingCache(db, time.Minute, quietLogger(), obs)

	payload := `[{"id":1,"name":"Concert","nb_tickets":100,"created_at":"2025-01-01T12:00:00Z","sponsors":[{"id":3,"name":"Acme"}]},` +
		`{"id":2,"name":"Empty","nb_tickets":0,"created_at":"2025-01-01T12:00:00Z","sponsors":[]}]`
	mock.ExpectGet(listingKey).SetVal(payload)

	events, ok := c.Get(context.Background())
	require.True(t, ok)
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].Event.ID)
	assert.Equal(t, 100, events[0].Event.Capacity)
	assert.Equal(t, []domain.Sponsor{{ID: 3, Name: "Acme"}}, events[0].Sponsors)
	assert.NotNil(t, events[1].Sponsors)
	assert.Empty(t, events[1].Sponsors)
	assert.Equal(t, 1, obs.hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingCache_GetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	obs := &countingObserver{}
	c := NewListingCache(db, time.Minute, quietLogger(), obs)

	mock.ExpectGet(listingKey).RedisNil()
	_, ok := c.Get(context.Background())
	assert.False(t, ok)

	mock.ExpectGet(listingKey).SetErr(errors.New("connection refused"))
	_, ok = c.Get(context.Background())
	assert.False(t, ok)

	assert.Equal(t, 2, obs.misses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingCache_CorruptEntryIsDropped(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	c := NewListingCache(db, time.Minute, quietLogger(), nil)

	mock.ExpectGet(listingKey).SetVal("{not json")
	mock.ExpectDel(listingKey).SetVal(1)

	_, ok := c.Get(context.Background())
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingCache_SetAndInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	c := NewListingCache(db, 30*time.Second, quietLogger(), nil)

	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	events := []domain.EventWithSponsors{{
		Event:    domain.Event{ID: 1, Name: "Concert", Capacity: 100, CreatedAt: created},
		Sponsors: []domain.Sponsor{},
	}}
	mock.ExpectSet(listingKey,
		`[{"id":1,"name":"Concert","nb_tickets":100,"created_at":"2025-01-01T12:00:00Z","sponsors":[]}]`,
		30*time.Second,
	).SetVal("OK")
	mock.ExpectDel(listingKey).SetVal(1)

	c.Set(context.Background(), events)
	c.Invalidate(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}
