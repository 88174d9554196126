package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prowl/internal/model"
	"prowl/internal/service"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func floatPtr(v float64) *float64 { return &v }

func testRecord(product, channel string, createdAt time.Time) *model.MatchRecord {
	return &model.MatchRecord{
		ID:              uuid.NewString(),
		ProductName:     product,
		MatchedKeywords: []string{"phone"},
		Price:           floatPtr(250),
		Currency:        "$",
		Channel:         channel,
		MessageID:       42,
		MessageText:     "phone for $250",
		MessageLink:     "https://t.me/" + channel + "/42",
		MessageDate:     createdAt.Add(-time.Hour),
		Notify:          true,
		CreatedAt:       createdAt,
	}
}

func TestSQLiteStore_SaveAndListMatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := testRecord("Phone", "dealswatch", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, store.SaveMatch(ctx, record))

	records, err := store.ListMatches(ctx, service.MatchFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, "Phone", got.ProductName)
	assert.Equal(t, []string{"phone"}, got.MatchedKeywords)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 250.0, *got.Price, 0.0001)
	assert.Equal(t, "$", got.Currency)
	assert.Equal(t, "dealswatch", got.Channel)
	assert.Equal(t, int64(42), got.MessageID)
	assert.Equal(t, "phone for $250", got.MessageText)
	assert.Equal(t, "https://t.me/dealswatch/42", got.MessageLink)
	assert.True(t, got.Notify)
}

func TestSQLiteStore_SaveMatchWithoutPrice(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := testRecord("Cable", "dealswatch", time.Now())
	record.Price = nil
	record.Currency = ""
	require.NoError(t, store.SaveMatch(ctx, record))

	records, err := store.ListMatches(ctx, service.MatchFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Price)
	assert.Empty(t, records[0].Currency)
}

func TestSQLiteStore_ListMatchesFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, store.SaveMatch(ctx, testRecord("Phone", "alpha", base)))
	require.NoError(t, store.SaveMatch(ctx, testRecord("Phone", "beta", base.Add(time.Second))))
	require.NoError(t, store.SaveMatch(ctx, testRecord("Laptop", "alpha", base.Add(2*time.Second))))

	records, err := store.ListMatches(ctx, service.MatchFilter{Product: "Phone"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = store.ListMatches(ctx, service.MatchFilter{Channel: "alpha"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = store.ListMatches(ctx, service.MatchFilter{Product: "Phone", Channel: "alpha"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alpha", records[0].Channel)

	records, err = store.ListMatches(ctx, service.MatchFilter{Product: "Unknown"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLiteStore_ListMatchesNewestFirstWithLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		record := testRecord("Phone", "alpha", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, store.SaveMatch(ctx, record))
	}

	records, err := store.ListMatches(ctx, service.MatchFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))
}

func TestSQLiteStore_CountMatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.CountMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, store.SaveMatch(ctx, testRecord("Phone", "alpha", time.Now())))
	require.NoError(t, store.SaveMatch(ctx, testRecord("Phone", "beta", time.Now())))

	count, err = store.CountMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSQLiteStore_SaveMatchValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SaveMatch(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	record := testRecord("Phone", "alpha", time.Now())
	record.ID = ""
	assert.Error(t, store.SaveMatch(ctx, record))

	record = testRecord("", "alpha", time.Now())
	assert.Error(t, store.SaveMatch(ctx, record))
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
