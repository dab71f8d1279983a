package flatfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manya112233/canteen/internal/adapter/logger"
	"github.com/manya112233/canteen/internal/domain"
	"github.com/manya112233/canteen/internal/interfaces"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.dat")
	return NewStore(path, logger.NewWithWriter("flatfile-test", io.Discard))
}

func writeStoreFile(t *testing.T, store *Store, lines string) {
	t.Helper()
	require.NoError(t, os.WriteFile(store.path, []byte(lines), 0o644))
}

func TestSaveLoad_RoundTripWithoutItems(t *testing.T) {
	store := newTestStore(t)

	createdA := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	createdB := time.Date(2024, 1, 1, 11, 30, 0, 0, time.UTC)
	history := interfaces.History{
		"c1": {
			{ID: "o1", CustomerID: "c1", Status: domain.StatusPending, TotalAmount: 9.99, CreatedAt: createdA, Lines: map[string]domain.OrderLine{}},
		},
		"c2": {
			{ID: "o2", CustomerID: "c2", Status: domain.StatusDelivered, TotalAmount: 4.50, CreatedAt: createdB, Lines: map[string]domain.OrderLine{}},
		},
	}

	require.NoError(t, store.Save(history))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	require.Len(t, loaded["c1"], 1)
	got := loaded["c1"][0]
	assert.Equal(t, "o1", got.ID)
	assert.Equal(t, "c1", got.CustomerID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, 9.99, got.TotalAmount)
	assert.True(t, createdA.Equal(got.CreatedAt))

	require.Len(t, loaded["c2"], 1)
	got = loaded["c2"][0]
	assert.Equal(t, "o2", got.ID)
	assert.Equal(t, domain.StatusDelivered, got.Status)
	assert.Equal(t, 4.50, got.TotalAmount)
	assert.True(t, createdB.Equal(got.CreatedAt))
}

func TestSaveLoad_RoundTripWithItems(t *testing.T) {
	store := newTestStore(t)

	created := time.Date(2024, 3, 15, 12, 45, 30, 0, time.UTC)
	order := domain.NewOrder("o1", "c1", created, map[string]domain.OrderLine{
		"i1": {
			Item:           domain.Item{ID: "i1", Name: "Latte", Price: 4.50, Category: "coffee", Available: true},
			Quantity:       2,
			SpecialRequest: "extra hot",
		},
		"i2": {
			Item:     domain.Item{ID: "i2", Name: "Bagel", Price: 2.25, Category: "pastry", Available: true},
			Quantity: 1,
		},
	})

	require.NoError(t, store.Save(interfaces.History{"c1": {order}}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded["c1"], 1)

	got := loaded["c1"][0]
	assert.Equal(t, order.TotalAmount, got.TotalAmount)
	require.Len(t, got.Lines, 2)

	latte := got.Lines["i1"]
	assert.Equal(t, "Latte", latte.Item.Name)
	assert.Equal(t, 4.50, latte.Item.Price)
	assert.Equal(t, "coffee", latte.Item.Category)
	assert.Equal(t, 2, latte.Quantity)
	assert.Equal(t, "extra hot", latte.SpecialRequest)

	bagel := got.Lines["i2"]
	assert.Equal(t, "Bagel", bagel.Item.Name)
	assert.Equal(t, 1, bagel.Quantity)
	assert.Empty(t, bagel.SpecialRequest)
}

func TestLoad_UnknownStatusDefaultsToPending(t *testing.T) {
	store := newTestStore(t)
	writeStoreFile(t, store, "X1,C1,BOGUS,9.99,2024-01-01T10:00:00\n")

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded["C1"], 1)
	assert.Equal(t, "X1", loaded["C1"][0].ID)
	assert.Equal(t, domain.StatusPending, loaded["C1"][0].Status)
}

func TestLoad_ShortLineSkipped(t *testing.T) {
	store := newTestStore(t)
	writeStoreFile(t, store,
		"X1,C1,PENDING\n"+
			"X2,C2,PENDING,5.00,2024-01-01T10:00:00\n")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded["C1"])
	require.Len(t, loaded["C2"], 1)
	assert.Equal(t, "X2", loaded["C2"][0].ID)
}

func TestLoad_BadAmountSkipsLineOnly(t *testing.T) {
	store := newTestStore(t)
	writeStoreFile(t, store,
		"X1,C1,PENDING,not-a-number,2024-01-01T10:00:00\n"+
			"X2,C1,PENDING,5.00,2024-01-01T10:05:00\n")

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded["C1"], 1)
	assert.Equal(t, "X2", loaded["C1"][0].ID)
}

func TestLoad_BadTimestampSkipsLineOnly(t *testing.T) {
	store := newTestStore(t)
	writeStoreFile(t, store,
		"X1,C1,PENDING,5.00,yesterday\n"+
			"X2,C1,PENDING,5.00,2024-01-01T10:05:00\n")

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded["C1"], 1)
	assert.Equal(t, "X2", loaded["C1"][0].ID)
}

func TestLoad_MalformedItemEntrySkipsEntryNotOrder(t *testing.T) {
	store := newTestStore(t)
	writeStoreFile(t, store,
		"X1,C1,PENDING,9.00,2024-01-01T10:00:00,i1|Latte|4.50|coffee|2|,i2|Bagel|oops\n")

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded["C1"], 1)

	got := loaded["C1"][0]
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Latte", got.Lines["i1"].Item.Name)
}

func TestLoad_MissingFileIsEmptyHistory(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSave_RewritesWholeFile(t *testing.T) {
	store := newTestStore(t)
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	big := interfaces.History{
		"c1": {
			{ID: "o1", CustomerID: "c1", Status: domain.StatusPending, TotalAmount: 1, CreatedAt: created, Lines: map[string]domain.OrderLine{}},
			{ID: "o2", CustomerID: "c1", Status: domain.StatusPending, TotalAmount: 2, CreatedAt: created, Lines: map[string]domain.OrderLine{}},
		},
	}
	require.NoError(t, store.Save(big))

	small := interfaces.History{
		"c1": {
			{ID: "o3", CustomerID: "c1", Status: domain.StatusReady, TotalAmount: 3, CreatedAt: created, Lines: map[string]domain.OrderLine{}},
		},
	}
	require.NoError(t, store.Save(small))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded["c1"], 1)
	assert.Equal(t, "o3", loaded["c1"][0].ID)
}

func TestSave_StripsDelimitersFromFreeText(t *testing.T) {
	store := newTestStore(t)

	order := domain.NewOrder("o1", "c1", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), map[string]domain.OrderLine{
		"i1": {
			Item:           domain.Item{ID: "i1", Name: "Fish, chips | extra", Price: 7.00, Category: "mains", Available: true},
			Quantity:       1,
			SpecialRequest: "no salt, please",
		},
	})

	require.NoError(t, store.Save(interfaces.History{"c1": {order}}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded["c1"], 1)
	require.Len(t, loaded["c1"][0].Lines, 1)

	line := loaded["c1"][0].Lines["i1"]
	assert.NotContains(t, line.Item.Name, ",")
	assert.NotContains(t, line.Item.Name, "|")
	assert.Equal(t, "no salt  please", line.SpecialRequest)
}
