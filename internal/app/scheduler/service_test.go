package scheduler

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manya112233/canteen/internal/adapter/logger"
	"github.com/manya112233/canteen/internal/domain"
	"github.com/manya112233/canteen/internal/interfaces"
)

// mockStore records saves and serves a canned history on load.
type mockStore struct {
	loaded    interfaces.History
	loadErr   error
	saveErr   error
	saveCalls int
}

func (m *mockStore) Save(history interfaces.History) error {
	m.saveCalls++
	return m.saveErr
}

func (m *mockStore) Load() (interfaces.History, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.loaded == nil {
		return interfaces.History{}, nil
	}
	return m.loaded, nil
}

func newTestService(t *testing.T, store *mockStore) *Service {
	t.Helper()
	return NewService(store, logger.NewWithWriter("scheduler-test", io.Discard))
}

func testOrder(id, customerID string, at time.Time) *domain.Order {
	return domain.NewOrder(id, customerID, at, map[string]domain.OrderLine{
		"i1": {
			Item:     domain.Item{ID: "i1", Name: "Soup", Price: 3.50, Category: "mains", Available: true},
			Quantity: 1,
		},
	})
}

func TestPlaceOrder_VIPPrecedesStandard(t *testing.T) {
	service := newTestService(t, &mockStore{})
	base := time.Now()

	a := testOrder("a", "c1", base.Add(10*time.Second))
	b := testOrder("b", "c2", base.Add(20*time.Second))

	service.PlaceOrder(a, false)
	service.PlaceOrder(b, true)

	pending := service.PendingOrders()
	require.Len(t, pending, 2)
	// b is VIP, so it comes first even though it was submitted later
	assert.Equal(t, "b", pending[0].ID)
	assert.Equal(t, "a", pending[1].ID)
}

func TestPendingOrders_AscendingWithinTier(t *testing.T) {
	service := newTestService(t, &mockStore{})
	base := time.Now()

	service.PlaceOrder(testOrder("v2", "c1", base.Add(2*time.Second)), true)
	service.PlaceOrder(testOrder("v1", "c1", base.Add(1*time.Second)), true)
	service.PlaceOrder(testOrder("s2", "c2", base.Add(4*time.Second)), false)
	service.PlaceOrder(testOrder("s1", "c2", base.Add(3*time.Second)), false)

	pending := service.PendingOrders()
	require.Len(t, pending, 4)
	assert.Equal(t, "v1", pending[0].ID)
	assert.Equal(t, "v2", pending[1].ID)
	assert.Equal(t, "s1", pending[2].ID)
	assert.Equal(t, "s2", pending[3].ID)
}

func TestPendingOrders_SnapshotDoesNotDrain(t *testing.T) {
	service := newTestService(t, &mockStore{})

	service.PlaceOrder(testOrder("a", "c1", time.Now()), true)

	first := service.PendingOrders()
	second := service.PendingOrders()
	assert.Equal(t, first, second)
	assert.Len(t, second, 1)
}

func TestUpdateOrderStatus_TerminalEviction(t *testing.T) {
	service := newTestService(t, &mockStore{})
	base := time.Now()

	a := testOrder("a", "c1", base.Add(10*time.Second))
	b := testOrder("b", "c2", base.Add(20*time.Second))
	service.PlaceOrder(a, false)
	service.PlaceOrder(b, true)

	err := service.UpdateOrderStatus("a", domain.StatusCancelled)
	require.NoError(t, err)

	pending := service.PendingOrders()
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].ID)

	// a stays in history with its updated status
	history := service.CustomerHistory("c1")
	require.Len(t, history, 1)
	assert.Equal(t, "a", history[0].ID)
	assert.Equal(t, domain.StatusCancelled, history[0].Status)
}

func TestUpdateOrderStatus_NonTerminalKeepsOrderQueued(t *testing.T) {
	service := newTestService(t, &mockStore{})

	service.PlaceOrder(testOrder("a", "c1", time.Now()), false)

	require.NoError(t, service.UpdateOrderStatus("a", domain.StatusPreparing))

	pending := service.PendingOrders()
	require.Len(t, pending, 1)
	assert.Equal(t, domain.StatusPreparing, pending[0].Status)
}

func TestUpdateOrderStatus_UnknownOrder(t *testing.T) {
	service := newTestService(t, &mockStore{})

	err := service.UpdateOrderStatus("missing", domain.StatusDelivered)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateOrderStatus_UpdatesEveryDuplicate(t *testing.T) {
	service := newTestService(t, &mockStore{})
	base := time.Now()

	// Duplicate ids are accepted; both entries appear in history.
	service.PlaceOrder(testOrder("dup", "c1", base), false)
	service.PlaceOrder(testOrder("dup", "c1", base.Add(time.Second)), false)

	require.NoError(t, service.UpdateOrderStatus("dup", domain.StatusDelivered))

	history := service.CustomerHistory("c1")
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusDelivered, history[0].Status)
	assert.Equal(t, domain.StatusDelivered, history[1].Status)
	assert.Empty(t, service.PendingOrders())
}

func TestFindOrder(t *testing.T) {
	service := newTestService(t, &mockStore{})

	order := testOrder("a", "c1", time.Now())
	service.PlaceOrder(order, false)

	found, err := service.FindOrder("a")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = service.FindOrder("unknown")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCustomerHistory_UnknownCustomerIsEmpty(t *testing.T) {
	service := newTestService(t, &mockStore{})

	assert.Empty(t, service.CustomerHistory("nobody"))
}

func TestHistoryPermanence(t *testing.T) {
	service := newTestService(t, &mockStore{})

	service.PlaceOrder(testOrder("a", "c1", time.Now()), true)
	require.NoError(t, service.UpdateOrderStatus("a", domain.StatusDelivered))

	all := service.AllOrders()
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusDelivered, all[0].Status)
}

func TestNewService_RebuildsHistoryButNotQueues(t *testing.T) {
	stored := testOrder("a", "c1", time.Now())
	store := &mockStore{loaded: interfaces.History{"c1": {stored}}}

	service := newTestService(t, store)

	// History survives the restart; pending orders are not replayed.
	assert.Empty(t, service.PendingOrders())
	history := service.CustomerHistory("c1")
	require.Len(t, history, 1)
	assert.Equal(t, "a", history[0].ID)
}

func TestNewService_LoadFailureStartsEmpty(t *testing.T) {
	store := &mockStore{loadErr: errors.New("disk gone")}

	service := newTestService(t, store)

	assert.Empty(t, service.AllOrders())
	assert.Empty(t, service.PendingOrders())
}

func TestPlaceOrder_SaveFailureKeepsInMemoryState(t *testing.T) {
	store := &mockStore{saveErr: errors.New("disk full")}
	service := newTestService(t, store)

	service.PlaceOrder(testOrder("a", "c1", time.Now()), false)

	require.Len(t, service.PendingOrders(), 1)
	require.Len(t, service.CustomerHistory("c1"), 1)
}

func TestPlaceOrder_TriggersPersistence(t *testing.T) {
	store := &mockStore{}
	service := newTestService(t, store)

	service.PlaceOrder(testOrder("a", "c1", time.Now()), false)
	require.NoError(t, service.UpdateOrderStatus("a", domain.StatusDelivered))

	assert.Equal(t, 2, store.saveCalls)
}
