package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/product-inventory/internal/adapter/storage"
	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/metrics"
)

var lastDelivery = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

type testStack struct {
	products     *storage.ProductStore
	warehouses   *storage.WarehouseStore
	productSvc   *ProductService
	warehouseSvc *WarehouseService
	txSvc        *TransactionService
	mirror       *mockStockMirror
	events       *mockPublisher
	metrics      *metrics.Registry
}

func newTestStack(t *testing.T, txOpts ...TransactionOption) *testStack {
	t.Helper()

	m := metrics.NewRegistry()
	products := storage.NewProductStore()
	warehouses := storage.NewWarehouseStore(NewSynchronizer(products, nil, m))
	mirror := newMockStockMirror()
	events := &mockPublisher{}
	warehouses.OnCommit(NewStockMirrorHook(mirror, nil, m))
	opts := []Option{WithEventPublisher(events), WithMetrics(m)}

	return &testStack{
		products:     products,
		warehouses:   warehouses,
		productSvc:   NewProductService(products, products, warehouses, opts...),
		warehouseSvc: NewWarehouseService(warehouses, opts...),
		txSvc:        NewTransactionService(products, warehouses, txOpts, opts...),
		mirror:       mirror,
		events:       events,
		metrics:      m,
	}
}

func gadget() domain.Product {
	return domain.Product{ProductID: 1, ProductName: "Gadget", InStock: true, LastDelivery: lastDelivery}
}

func mainWarehouse() domain.Warehouse {
	return domain.Warehouse{
		WarehouseID:   10,
		ProductID:     1,
		WarehouseName: "Main WH",
		Address:       domain.Address{Street: "100 Main St", City: "Sometown", Country: "USA"},
		QOH:           50,
	}
}

func (s *testStack) seedScenario(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := s.productSvc.CreateProduct(ctx, gadget())
	require.NoError(t, err)
	_, err = s.warehouseSvc.CreateWarehouse(ctx, mainWarehouse())
	require.NoError(t, err)
}

func addStock(id, amount int) domain.InventoryTransaction {
	return domain.InventoryTransaction{
		TransactionID:   id,
		ProductID:       1,
		WarehouseID:     10,
		TransactionType: domain.TransactionTypeAddStock,
		Amount:          amount,
	}
}

func TestApplyTransaction_AddStock(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	tx, err := s.txSvc.ApplyTransaction(ctx, addStock(1, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, tx.TransactionID)

	w, err := s.warehouseSvc.GetWarehouse(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 70, w.QOH)
	require.Len(t, w.Transactions, 1)
	assert.Equal(t, addStock(1, 20), w.Transactions[0])

	qoh, ok := s.mirror.get(10)
	require.True(t, ok)
	assert.Equal(t, 70, qoh)
	assert.Contains(t, s.events.types(), domain.EventTransactionApplied)
}

func TestApplyTransaction_ProductNotFound(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	tx := addStock(1, 20)
	tx.ProductID = 999
	_, err := s.txSvc.ApplyTransaction(ctx, tx)

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "product", nf.Entity)
	assert.Equal(t, 999, nf.ID)

	w, err := s.warehouseSvc.GetWarehouse(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 50, w.QOH)
	assert.Empty(t, w.Transactions)
}

func TestApplyTransaction_WarehouseNotFound(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)

	tx := addStock(0, 5)
	tx.WarehouseID = 77
	_, err := s.txSvc.ApplyTransaction(context.Background(), tx)

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "warehouse", nf.Entity)
}

func TestApplyTransaction_ProductMismatch(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	other := gadget()
	other.ProductID = 2
	_, err := s.productSvc.CreateProduct(ctx, other)
	require.NoError(t, err)

	tx := addStock(0, 5)
	tx.ProductID = 2
	_, err = s.txSvc.ApplyTransaction(ctx, tx)
	assert.ErrorIs(t, err, domain.ErrValidation)

	w, _ := s.warehouseSvc.GetWarehouse(ctx, 10)
	assert.Equal(t, 50, w.QOH)
}

func TestApplyTransaction_NotIdempotent(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	_, err := s.txSvc.ApplyTransaction(ctx, addStock(5, 20))
	require.NoError(t, err)
	_, err = s.txSvc.ApplyTransaction(ctx, addStock(5, 20))
	require.NoError(t, err)

	w, _ := s.warehouseSvc.GetWarehouse(ctx, 10)
	assert.Equal(t, 90, w.QOH)
	assert.Len(t, w.Transactions, 2)
}

func TestApplyTransaction_UpperBound(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	_, err := s.txSvc.ApplyTransaction(ctx, addStock(0, domain.MaxQOH-50))
	require.NoError(t, err)

	_, err = s.txSvc.ApplyTransaction(ctx, addStock(0, 1))
	require.ErrorIs(t, err, domain.ErrValidation)

	w, _ := s.warehouseSvc.GetWarehouse(ctx, 10)
	assert.Equal(t, domain.MaxQOH, w.QOH)
	assert.Len(t, w.Transactions, 1)
}

func TestApplyTransaction_AmountOutOfRange(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)

	_, err := s.txSvc.ApplyTransaction(context.Background(), addStock(0, domain.MaxQOH+1))
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "amount", ve.Errors[0].Param)
}

func TestApplyTransaction_RemoveStockPolicy(t *testing.T) {
	tx := addStock(0, 30)
	tx.TransactionType = domain.TransactionTypeRemoveStock

	t.Run("rejected by default", func(t *testing.T) {
		s := newTestStack(t)
		s.seedScenario(t)

		_, err := s.txSvc.ApplyTransaction(context.Background(), tx)
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "transactionType", ve.Errors[0].Param)
	})

	t.Run("allowed", func(t *testing.T) {
		s := newTestStack(t, WithRemoveStock(true))
		s.seedScenario(t)
		ctx := context.Background()

		_, err := s.txSvc.ApplyTransaction(ctx, tx)
		require.NoError(t, err)
		w, _ := s.warehouseSvc.GetWarehouse(ctx, 10)
		assert.Equal(t, 20, w.QOH)

		_, err = s.txSvc.ApplyTransaction(ctx, tx)
		require.ErrorIs(t, err, domain.ErrValidation)
		w, _ = s.warehouseSvc.GetWarehouse(ctx, 10)
		assert.Equal(t, 20, w.QOH)
	})
}

func TestApplyTransaction_AssignsIDs(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	first, err := s.txSvc.ApplyTransaction(ctx, addStock(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, first.TransactionID)

	_, err = s.txSvc.ApplyTransaction(ctx, addStock(40, 1))
	require.NoError(t, err)

	next, err := s.txSvc.ApplyTransaction(ctx, addStock(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 41, next.TransactionID)
}

func TestApplyTransaction_RejectedIDNotReserved(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	tx := addStock(40, 1)
	tx.WarehouseID = 77
	_, err := s.txSvc.ApplyTransaction(ctx, tx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.txSvc.ApplyTransaction(ctx, addStock(41, 2_000_000))
	require.ErrorIs(t, err, domain.ErrValidation)

	next, err := s.txSvc.ApplyTransaction(ctx, addStock(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, next.TransactionID)
}

func TestSeedSequence(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)

	w := mainWarehouse()
	w.Transactions = []domain.InventoryTransaction{addStock(12, 1), addStock(7, 1)}
	s.txSvc.SeedSequence([]domain.Warehouse{w})

	tx, err := s.txSvc.ApplyTransaction(context.Background(), addStock(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 13, tx.TransactionID)
}

func TestReplaceWarehouse_PropagatesToProduct(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	stale := gadget()
	stale.ProductID = 2
	_, err := s.productSvc.CreateProduct(ctx, stale)
	require.NoError(t, err)

	_, err = s.productSvc.MaterializeWarehouses(ctx, 1)
	require.NoError(t, err)

	renamed := mainWarehouse()
	renamed.WarehouseName = "Renamed"
	renamed.QOH = 80
	_, err = s.warehouseSvc.ReplaceWarehouse(ctx, renamed)
	require.NoError(t, err)

	p, err := s.productSvc.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, p.Warehouses, 1)
	assert.Equal(t, renamed, p.Warehouses[0])
	require.NotNil(t, p.TotalQuantity)
	assert.Equal(t, 80, *p.TotalQuantity)

	untouched, err := s.productSvc.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, untouched.Warehouses)
	assert.Nil(t, untouched.TotalQuantity)
}

func TestApplyTransaction_PropagatesToProduct(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	_, err := s.productSvc.MaterializeWarehouses(ctx, 1)
	require.NoError(t, err)
	_, err = s.txSvc.ApplyTransaction(ctx, addStock(1, 20))
	require.NoError(t, err)

	p, err := s.productSvc.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, p.Warehouses, 1)
	assert.Equal(t, 70, p.Warehouses[0].QOH)
	assert.Len(t, p.Warehouses[0].Transactions, 1)
	assert.Equal(t, 70, *p.TotalQuantity)
}

func TestDeleteWarehouse_RemovesSnapshots(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	_, err := s.productSvc.MaterializeWarehouses(ctx, 1)
	require.NoError(t, err)

	deleted, err := s.warehouseSvc.DeleteWarehouse(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, deleted.WarehouseID)

	_, err = s.warehouseSvc.GetWarehouse(ctx, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, err := s.productSvc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, p.Warehouses)
	assert.Equal(t, 0, *p.TotalQuantity)

	_, ok := s.mirror.get(10)
	assert.False(t, ok)
	assert.Contains(t, s.events.types(), domain.EventWarehouseDeleted)
}

func TestMissingRecords(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	_, err := s.warehouseSvc.ReplaceWarehouse(ctx, mainWarehouse())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.warehouseSvc.DeleteWarehouse(ctx, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.productSvc.ReplaceProduct(ctx, gadget())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.productSvc.DeleteProduct(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.productSvc.MaterializeWarehouses(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.events.types())
}

func TestCreate_Conflict(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	_, err := s.warehouseSvc.CreateWarehouse(ctx, mainWarehouse())
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = s.productSvc.CreateProduct(ctx, gadget())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestListWarehousesByProduct(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	ws, err := s.warehouseSvc.ListWarehousesByProduct(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, ws, 1)

	ws, err = s.warehouseSvc.ListWarehousesByProduct(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, ws)
	assert.Empty(t, ws)
}

func TestSideEffectFailures_DoNotFailCalls(t *testing.T) {
	s := newTestStack(t)
	s.mirror.err = errors.New("redis down")
	s.events.err = errors.New("kafka down")
	s.seedScenario(t)

	_, err := s.txSvc.ApplyTransaction(context.Background(), addStock(0, 5))
	require.NoError(t, err)

	w, _ := s.warehouseSvc.GetWarehouse(context.Background(), 10)
	assert.Equal(t, 55, w.QOH)
	assert.Equal(t, float64(2), testutil.ToFloat64(s.metrics.MirrorFailed))
	assert.Equal(t, float64(3), testutil.ToFloat64(s.metrics.EventsFailed))
}

func TestStockMirror_FollowsCommitOrder(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()
	entered, release := s.mirror.hold()

	txDone := make(chan error, 1)
	go func() {
		_, err := s.txSvc.ApplyTransaction(ctx, addStock(0, 20))
		txDone <- err
	}()
	assert.Equal(t, 70, <-entered)

	replacement := mainWarehouse()
	replacement.QOH = 100
	replaceDone := make(chan error, 1)
	go func() {
		_, err := s.warehouseSvc.ReplaceWarehouse(ctx, replacement)
		replaceDone <- err
	}()

	select {
	case <-replaceDone:
		t.Fatal("replace committed while the transaction was still mirroring")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	require.NoError(t, <-txDone)
	require.NoError(t, <-replaceDone)
	assert.Equal(t, 100, <-entered)

	w, err := s.warehouseSvc.GetWarehouse(ctx, 10)
	require.NoError(t, err)
	qoh, ok := s.mirror.get(10)
	require.True(t, ok)
	assert.Equal(t, w.QOH, qoh)
	assert.Equal(t, 100, qoh)
}

func TestMaterializeWarehouses_Concurrent(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.productSvc.MaterializeWarehouses(ctx, 1)
			if assert.NoError(t, err) {
				assert.Len(t, p.Warehouses, 1)
			}
		}()
	}
	wg.Wait()

	p, err := s.productSvc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, p.Warehouses, 1)
	assert.Equal(t, 50, *p.TotalQuantity)
}

func TestProductSnapshots_OnlyWrittenBySync(t *testing.T) {
	s := newTestStack(t)
	s.seedScenario(t)
	ctx := context.Background()

	ghost := mainWarehouse()
	ghost.WarehouseID = 777
	forged := gadget()
	forged.ProductID = 2
	forged.Warehouses = []domain.Warehouse{ghost}

	created, err := s.productSvc.CreateProduct(ctx, forged)
	require.NoError(t, err)
	assert.Nil(t, created.Warehouses)

	_, err = s.productSvc.MaterializeWarehouses(ctx, 1)
	require.NoError(t, err)

	renamed := gadget()
	renamed.ProductName = "Gadget II"
	_, err = s.productSvc.ReplaceProduct(ctx, renamed)
	require.NoError(t, err)

	p, err := s.productSvc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Gadget II", p.ProductName)
	require.Len(t, p.Warehouses, 1)
	assert.Equal(t, mainWarehouse(), p.Warehouses[0])

	_, err = s.txSvc.ApplyTransaction(ctx, addStock(0, 5))
	require.NoError(t, err)
	p, _ = s.productSvc.GetProduct(ctx, 1)
	assert.Equal(t, 55, p.Warehouses[0].QOH)
}
