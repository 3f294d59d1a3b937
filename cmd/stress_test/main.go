package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/product-inventory/internal/adapter/handler"
	"github.com/rl1809/product-inventory/internal/adapter/storage"
	"github.com/rl1809/product-inventory/internal/core/domain"
)

const (
	warehouseID   = 5
	productID     = 387
	amount        = 3
	totalRequests = 200
)

// Fires concurrent AddStock transactions at a running server and checks
// that no update was lost.
func main() {
	ctx := context.Background()

	conn, err := grpc.NewClient(getEnv("GRPC_ADDR", "localhost:50051"),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("failed to connect grpc: %v", err)
	}
	defer conn.Close()
	client := handler.NewInventoryClient(conn)

	before, err := client.GetWarehouse(ctx, warehouseID)
	if err != nil {
		log.Fatalf("failed to read warehouse %d: %v", warehouseID, err)
	}

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := client.ApplyTransaction(ctx, domain.InventoryTransaction{
				ProductID:       productID,
				WarehouseID:     warehouseID,
				TransactionType: domain.TransactionTypeAddStock,
				Amount:          amount,
			})
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()

	after, err := client.GetWarehouse(ctx, warehouseID)
	if err != nil {
		log.Fatalf("failed to read warehouse %d: %v", warehouseID, err)
	}
	expected := before.QOH + int(success)*amount

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial QOH:      %d\n", before.QOH)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Printf("Final QOH:        %d\n", after.QOH)
	fmt.Println("==========================================")

	if after.QOH == expected && fail == 0 {
		fmt.Printf("PASS: QOH moved by exactly %d\n", int(success)*amount)
	} else {
		fmt.Printf("FAIL: Expected QOH %d with no failures, got %d (%d failed)\n", expected, after.QOH, fail)
	}

	product, err := client.GetProduct(ctx, productID)
	if err == nil {
		for _, w := range product.Warehouses {
			if w.WarehouseID == warehouseID && w.QOH != after.QOH {
				fmt.Printf("FAIL: Product snapshot QOH %d, warehouse QOH %d\n", w.QOH, after.QOH)
			}
		}
	}

	// Verify the mirror when one is configured
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	mirrored, ok, err := storage.NewRedisAdapter(rdb).GetStock(ctx, warehouseID)
	switch {
	case err != nil:
		fmt.Printf("SKIP: Redis unavailable: %v\n", err)
	case !ok:
		fmt.Println("FAIL: Warehouse not mirrored in Redis")
	case mirrored != after.QOH:
		fmt.Printf("FAIL: Redis QOH %d, warehouse QOH %d\n", mirrored, after.QOH)
	default:
		fmt.Printf("PASS: Redis mirror matches (%d)\n", mirrored)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
