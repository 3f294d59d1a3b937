package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/rl1809/product-inventory/internal/core/domain"
)

// InventoryClient calls the inventory gRPC service over a caller-owned connection.
type InventoryClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryClient(cc grpc.ClientConnInterface) *InventoryClient {
	return &InventoryClient{cc: cc}
}

func (c *InventoryClient) ApplyTransaction(ctx context.Context, tx domain.InventoryTransaction, opts ...grpc.CallOption) (domain.InventoryTransaction, error) {
	var out domain.InventoryTransaction
	err := c.invoke(ctx, "ApplyTransaction", &tx, &out, opts)
	return out, err
}

func (c *InventoryClient) GetWarehouse(ctx context.Context, warehouseID int, opts ...grpc.CallOption) (domain.Warehouse, error) {
	var out domain.Warehouse
	err := c.invoke(ctx, "GetWarehouse", &GetWarehouseRequest{WarehouseID: warehouseID}, &out, opts)
	return out, err
}

func (c *InventoryClient) GetProduct(ctx context.Context, productID int, opts ...grpc.CallOption) (domain.Product, error) {
	var out domain.Product
	err := c.invoke(ctx, "GetProduct", &GetProductRequest{ProductID: productID}, &out, opts)
	return out, err
}

func (c *InventoryClient) ListWarehousesByProduct(ctx context.Context, productID int, opts ...grpc.CallOption) ([]domain.Warehouse, error) {
	var out ListWarehousesResponse
	err := c.invoke(ctx, "ListWarehousesByProduct", &ListWarehousesByProductRequest{ProductID: productID}, &out, opts)
	return out.Warehouses, err
}

func (c *InventoryClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.ForceCodec(JSONCodec{})}, opts...)
	return c.cc.Invoke(ctx, "/"+inventoryServiceName+"/"+method, in, out, opts...)
}
