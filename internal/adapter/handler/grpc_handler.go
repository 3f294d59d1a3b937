package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/core/service"
)

const inventoryServiceName = "inventory.v1.InventoryService"

type GetWarehouseRequest struct {
	WarehouseID int `json:"warehouseId"`
}

type GetProductRequest struct {
	ProductID int `json:"productId"`
}

type ListWarehousesByProductRequest struct {
	ProductID int `json:"productId"`
}

type ListWarehousesResponse struct {
	Warehouses []domain.Warehouse `json:"warehouses"`
}

type InventoryServer interface {
	ApplyTransaction(context.Context, *domain.InventoryTransaction) (*domain.InventoryTransaction, error)
	GetWarehouse(context.Context, *GetWarehouseRequest) (*domain.Warehouse, error)
	GetProduct(context.Context, *GetProductRequest) (*domain.Product, error)
	ListWarehousesByProduct(context.Context, *ListWarehousesByProductRequest) (*ListWarehousesResponse, error)
}

var inventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: inventoryServiceName,
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ApplyTransaction", Handler: unaryHandler("ApplyTransaction", InventoryServer.ApplyTransaction)},
		{MethodName: "GetWarehouse", Handler: unaryHandler("GetWarehouse", InventoryServer.GetWarehouse)},
		{MethodName: "GetProduct", Handler: unaryHandler("GetProduct", InventoryServer.GetProduct)},
		{MethodName: "ListWarehousesByProduct", Handler: unaryHandler("ListWarehousesByProduct", InventoryServer.ListWarehousesByProduct)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterInventoryServer registers srv; the server must be built with
// grpc.ForceServerCodec(JSONCodec{}).
func RegisterInventoryServer(s grpc.ServiceRegistrar, srv InventoryServer) {
	s.RegisterService(&inventoryServiceDesc, srv)
}

func unaryHandler[Req, Resp any](method string, call func(InventoryServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + inventoryServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InventoryServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type GRPCHandler struct {
	warehouses   *service.WarehouseService
	products     *service.ProductService
	transactions *service.TransactionService
	logger       *zap.Logger
}

var _ InventoryServer = (*GRPCHandler)(nil)

func NewGRPCHandler(warehouses *service.WarehouseService, products *service.ProductService, transactions *service.TransactionService, logger *zap.Logger) *GRPCHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandler{
		warehouses:   warehouses,
		products:     products,
		transactions: transactions,
		logger:       logger,
	}
}

func (h *GRPCHandler) ApplyTransaction(ctx context.Context, req *domain.InventoryTransaction) (*domain.InventoryTransaction, error) {
	tx, err := h.transactions.ApplyTransaction(ctx, *req)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &tx, nil
}

func (h *GRPCHandler) GetWarehouse(ctx context.Context, req *GetWarehouseRequest) (*domain.Warehouse, error) {
	w, err := h.warehouses.GetWarehouse(ctx, req.WarehouseID)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &w, nil
}

func (h *GRPCHandler) GetProduct(ctx context.Context, req *GetProductRequest) (*domain.Product, error) {
	p, err := h.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &p, nil
}

func (h *GRPCHandler) ListWarehousesByProduct(ctx context.Context, req *ListWarehousesByProductRequest) (*ListWarehousesResponse, error) {
	ws, err := h.warehouses.ListWarehousesByProduct(ctx, req.ProductID)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &ListWarehousesResponse{Warehouses: ws}, nil
}

func (h *GRPCHandler) toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		h.logger.Error("grpc call failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}
