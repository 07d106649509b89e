package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/batch-allocation/internal/core/domain"
	"github.com/rl1809/batch-allocation/internal/core/service"
	"github.com/rl1809/batch-allocation/internal/port"
)

type GRPCHandler struct {
	allocationService *service.AllocationService
	log               zerolog.Logger
}

var _ AllocationServer = (*GRPCHandler)(nil)

func NewGRPCHandler(allocationService *service.AllocationService, log zerolog.Logger) *GRPCHandler {
	return &GRPCHandler{allocationService: allocationService, log: log}
}

func (h *GRPCHandler) Allocate(ctx context.Context, req *OrderLineRequest) (*AllocationResponse, error) {
	line, err := toOrderLine(req)
	if err != nil {
		return nil, err
	}

	ref, err := h.allocationService.Allocate(ctx, line)
	if err != nil {
		if errors.Is(err, domain.ErrOutOfStock) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		if errors.Is(err, port.ErrAllocationConflict) {
			return nil, status.Error(codes.Aborted, "allocation conflict, retry")
		}
		h.log.Error().Err(err).Str("order_id", line.OrderID).Msg("grpc allocate failed")
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &AllocationResponse{BatchRef: ref}, nil
}

func (h *GRPCHandler) Deallocate(ctx context.Context, req *OrderLineRequest) (*AllocationResponse, error) {
	line, err := toOrderLine(req)
	if err != nil {
		return nil, err
	}

	ref, err := h.allocationService.Deallocate(ctx, line)
	if err != nil {
		h.log.Error().Err(err).Str("order_id", line.OrderID).Msg("grpc deallocate failed")
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &AllocationResponse{BatchRef: ref}, nil
}

func toOrderLine(req *OrderLineRequest) (domain.OrderLine, error) {
	if req.GetOrderID() == "" || req.GetSKU() == "" || req.GetQty() <= 0 {
		return domain.OrderLine{}, status.Error(codes.InvalidArgument, "missing required fields")
	}
	return domain.OrderLine{OrderID: req.OrderID, SKU: req.SKU, Qty: int(req.Qty)}, nil
}
