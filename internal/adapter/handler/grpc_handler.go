package handler

import (
	"context"
	"time"

	"github.com/dmaia/balanco/internal/adapter/handler/pb"
	"github.com/dmaia/balanco/internal/core/domain"
	"github.com/dmaia/balanco/internal/core/service"
)

type GRPCHandler struct {
	pb.UnimplementedCountingServer
	sectors *service.SectorService
	counts  *service.CountService
}

func NewGRPCHandler(sectors *service.SectorService, counts *service.CountService) *GRPCHandler {
	return &GRPCHandler{sectors: sectors, counts: counts}
}

func (h *GRPCHandler) ClaimSector(ctx context.Context, req *pb.ClaimSectorRequest) (*pb.ClaimSectorResponse, error) {
	result, err := h.sectors.Claim(ctx, req.GetSectorId(), req.GetOperatorId())
	if err != nil {
		return &pb.ClaimSectorResponse{
			Success: false,
			Message: err.Error(),
		}, nil
	}
	return &pb.ClaimSectorResponse{
		Success: true,
		Message: "sector claimed",
		Warning: result.Warning,
	}, nil
}

func (h *GRPCHandler) SubmitCount(ctx context.Context, req *pb.SubmitCountRequest) (*pb.SubmitCountResponse, error) {
	draft := domain.CountDraft{
		SectorID:   req.GetSectorId(),
		ProductID:  req.GetProductId(),
		Quantity:   req.GetQuantity(),
		Batch:      req.GetBatch(),
		OperatorID: req.GetOperatorId(),
	}
	if raw := req.GetExpiry(); raw != "" {
		expiry, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return &pb.SubmitCountResponse{
				Success: false,
				Message: "invalid expiry, expected RFC 3339",
			}, nil
		}
		draft.Expiry = &expiry
	}

	count, err := h.counts.Submit(ctx, draft)
	if err != nil {
		return &pb.SubmitCountResponse{
			Success: false,
			Message: err.Error(),
		}, nil
	}
	return &pb.SubmitCountResponse{
		Success: true,
		Message: "count recorded",
		CountId: count.ID,
	}, nil
}
