package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/metrics"
	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/pkg/api"
	"github.com/mmynk/receiptsplit/pkg/api/apiconnect"
)

// SplitService implements the Connect SplitService
type SplitService struct {
	apiconnect.UnimplementedSplitServiceHandler
	metrics *metrics.Metrics
}

// NewSplitService creates a new SplitService. m may be nil.
func NewSplitService(m *metrics.Metrics) *SplitService {
	return &SplitService{metrics: m}
}

// isParticipant checks if the ID is on the roster.
func isParticipant(id string, participants []models.Participant) bool {
	for _, p := range participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// parsePayments converts payments to shares. Unlike item prices, payment
// amounts must parse, be non-negative and name a roster participant.
func parsePayments(payments []models.Payment, participants []models.Participant) ([]calculator.Share, error) {
	shares := make([]calculator.Share, len(payments))
	for i, p := range payments {
		if !isParticipant(p.ParticipantID, participants) {
			return nil, fmt.Errorf("payment %d: participant_id '%s' must be one of the participants", i, p.ParticipantID)
		}
		amount, err := calculator.ParseAmount(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("payment %d: invalid amount '%s': %w", i, p.Amount, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("payment %d: amount must not be negative", i)
		}
		shares[i] = calculator.Share{ParticipantID: p.ParticipantID, Amount: amount}
	}
	return shares, nil
}

// compute runs the allocation and reports it to logs and metrics.
func (s *SplitService) compute(ctx context.Context, receipt *models.Receipt) calculator.Result {
	res := calculator.ComputeBills(receipt)
	s.metrics.ObserveCalculation(len(res.Bills), len(res.Unallocated))

	requestID := middleware.GetRequestID(ctx)
	if receipt == nil {
		slog.Debug("No receipt supplied, returning empty split", "request_id", requestID)
		return res
	}

	slog.Debug("Bills calculated",
		"request_id", requestID,
		"receipt_id", receipt.ID,
		"participants", len(receipt.Participants),
		"items", len(receipt.Items),
		"grand_total", res.GrandTotal.String(),
	)
	if len(res.Unallocated) > 0 {
		slog.Warn("Unassigned items left out of the split",
			"request_id", requestID,
			"receipt_id", receipt.ID,
			"count", len(res.Unallocated),
			"amount", res.UnallocatedTotal().String(),
		)
	}
	return res
}

// extras pro-rates the receipt's tax and tip over res.
func extras(res calculator.Result, receipt *models.Receipt) []calculator.ExtraShare {
	if receipt == nil {
		return nil
	}
	return calculator.ProrateExtras(res, calculator.ParsePrice(receipt.Tax), calculator.ParsePrice(receipt.Tip))
}

// CalculateBills splits a receipt into one bill per participant.
func (s *SplitService) CalculateBills(ctx context.Context, req *connect.Request[api.CalculateBillsRequest]) (*connect.Response[api.CalculateBillsResponse], error) {
	receipt := toReceipt(req.Msg.Receipt)
	res := s.compute(ctx, receipt)

	resp := &api.CalculateBillsResponse{
		CalculationId: uuid.NewString(),
		Bills:         toProtoBills(res.Bills),
		GrandTotal:    res.GrandTotal,
		Unallocated:   toProtoUnallocated(res.Unallocated),
	}
	if req.Msg.IncludeExtras {
		resp.Extras = toProtoExtras(extras(res, receipt))
	}
	return connect.NewResponse(resp), nil
}

// SettleUp computes who should pay whom once the receipt is split, given
// what each participant actually paid.
func (s *SplitService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	receipt := toReceipt(req.Msg.Receipt)

	var participants []models.Participant
	if receipt != nil {
		participants = receipt.Participants
	}
	paid, err := parsePayments(toPayments(req.Msg.Payments), participants)
	if err != nil {
		slog.Error("SettleUp payment validation failed", "request_id", middleware.GetRequestID(ctx), "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	res := s.compute(ctx, receipt)
	owed := res.Owed()
	if req.Msg.IncludeExtras {
		owed = calculator.OwedWithExtras(extras(res, receipt))
	}

	transfers := calculator.Settle(owed, paid)
	slog.Debug("Settlement computed",
		"request_id", middleware.GetRequestID(ctx),
		"payments", len(paid),
		"transfers", len(transfers),
	)

	return connect.NewResponse(&api.SettleUpResponse{
		CalculationId: uuid.NewString(),
		Transfers:     toProtoTransfers(transfers),
		GrandTotal:    res.GrandTotal,
	}), nil
}
