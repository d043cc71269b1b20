package sales

import (
	"context"

	salesEntity "marketstock.GO/model/entity/sales"
)

// Service is the read side of the ledger.
type Service struct {
	ledger Ledger
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

func (s *Service) Find(ctx context.Context, orderID string) (*salesEntity.SaleRecord, error) {
	return s.ledger.Find(ctx, orderID)
}

func (s *Service) List(ctx context.Context, f Filter) ([]salesEntity.SaleRecord, error) {
	return s.ledger.List(ctx, f)
}

func (s *Service) Summary(ctx context.Context, f Filter) (Summary, error) {
	rows, err := s.ledger.List(ctx, f)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(rows), nil
}

func (s *Service) SummaryBySKU(ctx context.Context, f Filter) ([]SKUSummary, error) {
	rows, err := s.ledger.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return GroupBySKU(rows), nil
}
