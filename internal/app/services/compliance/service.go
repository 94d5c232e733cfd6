// Package compliance computes and records adherence rates.
package compliance

import (
	"context"
	"math"
	"strings"

	"github.com/fitnessbro/platform/internal/app/domain/compliance"
	"github.com/fitnessbro/platform/internal/app/storage"
	apperrors "github.com/fitnessbro/platform/internal/errors"
	"github.com/fitnessbro/platform/pkg/logger"
)

// Service calculates compliance rates and persists the daily ones.
type Service struct {
	store storage.ComplianceStore
	log   *logger.Logger
}

// New constructs a compliance service.
func New(store storage.ComplianceStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("compliance")
	}
	return &Service{store: store, log: log}
}

// CalculateDaily computes one day's rate and persists it as a record.
func (s *Service) CalculateDaily(ctx context.Context, clientID string, entry compliance.DailyEntry) (compliance.Record, error) {
	if strings.TrimSpace(clientID) == "" {
		return compliance.Record{}, apperrors.InvalidInput("client_id is required")
	}

	rec, err := s.store.CreateComplianceRecord(ctx, compliance.Record{
		ClientID:       clientID,
		Entry:          entry,
		ComplianceRate: entry.Rate(),
	})
	if err != nil {
		return compliance.Record{}, err
	}

	s.log.WithField("client_id", clientID).
		WithField("rate", rec.ComplianceRate).
		Info("daily compliance recorded")
	return rec, nil
}

// CalculateWeekly averages the submitted entries without persisting anything.
// An empty week is InvalidInput.
func (s *Service) CalculateWeekly(ctx context.Context, clientID string, entries []compliance.DailyEntry) (compliance.WeeklySummary, error) {
	if len(entries) == 0 {
		return compliance.WeeklySummary{}, apperrors.InvalidInput("at least one daily entry is required")
	}

	rates := make([]float64, len(entries))
	var sum float64
	for i, e := range entries {
		rates[i] = e.Rate()
		sum += rates[i]
	}

	return compliance.WeeklySummary{
		ClientID:          clientID,
		AverageCompliance: math.Round(sum/float64(len(entries))*100) / 100,
		DailyRates:        rates,
	}, nil
}

// History returns the client's persisted daily records, newest first.
func (s *Service) History(ctx context.Context, clientID string) ([]compliance.Record, error) {
	return s.store.ListComplianceRecords(ctx, clientID)
}
