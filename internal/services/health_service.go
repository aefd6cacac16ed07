package services

import (
	"context"
	"time"

	"caretrek-backend/internal/models"
	"caretrek-backend/pkg/errors"
)

// HealthService records and serves health metrics. Family access is
// gated by the view_health flag of an accepted connection.
type HealthService struct {
	Metrics     HealthMetricStore
	Connections *ConnectionService
}

func NewHealthService(metrics HealthMetricStore, connections *ConnectionService) *HealthService {
	return &HealthService{
		Metrics:     metrics,
		Connections: connections,
	}
}

// Record stores a reading for the senior's own account.
func (s *HealthService) Record(ctx context.Context, userID int, req *models.CreateHealthMetricRequest) (*models.HealthMetric, error) {
	if !models.ValidMetricType(req.MetricType) {
		return nil, errors.New(errors.ErrCodeValidation, "unknown metric type: "+req.MetricType)
	}
	if req.Value == "" {
		return nil, errors.New(errors.ErrCodeValidation, "value is required")
	}
	if req.Unit == "" {
		return nil, errors.New(errors.ErrCodeValidation, "unit is required")
	}

	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	metric := &models.HealthMetric{
		UserID:     userID,
		MetricType: req.MetricType,
		Value:      req.Value,
		Unit:       req.Unit,
		Notes:      req.Notes,
		RecordedAt: recordedAt,
	}

	if err := s.Metrics.Create(ctx, metric); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to record metric")
	}

	return metric, nil
}

// List returns a senior's readings for a caller holding view_health.
func (s *HealthService) List(ctx context.Context, callerID, seniorID int, filter models.HealthMetricFilter) ([]*models.HealthMetric, error) {
	if filter.MetricType != "" && !models.ValidMetricType(filter.MetricType) {
		return nil, errors.New(errors.ErrCodeValidation, "unknown metric type: "+filter.MetricType)
	}

	if err := s.authorize(ctx, callerID, seniorID); err != nil {
		return nil, err
	}

	metrics, err := s.Metrics.List(ctx, seniorID, filter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to list metrics")
	}
	if metrics == nil {
		metrics = []*models.HealthMetric{}
	}

	return metrics, nil
}

// Latest returns the newest reading of each type.
func (s *HealthService) Latest(ctx context.Context, callerID, seniorID int) ([]*models.HealthMetric, error) {
	if err := s.authorize(ctx, callerID, seniorID); err != nil {
		return nil, err
	}

	metrics, err := s.Metrics.Latest(ctx, seniorID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to load latest metrics")
	}
	if metrics == nil {
		metrics = []*models.HealthMetric{}
	}

	return metrics, nil
}

// DailyActivity returns per-day step totals and heart-rate averages.
func (s *HealthService) DailyActivity(ctx context.Context, callerID, seniorID, days int) ([]*models.DailyActivity, error) {
	if days <= 0 || days > 90 {
		days = 7
	}

	if err := s.authorize(ctx, callerID, seniorID); err != nil {
		return nil, err
	}

	activity, err := s.Metrics.DailyActivity(ctx, seniorID, days)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to load activity")
	}
	if activity == nil {
		activity = []*models.DailyActivity{}
	}

	return activity, nil
}

func (s *HealthService) authorize(ctx context.Context, callerID, seniorID int) error {
	perms, err := s.Connections.Permission(ctx, callerID, seniorID)
	if err != nil {
		return err
	}
	if !perms.ViewHealth {
		return errors.New(errors.ErrCodeForbidden, "no permission to view health data")
	}
	return nil
}
