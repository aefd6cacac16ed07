package services

import (
	"context"
	"time"

	"caretrek-backend/internal/models"
	"caretrek-backend/pkg/errors"
)

// MedicationService manages a senior's medications. Family reads need
// view_medications; writes need manage_medications.
type MedicationService struct {
	Medications MedicationStore
	Connections *ConnectionService
}

func NewMedicationService(medications MedicationStore, connections *ConnectionService) *MedicationService {
	return &MedicationService{
		Medications: medications,
		Connections: connections,
	}
}

// Add creates a medication on a senior's account.
func (s *MedicationService) Add(ctx context.Context, callerID, seniorID int, req *models.CreateMedicationRequest) (*models.Medication, error) {
	if req.Name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "medication name is required")
	}
	if req.Dosage == "" {
		return nil, errors.New(errors.ErrCodeValidation, "dosage is required")
	}
	if err := validateSchedule(req.Schedule); err != nil {
		return nil, err
	}
	if req.StartDate.IsZero() {
		return nil, errors.New(errors.ErrCodeValidation, "start date is required")
	}

	if err := s.authorizeManage(ctx, callerID, seniorID); err != nil {
		return nil, err
	}

	med := &models.Medication{
		UserID:       seniorID,
		Name:         req.Name,
		Dosage:       req.Dosage,
		Schedule:     req.Schedule,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Instructions: req.Instructions,
	}

	if err := s.Medications.Create(ctx, med); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to add medication")
	}

	return med, nil
}

// List returns a senior's medications.
func (s *MedicationService) List(ctx context.Context, callerID, seniorID int) ([]*models.Medication, error) {
	if err := s.authorizeView(ctx, callerID, seniorID); err != nil {
		return nil, err
	}

	meds, err := s.Medications.ListByUser(ctx, seniorID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to list medications")
	}
	if meds == nil {
		meds = []*models.Medication{}
	}

	return meds, nil
}

// Today returns medications scheduled for the current weekday that are
// still active (no end date, or end date not passed).
func (s *MedicationService) Today(ctx context.Context, callerID, seniorID int) ([]*models.Medication, error) {
	meds, err := s.List(ctx, callerID, seniorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := []*models.Medication{}
	for _, m := range meds {
		if !m.Schedule.OnDay(now.Weekday()) {
			continue
		}
		if m.EndDate != nil && m.EndDate.Before(now) {
			continue
		}
		if m.StartDate.After(now) {
			continue
		}
		today = append(today, m)
	}

	return today, nil
}

// Update edits a medication; empty fields keep their current values.
func (s *MedicationService) Update(ctx context.Context, callerID, medicationID int, req *models.UpdateMedicationRequest) (*models.Medication, error) {
	med, err := s.Medications.Get(ctx, medicationID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up medication")
	}
	if med == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "medication not found")
	}

	if err := s.authorizeManage(ctx, callerID, med.UserID); err != nil {
		return nil, err
	}

	if req.Name != "" {
		med.Name = req.Name
	}
	if req.Dosage != "" {
		med.Dosage = req.Dosage
	}
	if req.Schedule != nil {
		if err := validateSchedule(*req.Schedule); err != nil {
			return nil, err
		}
		med.Schedule = *req.Schedule
	}
	if req.EndDate != nil {
		med.EndDate = req.EndDate
	}
	if req.Instructions != "" {
		med.Instructions = req.Instructions
	}

	if err := s.Medications.Update(ctx, med); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to update medication")
	}

	return med, nil
}

// Remove deletes a medication.
func (s *MedicationService) Remove(ctx context.Context, callerID, medicationID int) error {
	med, err := s.Medications.Get(ctx, medicationID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up medication")
	}
	if med == nil {
		return errors.New(errors.ErrCodeNotFound, "medication not found")
	}

	if err := s.authorizeManage(ctx, callerID, med.UserID); err != nil {
		return err
	}

	if err := s.Medications.Delete(ctx, medicationID); err != nil {
		return errors.Wrap(err, errors.ErrCodeNetwork, "failed to delete medication")
	}

	return nil
}

func validateSchedule(sched models.MedicationSchedule) error {
	if len(sched.Times) == 0 {
		return errors.New(errors.ErrCodeValidation, "at least one dose time is required")
	}
	for _, d := range sched.Days {
		if d < 0 || d > 6 {
			return errors.New(errors.ErrCodeValidation, "schedule days must be 0 (Sunday) through 6 (Saturday)")
		}
	}
	return nil
}

func (s *MedicationService) authorizeView(ctx context.Context, callerID, seniorID int) error {
	perms, err := s.Connections.Permission(ctx, callerID, seniorID)
	if err != nil {
		return err
	}
	if !perms.ViewMedications {
		return errors.New(errors.ErrCodeForbidden, "no permission to view medications")
	}
	return nil
}

func (s *MedicationService) authorizeManage(ctx context.Context, callerID, seniorID int) error {
	perms, err := s.Connections.Permission(ctx, callerID, seniorID)
	if err != nil {
		return err
	}
	if !perms.ManageMedications {
		return errors.New(errors.ErrCodeForbidden, "no permission to manage medications")
	}
	return nil
}
