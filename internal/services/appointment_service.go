package services

import (
	"context"

	"caretrek-backend/internal/models"
	"caretrek-backend/pkg/errors"
)

// AppointmentService manages a senior's calendar. Family reads need
// view_appointments; writes need manage_appointments.
type AppointmentService struct {
	Appointments AppointmentStore
	Connections  *ConnectionService
}

func NewAppointmentService(appointments AppointmentStore, connections *ConnectionService) *AppointmentService {
	return &AppointmentService{
		Appointments: appointments,
		Connections:  connections,
	}
}

// Schedule creates an appointment on a senior's calendar.
func (s *AppointmentService) Schedule(ctx context.Context, callerID, seniorID int, req *models.CreateAppointmentRequest) (*models.Appointment, error) {
	if req.Title == "" {
		return nil, errors.New(errors.ErrCodeValidation, "title is required")
	}
	if !models.ValidAppointmentType(req.Type) {
		return nil, errors.New(errors.ErrCodeValidation, "type must be one of doctor, therapy, vaccination, family")
	}
	if req.StartsAt.IsZero() {
		return nil, errors.New(errors.ErrCodeValidation, "start time is required")
	}

	if err := s.authorizeManage(ctx, callerID, seniorID); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		UserID:   seniorID,
		Title:    req.Title,
		Type:     req.Type,
		StartsAt: req.StartsAt,
		Location: req.Location,
		Notes:    req.Notes,
		Status:   models.AppointmentStatusScheduled,
		Reminder: req.Reminder,
	}

	if err := s.Appointments.Create(ctx, appt); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to create appointment")
	}

	return appt, nil
}

// List returns all of a senior's appointments.
func (s *AppointmentService) List(ctx context.Context, callerID, seniorID int) ([]*models.Appointment, error) {
	if err := s.authorizeView(ctx, callerID, seniorID); err != nil {
		return nil, err
	}

	appts, err := s.Appointments.ListByUser(ctx, seniorID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to list appointments")
	}
	if appts == nil {
		appts = []*models.Appointment{}
	}

	return appts, nil
}

// Upcoming returns future scheduled appointments.
func (s *AppointmentService) Upcoming(ctx context.Context, callerID, seniorID int) ([]*models.Appointment, error) {
	if err := s.authorizeView(ctx, callerID, seniorID); err != nil {
		return nil, err
	}

	appts, err := s.Appointments.ListUpcoming(ctx, seniorID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to list upcoming appointments")
	}
	if appts == nil {
		appts = []*models.Appointment{}
	}

	return appts, nil
}

// Update edits an appointment; zero-valued fields are ignored.
func (s *AppointmentService) Update(ctx context.Context, callerID, appointmentID int, req *models.UpdateAppointmentRequest) (*models.Appointment, error) {
	appt, err := s.Appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up appointment")
	}
	if appt == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "appointment not found")
	}

	if err := s.authorizeManage(ctx, callerID, appt.UserID); err != nil {
		return nil, err
	}

	if req.Title != "" {
		appt.Title = req.Title
	}
	if req.Type != "" {
		if !models.ValidAppointmentType(req.Type) {
			return nil, errors.New(errors.ErrCodeValidation, "unknown appointment type: "+req.Type)
		}
		appt.Type = req.Type
	}
	if req.StartsAt != nil {
		appt.StartsAt = *req.StartsAt
	}
	if req.Location != "" {
		appt.Location = req.Location
	}
	if req.Notes != "" {
		appt.Notes = req.Notes
	}
	if req.Status != "" {
		if !models.ValidAppointmentStatus(req.Status) {
			return nil, errors.New(errors.ErrCodeValidation, "unknown appointment status: "+req.Status)
		}
		appt.Status = req.Status
	}
	if req.Reminder != nil {
		appt.Reminder = *req.Reminder
	}

	if err := s.Appointments.Update(ctx, appt); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to update appointment")
	}

	return appt, nil
}

// Remove deletes an appointment.
func (s *AppointmentService) Remove(ctx context.Context, callerID, appointmentID int) error {
	appt, err := s.Appointments.Get(ctx, appointmentID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up appointment")
	}
	if appt == nil {
		return errors.New(errors.ErrCodeNotFound, "appointment not found")
	}

	if err := s.authorizeManage(ctx, callerID, appt.UserID); err != nil {
		return err
	}

	if err := s.Appointments.Delete(ctx, appointmentID); err != nil {
		return errors.Wrap(err, errors.ErrCodeNetwork, "failed to delete appointment")
	}

	return nil
}

func (s *AppointmentService) authorizeView(ctx context.Context, callerID, seniorID int) error {
	perms, err := s.Connections.Permission(ctx, callerID, seniorID)
	if err != nil {
		return err
	}
	if !perms.ViewAppointments {
		return errors.New(errors.ErrCodeForbidden, "no permission to view appointments")
	}
	return nil
}

func (s *AppointmentService) authorizeManage(ctx context.Context, callerID, seniorID int) error {
	perms, err := s.Connections.Permission(ctx, callerID, seniorID)
	if err != nil {
		return err
	}
	if !perms.ManageAppointments {
		return errors.New(errors.ErrCodeForbidden, "no permission to manage appointments")
	}
	return nil
}
