package services

import (
	"context"
	"fmt"

	"caretrek-backend/internal/models"
	"caretrek-backend/internal/monitoring"
	"caretrek-backend/internal/sms"
	"caretrek-backend/pkg/errors"
	"caretrek-backend/pkg/logger"
)

// Notifier pushes an event to a user's live connections. Satisfied by
// the realtime hub.
type Notifier interface {
	Send(userID int, eventType string, payload interface{}) bool
}

// AlertService raises emergency alerts and fans them out to every
// accepted family connection holding receive_notifications, over SMS
// and websocket. Each attempt is logged as a delivery row.
type AlertService struct {
	Alerts      AlertStore
	Deliveries  AlertDeliveryStore
	Profiles    ProfileStore
	Connections *ConnectionService
	SMS         sms.SMSProvider
	Notifier    Notifier
}

func NewAlertService(
	alerts AlertStore,
	deliveries AlertDeliveryStore,
	profiles ProfileStore,
	connections *ConnectionService,
	smsProvider sms.SMSProvider,
	notifier Notifier,
) *AlertService {
	return &AlertService{
		Alerts:      alerts,
		Deliveries:  deliveries,
		Profiles:    profiles,
		Connections: connections,
		SMS:         smsProvider,
		Notifier:    notifier,
	}
}

// Raise creates an alert for the calling senior and notifies their
// family. Notification failures are logged per recipient and never fail
// the alert itself.
func (s *AlertService) Raise(ctx context.Context, seniorID int, req *models.CreateAlertRequest) (*models.EmergencyAlert, error) {
	if !models.ValidAlertType(req.Type) {
		return nil, errors.New(errors.ErrCodeValidation, "alert type must be sos, fall or medical")
	}

	senior, err := s.Profiles.Get(ctx, seniorID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up senior")
	}
	if senior == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "senior account not found")
	}

	alert := &models.EmergencyAlert{
		SeniorID:  seniorID,
		Type:      req.Type,
		Message:   req.Message,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Status:    models.AlertStatusActive,
	}

	if err := s.Alerts.Create(ctx, alert); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to create alert")
	}
	alert.SeniorName = senior.FullName

	monitoring.RecordAlert(alert.Type)
	s.fanOut(ctx, alert, senior)

	return alert, nil
}

// Acknowledge marks an active alert acknowledged. The senior or a
// family member receiving notifications may acknowledge.
func (s *AlertService) Acknowledge(ctx context.Context, callerID, alertID int) (*models.EmergencyAlert, error) {
	alert, err := s.getPermitted(ctx, callerID, alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status != models.AlertStatusActive {
		return nil, errors.New(errors.ErrCodeInvalidState, "alert is not active")
	}

	if err := s.Alerts.Acknowledge(ctx, alertID, callerID); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to acknowledge alert")
	}

	return s.Alerts.Get(ctx, alertID)
}

// Resolve closes an alert that is active or acknowledged.
func (s *AlertService) Resolve(ctx context.Context, callerID, alertID int) (*models.EmergencyAlert, error) {
	alert, err := s.getPermitted(ctx, callerID, alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status == models.AlertStatusResolved {
		return nil, errors.New(errors.ErrCodeInvalidState, "alert is already resolved")
	}

	if err := s.Alerts.Resolve(ctx, alertID); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to resolve alert")
	}

	return s.Alerts.Get(ctx, alertID)
}

// History returns a senior's recent alerts.
func (s *AlertService) History(ctx context.Context, callerID, seniorID, limit int) ([]*models.EmergencyAlert, error) {
	if err := s.authorize(ctx, callerID, seniorID); err != nil {
		return nil, err
	}

	alerts, err := s.Alerts.ListBySenior(ctx, seniorID, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to list alerts")
	}
	if alerts == nil {
		alerts = []*models.EmergencyAlert{}
	}

	return alerts, nil
}

func (s *AlertService) fanOut(ctx context.Context, alert *models.EmergencyAlert, senior *models.User) {
	conns, err := s.Connections.FamilyMembers(ctx, alert.SeniorID)
	if err != nil {
		logger.Error("alert fan-out: failed to list family members",
			"error", err, "alert_id", alert.ID)
		return
	}

	message := alertMessage(alert, senior)

	for _, conn := range conns {
		if !conn.Permissions.ReceiveNotifications {
			continue
		}

		recipient, err := s.Profiles.Get(ctx, conn.FamilyMemberID)
		if err != nil || recipient == nil {
			logger.Error("alert fan-out: failed to load recipient",
				"error", err, "recipient_id", conn.FamilyMemberID)
			continue
		}

		if recipient.Phone != "" {
			smsErr := s.SMS.SendSMS(recipient.Phone, message)
			s.logDelivery(ctx, alert.ID, recipient.ID, "sms", smsErr)
		}

		if s.Notifier != nil && s.Notifier.Send(recipient.ID, "emergency_alert", alert) {
			s.logDelivery(ctx, alert.ID, recipient.ID, "websocket", nil)
		}
	}
}

func (s *AlertService) logDelivery(ctx context.Context, alertID, recipientID int, channel string, sendErr error) {
	delivery := &models.AlertDelivery{
		AlertID:     alertID,
		RecipientID: recipientID,
		Channel:     channel,
		Status:      "sent",
	}
	if sendErr != nil {
		delivery.Status = "failed"
		delivery.ErrorMessage = sendErr.Error()
		logger.Error("alert delivery failed",
			"alert_id", alertID, "recipient_id", recipientID,
			"channel", channel, "error", sendErr)
	}

	if err := s.Deliveries.Create(ctx, delivery); err != nil {
		logger.Error("failed to log alert delivery", "error", err, "alert_id", alertID)
	}
}

func (s *AlertService) getPermitted(ctx context.Context, callerID, alertID int) (*models.EmergencyAlert, error) {
	alert, err := s.Alerts.Get(ctx, alertID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up alert")
	}
	if alert == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "alert not found")
	}

	if err := s.authorize(ctx, callerID, alert.SeniorID); err != nil {
		return nil, err
	}

	return alert, nil
}

func (s *AlertService) authorize(ctx context.Context, callerID, seniorID int) error {
	perms, err := s.Connections.Permission(ctx, callerID, seniorID)
	if err != nil {
		return err
	}
	if !perms.ReceiveNotifications {
		return errors.New(errors.ErrCodeForbidden, "no permission for this senior's alerts")
	}
	return nil
}

func alertMessage(alert *models.EmergencyAlert, senior *models.User) string {
	var kind string
	switch alert.Type {
	case models.AlertTypeFall:
		kind = "A fall was detected for"
	case models.AlertTypeMedical:
		kind = "A medical alert was raised by"
	default:
		kind = "An SOS was triggered by"
	}

	msg := fmt.Sprintf("CareTrek: %s %s.", kind, senior.FullName)
	if alert.Message != "" {
		msg += " " + alert.Message
	}
	if alert.Latitude != nil && alert.Longitude != nil {
		msg += fmt.Sprintf(" Location: https://maps.google.com/?q=%f,%f", *alert.Latitude, *alert.Longitude)
	}

	return msg
}
