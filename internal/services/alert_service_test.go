package services

import (
	"context"
	"testing"

	"caretrek-backend/internal/models"
	"caretrek-backend/pkg/errors"
)

type alertFixture struct {
	svc        *AlertService
	alerts     *fakeAlertStore
	deliveries *fakeAlertDeliveryStore
	sms        *fakeSMS
	notifier   *fakeNotifier
}

// Two family members connected to the senior: one accepted with
// notifications, one accepted with notifications revoked.
func newAlertFixture(t *testing.T) *alertFixture {
	t.Helper()
	ctx := context.Background()

	profiles := newFakeProfileStore(
		&models.User{ID: seniorID, FullName: "Martha Hill", Phone: "5550001", Role: models.RoleSenior},
		&models.User{ID: familyID, FullName: "Dan Hill", Phone: "5550002", Role: models.RoleFamily},
		&models.User{ID: otherID, FullName: "Eve Hill", Phone: "5550003", Role: models.RoleFamily},
	)
	connStore := newFakeConnectionStore()
	connections := NewConnectionService(connStore, profiles)

	for _, famID := range []int{familyID, otherID} {
		conn, err := connections.SendRequest(ctx, famID, &models.SendRequestByID{SeniorID: seniorID, Relationship: "child"})
		if err != nil {
			t.Fatalf("SendRequest: %v", err)
		}
		if _, err := connections.RespondToRequest(ctx, seniorID, conn.ID, models.ConnectionStatusAccepted); err != nil {
			t.Fatalf("accept: %v", err)
		}
		if famID == otherID {
			f := false
			if _, err := connections.UpdatePermissions(ctx, seniorID, conn.ID, &models.PermissionsPatch{ReceiveNotifications: &f}); err != nil {
				t.Fatalf("revoke notifications: %v", err)
			}
		}
	}

	alerts := newFakeAlertStore()
	deliveries := &fakeAlertDeliveryStore{}
	smsProvider := &fakeSMS{}
	notifier := &fakeNotifier{online: map[int]bool{familyID: true}}

	svc := NewAlertService(alerts, deliveries, profiles, connections, smsProvider, notifier)
	return &alertFixture{svc: svc, alerts: alerts, deliveries: deliveries, sms: smsProvider, notifier: notifier}
}

func TestRaiseAlertFansOut(t *testing.T) {
	fx := newAlertFixture(t)

	lat, lng := 52.5, 13.4
	alert, err := fx.svc.Raise(context.Background(), seniorID, &models.CreateAlertRequest{
		Type:      models.AlertTypeSOS,
		Message:   "Help needed",
		Latitude:  &lat,
		Longitude: &lng,
	})
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}

	if alert.Status != models.AlertStatusActive {
		t.Errorf("new alert should be active, got %q", alert.Status)
	}

	// Only the family member with receive_notifications is contacted
	if len(fx.sms.sent) != 1 || fx.sms.sent[0] != "5550002" {
		t.Errorf("SMS should go to Dan only, got %v", fx.sms.sent)
	}
	if len(fx.notifier.sent) != 1 || fx.notifier.sent[0] != familyID {
		t.Errorf("websocket push should reach Dan only, got %v", fx.notifier.sent)
	}

	// One delivery row per successful channel
	rows, _ := fx.deliveries.ListByAlert(context.Background(), alert.ID)
	if len(rows) != 2 {
		t.Fatalf("expected sms + websocket delivery rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.RecipientID != familyID || row.Status != "sent" {
			t.Errorf("unexpected delivery row: %+v", row)
		}
	}
}

func TestRaiseAlertSurvivesSMSFailure(t *testing.T) {
	fx := newAlertFixture(t)
	fx.sms.fail = true

	alert, err := fx.svc.Raise(context.Background(), seniorID, &models.CreateAlertRequest{Type: models.AlertTypeFall})
	if err != nil {
		t.Fatalf("Raise should not fail on SMS errors, got %v", err)
	}

	rows, _ := fx.deliveries.ListByAlert(context.Background(), alert.ID)
	var failed bool
	for _, row := range rows {
		if row.Channel == "sms" && row.Status == "failed" && row.ErrorMessage != "" {
			failed = true
		}
	}
	if !failed {
		t.Errorf("SMS failure should be logged as a failed delivery: %+v", rows)
	}
}

func TestRaiseAlertValidatesType(t *testing.T) {
	fx := newAlertFixture(t)

	_, err := fx.svc.Raise(context.Background(), seniorID, &models.CreateAlertRequest{Type: "panic"})
	if !errors.IsValidation(err) {
		t.Errorf("want validation error, got %v", err)
	}
}

func TestAcknowledgeAndResolve(t *testing.T) {
	fx := newAlertFixture(t)
	ctx := context.Background()

	alert, err := fx.svc.Raise(ctx, seniorID, &models.CreateAlertRequest{Type: models.AlertTypeSOS})
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}

	acked, err := fx.svc.Acknowledge(ctx, familyID, alert.ID)
	if err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if acked.Status != models.AlertStatusAcknowledged {
		t.Errorf("status = %q, want acknowledged", acked.Status)
	}
	if acked.AcknowledgedBy == nil || *acked.AcknowledgedBy != familyID {
		t.Errorf("AcknowledgedBy = %v, want %d", acked.AcknowledgedBy, familyID)
	}

	// acknowledging twice is an invalid transition
	if _, err := fx.svc.Acknowledge(ctx, familyID, alert.ID); !errors.IsInvalidState(err) {
		t.Errorf("second acknowledge: want invalid state, got %v", err)
	}

	resolved, err := fx.svc.Resolve(ctx, seniorID, alert.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != models.AlertStatusResolved {
		t.Errorf("status = %q, want resolved", resolved.Status)
	}

	if _, err := fx.svc.Resolve(ctx, seniorID, alert.ID); !errors.IsInvalidState(err) {
		t.Errorf("second resolve: want invalid state, got %v", err)
	}
}

func TestAlertAccessControl(t *testing.T) {
	fx := newAlertFixture(t)
	ctx := context.Background()

	alert, err := fx.svc.Raise(ctx, seniorID, &models.CreateAlertRequest{Type: models.AlertTypeMedical})
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}

	// Eve's notifications were revoked, so she cannot act on alerts
	if _, err := fx.svc.Acknowledge(ctx, otherID, alert.ID); errors.Code(err) != errors.ErrCodeForbidden {
		t.Errorf("revoked member acknowledge: want forbidden, got %v", err)
	}
	if _, err := fx.svc.History(ctx, otherID, seniorID, 10); errors.Code(err) != errors.ErrCodeForbidden {
		t.Errorf("revoked member history: want forbidden, got %v", err)
	}

	// Dan can read the history
	alerts, err := fx.svc.History(ctx, familyID, seniorID, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("expected one alert in history, got %d", len(alerts))
	}

	// The senior always can
	if _, err := fx.svc.History(ctx, seniorID, seniorID, 10); err != nil {
		t.Errorf("senior history: %v", err)
	}
}

func TestAcknowledgeUnknownAlert(t *testing.T) {
	fx := newAlertFixture(t)

	_, err := fx.svc.Acknowledge(context.Background(), seniorID, 999)
	if !errors.IsNotFound(err) {
		t.Errorf("want not found, got %v", err)
	}
}
