package services

import (
	"context"
	"testing"

	"caretrek-backend/internal/models"
	"caretrek-backend/pkg/errors"
)

const (
	seniorID = 1
	familyID = 2
	otherID  = 3
)

func newConnectionFixture() (*ConnectionService, *fakeConnectionStore) {
	store := newFakeConnectionStore()
	profiles := newFakeProfileStore(
		&models.User{ID: seniorID, Email: "martha@example.com", Phone: "5550001", FullName: "Martha Hill", Role: models.RoleSenior},
		&models.User{ID: familyID, Email: "dan@example.com", FullName: "Dan Hill", Role: models.RoleFamily},
		&models.User{ID: otherID, Email: "eve@example.com", FullName: "Eve Hill", Role: models.RoleFamily},
	)
	return NewConnectionService(store, profiles), store
}

func pendingConnection(t *testing.T, svc *ConnectionService) *models.Connection {
	t.Helper()
	conn, err := svc.SendRequest(context.Background(), familyID, &models.SendRequestByID{
		SeniorID:     seniorID,
		Relationship: "child",
	})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	return conn
}

func acceptedConnection(t *testing.T, svc *ConnectionService) *models.Connection {
	t.Helper()
	conn := pendingConnection(t, svc)
	accepted, err := svc.RespondToRequest(context.Background(), seniorID, conn.ID, models.ConnectionStatusAccepted)
	if err != nil {
		t.Fatalf("RespondToRequest: %v", err)
	}
	return accepted
}

func TestSendRequestByEmail(t *testing.T) {
	svc, _ := newConnectionFixture()

	conn, err := svc.SendConnectionRequest(context.Background(), familyID, &models.SendConnectionRequest{
		Email:        "martha@example.com",
		Name:         "Martha Hill",
		Relationship: "child",
	})
	if err != nil {
		t.Fatalf("SendConnectionRequest: %v", err)
	}

	if conn.SeniorID != seniorID || conn.FamilyMemberID != familyID {
		t.Errorf("wrong parties: %+v", conn)
	}
	if conn.Status != models.ConnectionStatusPending {
		t.Errorf("new request should be pending, got %q", conn.Status)
	}
	if conn.Permissions != (models.Permissions{}) {
		t.Errorf("pending request should carry no permissions: %+v", conn.Permissions)
	}
}

func TestSendRequestByPhone(t *testing.T) {
	svc, _ := newConnectionFixture()

	conn, err := svc.SendConnectionRequest(context.Background(), familyID, &models.SendConnectionRequest{
		Phone:        "5550001",
		Name:         "Martha",
		Relationship: "caregiver",
	})
	if err != nil {
		t.Fatalf("SendConnectionRequest: %v", err)
	}
	if conn.SeniorID != seniorID {
		t.Errorf("phone lookup resolved wrong senior: %+v", conn)
	}
}

func TestSendRequestValidation(t *testing.T) {
	svc, _ := newConnectionFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  *models.SendConnectionRequest
	}{
		{"no contact", &models.SendConnectionRequest{Name: "M", Relationship: "child"}},
		{"both contacts", &models.SendConnectionRequest{Email: "a@b.c", Phone: "555", Name: "M", Relationship: "child"}},
		{"no name", &models.SendConnectionRequest{Email: "martha@example.com", Relationship: "child"}},
		{"bad relationship", &models.SendConnectionRequest{Email: "martha@example.com", Name: "M", Relationship: "cousin"}},
		{"other without note", &models.SendConnectionRequest{Email: "martha@example.com", Name: "M", Relationship: "other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SendConnectionRequest(ctx, familyID, tt.req); !errors.IsValidation(err) {
				t.Errorf("want validation error, got %v", err)
			}
		})
	}
}

func TestSendRequestUnknownContact(t *testing.T) {
	svc, _ := newConnectionFixture()

	_, err := svc.SendConnectionRequest(context.Background(), familyID, &models.SendConnectionRequest{
		Email:        "nobody@example.com",
		Name:         "Nobody",
		Relationship: "child",
	})
	if !errors.IsNotFound(err) {
		t.Errorf("want not found, got %v", err)
	}
}

func TestSendRequestToSelf(t *testing.T) {
	svc, _ := newConnectionFixture()

	_, err := svc.SendRequest(context.Background(), seniorID, &models.SendRequestByID{
		SeniorID:     seniorID,
		Relationship: "child",
	})
	if !errors.IsValidation(err) {
		t.Errorf("want validation error for self-connection, got %v", err)
	}
}

func TestSendRequestToNonSenior(t *testing.T) {
	svc, _ := newConnectionFixture()

	_, err := svc.SendRequest(context.Background(), familyID, &models.SendRequestByID{
		SeniorID:     otherID,
		Relationship: "sibling",
	})
	if !errors.IsValidation(err) {
		t.Errorf("want validation error for non-senior target, got %v", err)
	}
}

func TestSendRequestFromSenior(t *testing.T) {
	store := newFakeConnectionStore()
	profiles := newFakeProfileStore(
		&models.User{ID: seniorID, Email: "martha@example.com", FullName: "Martha Hill", Role: models.RoleSenior},
		&models.User{ID: otherID, Email: "walt@example.com", FullName: "Walt Gray", Role: models.RoleSenior},
	)
	svc := NewConnectionService(store, profiles)

	// Both parties hold the senior role; the request must not pair them
	_, err := svc.SendRequest(context.Background(), otherID, &models.SendRequestByID{
		SeniorID:     seniorID,
		Relationship: "sibling",
	})
	if !errors.IsValidation(err) {
		t.Errorf("want validation error for senior-role caller, got %v", err)
	}

	conns, err := svc.ListConnections(context.Background(), seniorID, "")
	if err != nil {
		t.Fatalf("ListConnections: %v", err)
	}
	if len(conns) != 0 {
		t.Errorf("no connection should have been created, got %d", len(conns))
	}
}

func TestDuplicateRequestConflicts(t *testing.T) {
	svc, _ := newConnectionFixture()
	pendingConnection(t, svc)

	_, err := svc.SendRequest(context.Background(), familyID, &models.SendRequestByID{
		SeniorID:     seniorID,
		Relationship: "child",
	})
	if !errors.IsConflict(err) {
		t.Errorf("second pending request should conflict, got %v", err)
	}
}

func TestRetryAfterRejection(t *testing.T) {
	svc, _ := newConnectionFixture()
	conn := pendingConnection(t, svc)

	if _, err := svc.RespondToRequest(context.Background(), seniorID, conn.ID, models.ConnectionStatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// A rejected record no longer blocks the pair
	if _, err := svc.SendRequest(context.Background(), familyID, &models.SendRequestByID{
		SeniorID:     seniorID,
		Relationship: "child",
	}); err != nil {
		t.Fatalf("retry after rejection should succeed, got %v", err)
	}
}

func TestAcceptAfterRejectionFails(t *testing.T) {
	svc, store := newConnectionFixture()
	conn := pendingConnection(t, svc)
	ctx := context.Background()

	if _, err := svc.RespondToRequest(ctx, seniorID, conn.ID, models.ConnectionStatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// Rejection is final for this record; a fresh request is the only
	// way back to pending
	if _, err := svc.RespondToRequest(ctx, seniorID, conn.ID, models.ConnectionStatusAccepted); !errors.IsInvalidState(err) {
		t.Errorf("want invalid state error, got %v", err)
	}

	stored, err := store.Get(ctx, conn.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != models.ConnectionStatusRejected {
		t.Errorf("stored status = %q, want rejected", stored.Status)
	}
}

func TestAcceptMaterializesDefaultPermissions(t *testing.T) {
	svc, _ := newConnectionFixture()
	conn := acceptedConnection(t, svc)

	if conn.Status != models.ConnectionStatusAccepted {
		t.Fatalf("status = %q, want accepted", conn.Status)
	}
	if conn.Permissions != models.DefaultPermissions() {
		t.Errorf("acceptance should set defaults, got %+v", conn.Permissions)
	}
}

func TestOnlySeniorResponds(t *testing.T) {
	svc, _ := newConnectionFixture()
	conn := pendingConnection(t, svc)

	_, err := svc.RespondToRequest(context.Background(), familyID, conn.ID, models.ConnectionStatusAccepted)
	if errors.Code(err) != errors.ErrCodeForbidden {
		t.Errorf("requester must not accept their own request, got %v", err)
	}
}

func TestRespondInvalidTransitions(t *testing.T) {
	svc, _ := newConnectionFixture()
	ctx := context.Background()
	conn := acceptedConnection(t, svc)

	// accepted -> rejected is not in the table
	if _, err := svc.RespondToRequest(ctx, seniorID, conn.ID, models.ConnectionStatusRejected); !errors.IsInvalidState(err) {
		t.Errorf("accepted->rejected: want invalid state, got %v", err)
	}
	// repeating the current status is a no-op, also rejected
	if _, err := svc.RespondToRequest(ctx, seniorID, conn.ID, models.ConnectionStatusAccepted); !errors.IsInvalidState(err) {
		t.Errorf("accepted->accepted: want invalid state, got %v", err)
	}
}

func TestBlockClearsPermissions(t *testing.T) {
	svc, _ := newConnectionFixture()
	ctx := context.Background()
	conn := acceptedConnection(t, svc)

	blocked, err := svc.RespondToRequest(ctx, seniorID, conn.ID, models.ConnectionStatusBlocked)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if blocked.Status != models.ConnectionStatusBlocked {
		t.Errorf("status = %q, want blocked", blocked.Status)
	}
	if blocked.Permissions != (models.Permissions{}) {
		t.Errorf("blocking should clear permissions: %+v", blocked.Permissions)
	}

	// blocked is terminal
	if _, err := svc.RespondToRequest(ctx, seniorID, conn.ID, models.ConnectionStatusAccepted); !errors.IsInvalidState(err) {
		t.Errorf("blocked->accepted: want invalid state, got %v", err)
	}
}

func TestUpdatePermissions(t *testing.T) {
	svc, _ := newConnectionFixture()
	conn := acceptedConnection(t, svc)

	tr := true
	f := false
	updated, err := svc.UpdatePermissions(context.Background(), seniorID, conn.ID, &models.PermissionsPatch{
		ManageMedications: &tr,
		ViewLocation:      &f,
	})
	if err != nil {
		t.Fatalf("UpdatePermissions: %v", err)
	}

	if !updated.Permissions.ManageMedications {
		t.Error("ManageMedications should be granted")
	}
	if updated.Permissions.ViewLocation {
		t.Error("ViewLocation should be revoked")
	}
	if !updated.Permissions.ViewHealth {
		t.Error("unpatched ViewHealth should keep its default")
	}
}

func TestUpdatePermissionsGuards(t *testing.T) {
	svc, _ := newConnectionFixture()
	ctx := context.Background()
	conn := acceptedConnection(t, svc)

	tr := true
	patch := &models.PermissionsPatch{ManageMedications: &tr}

	// empty patch
	if _, err := svc.UpdatePermissions(ctx, seniorID, conn.ID, &models.PermissionsPatch{}); !errors.IsValidation(err) {
		t.Errorf("empty patch: want validation error, got %v", err)
	}
	// family member may not edit permissions
	if _, err := svc.UpdatePermissions(ctx, familyID, conn.ID, patch); errors.Code(err) != errors.ErrCodeForbidden {
		t.Errorf("family member edit: want forbidden, got %v", err)
	}
	// outsider is not a party at all
	if _, err := svc.UpdatePermissions(ctx, otherID, conn.ID, patch); errors.Code(err) != errors.ErrCodeForbidden {
		t.Errorf("outsider edit: want forbidden, got %v", err)
	}
}

func TestUpdatePermissionsOnPending(t *testing.T) {
	svc, _ := newConnectionFixture()
	conn := pendingConnection(t, svc)

	tr := true
	_, err := svc.UpdatePermissions(context.Background(), seniorID, conn.ID, &models.PermissionsPatch{ViewHealth: &tr})
	if !errors.IsInvalidState(err) {
		t.Errorf("pending edit: want invalid state, got %v", err)
	}
}

func TestRemoveConnection(t *testing.T) {
	svc, store := newConnectionFixture()
	ctx := context.Background()
	conn := acceptedConnection(t, svc)

	if err := svc.RemoveConnection(ctx, familyID, conn.ID); err != nil {
		t.Fatalf("RemoveConnection: %v", err)
	}
	if got, _ := store.Get(ctx, conn.ID); got != nil {
		t.Error("connection should be gone")
	}

	// removing again is a success, the end state already holds
	if err := svc.RemoveConnection(ctx, familyID, conn.ID); err != nil {
		t.Errorf("second removal should be a no-op success, got %v", err)
	}
}

func TestRemoveConnectionByOutsider(t *testing.T) {
	svc, _ := newConnectionFixture()
	conn := acceptedConnection(t, svc)

	err := svc.RemoveConnection(context.Background(), otherID, conn.ID)
	if errors.Code(err) != errors.ErrCodeForbidden {
		t.Errorf("outsider removal: want forbidden, got %v", err)
	}
}

func TestListConnections(t *testing.T) {
	svc, _ := newConnectionFixture()
	ctx := context.Background()
	acceptedConnection(t, svc)

	for _, userID := range []int{seniorID, familyID} {
		conns, err := svc.ListConnections(ctx, userID, "")
		if err != nil {
			t.Fatalf("ListConnections(%d): %v", userID, err)
		}
		if len(conns) != 1 {
			t.Errorf("user %d should see the connection from their side, got %d", userID, len(conns))
		}
	}

	// status filter
	conns, err := svc.ListConnections(ctx, seniorID, models.ConnectionStatusPending)
	if err != nil {
		t.Fatalf("ListConnections: %v", err)
	}
	if len(conns) != 0 {
		t.Errorf("no pending connections expected, got %d", len(conns))
	}

	if _, err := svc.ListConnections(ctx, seniorID, "archived"); !errors.IsValidation(err) {
		t.Errorf("unknown filter: want validation error, got %v", err)
	}

	// empty result is a empty slice, not nil
	conns, err = svc.ListConnections(ctx, otherID, "")
	if err != nil {
		t.Fatalf("ListConnections: %v", err)
	}
	if conns == nil {
		t.Error("empty list should not be nil")
	}
}

func TestConnectedSeniorsAndFamilyMembers(t *testing.T) {
	svc, _ := newConnectionFixture()
	ctx := context.Background()
	acceptedConnection(t, svc)

	seniors, err := svc.ConnectedSeniors(ctx, familyID)
	if err != nil {
		t.Fatalf("ConnectedSeniors: %v", err)
	}
	if len(seniors) != 1 || seniors[0].SeniorID != seniorID {
		t.Errorf("family member should see one senior: %+v", seniors)
	}

	members, err := svc.FamilyMembers(ctx, seniorID)
	if err != nil {
		t.Fatalf("FamilyMembers: %v", err)
	}
	if len(members) != 1 || members[0].FamilyMemberID != familyID {
		t.Errorf("senior should see one family member: %+v", members)
	}
}

func TestPermissionForSelf(t *testing.T) {
	svc, _ := newConnectionFixture()

	perms, err := svc.Permission(context.Background(), seniorID, seniorID)
	if err != nil {
		t.Fatalf("Permission: %v", err)
	}
	if !perms.ViewHealth || !perms.ManageMedications || !perms.ManageAppointments {
		t.Errorf("senior should hold every permission on their own data: %+v", perms)
	}
}

func TestPermissionRequiresAcceptedConnection(t *testing.T) {
	svc, _ := newConnectionFixture()
	ctx := context.Background()

	// no connection at all
	perms, err := svc.Permission(ctx, familyID, seniorID)
	if err != nil {
		t.Fatalf("Permission: %v", err)
	}
	if perms != (models.Permissions{}) {
		t.Errorf("no connection should grant nothing: %+v", perms)
	}

	// pending grants nothing
	conn := pendingConnection(t, svc)
	perms, err = svc.Permission(ctx, familyID, seniorID)
	if err != nil {
		t.Fatalf("Permission: %v", err)
	}
	if perms != (models.Permissions{}) {
		t.Errorf("pending connection should grant nothing: %+v", perms)
	}

	// accepted grants the stored record
	if _, err := svc.RespondToRequest(ctx, seniorID, conn.ID, models.ConnectionStatusAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}
	perms, err = svc.Permission(ctx, familyID, seniorID)
	if err != nil {
		t.Fatalf("Permission: %v", err)
	}
	if perms != models.DefaultPermissions() {
		t.Errorf("accepted connection should grant defaults: %+v", perms)
	}
}

func TestCheckConnection(t *testing.T) {
	svc, _ := newConnectionFixture()
	ctx := context.Background()

	conn, err := svc.CheckConnection(ctx, familyID, seniorID)
	if err != nil {
		t.Fatalf("CheckConnection: %v", err)
	}
	if conn != nil {
		t.Errorf("no connection expected, got %+v", conn)
	}

	created := pendingConnection(t, svc)
	conn, err = svc.CheckConnection(ctx, familyID, seniorID)
	if err != nil {
		t.Fatalf("CheckConnection: %v", err)
	}
	if conn == nil || conn.ID != created.ID {
		t.Errorf("expected the pending connection, got %+v", conn)
	}
}

func TestConnectionEventsReachRecipients(t *testing.T) {
	svc, _ := newConnectionFixture()
	notifier := &fakeNotifier{online: map[int]bool{seniorID: true, familyID: true}}
	svc.Notifier = notifier

	conn := pendingConnection(t, svc)
	if len(notifier.sent) != 1 || notifier.sent[0] != seniorID {
		t.Fatalf("request should be pushed to the senior, got %v", notifier.sent)
	}

	if _, err := svc.RespondToRequest(context.Background(), seniorID, conn.ID, models.ConnectionStatusAccepted); err != nil {
		t.Fatalf("RespondToRequest: %v", err)
	}
	if len(notifier.sent) != 2 || notifier.sent[1] != familyID {
		t.Errorf("response should be pushed to the family member, got %v", notifier.sent)
	}
}
