package services

import (
	"context"

	"caretrek-backend/internal/models"
	"caretrek-backend/pkg/errors"
)

// ConnectionService owns the family connection lifecycle: requests,
// accept/reject/block transitions, the per-connection permission record,
// and the connected-seniors / family-members projections.
type ConnectionService struct {
	Connections ConnectionStore
	Profiles    ProfileStore

	// Optional realtime push; nil outside the server process
	Notifier Notifier
}

func NewConnectionService(connections ConnectionStore, profiles ProfileStore) *ConnectionService {
	return &ConnectionService{
		Connections: connections,
		Profiles:    profiles,
	}
}

// SendRequest creates a pending connection from the calling family
// member to a senior identified by account id.
func (s *ConnectionService) SendRequest(ctx context.Context, familyMemberID int, req *models.SendRequestByID) (*models.Connection, error) {
	if req.SeniorID <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "senior id is required")
	}

	target, err := s.Profiles.Get(ctx, req.SeniorID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up senior")
	}
	if target == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "senior account not found")
	}

	return s.createRequest(ctx, familyMemberID, target, req.Relationship, req.RelationshipNote)
}

// SendConnectionRequest resolves the senior by email or phone (exactly
// one required) and then creates the pending connection.
func (s *ConnectionService) SendConnectionRequest(ctx context.Context, familyMemberID int, req *models.SendConnectionRequest) (*models.Connection, error) {
	if req.Email == "" && req.Phone == "" {
		return nil, errors.New(errors.ErrCodeValidation, "email or phone number is required")
	}
	if req.Email != "" && req.Phone != "" {
		return nil, errors.New(errors.ErrCodeValidation, "provide either email or phone, not both")
	}
	if req.Name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "name is required")
	}

	target, err := s.Profiles.FindByContact(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up profile")
	}
	if target == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no user found with the provided email or phone number")
	}

	return s.createRequest(ctx, familyMemberID, target, req.Relationship, req.RelationshipNote)
}

func (s *ConnectionService) createRequest(ctx context.Context, familyMemberID int, target *models.User, relationship, note string) (*models.Connection, error) {
	if !models.ValidRelationship(relationship) {
		return nil, errors.New(errors.ErrCodeValidation, "relationship must be one of child, spouse, sibling, caregiver, other")
	}
	if relationship == "other" && note == "" {
		return nil, errors.New(errors.ErrCodeValidation, "a description is required for relationship 'other'")
	}
	if target.ID == familyMemberID {
		return nil, errors.New(errors.ErrCodeValidation, "cannot connect to your own account")
	}
	if target.Role != models.RoleSenior {
		return nil, errors.New(errors.ErrCodeValidation, "target account is not a senior")
	}

	// One senior and one family member per connection; the caller's
	// side has to be checked too or two seniors could pair up
	caller, err := s.Profiles.Get(ctx, familyMemberID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up caller")
	}
	if caller == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "caller account not found")
	}
	if caller.Role == models.RoleSenior {
		return nil, errors.New(errors.ErrCodeValidation, "a senior account cannot send connection requests")
	}

	// One active connection per pair; terminal rows don't count
	existing, err := s.Connections.FindActiveBetween(ctx, target.ID, familyMemberID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to check existing connection")
	}
	if existing != nil {
		if existing.Status == models.ConnectionStatusAccepted {
			return nil, errors.New(errors.ErrCodeConflict, "already connected to this senior")
		}
		return nil, errors.New(errors.ErrCodeConflict, "a connection request is already pending")
	}

	conn := &models.Connection{
		SeniorID:         target.ID,
		FamilyMemberID:   familyMemberID,
		Relationship:     relationship,
		RelationshipNote: note,
		Status:           models.ConnectionStatusPending,
		// Permissions stay all-false until acceptance materializes them
		Permissions: models.Permissions{},
	}

	if err := s.Connections.Create(ctx, conn); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to create connection request")
	}

	s.notify(target.ID, "connection_request", conn)

	return conn, nil
}

// RespondToRequest transitions a connection to accepted, rejected or
// blocked. Acceptance materializes the default permission record in the
// same store call as the status change.
func (s *ConnectionService) RespondToRequest(ctx context.Context, callerID, connectionID int, status string) (*models.Connection, error) {
	if status != models.ConnectionStatusAccepted &&
		status != models.ConnectionStatusRejected &&
		status != models.ConnectionStatusBlocked {
		return nil, errors.New(errors.ErrCodeValidation, "status must be accepted, rejected or blocked")
	}

	conn, err := s.getOwned(ctx, callerID, connectionID)
	if err != nil {
		return nil, err
	}

	// Requests are answered by the senior who received them
	if conn.SeniorID != callerID {
		return nil, errors.New(errors.ErrCodeForbidden, "only the senior can respond to this request")
	}

	if !models.CanTransition(conn.Status, status) {
		return nil, errors.New(errors.ErrCodeInvalidState,
			"cannot change a "+conn.Status+" connection to "+status)
	}

	perms := conn.Permissions
	switch status {
	case models.ConnectionStatusAccepted:
		perms = models.DefaultPermissions()
	case models.ConnectionStatusBlocked:
		perms = models.Permissions{}
	}

	updated, err := s.Connections.UpdateStatus(ctx, connectionID, status, perms)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to update connection")
	}
	if updated == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "connection not found")
	}

	s.notify(updated.FamilyMemberID, "connection_response", updated)

	return updated, nil
}

// UpdatePermissions merges a partial permission patch into an accepted
// connection. Edits on any other status are rejected, not ignored.
// Only the senior party may change what their family member sees.
func (s *ConnectionService) UpdatePermissions(ctx context.Context, callerID, connectionID int, patch *models.PermissionsPatch) (*models.Connection, error) {
	if patch == nil || patch.IsEmpty() {
		return nil, errors.New(errors.ErrCodeValidation, "no permission changes provided")
	}

	conn, err := s.getOwned(ctx, callerID, connectionID)
	if err != nil {
		return nil, err
	}

	if conn.SeniorID != callerID {
		return nil, errors.New(errors.ErrCodeForbidden, "only the senior can change permissions")
	}
	if conn.Status != models.ConnectionStatusAccepted {
		return nil, errors.New(errors.ErrCodeInvalidState,
			"permissions can only be changed on an accepted connection")
	}

	merged := patch.Merge(conn.Permissions)

	updated, err := s.Connections.UpdatePermissions(ctx, connectionID, merged)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to update permissions")
	}
	if updated == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "connection not found")
	}

	return updated, nil
}

// RemoveConnection hard-deletes a connection regardless of status.
// Removing an id that no longer exists is a success: the desired end
// state (no connection) already holds.
func (s *ConnectionService) RemoveConnection(ctx context.Context, callerID, connectionID int) error {
	conn, err := s.Connections.Get(ctx, connectionID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up connection")
	}
	if conn == nil {
		return nil
	}
	if conn.SeniorID != callerID && conn.FamilyMemberID != callerID {
		return errors.New(errors.ErrCodeForbidden, "not a party to this connection")
	}

	if _, err := s.Connections.Delete(ctx, connectionID); err != nil {
		return errors.Wrap(err, errors.ErrCodeNetwork, "failed to remove connection")
	}

	return nil
}

// ListConnections returns all of the caller's connections in both
// directions, optionally filtered by status. Each call is a fresh query.
func (s *ConnectionService) ListConnections(ctx context.Context, userID int, statusFilter string) ([]*models.Connection, error) {
	if statusFilter != "" && !models.ValidConnectionStatus(statusFilter) {
		return nil, errors.New(errors.ErrCodeValidation, "unknown status filter: "+statusFilter)
	}

	conns, err := s.Connections.ListByUser(ctx, userID, statusFilter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to list connections")
	}
	if conns == nil {
		conns = []*models.Connection{}
	}

	return conns, nil
}

// ConnectedSeniors returns the accepted connections of a family member,
// joined with the seniors' display fields.
func (s *ConnectionService) ConnectedSeniors(ctx context.Context, familyMemberID int) ([]*models.Connection, error) {
	conns, err := s.Connections.ListAcceptedByFamilyMember(ctx, familyMemberID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to list connected seniors")
	}
	if conns == nil {
		conns = []*models.Connection{}
	}

	return conns, nil
}

// FamilyMembers returns the accepted connections of a senior.
func (s *ConnectionService) FamilyMembers(ctx context.Context, seniorID int) ([]*models.Connection, error) {
	conns, err := s.Connections.ListAcceptedBySenior(ctx, seniorID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to list family members")
	}
	if conns == nil {
		conns = []*models.Connection{}
	}

	return conns, nil
}

// CheckConnection returns the newest connection of any status between
// the caller and a senior, or nil when none exists. Used by the app to
// prevent duplicate requests.
func (s *ConnectionService) CheckConnection(ctx context.Context, callerID, seniorID int) (*models.Connection, error) {
	if seniorID <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "senior id is required")
	}

	conn, err := s.Connections.FindBetween(ctx, seniorID, callerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to check connection")
	}

	return conn, nil
}

// Permission returns the effective permission record the caller holds
// over a senior's data. Seniors always hold every permission on their
// own data; anyone else needs an accepted connection. A connection in
// any other state grants nothing.
func (s *ConnectionService) Permission(ctx context.Context, callerID, seniorID int) (models.Permissions, error) {
	if callerID == seniorID {
		return models.Permissions{
			ViewHealth:           true,
			ViewMedications:      true,
			ViewAppointments:     true,
			ViewLocation:         true,
			ReceiveNotifications: true,
			ManageMedications:    true,
			ManageAppointments:   true,
		}, nil
	}

	conn, err := s.Connections.FindBetween(ctx, seniorID, callerID)
	if err != nil {
		return models.Permissions{}, errors.Wrap(err, errors.ErrCodeNetwork, "failed to check permissions")
	}
	if conn == nil || conn.SeniorID != seniorID {
		return models.Permissions{}, nil
	}

	return conn.EffectivePermissions(), nil
}

func (s *ConnectionService) notify(userID int, event string, payload interface{}) {
	if s.Notifier != nil {
		s.Notifier.Send(userID, event, payload)
	}
}

func (s *ConnectionService) getOwned(ctx context.Context, callerID, connectionID int) (*models.Connection, error) {
	conn, err := s.Connections.Get(ctx, connectionID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNetwork, "failed to look up connection")
	}
	if conn == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "connection not found")
	}
	if conn.SeniorID != callerID && conn.FamilyMemberID != callerID {
		return nil, errors.New(errors.ErrCodeForbidden, "not a party to this connection")
	}
	return conn, nil
}
