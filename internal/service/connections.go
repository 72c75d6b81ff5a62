package service

import (
	"context"
	"errors"

	"github.com/tazhibayda/social-service/internal/domain"
	"github.com/tazhibayda/social-service/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnectionStore is the slice of the Mongo store the state machine
// needs. *repo.Store satisfies it; tests use an in-memory fake.
type ConnectionStore interface {
	FindConnectionBetween(ctx context.Context, a, b primitive.ObjectID) (*domain.Connection, error)
	InsertConnection(ctx context.Context, c *domain.Connection) error
	RecycleConnection(ctx context.Context, id, requester, receiver primitive.ObjectID, message string) (*domain.Connection, error)
	MarkConnectionAccepted(ctx context.Context, requester, receiver primitive.ObjectID) (*domain.Connection, error)
	MarkConnectionRejected(ctx context.Context, requester, receiver primitive.ObjectID) (*domain.Connection, error)
	DeletePendingConnection(ctx context.Context, requester, receiver primitive.ObjectID) (bool, error)
	DeleteAcceptedConnection(ctx context.Context, id, caller primitive.ObjectID) (bool, error)
	PendingConnectionsFor(ctx context.Context, receiver primitive.ObjectID) ([]domain.Connection, error)
	SentConnectionsBy(ctx context.Context, requester primitive.ObjectID) ([]domain.Connection, error)
	AcceptedConnectionsFor(ctx context.Context, user primitive.ObjectID) ([]domain.Connection, error)
	ConnectionCounts(ctx context.Context, user primitive.ObjectID) (domain.ConnectionCounts, error)
}

// UserDirectory resolves local users and their public profiles.
type UserDirectory interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	PublicProfiles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.PublicProfile, error)
}

// Connections mediates the friend-request lifecycle between two users.
// The unique pair_key index is the final authority on duplicates; the
// pre-insert read only decides which error to report.
type Connections struct {
	store ConnectionStore
	users UserDirectory
}

func NewConnections(store ConnectionStore, users UserDirectory) *Connections {
	return &Connections{store: store, users: users}
}

// StatusReport is the answer to "what is my relationship with user X".
type StatusReport struct {
	IsConnected bool   `json:"is_connected"`
	IsPending   bool   `json:"is_pending"`
	Status      string `json:"status,omitempty"`
	AmRequester bool   `json:"am_requester"`
}

// ConnectionEntry is a connection enriched with the counterpart's
// public profile for list views.
type ConnectionEntry struct {
	domain.Connection
	User domain.PublicProfile `json:"user"`
}

// SendRequest creates a pending request from requester to receiverID,
// or recycles a previously rejected one from either direction.
func (svc *Connections) SendRequest(ctx context.Context, requester *domain.User, receiverID primitive.ObjectID, message string) (*domain.Connection, error) {
	if requester.ID == receiverID {
		return nil, ErrSelfConnection
	}
	receiver, err := svc.users.FindUserByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, ErrNotFound
	}

	existing, err := svc.store.FindConnectionBetween(ctx, requester.ID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case domain.ConnectionStatusPending:
			return nil, ErrAlreadyPending
		case domain.ConnectionStatusAccepted:
			return nil, ErrAlreadyConnected
		case domain.ConnectionStatusRejected:
			recycled, err := svc.store.RecycleConnection(ctx, existing.ID, requester.ID, receiverID, message)
			if err != nil {
				return nil, err
			}
			if recycled == nil {
				// the rejected doc changed state under us
				return nil, ErrAlreadyPending
			}
			return recycled, nil
		}
	}

	c := &domain.Connection{
		RequesterID: requester.ID,
		ReceiverID:  receiverID,
		Status:      domain.ConnectionStatusPending,
		Message:     message,
	}
	if err := svc.store.InsertConnection(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicatePair) {
			// lost the race: report the state that actually won
			return nil, svc.raceState(ctx, requester.ID, receiverID)
		}
		return nil, err
	}
	return c, nil
}

func (svc *Connections) raceState(ctx context.Context, a, b primitive.ObjectID) error {
	existing, err := svc.store.FindConnectionBetween(ctx, a, b)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status == domain.ConnectionStatusAccepted {
		return ErrAlreadyConnected
	}
	return ErrAlreadyPending
}

// Accept resolves the pending request sent by requesterID to the caller.
func (svc *Connections) Accept(ctx context.Context, receiver *domain.User, requesterID primitive.ObjectID) (*domain.Connection, error) {
	c, err := svc.store.MarkConnectionAccepted(ctx, requesterID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (svc *Connections) Reject(ctx context.Context, receiver *domain.User, requesterID primitive.ObjectID) (*domain.Connection, error) {
	c, err := svc.store.MarkConnectionRejected(ctx, requesterID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Cancel withdraws the caller's own pending request.
func (svc *Connections) Cancel(ctx context.Context, requester *domain.User, receiverID primitive.ObjectID) error {
	ok, err := svc.store.DeletePendingConnection(ctx, requester.ID, receiverID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Remove deletes an accepted connection the caller is part of.
func (svc *Connections) Remove(ctx context.Context, caller *domain.User, connectionID primitive.ObjectID) error {
	ok, err := svc.store.DeleteAcceptedConnection(ctx, connectionID, caller.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Status reports the relationship between the caller and otherID.
func (svc *Connections) Status(ctx context.Context, caller *domain.User, otherID primitive.ObjectID) (StatusReport, error) {
	c, err := svc.store.FindConnectionBetween(ctx, caller.ID, otherID)
	if err != nil {
		return StatusReport{}, err
	}
	if c == nil {
		return StatusReport{}, nil
	}
	return StatusReport{
		IsConnected: c.Status == domain.ConnectionStatusAccepted,
		IsPending:   c.Status == domain.ConnectionStatusPending,
		Status:      c.Status,
		AmRequester: c.RequesterID == caller.ID,
	}, nil
}

// Pending lists requests waiting on the caller's decision.
func (svc *Connections) Pending(ctx context.Context, caller *domain.User) ([]ConnectionEntry, error) {
	list, err := svc.store.PendingConnectionsFor(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return svc.enrich(ctx, caller.ID, list)
}

// Sent lists pending requests the caller initiated.
func (svc *Connections) Sent(ctx context.Context, caller *domain.User) ([]ConnectionEntry, error) {
	list, err := svc.store.SentConnectionsBy(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return svc.enrich(ctx, caller.ID, list)
}

// Accepted lists the caller's established connections from both sides.
func (svc *Connections) Accepted(ctx context.Context, caller *domain.User) ([]ConnectionEntry, error) {
	list, err := svc.store.AcceptedConnectionsFor(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return svc.enrich(ctx, caller.ID, list)
}

func (svc *Connections) Counts(ctx context.Context, caller *domain.User) (domain.ConnectionCounts, error) {
	return svc.store.ConnectionCounts(ctx, caller.ID)
}

// enrich attaches the counterpart's public profile to each connection.
func (svc *Connections) enrich(ctx context.Context, caller primitive.ObjectID, list []domain.Connection) ([]ConnectionEntry, error) {
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, c := range list {
		ids = append(ids, counterpart(c, caller))
	}
	profiles, err := svc.users.PublicProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ConnectionEntry, 0, len(list))
	for _, c := range list {
		out = append(out, ConnectionEntry{Connection: c, User: profiles[counterpart(c, caller)]})
	}
	return out, nil
}

func counterpart(c domain.Connection, caller primitive.ObjectID) primitive.ObjectID {
	if c.RequesterID == caller {
		return c.ReceiverID
	}
	return c.RequesterID
}
