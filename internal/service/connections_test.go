package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tazhibayda/social-service/internal/domain"
	"github.com/tazhibayda/social-service/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeConnStore mimics the Mongo collection semantics, including the
// unique pair_key constraint.
type fakeConnStore struct {
	conns map[string]*domain.Connection // pair_key -> doc
	users map[primitive.ObjectID]*domain.User
}

func newFakeConnStore() *fakeConnStore {
	return &fakeConnStore{
		conns: make(map[string]*domain.Connection),
		users: make(map[primitive.ObjectID]*domain.User),
	}
}

func (f *fakeConnStore) addUser(name string) *domain.User {
	u := &domain.User{ID: primitive.NewObjectID(), Name: name, Email: name + "@example.com"}
	f.users[u.ID] = u
	return u
}

func (f *fakeConnStore) FindConnectionBetween(_ context.Context, a, b primitive.ObjectID) (*domain.Connection, error) {
	if c, ok := f.conns[domain.PairKey(a, b)]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeConnStore) InsertConnection(_ context.Context, c *domain.Connection) error {
	key := domain.PairKey(c.RequesterID, c.ReceiverID)
	if _, exists := f.conns[key]; exists {
		return repo.ErrDuplicatePair
	}
	c.ID = primitive.NewObjectID()
	c.PairKey = key
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	f.conns[key] = &cp
	return nil
}

func (f *fakeConnStore) RecycleConnection(_ context.Context, id, requester, receiver primitive.ObjectID, message string) (*domain.Connection, error) {
	for _, c := range f.conns {
		if c.ID == id && c.Status == domain.ConnectionStatusRejected {
			c.RequesterID = requester
			c.ReceiverID = receiver
			c.Status = domain.ConnectionStatusPending
			c.Message = message
			c.AcceptedAt = nil
			c.RejectedAt = nil
			c.UpdatedAt = time.Now()
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeConnStore) MarkConnectionAccepted(_ context.Context, requester, receiver primitive.ObjectID) (*domain.Connection, error) {
	return f.resolve(requester, receiver, domain.ConnectionStatusAccepted)
}

func (f *fakeConnStore) MarkConnectionRejected(_ context.Context, requester, receiver primitive.ObjectID) (*domain.Connection, error) {
	return f.resolve(requester, receiver, domain.ConnectionStatusRejected)
}

func (f *fakeConnStore) resolve(requester, receiver primitive.ObjectID, status string) (*domain.Connection, error) {
	c, ok := f.conns[domain.PairKey(requester, receiver)]
	if !ok || c.Status != domain.ConnectionStatusPending || c.RequesterID != requester || c.ReceiverID != receiver {
		return nil, nil
	}
	now := time.Now()
	c.Status = status
	if status == domain.ConnectionStatusAccepted {
		c.AcceptedAt = &now
	} else {
		c.RejectedAt = &now
	}
	c.UpdatedAt = now
	cp := *c
	return &cp, nil
}

func (f *fakeConnStore) DeletePendingConnection(_ context.Context, requester, receiver primitive.ObjectID) (bool, error) {
	key := domain.PairKey(requester, receiver)
	c, ok := f.conns[key]
	if !ok || c.Status != domain.ConnectionStatusPending || c.RequesterID != requester {
		return false, nil
	}
	delete(f.conns, key)
	return true, nil
}

func (f *fakeConnStore) DeleteAcceptedConnection(_ context.Context, id, caller primitive.ObjectID) (bool, error) {
	for key, c := range f.conns {
		if c.ID == id && c.Status == domain.ConnectionStatusAccepted &&
			(c.RequesterID == caller || c.ReceiverID == caller) {
			delete(f.conns, key)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConnStore) PendingConnectionsFor(_ context.Context, receiver primitive.ObjectID) ([]domain.Connection, error) {
	var out []domain.Connection
	for _, c := range f.conns {
		if c.Status == domain.ConnectionStatusPending && c.ReceiverID == receiver {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConnStore) SentConnectionsBy(_ context.Context, requester primitive.ObjectID) ([]domain.Connection, error) {
	var out []domain.Connection
	for _, c := range f.conns {
		if c.Status == domain.ConnectionStatusPending && c.RequesterID == requester {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConnStore) AcceptedConnectionsFor(_ context.Context, user primitive.ObjectID) ([]domain.Connection, error) {
	var out []domain.Connection
	for _, c := range f.conns {
		if c.Status == domain.ConnectionStatusAccepted && (c.RequesterID == user || c.ReceiverID == user) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConnStore) ConnectionCounts(_ context.Context, user primitive.ObjectID) (domain.ConnectionCounts, error) {
	var cc domain.ConnectionCounts
	for _, c := range f.conns {
		switch {
		case c.Status == domain.ConnectionStatusPending && c.ReceiverID == user:
			cc.PendingReceived++
		case c.Status == domain.ConnectionStatusPending && c.RequesterID == user:
			cc.PendingSent++
		case c.Status == domain.ConnectionStatusAccepted && (c.RequesterID == user || c.ReceiverID == user):
			cc.Accepted++
		}
	}
	return cc, nil
}

func (f *fakeConnStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeConnStore) PublicProfiles(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.PublicProfile, error) {
	out := make(map[primitive.ObjectID]domain.PublicProfile, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u.Public()
		}
	}
	return out, nil
}

// racingConnStore simulates losing the insert race: the pre-insert read
// sees nothing, the insert hits the unique pair_key index, and the
// follow-up read sees the document the other request won with.
type racingConnStore struct {
	*fakeConnStore
	winner *domain.Connection
	reads  int
}

func (r *racingConnStore) FindConnectionBetween(_ context.Context, a, b primitive.ObjectID) (*domain.Connection, error) {
	r.reads++
	if r.reads == 1 {
		return nil, nil
	}
	cp := *r.winner
	return &cp, nil
}

func (r *racingConnStore) InsertConnection(_ context.Context, _ *domain.Connection) error {
	return repo.ErrDuplicatePair
}

func TestSendRequestDuplicateKeyRace(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		winnerStatus string
		want         error
	}{
		{domain.ConnectionStatusPending, ErrAlreadyPending},
		{domain.ConnectionStatusAccepted, ErrAlreadyConnected},
	}
	for _, tc := range cases {
		base := newFakeConnStore()
		alice := base.addUser("alice")
		bob := base.addUser("bob")

		store := &racingConnStore{
			fakeConnStore: base,
			winner: &domain.Connection{
				ID:          primitive.NewObjectID(),
				RequesterID: bob.ID,
				ReceiverID:  alice.ID,
				Status:      tc.winnerStatus,
			},
		}
		svc := NewConnections(store, base)

		if _, err := svc.SendRequest(ctx, alice, bob.ID, ""); !errors.Is(err, tc.want) {
			t.Fatalf("winner %q: got %v, want %v", tc.winnerStatus, err, tc.want)
		}
		if store.reads != 2 {
			t.Fatalf("winner %q: %d reads, want a re-read after the duplicate key", tc.winnerStatus, store.reads)
		}
	}
}

func TestSendRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeConnStore()
	svc := NewConnections(store, store)

	alice := store.addUser("alice")
	bob := store.addUser("bob")

	c, err := svc.SendRequest(ctx, alice, bob.ID, "hi")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if c.Status != domain.ConnectionStatusPending {
		t.Fatalf("status = %q, want pending", c.Status)
	}

	if _, err := svc.SendRequest(ctx, alice, bob.ID, "again"); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("duplicate send: got %v, want ErrAlreadyPending", err)
	}
	// reverse direction hits the same pair
	if _, err := svc.SendRequest(ctx, bob, alice.ID, ""); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("reverse send: got %v, want ErrAlreadyPending", err)
	}

	accepted, err := svc.Accept(ctx, bob, alice.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != domain.ConnectionStatusAccepted || accepted.AcceptedAt == nil {
		t.Fatalf("accepted = %+v, want accepted status with timestamp", accepted)
	}

	// accept is not idempotent: the pending doc is gone
	if _, err := svc.Accept(ctx, bob, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second accept: got %v, want ErrNotFound", err)
	}

	if _, err := svc.SendRequest(ctx, alice, bob.ID, ""); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("send while connected: got %v, want ErrAlreadyConnected", err)
	}
}

func TestSendRequestToSelf(t *testing.T) {
	store := newFakeConnStore()
	svc := NewConnections(store, store)
	alice := store.addUser("alice")

	if _, err := svc.SendRequest(context.Background(), alice, alice.ID, ""); !errors.Is(err, ErrSelfConnection) {
		t.Fatalf("got %v, want ErrSelfConnection", err)
	}
}

func TestSendRequestUnknownReceiver(t *testing.T) {
	store := newFakeConnStore()
	svc := NewConnections(store, store)
	alice := store.addUser("alice")

	if _, err := svc.SendRequest(context.Background(), alice, primitive.NewObjectID(), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRejectedRequestIsRecycled(t *testing.T) {
	ctx := context.Background()
	store := newFakeConnStore()
	svc := NewConnections(store, store)

	alice := store.addUser("alice")
	bob := store.addUser("bob")

	if _, err := svc.SendRequest(ctx, alice, bob.ID, "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Reject(ctx, bob, alice.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// bob can now ask alice; the rejected doc flips back to pending
	// with the new direction and no leftover timestamps
	c, err := svc.SendRequest(ctx, bob, alice.ID, "my turn")
	if err != nil {
		t.Fatalf("recycled send: %v", err)
	}
	if c.Status != domain.ConnectionStatusPending {
		t.Fatalf("status = %q, want pending", c.Status)
	}
	if c.RequesterID != bob.ID || c.ReceiverID != alice.ID {
		t.Fatalf("direction not updated: %+v", c)
	}
	if c.RejectedAt != nil || c.AcceptedAt != nil {
		t.Fatalf("stale timestamps survived recycle: %+v", c)
	}
	if c.Message != "my turn" {
		t.Fatalf("message = %q, want %q", c.Message, "my turn")
	}
}

func TestCancelOwnPendingRequest(t *testing.T) {
	ctx := context.Background()
	store := newFakeConnStore()
	svc := NewConnections(store, store)

	alice := store.addUser("alice")
	bob := store.addUser("bob")

	if _, err := svc.SendRequest(ctx, alice, bob.ID, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	// the receiver cannot cancel, only the requester
	if err := svc.Cancel(ctx, bob, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("receiver cancel: got %v, want ErrNotFound", err)
	}
	if err := svc.Cancel(ctx, alice, bob.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// pair is free again
	if _, err := svc.SendRequest(ctx, alice, bob.ID, ""); err != nil {
		t.Fatalf("resend after cancel: %v", err)
	}
}

func TestRemoveAcceptedConnection(t *testing.T) {
	ctx := context.Background()
	store := newFakeConnStore()
	svc := NewConnections(store, store)

	alice := store.addUser("alice")
	bob := store.addUser("bob")
	carol := store.addUser("carol")

	if _, err := svc.SendRequest(ctx, alice, bob.ID, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	accepted, err := svc.Accept(ctx, bob, alice.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	// a third party cannot remove it
	if err := svc.Remove(ctx, carol, accepted.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("outsider remove: got %v, want ErrNotFound", err)
	}
	if err := svc.Remove(ctx, bob, accepted.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	st, err := svc.Status(ctx, alice, bob.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.IsConnected || st.IsPending || st.Status != "" {
		t.Fatalf("status after removal = %+v, want empty report", st)
	}
}

func TestStatusReportsDirection(t *testing.T) {
	ctx := context.Background()
	store := newFakeConnStore()
	svc := NewConnections(store, store)

	alice := store.addUser("alice")
	bob := store.addUser("bob")

	if _, err := svc.SendRequest(ctx, alice, bob.ID, ""); err != nil {
		t.Fatalf("send: %v", err)
	}

	st, err := svc.Status(ctx, alice, bob.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !st.IsPending || !st.AmRequester {
		t.Fatalf("requester view = %+v", st)
	}

	st, err = svc.Status(ctx, bob, alice.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !st.IsPending || st.AmRequester {
		t.Fatalf("receiver view = %+v", st)
	}
}

func TestListsAndCounts(t *testing.T) {
	ctx := context.Background()
	store := newFakeConnStore()
	svc := NewConnections(store, store)

	alice := store.addUser("alice")
	bob := store.addUser("bob")
	carol := store.addUser("carol")
	dave := store.addUser("dave")

	// bob -> alice pending, alice -> carol pending, alice <-> dave accepted
	if _, err := svc.SendRequest(ctx, bob, alice.ID, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.SendRequest(ctx, alice, carol.ID, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.SendRequest(ctx, dave, alice.ID, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Accept(ctx, alice, dave.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	pending, err := svc.Pending(ctx, alice)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].User.Name != "bob" {
		t.Fatalf("pending = %+v, want one entry from bob", pending)
	}

	sent, err := svc.Sent(ctx, alice)
	if err != nil {
		t.Fatalf("sent: %v", err)
	}
	if len(sent) != 1 || sent[0].User.Name != "carol" {
		t.Fatalf("sent = %+v, want one entry to carol", sent)
	}

	accepted, err := svc.Accepted(ctx, alice)
	if err != nil {
		t.Fatalf("accepted: %v", err)
	}
	if len(accepted) != 1 || accepted[0].User.Name != "dave" {
		t.Fatalf("accepted = %+v, want one entry with dave", accepted)
	}

	counts, err := svc.Counts(ctx, alice)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	want := domain.ConnectionCounts{PendingReceived: 1, PendingSent: 1, Accepted: 1}
	if counts != want {
		t.Fatalf("counts = %+v, want %+v", counts, want)
	}
}
