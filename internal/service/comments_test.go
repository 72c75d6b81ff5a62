package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tazhibayda/social-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCommentStore struct {
	comments map[primitive.ObjectID]*domain.Comment
	posts    map[primitive.ObjectID]*domain.Post
	users    map[primitive.ObjectID]*domain.User
	notified chan *domain.Notification
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{
		comments: make(map[primitive.ObjectID]*domain.Comment),
		posts:    make(map[primitive.ObjectID]*domain.Post),
		users:    make(map[primitive.ObjectID]*domain.User),
		notified: make(chan *domain.Notification, 8),
	}
}

func (f *fakeCommentStore) addUser(name string) *domain.User {
	u := &domain.User{ID: primitive.NewObjectID(), Name: name}
	f.users[u.ID] = u
	return u
}

func (f *fakeCommentStore) addPost(owner *domain.User) *domain.Post {
	p := &domain.Post{ID: primitive.NewObjectID(), UserID: owner.ID, Title: "lost keys", Type: domain.PostTypeLost}
	f.posts[p.ID] = p
	return p
}

func (f *fakeCommentStore) InsertComment(_ context.Context, c *domain.Comment) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeCommentStore) FindCommentByID(_ context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	if c, ok := f.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCommentStore) SetCommentMessage(_ context.Context, id primitive.ObjectID, message string) error {
	if c, ok := f.comments[id]; ok {
		c.Message = message
	}
	return nil
}

func (f *fakeCommentStore) SoftDeleteComment(_ context.Context, id primitive.ObjectID) (bool, error) {
	c, ok := f.comments[id]
	if !ok || c.IsDeleted {
		return false, nil
	}
	c.IsDeleted = true
	return true, nil
}

func (f *fakeCommentStore) TopLevelComments(_ context.Context, postID primitive.ObjectID) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range f.comments {
		if c.PostID == postID && c.ParentID == nil && !c.IsDeleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommentStore) RepliesByParent(_ context.Context, parentIDs []primitive.ObjectID) (map[primitive.ObjectID][]domain.Comment, error) {
	wanted := make(map[primitive.ObjectID]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}
	out := make(map[primitive.ObjectID][]domain.Comment)
	for _, c := range f.comments {
		if c.ParentID != nil && wanted[*c.ParentID] && !c.IsDeleted {
			out[*c.ParentID] = append(out[*c.ParentID], *c)
		}
	}
	return out, nil
}

func (f *fakeCommentStore) FindPostByID(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	if p, ok := f.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCommentStore) IncrementCommentCount(_ context.Context, id primitive.ObjectID, delta int) error {
	p, ok := f.posts[id]
	if !ok {
		return nil
	}
	if delta < 0 && p.CommentCount <= 0 {
		return nil
	}
	p.CommentCount += int64(delta)
	return nil
}

func (f *fakeCommentStore) InsertNotification(_ context.Context, n *domain.Notification) error {
	n.ID = primitive.NewObjectID()
	f.notified <- n
	return nil
}

func (f *fakeCommentStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCommentStore) PublicProfiles(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.PublicProfile, error) {
	out := make(map[primitive.ObjectID]domain.PublicProfile, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u.Public()
		}
	}
	return out, nil
}

func newCommentsSvc(f *fakeCommentStore) *Comments {
	return NewComments(f, f, f, f, nil)
}

func TestCreateCommentBumpsCountAndNotifies(t *testing.T) {
	ctx := context.Background()
	f := newFakeCommentStore()
	svc := newCommentsSvc(f)

	owner := f.addUser("owner")
	commenter := f.addUser("commenter")
	post := f.addPost(owner)

	c, err := svc.Create(ctx, commenter, post.ID, "found something similar", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID.IsZero() {
		t.Fatal("comment id not assigned")
	}
	if got := f.posts[post.ID].CommentCount; got != 1 {
		t.Fatalf("comment count = %d, want 1", got)
	}

	select {
	case n := <-f.notified:
		if n.UserID != owner.ID || n.FromUser != commenter.ID || n.Type != domain.NotificationTypeComment {
			t.Fatalf("notification = %+v", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("post owner was not notified")
	}
}

type capturePub struct {
	keys chan string
}

func (p *capturePub) Publish(_ context.Context, key string, _ any, _ string) error {
	p.keys <- key
	return nil
}

func (p *capturePub) Close() error { return nil }

func TestCreateCommentWithoutNotificationSink(t *testing.T) {
	ctx := context.Background()
	f := newFakeCommentStore()
	pub := &capturePub{keys: make(chan string, 1)}
	svc := NewComments(f, f, f, nil, pub)

	owner := f.addUser("owner")
	commenter := f.addUser("commenter")
	post := f.addPost(owner)

	c, err := svc.Create(ctx, commenter, post.ID, "hello", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID.IsZero() {
		t.Fatal("comment not persisted")
	}

	// the notify goroutine still publishes the event and must survive
	// the absent notification store
	select {
	case key := <-pub.keys:
		if key != "comment.created" {
			t.Fatalf("routing key = %q, want comment.created", key)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published")
	}
}

func TestCreateCommentByOwnerSkipsNotification(t *testing.T) {
	ctx := context.Background()
	f := newFakeCommentStore()
	svc := newCommentsSvc(f)

	owner := f.addUser("owner")
	post := f.addPost(owner)

	if _, err := svc.Create(ctx, owner, post.ID, "bump", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	select {
	case n := <-f.notified:
		t.Fatalf("unexpected self-notification: %+v", n)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCreateCommentValidation(t *testing.T) {
	ctx := context.Background()
	f := newFakeCommentStore()
	svc := newCommentsSvc(f)

	owner := f.addUser("owner")
	post := f.addPost(owner)

	if _, err := svc.Create(ctx, owner, post.ID, "   ", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank message: got %v, want ErrValidation", err)
	}
	if _, err := svc.Create(ctx, owner, primitive.NewObjectID(), "hello", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing post: got %v, want ErrNotFound", err)
	}
}

func TestCreateReplyStoresParentAsGiven(t *testing.T) {
	ctx := context.Background()
	f := newFakeCommentStore()
	svc := newCommentsSvc(f)

	owner := f.addUser("owner")
	post := f.addPost(owner)

	// the parent reference is not checked for existence
	bogus := primitive.NewObjectID()
	c, err := svc.Create(ctx, owner, post.ID, "reply", &bogus)
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if c.ParentID == nil || *c.ParentID != bogus {
		t.Fatalf("parent = %v, want %s", c.ParentID, bogus.Hex())
	}
}

func TestListThreadsWithReplies(t *testing.T) {
	ctx := context.Background()
	f := newFakeCommentStore()
	svc := newCommentsSvc(f)

	owner := f.addUser("owner")
	other := f.addUser("other")
	post := f.addPost(owner)

	top, err := svc.Create(ctx, owner, post.ID, "top", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, owner, post.ID, "first reply", &top.ID); err != nil {
		t.Fatalf("create reply: %v", err)
	}
	deleted, err := svc.Create(ctx, other, post.ID, "regret this", &top.ID)
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if err := svc.Delete(ctx, other, deleted.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	threads, err := svc.List(ctx, post.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("threads = %d, want 1", len(threads))
	}
	if threads[0].User.Name != "owner" {
		t.Fatalf("author profile not resolved: %+v", threads[0].User)
	}
	if len(threads[0].Replies) != 1 || threads[0].Replies[0].Message != "first reply" {
		t.Fatalf("replies = %+v, want only the surviving reply", threads[0].Replies)
	}

	if _, err := svc.List(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("list missing post: got %v, want ErrNotFound", err)
	}
}

func TestUpdateCommentAuthorOnly(t *testing.T) {
	ctx := context.Background()
	f := newFakeCommentStore()
	svc := newCommentsSvc(f)

	owner := f.addUser("owner")
	other := f.addUser("other")
	post := f.addPost(owner)

	c, err := svc.Create(ctx, owner, post.ID, "original", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, other, c.ID, "hijacked"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author update: got %v, want ErrForbidden", err)
	}
	if _, err := svc.Update(ctx, owner, c.ID, " "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank update: got %v, want ErrValidation", err)
	}

	updated, err := svc.Update(ctx, owner, c.ID, "edited")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Message != "edited" {
		t.Fatalf("message = %q, want %q", updated.Message, "edited")
	}
}

func TestDeleteCommentSemantics(t *testing.T) {
	ctx := context.Background()
	f := newFakeCommentStore()
	svc := newCommentsSvc(f)

	owner := f.addUser("owner")
	other := f.addUser("other")
	post := f.addPost(owner)

	c, err := svc.Create(ctx, owner, post.ID, "to delete", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.posts[post.ID].CommentCount; got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}

	if err := svc.Delete(ctx, other, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author delete: got %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, owner, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.posts[post.ID].CommentCount; got != 0 {
		t.Fatalf("count after delete = %d, want 0", got)
	}

	// the doc stays in the collection but reads as missing
	if err := svc.Delete(ctx, owner, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: got %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, owner, c.ID, "necro"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update deleted: got %v, want ErrNotFound", err)
	}
	// counter never goes below zero
	if got := f.posts[post.ID].CommentCount; got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}
}
