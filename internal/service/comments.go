package service

import (
	"context"
	"strings"
	"time"

	"github.com/tazhibayda/social-service/internal/domain"
	"github.com/tazhibayda/social-service/internal/log"
	"github.com/tazhibayda/social-service/internal/queue"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CommentStore interface {
	InsertComment(ctx context.Context, c *domain.Comment) error
	FindCommentByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error)
	SetCommentMessage(ctx context.Context, id primitive.ObjectID, message string) error
	SoftDeleteComment(ctx context.Context, id primitive.ObjectID) (bool, error)
	TopLevelComments(ctx context.Context, postID primitive.ObjectID) ([]domain.Comment, error)
	RepliesByParent(ctx context.Context, parentIDs []primitive.ObjectID) (map[primitive.ObjectID][]domain.Comment, error)
}

type PostDirectory interface {
	FindPostByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
	IncrementCommentCount(ctx context.Context, id primitive.ObjectID, delta int) error
}

type NotificationStore interface {
	InsertNotification(ctx context.Context, n *domain.Notification) error
}

// Comments maintains the two-level comment tree per post with soft
// deletion and the denormalized post counter.
type Comments struct {
	store  CommentStore
	posts  PostDirectory
	users  UserDirectory
	notifs NotificationStore
	events queue.Publisher
}

func NewComments(store CommentStore, posts PostDirectory, users UserDirectory, notifs NotificationStore, events queue.Publisher) *Comments {
	if events == nil {
		events = queue.NewNoop()
	}
	return &Comments{store: store, posts: posts, users: users, notifs: notifs, events: events}
}

// Create persists a comment (or reply), bumps the post's comment count
// and notifies the post owner. The notification path is fire-and-forget:
// it never blocks or fails the request. parentID is stored as given —
// replies are not referentially checked against their parent.
func (svc *Comments) Create(ctx context.Context, author *domain.User, postID primitive.ObjectID, message string, parentID *primitive.ObjectID) (*domain.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrValidation
	}
	post, err := svc.posts.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	c := &domain.Comment{
		PostID:   postID,
		UserID:   author.ID,
		Message:  message,
		ParentID: parentID,
	}
	if err := svc.store.InsertComment(ctx, c); err != nil {
		return nil, err
	}
	if err := svc.posts.IncrementCommentCount(ctx, postID, 1); err != nil {
		log.L().Warn("comment count increment failed",
			zap.String("post_id", postID.Hex()), zap.Error(err))
	}

	if post.UserID != author.ID {
		go svc.notifyOwner(post, author, c)
	}
	return c, nil
}

func (svc *Comments) notifyOwner(post *domain.Post, author *domain.User, c *domain.Comment) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if svc.notifs != nil {
		n := &domain.Notification{
			UserID:   post.UserID,
			Type:     domain.NotificationTypeComment,
			Message:  author.Name + " commented on your post",
			PostID:   post.ID,
			FromUser: author.ID,
		}
		if err := svc.notifs.InsertNotification(ctx, n); err != nil {
			log.L().Warn("comment notification insert failed", zap.Error(err))
		}
	}
	if err := svc.events.Publish(ctx, "comment.created", queue.CommentCreated{
		CommentID: c.ID,
		PostID:    post.ID,
		PostOwner: post.UserID,
		Author:    author.ID,
	}, ""); err != nil {
		log.L().Warn("comment event publish failed", zap.Error(err))
	}
}

// List returns non-deleted top-level comments newest first, each with
// its non-deleted replies oldest first and resolved author profiles.
func (svc *Comments) List(ctx context.Context, postID primitive.ObjectID) ([]domain.CommentThread, error) {
	post, err := svc.posts.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	parents, err := svc.store.TopLevelComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	parentIDs := make([]primitive.ObjectID, 0, len(parents))
	for _, p := range parents {
		parentIDs = append(parentIDs, p.ID)
	}
	replies, err := svc.store.RepliesByParent(ctx, parentIDs)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]primitive.ObjectID, 0, len(parents))
	for _, p := range parents {
		authorIDs = append(authorIDs, p.UserID)
	}
	for _, rs := range replies {
		for _, r := range rs {
			authorIDs = append(authorIDs, r.UserID)
		}
	}
	profiles, err := svc.users.PublicProfiles(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CommentThread, 0, len(parents))
	for _, p := range parents {
		thread := domain.CommentThread{
			Comment: p,
			User:    profiles[p.UserID],
			Replies: []domain.CommentReply{},
		}
		for _, r := range replies[p.ID] {
			thread.Replies = append(thread.Replies, domain.CommentReply{
				Comment: r,
				User:    profiles[r.UserID],
			})
		}
		out = append(out, thread)
	}
	return out, nil
}

// Update replaces the message text. Only the author may edit, and a
// soft-deleted comment reads as missing.
func (svc *Comments) Update(ctx context.Context, caller *domain.User, commentID primitive.ObjectID, message string) (*domain.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrValidation
	}
	c, err := svc.store.FindCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.IsDeleted {
		return nil, ErrNotFound
	}
	if c.UserID != caller.ID {
		return nil, ErrForbidden
	}
	if err := svc.store.SetCommentMessage(ctx, commentID, message); err != nil {
		return nil, err
	}
	c.Message = message
	return c, nil
}

// Delete soft-deletes the caller's own comment and decrements the post
// counter (floor of zero). A second delete reads as not-found.
func (svc *Comments) Delete(ctx context.Context, caller *domain.User, commentID primitive.ObjectID) error {
	c, err := svc.store.FindCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c == nil || c.IsDeleted {
		return ErrNotFound
	}
	if c.UserID != caller.ID {
		return ErrForbidden
	}
	ok, err := svc.store.SoftDeleteComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !ok {
		// someone else marked it deleted between the read and the update
		return ErrNotFound
	}
	if err := svc.posts.IncrementCommentCount(ctx, c.PostID, -1); err != nil {
		log.L().Warn("comment count decrement failed",
			zap.String("post_id", c.PostID.Hex()), zap.Error(err))
	}
	return nil
}
