package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	identitymodels "github.com/shubham1542-dev/Dev-Connector/internal/identity/models"
	"github.com/shubham1542-dev/Dev-Connector/internal/post/models"
	"github.com/shubham1542-dev/Dev-Connector/internal/post/store"
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit/publisher"
	auditmemory "github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit/store/memory"
	"github.com/shubham1542-dev/Dev-Connector/pkg/requestcontext"
	"github.com/shubham1542-dev/Dev-Connector/pkg/testutil"
)

// anyAccount resolves every id to an account named after it.
type anyAccount struct{}

func (anyAccount) Account(_ context.Context, accountID id.AccountID) (*identitymodels.Account, error) {
	return &identitymodels.Account{ID: accountID, Name: "user-" + accountID.String()[:8], AvatarURL: "https://avatar/" + accountID.String()}, nil
}

type failingAuditor struct{ err error }

func (a failingAuditor) Emit(context.Context, audit.Event) error { return a.err }

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	author     id.AccountID
	reader     id.AccountID
	auditStore *auditmemory.InMemoryStore
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.author = id.NewAccountID()
	s.reader = id.NewAccountID()

	posts, err := store.NewInMemory()
	s.Require().NoError(err)
	s.auditStore = auditmemory.NewInMemoryStore()
	s.service, err = New(posts, anyAccount{}, WithAuditPublisher(publisher.NewPublisher(s.auditStore)))
	s.Require().NoError(err)
}

func (s *ServiceSuite) newPost() *models.Post {
	post, err := s.service.Create(s.ctx, s.author, "hello world")
	s.Require().NoError(err)
	return post
}

func (s *ServiceSuite) snapshot(postID id.PostID) string {
	post, err := s.service.Get(s.ctx, postID)
	s.Require().NoError(err)
	b, err := json.Marshal(post)
	s.Require().NoError(err)
	return string(b)
}

func likers(likes []models.Like) []id.AccountID {
	out := make([]id.AccountID, 0, len(likes))
	for _, l := range likes {
		out = append(out, l.AccountID)
	}
	return out
}

func (s *ServiceSuite) TestCreateAndRead() {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	var ids []id.PostID
	for i := range 3 {
		ctx := requestcontext.WithTime(s.ctx, base.Add(time.Duration(i)*time.Minute))
		post, err := s.service.Create(ctx, s.author, "post")
		s.Require().NoError(err)
		ids = append(ids, post.ID)
	}

	s.Run("snapshot of the author is stored", func() {
		post, err := s.service.Get(s.ctx, ids[0])
		s.Require().NoError(err)
		s.Equal(s.author, post.AuthorID)
		s.Equal("user-"+s.author.String()[:8], post.AuthorName)
		s.Equal(base, post.CreatedAt.UTC())
	})

	s.Run("list is newest first", func() {
		posts, err := s.service.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(posts, 3)
		s.Equal(ids[2], posts[0].ID)
		s.Equal(ids[1], posts[1].ID)
		s.Equal(ids[0], posts[2].ID)
	})

	s.Run("unknown post is not found", func() {
		_, err := s.service.Get(s.ctx, id.NewPostID())
		s.ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "post not found"))
	})
}

func (s *ServiceSuite) TestDelete() {
	post := s.newPost()

	s.Run("only the author may delete", func() {
		err := s.service.Delete(s.ctx, s.reader, post.ID)
		s.ErrorIs(err, dErrors.New(dErrors.CodeForbidden, "user not authorized"))
		_, err = s.service.Get(s.ctx, post.ID)
		s.NoError(err)

		events, err := s.auditStore.ListByAccount(s.ctx, s.reader)
		s.Require().NoError(err)
		s.Require().NotEmpty(events)
		s.Equal(string(audit.EventOwnershipDenied), events[len(events)-1].Action)
	})

	s.Run("author deletes", func() {
		s.Require().NoError(s.service.Delete(s.ctx, s.author, post.ID))
		_, err := s.service.Get(s.ctx, post.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("deleting a missing post is not found", func() {
		err := s.service.Delete(s.ctx, s.author, post.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestLikeIsIdempotent() {
	post := s.newPost()

	likes, err := s.service.Like(s.ctx, s.reader, post.ID)
	s.Require().NoError(err)
	s.Equal([]id.AccountID{s.reader}, likers(likes))
	after := s.snapshot(post.ID)

	_, err = s.service.Like(s.ctx, s.reader, post.ID)
	s.ErrorIs(err, dErrors.New(dErrors.CodeConflict, "post already liked"))
	s.Equal(after, s.snapshot(post.ID))

	_, err = s.service.Like(s.ctx, s.reader, id.NewPostID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUnlike() {
	post := s.newPost()

	s.Run("unliking a post that is not liked changes nothing", func() {
		before := s.snapshot(post.ID)

		_, err := s.service.Unlike(s.ctx, s.reader, post.ID)
		s.ErrorIs(err, dErrors.New(dErrors.CodeConflict, "post has not yet been liked"))
		s.Equal(before, s.snapshot(post.ID))
	})

	s.Run("removes only the caller's like and keeps order", func() {
		a, b, c := id.NewAccountID(), id.NewAccountID(), id.NewAccountID()
		for _, who := range []id.AccountID{a, b, c} {
			_, err := s.service.Like(s.ctx, who, post.ID)
			s.Require().NoError(err)
		}

		likes, err := s.service.Unlike(s.ctx, b, post.ID)
		s.Require().NoError(err)
		s.Equal([]id.AccountID{c, a}, likers(likes))
	})
}

func (s *ServiceSuite) TestComments() {
	post := s.newPost()

	first, err := s.service.AddComment(s.ctx, s.reader, post.ID, "first")
	s.Require().NoError(err)
	second, err := s.service.AddComment(s.ctx, s.author, post.ID, "second")
	s.Require().NoError(err)
	third, err := s.service.AddComment(s.ctx, s.reader, post.ID, "third")
	s.Require().NoError(err)
	s.Require().Len(third, 3)
	s.Equal("third", third[0].Text)
	readerComment := first[0].ID
	authorComment := second[0].ID

	s.Run("another account may not delete a comment", func() {
		before := s.snapshot(post.ID)

		_, err := s.service.RemoveComment(s.ctx, s.author, post.ID, readerComment)
		s.ErrorIs(err, dErrors.New(dErrors.CodeForbidden, "user not authorized"))
		s.Equal(before, s.snapshot(post.ID))
	})

	s.Run("missing comment is reported before authorship", func() {
		_, err := s.service.RemoveComment(s.ctx, s.author, post.ID, id.NewCommentID())
		s.ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "comment does not exist"))
	})

	s.Run("author removes exactly their comment", func() {
		comments, err := s.service.RemoveComment(s.ctx, s.author, post.ID, authorComment)
		s.Require().NoError(err)
		s.Require().Len(comments, 2)
		s.Equal("third", comments[0].Text)
		s.Equal(readerComment, comments[1].ID)
	})

	s.Run("commenting on a missing post is not found", func() {
		_, err := s.service.AddComment(s.ctx, s.reader, id.NewPostID(), "hi")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestConcurrentLikes() {
	testutil.Given(s.T(), "a post and many distinct accounts", func(t *testing.T) {
		post := s.newPost()
		const accounts = 50

		testutil.When(t, "every account likes the post at the same time", func(t *testing.T) {
			var wg sync.WaitGroup
			start := make(chan struct{})
			for range accounts {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					_, err := s.service.Like(s.ctx, id.NewAccountID(), post.ID)
					assert.NoError(t, err)
				}()
			}
			close(start)
			wg.Wait()

			testutil.Then(t, "no like is lost", func(t *testing.T) {
				got, err := s.service.Get(s.ctx, post.ID)
				require.NoError(t, err)
				assert.Len(t, got.Likes, accounts)
			})
		})
	})

	testutil.Given(s.T(), "one account racing itself", func(t *testing.T) {
		post := s.newPost()
		liker := id.NewAccountID()

		testutil.Then(t, "exactly one like survives", func(t *testing.T) {
			var wg sync.WaitGroup
			var mu sync.Mutex
			conflicts := 0
			for range 10 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.service.Like(s.ctx, liker, post.ID)
					if dErrors.HasCode(err, dErrors.CodeConflict) {
						mu.Lock()
						conflicts++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			got, err := s.service.Get(s.ctx, post.ID)
			require.NoError(t, err)
			assert.Len(t, got.Likes, 1)
			assert.Equal(t, 9, conflicts)
		})
	})
}

func (s *ServiceSuite) TestAuditFailureLogging() {
	newService := func(err error) (*Service, *bytes.Buffer) {
		var logs bytes.Buffer
		posts, storeErr := store.NewInMemory()
		s.Require().NoError(storeErr)
		svc, newErr := New(posts, anyAccount{},
			WithAuditPublisher(failingAuditor{err: err}),
			WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		)
		s.Require().NoError(newErr)
		return svc, &logs
	}

	s.Run("a full audit buffer is not logged again", func() {
		svc, logs := newService(publisher.ErrBufferFull)

		_, err := svc.Create(s.ctx, s.author, "hello")
		s.Require().NoError(err)
		s.NotContains(logs.String(), "failed to emit audit event")
	})

	s.Run("other audit failures are logged and the mutation still succeeds", func() {
		svc, logs := newService(errors.New("kafka down"))

		_, err := svc.Create(s.ctx, s.author, "hello")
		s.Require().NoError(err)
		s.Contains(logs.String(), "failed to emit audit event")
		s.Contains(logs.String(), "kafka down")
	})
}
