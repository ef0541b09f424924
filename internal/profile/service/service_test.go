package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shubham1542-dev/Dev-Connector/internal/github"
	identitymodels "github.com/shubham1542-dev/Dev-Connector/internal/identity/models"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/docstore"
	"github.com/shubham1542-dev/Dev-Connector/internal/profile/models"
	"github.com/shubham1542-dev/Dev-Connector/internal/profile/store"
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit/publisher"
	auditmemory "github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit/store/memory"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/sentinel"
)

type stubAccounts map[id.AccountID]*identitymodels.Account

func (a stubAccounts) Account(_ context.Context, accountID id.AccountID) (*identitymodels.Account, error) {
	if acc, ok := a[accountID]; ok {
		return acc, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
}

type stubRepos struct {
	repos []github.Repo
	err   error
}

func (r stubRepos) Repos(context.Context, string) ([]github.Repo, error) {
	return r.repos, r.err
}

// racingProfiles stores a rival profile for the same account just before the
// first Save goes through.
type racingProfiles struct {
	docstore.Store[models.Profile]
	rival *models.Profile
	once  sync.Once
}

func (r *racingProfiles) Save(ctx context.Context, doc *models.Profile) error {
	var err error
	r.once.Do(func() { err = r.Store.Save(ctx, r.rival) })
	if err != nil {
		return err
	}
	return r.Store.Save(ctx, doc)
}

// phantomProfiles reports a conflict on every Save while never finding the
// conflicting profile.
type phantomProfiles struct {
	docstore.Store[models.Profile]
	saves int
}

func (p *phantomProfiles) FindOne(context.Context, string, string) (*models.Profile, error) {
	return nil, sentinel.ErrNotFound
}

func (p *phantomProfiles) Save(context.Context, *models.Profile) error {
	p.saves++
	return sentinel.ErrConflict
}

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	owner      id.AccountID
	accounts   stubAccounts
	auditStore *auditmemory.InMemoryStore
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.owner = id.NewAccountID()
	s.accounts = stubAccounts{
		s.owner: {ID: s.owner, Name: "Jane Doe", AvatarURL: "https://gravatar.example/jane"},
	}
	profiles, err := store.NewInMemory()
	s.Require().NoError(err)
	s.auditStore = auditmemory.NewInMemoryStore()

	s.service, err = New(profiles, s.accounts, stubRepos{repos: []github.Repo{{Name: "dotfiles"}}},
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
	)
	s.Require().NoError(err)
}

func (s *ServiceSuite) createProfile() *models.Profile {
	p, err := s.service.Upsert(s.ctx, s.owner, models.ProfileInput{Status: "Developer", Skills: "go, sql"})
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) addExperience(title string) id.EntryID {
	p, err := s.service.AddExperience(s.ctx, s.owner, models.Experience{Title: title, Company: "Acme", From: time.Now()})
	s.Require().NoError(err)
	return p.Experience[0].ID
}

func mustJSON(s *ServiceSuite, v any) string {
	b, err := json.Marshal(v)
	s.Require().NoError(err)
	return string(b)
}

func (s *ServiceSuite) TestUpsert() {
	s.Run("creates a profile for the account", func() {
		p := s.createProfile()

		s.Equal(s.owner, p.AccountID)
		s.Equal("Developer", p.Status)
		s.Equal([]string{"go", "sql"}, p.Skills)
		s.Empty(p.Experience)
	})

	s.Run("second call updates the same profile sparsely", func() {
		first, err := s.service.Me(s.ctx, s.owner)
		s.Require().NoError(err)

		updated, err := s.service.Upsert(s.ctx, s.owner, models.ProfileInput{Company: "Acme", Twitter: "tw"})
		s.Require().NoError(err)

		s.Equal(first.Profile.ID, updated.ID)
		s.Equal("Developer", updated.Status)
		s.Equal("Acme", updated.Company)
		s.Equal("tw", updated.Social.Twitter)
		s.Equal([]string{"go", "sql"}, updated.Skills)
	})
}

func (s *ServiceSuite) TestUpsertCreateRace() {
	s.Run("losing the create race updates the winner's profile", func() {
		inner, err := store.NewInMemory()
		s.Require().NoError(err)
		rival := &models.Profile{
			ID: id.NewProfileID(), AccountID: s.owner, Status: "Student",
			Skills: []string{"c"}, Experience: []models.Experience{}, Education: []models.Education{},
		}
		svc, err := New(&racingProfiles{Store: inner, rival: rival}, s.accounts, stubRepos{})
		s.Require().NoError(err)

		p, err := svc.Upsert(s.ctx, s.owner, models.ProfileInput{Company: "Acme"})
		s.Require().NoError(err)

		s.Equal(rival.ID, p.ID)
		s.Equal("Student", p.Status)
		s.Equal("Acme", p.Company)
		all, err := inner.List(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 1)
	})

	s.Run("a conflict is retried only once", func() {
		inner, err := store.NewInMemory()
		s.Require().NoError(err)
		phantom := &phantomProfiles{Store: inner}
		svc, err := New(phantom, s.accounts, stubRepos{})
		s.Require().NoError(err)

		_, err = svc.Upsert(s.ctx, s.owner, models.ProfileInput{Status: "Developer", Skills: "go"})

		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Equal(1, phantom.saves)
	})
}

func (s *ServiceSuite) TestReads() {
	_, err := s.service.Me(s.ctx, s.owner)
	s.ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "there is no profile for this user"))

	_, err = s.service.ByAccount(s.ctx, s.owner)
	s.ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "profile not found"))

	s.createProfile()
	orphan := id.NewAccountID()
	_, err = s.service.Upsert(s.ctx, orphan, models.ProfileInput{Status: "Student", Skills: "c"})
	s.Require().NoError(err)

	s.Run("me includes the owner", func() {
		v, err := s.service.Me(s.ctx, s.owner)
		s.Require().NoError(err)
		s.Equal("Jane Doe", v.Owner.Name)
		s.Equal("https://gravatar.example/jane", v.Owner.AvatarURL)
	})

	s.Run("list includes every profile and tolerates missing owners", func() {
		views, err := s.service.List(s.ctx)
		s.Require().NoError(err)
		s.Len(views, 2)
		for _, v := range views {
			if v.Profile.AccountID == orphan {
				s.Empty(v.Owner.Name)
			} else {
				s.Equal("Jane Doe", v.Owner.Name)
			}
		}
	})
}

func (s *ServiceSuite) TestExperience() {
	_, err := s.service.AddExperience(s.ctx, s.owner, models.Experience{Title: "Dev"})
	s.ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "there is no profile for this user"))

	s.createProfile()
	first := s.addExperience("first")
	second := s.addExperience("second")
	third := s.addExperience("third")

	s.Run("new entries go to the front", func() {
		v, err := s.service.Me(s.ctx, s.owner)
		s.Require().NoError(err)
		s.Require().Len(v.Profile.Experience, 3)
		s.Equal(third, v.Profile.Experience[0].ID)
		s.Equal(second, v.Profile.Experience[1].ID)
		s.Equal(first, v.Profile.Experience[2].ID)
	})

	s.Run("unknown id leaves the profile unchanged", func() {
		before, err := s.service.Me(s.ctx, s.owner)
		s.Require().NoError(err)

		_, err = s.service.RemoveExperience(s.ctx, s.owner, id.NewEntryID())
		s.ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "experience not found"))

		after, err := s.service.Me(s.ctx, s.owner)
		s.Require().NoError(err)
		s.Equal(mustJSON(s, before.Profile), mustJSON(s, after.Profile))
	})

	s.Run("removes exactly the matching entry", func() {
		p, err := s.service.RemoveExperience(s.ctx, s.owner, second)
		s.Require().NoError(err)
		s.Require().Len(p.Experience, 2)
		s.Equal(third, p.Experience[0].ID)
		s.Equal(first, p.Experience[1].ID)

		p, err = s.service.RemoveExperience(s.ctx, s.owner, first)
		s.Require().NoError(err)
		s.Require().Len(p.Experience, 1)
		s.Equal(third, p.Experience[0].ID)
	})
}

func (s *ServiceSuite) TestEducation() {
	s.createProfile()
	p, err := s.service.AddEducation(s.ctx, s.owner, models.Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: time.Now()})
	s.Require().NoError(err)
	s.Require().Len(p.Education, 1)
	entry := p.Education[0].ID
	s.False(entry.IsNil())

	_, err = s.service.RemoveEducation(s.ctx, s.owner, id.NewEntryID())
	s.ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "education not found"))

	p, err = s.service.RemoveEducation(s.ctx, s.owner, entry)
	s.Require().NoError(err)
	s.Empty(p.Education)
}

func (s *ServiceSuite) TestConcurrentEntryAdds() {
	s.createProfile()

	const writers = 20
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.AddExperience(s.ctx, s.owner, models.Experience{Title: "job", Company: string(rune('a' + i))})
			s.NoError(err)
		}()
	}
	wg.Wait()

	v, err := s.service.Me(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Len(v.Profile.Experience, writers)
}

func (s *ServiceSuite) TestRemoveByAccount() {
	s.NoError(s.service.RemoveByAccount(s.ctx, s.owner), "missing profile is not an error")

	s.createProfile()
	s.Require().NoError(s.service.RemoveByAccount(s.ctx, s.owner))

	_, err := s.service.Me(s.ctx, s.owner)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	events, err := s.auditStore.ListByAccount(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal(string(audit.EventProfileDeleted), events[len(events)-1].Action)
}

func (s *ServiceSuite) TestGitHubRepos() {
	repos, err := s.service.GitHubRepos(s.ctx, "jane")
	s.Require().NoError(err)
	s.Equal("dotfiles", repos[0].Name)
}
