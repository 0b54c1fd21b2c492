package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"landscaping/internal/domain"
	"landscaping/internal/domain/activity"
	"landscaping/internal/repository"
)

// Service owns clients, crews and members and the rules for deleting them.
type Service struct {
	store  *repository.Store
	events activity.Publisher
	now    func() time.Time
}

// NewService creates directory service
func NewService(store *repository.Store, events activity.Publisher) *Service {
	if events == nil {
		events = activity.Discard
	}
	return &Service{
		store:  store,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ClientDetail is a client with its jobs.
type ClientDetail struct {
	*domain.Client
	Jobs []domain.Job `json:"jobs"`
}

// CrewDetail is a crew with the jobs it is assigned to.
type CrewDetail struct {
	*domain.Crew
	Jobs []domain.Job `json:"jobs"`
}

// MemberDetail is a member with the jobs on its roster.
type MemberDetail struct {
	*domain.Member
	Jobs []domain.Job `json:"jobs"`
}

func (s *Service) publish(ctx context.Context, typ, entity string, id int64) {
	s.events.Publish(ctx, activity.NewEvent(typ, entity, id, 0, s.now(), nil))
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Invalid("name is required")
	}
	return name, nil
}

// Clients

// CreateClient validates and stores a new client.
func (s *Service) CreateClient(ctx context.Context, in ClientInput) (*domain.Client, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	c := &domain.Client{
		Name:    name,
		Address: strings.TrimSpace(in.Address),
		Phone:   strings.TrimSpace(in.Phone),
		Email:   strings.TrimSpace(in.Email),
	}
	if err := s.store.Clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.publish(ctx, activity.ClientCreated, "client", c.ID)
	return c, nil
}

// UpdateClient replaces the client's contact details.
func (s *Service) UpdateClient(ctx context.Context, id int64, in ClientInput) (*domain.Client, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	c := &domain.Client{
		ID:      id,
		Name:    name,
		Address: strings.TrimSpace(in.Address),
		Phone:   strings.TrimSpace(in.Phone),
		Email:   strings.TrimSpace(in.Email),
	}
	if err := s.store.Clients.Update(ctx, c); err != nil {
		return nil, err
	}
	updated, err := s.store.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.ClientUpdated, "client", id)
	return updated, nil
}

// GetClient returns the client with its jobs, most recently scheduled first.
func (s *Service) GetClient(ctx context.Context, id int64) (*ClientDetail, error) {
	c, err := s.store.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	jobs, err := s.store.Jobs.List(ctx, repository.JobFilter{ClientID: id, Newest: true})
	if err != nil {
		return nil, fmt.Errorf("list client jobs: %w", err)
	}
	return &ClientDetail{Client: c, Jobs: jobs}, nil
}

// ListClients returns all clients ordered by name.
func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.store.Clients.List(ctx)
}

// DeleteClient refuses while any job references the client. Its quotes go with it.
func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		if err := tx.Clients.Exists(ctx, id); err != nil {
			return err
		}
		n, err := tx.Jobs.CountByClient(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.ConflictError{Entity: "client", ID: id, Reason: domain.ReasonHasJobs}
		}
		if _, err := tx.Quotes.DeleteByClient(ctx, id); err != nil {
			return err
		}
		return tx.Clients.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, activity.ClientDeleted, "client", id)
	return nil
}

// Crews

// CreateCrew stores a new crew.
func (s *Service) CreateCrew(ctx context.Context, in NameInput) (*domain.Crew, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	c := &domain.Crew{Name: name}
	if err := s.store.Crews.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create crew: %w", err)
	}
	s.publish(ctx, activity.CrewCreated, "crew", c.ID)
	return c, nil
}

// UpdateCrew renames a crew.
func (s *Service) UpdateCrew(ctx context.Context, id int64, in NameInput) (*domain.Crew, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := s.store.Crews.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	c, err := s.store.Crews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.CrewUpdated, "crew", id)
	return c, nil
}

// GetCrew returns the crew with its jobs.
func (s *Service) GetCrew(ctx context.Context, id int64) (*CrewDetail, error) {
	c, err := s.store.Crews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	jobs, err := s.store.Jobs.List(ctx, repository.JobFilter{CrewID: id, Newest: true})
	if err != nil {
		return nil, fmt.Errorf("list crew jobs: %w", err)
	}
	return &CrewDetail{Crew: c, Jobs: jobs}, nil
}

// ListCrews returns all crews ordered by name.
func (s *Service) ListCrews(ctx context.Context) ([]domain.Crew, error) {
	return s.store.Crews.List(ctx)
}

// DeleteCrew detaches the crew from its jobs and removes it. Jobs survive.
func (s *Service) DeleteCrew(ctx context.Context, id int64) error {
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		if _, err := tx.Crews.GetByID(ctx, id); err != nil {
			return err
		}
		if _, err := tx.Jobs.ClearCrew(ctx, id); err != nil {
			return err
		}
		return tx.Crews.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, activity.CrewDeleted, "crew", id)
	return nil
}

// Members

// CreateMember stores a new crew member.
func (s *Service) CreateMember(ctx context.Context, in NameInput) (*domain.Member, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	m := &domain.Member{Name: name}
	if err := s.store.Members.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	s.publish(ctx, activity.MemberCreated, "member", m.ID)
	return m, nil
}

// UpdateMember renames a member.
func (s *Service) UpdateMember(ctx context.Context, id int64, in NameInput) (*domain.Member, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := s.store.Members.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	m, err := s.store.Members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.MemberUpdated, "member", id)
	return m, nil
}

// GetMember returns the member with the jobs it is assigned to.
func (s *Service) GetMember(ctx context.Context, id int64) (*MemberDetail, error) {
	m, err := s.store.Members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	jobs, err := s.store.Jobs.List(ctx, repository.JobFilter{MemberID: id, Newest: true})
	if err != nil {
		return nil, fmt.Errorf("list member jobs: %w", err)
	}
	return &MemberDetail{Member: m, Jobs: jobs}, nil
}

// ListMembers returns all members ordered by name.
func (s *Service) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return s.store.Members.List(ctx)
}

// DeleteMember drops the member from every roster, then removes it.
func (s *Service) DeleteMember(ctx context.Context, id int64) error {
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		return tx.Members.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, activity.MemberDeleted, "member", id)
	return nil
}
