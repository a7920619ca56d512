package usecase

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"support-directory/internal/data/entity"
	"support-directory/internal/data/repository"
	"support-directory/internal/identity"
	"support-directory/pkg/apperr"
	"support-directory/pkg/utils"

	"github.com/google/uuid"
)

type fakeResolver struct {
	actor *entity.Actor
	err   error
}

func (f *fakeResolver) CurrentActor(context.Context) (*entity.Actor, error) {
	return f.actor, f.err
}

func actorWith(role entity.Role) *entity.Actor {
	return &entity.Actor{ID: uuid.New(), Role: role}
}

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fixedClock {
	return &fixedClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func applyOptional[T any](dst **T, o entity.Optional[T]) {
	if o.Set {
		*dst = o.Ptr()
	}
}

func matches(term string, fields ...*string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if f != nil && strings.Contains(strings.ToLower(*f), term) {
			return true
		}
	}
	return false
}

func pageOf[E any](items []E, w utils.Window) []E {
	if w.RangeStart >= len(items) {
		return []E{}
	}
	return items[w.RangeStart:min(w.RangeEnd+1, len(items))]
}

// memServiceRepo is an in-memory ServiceRepository ordered like services_view.
type memServiceRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]entity.Service
	clock *fixedClock
}

func newMemServiceRepo(clock *fixedClock) *memServiceRepo {
	return &memServiceRepo{rows: map[uuid.UUID]entity.Service{}, clock: clock}
}

func (m *memServiceRepo) seed(s entity.Service) entity.Service {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.rows[s.ID] = s
	return s
}

func applyServiceChanges(s *entity.Service, c entity.ServiceChanges) {
	if c.Name != nil {
		s.Name = *c.Name
	}
	if c.Slug != nil {
		s.Slug = *c.Slug
	}
	applyOptional(&s.Summary, c.Summary)
	if c.Description != nil {
		s.Description = *c.Description
	}
	if c.Status != nil {
		s.Status = *c.Status
	}
	applyOptional(&s.ApprovalNotes, c.ApprovalNotes)
	applyOptional(&s.ProviderID, c.ProviderID)
	applyOptional(&s.CategoryID, c.CategoryID)
	applyOptional(&s.CreatedBy, c.CreatedBy)
	applyOptional(&s.UpdatedBy, c.UpdatedBy)
	applyOptional(&s.ApprovedBy, c.ApprovedBy)
	applyOptional(&s.ApprovedAt, c.ApprovedAt)
}

func (m *memServiceRepo) FindAll(_ context.Context, params repository.ListParams) ([]*entity.Service, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entity.Service
	for _, s := range m.rows {
		if params.Status != "" && string(s.Status) != params.Status {
			continue
		}
		if params.CategoryID != nil && (s.CategoryID == nil || *s.CategoryID != *params.CategoryID) {
			continue
		}
		if !matches(params.Search, &s.Name, s.Summary, &s.Description) {
			continue
		}
		row := s
		out = append(out, &row)
	}
	slices.SortFunc(out, func(a, b *entity.Service) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return pageOf(out, params.Window), int64(len(out)), nil
}

func (m *memServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("service")
	}
	return &s, nil
}

func (m *memServiceRepo) Create(ctx context.Context, c entity.ServiceChanges) (*entity.Service, error) {
	now := m.clock.Now()
	s := entity.Service{Status: entity.ServicePending}
	s.CreatedAt, s.UpdatedAt = now, now
	applyServiceChanges(&s, c)
	s = m.seed(s)
	return m.FindByID(ctx, s.ID)
}

func (m *memServiceRepo) Update(ctx context.Context, id uuid.UUID, c entity.ServiceChanges) (*entity.Service, error) {
	m.mu.Lock()
	s, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return nil, apperr.NotFound("service")
	}
	applyServiceChanges(&s, c)
	s.UpdatedAt = m.clock.Now()
	m.rows[id] = s
	m.mu.Unlock()
	return m.FindByID(ctx, id)
}

func (m *memServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memProviderRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]entity.ProviderProfile
	clock *fixedClock
}

func newMemProviderRepo(clock *fixedClock) *memProviderRepo {
	return &memProviderRepo{rows: map[uuid.UUID]entity.ProviderProfile{}, clock: clock}
}

func applyProviderChanges(p *entity.ProviderProfile, c entity.ProviderChanges) {
	applyOptional(&p.UserID, c.UserID)
	if c.DisplayName != nil {
		p.DisplayName = *c.DisplayName
	}
	applyOptional(&p.ContactEmail, c.ContactEmail)
	applyOptional(&p.PhoneNumber, c.PhoneNumber)
	applyOptional(&p.Website, c.Website)
	applyOptional(&p.Description, c.Description)
	applyOptional(&p.Address, c.Address)
	if c.Status != nil {
		p.Status = *c.Status
	}
	applyOptional(&p.ReviewedBy, c.ReviewedBy)
	applyOptional(&p.ReviewedAt, c.ReviewedAt)
}

func (m *memProviderRepo) FindAll(_ context.Context, params repository.ListParams) ([]*entity.ProviderProfile, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entity.ProviderProfile
	for _, p := range m.rows {
		if params.Status != "" && string(p.Status) != params.Status {
			continue
		}
		if !matches(params.Search, &p.DisplayName, p.ContactEmail, p.Description) {
			continue
		}
		row := p
		out = append(out, &row)
	}
	slices.SortFunc(out, func(a, b *entity.ProviderProfile) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return pageOf(out, params.Window), int64(len(out)), nil
}

func (m *memProviderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ProviderProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("provider")
	}
	return &p, nil
}

func (m *memProviderRepo) Create(ctx context.Context, c entity.ProviderChanges) (*entity.ProviderProfile, error) {
	now := m.clock.Now()
	p := entity.ProviderProfile{Status: entity.ProviderPending}
	p.ID, p.CreatedAt, p.UpdatedAt = uuid.New(), now, now
	applyProviderChanges(&p, c)
	m.mu.Lock()
	m.rows[p.ID] = p
	m.mu.Unlock()
	return m.FindByID(ctx, p.ID)
}

func (m *memProviderRepo) Update(ctx context.Context, id uuid.UUID, c entity.ProviderChanges) (*entity.ProviderProfile, error) {
	m.mu.Lock()
	p, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return nil, apperr.NotFound("provider")
	}
	applyProviderChanges(&p, c)
	p.UpdatedAt = m.clock.Now()
	m.rows[id] = p
	m.mu.Unlock()
	return m.FindByID(ctx, id)
}

func (m *memProviderRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memCategoryRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.ServiceCategory
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{rows: map[uuid.UUID]entity.ServiceCategory{}}
}

func (m *memCategoryRepo) FindAll(_ context.Context, params repository.ListParams) ([]*entity.ServiceCategory, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entity.ServiceCategory
	for _, c := range m.rows {
		if !matches(params.Search, &c.Name, &c.Slug, c.Description) {
			continue
		}
		row := c
		out = append(out, &row)
	}
	slices.SortFunc(out, func(a, b *entity.ServiceCategory) int {
		return strings.Compare(a.Name, b.Name)
	})
	return pageOf(out, params.Window), int64(len(out)), nil
}

func (m *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ServiceCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("category")
	}
	return &c, nil
}

func (m *memCategoryRepo) write(c *entity.ServiceCategory, changes entity.CategoryChanges) error {
	if changes.Name != nil {
		c.Name = *changes.Name
	}
	if changes.Slug != nil {
		for id, other := range m.rows {
			if id != c.ID && other.Slug == *changes.Slug {
				return apperr.Invalid("category already exists")
			}
		}
		c.Slug = *changes.Slug
	}
	applyOptional(&c.Description, changes.Description)
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategoryRepo) Create(ctx context.Context, changes entity.CategoryChanges) (*entity.ServiceCategory, error) {
	m.mu.Lock()
	c := entity.ServiceCategory{}
	c.ID = uuid.New()
	err := m.write(&c, changes)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.FindByID(ctx, c.ID)
}

func (m *memCategoryRepo) Update(ctx context.Context, id uuid.UUID, changes entity.CategoryChanges) (*entity.ServiceCategory, error) {
	m.mu.Lock()
	c, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return nil, apperr.NotFound("category")
	}
	err := m.write(&c, changes)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.FindByID(ctx, id)
}

func (m *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// memAdminUserRepo stands in for admin_profiles joined with identity users.
type memAdminUserRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]entity.AdminUser
	upsertErr error
}

func newMemAdminUserRepo() *memAdminUserRepo {
	return &memAdminUserRepo{rows: map[uuid.UUID]entity.AdminUser{}}
}

func applyProfileChanges(u *entity.AdminUser, c entity.ProfileChanges) {
	if c.Username != nil {
		u.Username = *c.Username
	}
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.FirstName != nil {
		u.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		u.LastName = *c.LastName
	}
	if c.Role != nil {
		u.Profile.Role = *c.Role
	}
	if c.IsActive != nil {
		u.IsActive = *c.IsActive
	}
	applyOptional(&u.Profile.PhoneNumber, c.PhoneNumber)
	applyOptional(&u.Profile.JobTitle, c.JobTitle)
	applyOptional(&u.Profile.Organisation, c.Organisation)
	applyOptional(&u.Profile.Notes, c.Notes)
}

func (m *memAdminUserRepo) put(u entity.AdminUser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[u.ID] = u
}

func (m *memAdminUserRepo) FindAll(_ context.Context, params repository.ListParams) ([]*entity.AdminUser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entity.AdminUser
	for _, u := range m.rows {
		if len(params.Roles) > 0 && !slices.Contains(params.Roles, u.Profile.Role) {
			continue
		}
		if !matches(params.Search, &u.Username, &u.Email, &u.FirstName, &u.LastName) {
			continue
		}
		row := u
		out = append(out, &row)
	}
	slices.SortFunc(out, func(a, b *entity.AdminUser) int {
		return strings.Compare(a.Username, b.Username)
	})
	return pageOf(out, params.Window), int64(len(out)), nil
}

func (m *memAdminUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return &u, nil
}

func (m *memAdminUserRepo) UpsertProfile(ctx context.Context, userID uuid.UUID, c entity.ProfileChanges) (*entity.AdminUser, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	m.mu.Lock()
	u, ok := m.rows[userID]
	if !ok {
		u = entity.AdminUser{ID: userID, DateJoined: time.Now(), Profile: entity.Profile{Role: entity.RoleUser}}
	}
	applyProfileChanges(&u, c)
	m.rows[userID] = u
	m.mu.Unlock()
	return m.FindByID(ctx, userID)
}

func (m *memAdminUserRepo) Update(ctx context.Context, id uuid.UUID, c entity.ProfileChanges) (*entity.AdminUser, error) {
	m.mu.Lock()
	u, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return nil, apperr.NotFound("user")
	}
	applyProfileChanges(&u, c)
	m.rows[id] = u
	m.mu.Unlock()
	return m.FindByID(ctx, id)
}

func (m *memAdminUserRepo) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.rows[id]; ok {
		now := time.Now()
		u.LastLogin = &now
		m.rows[id] = u
	}
	return nil
}

type fakeAccount struct {
	id       uuid.UUID
	email    string
	password string
	metadata map[string]string
}

// fakeIdentity is an in-memory identity.Provider. Tokens are the session ids.
type fakeIdentity struct {
	mu        sync.Mutex
	accounts  map[uuid.UUID]*fakeAccount
	sessions  map[string]identity.Session
	deleteErr error
	deleted   []uuid.UUID
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts: map[uuid.UUID]*fakeAccount{},
		sessions: map[string]identity.Session{},
	}
}

func (f *fakeIdentity) user(a *fakeAccount) *identity.User {
	return &identity.User{ID: a.id, Email: a.email, Metadata: a.metadata}
}

func (f *fakeIdentity) CreateUser(_ context.Context, p identity.CreateUserParams) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.email == p.Email {
			return nil, identity.ErrEmailTaken
		}
	}
	a := &fakeAccount{id: uuid.New(), email: p.Email, password: p.Password, metadata: p.Metadata}
	f.accounts[a.id] = a
	return f.user(a), nil
}

func (f *fakeIdentity) UpdateUserByID(_ context.Context, id uuid.UUID, attrs identity.UserAttributes) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	if attrs.Email != nil {
		a.email = *attrs.Email
	}
	if attrs.Password != nil {
		a.password = *attrs.Password
	}
	for k, v := range attrs.Metadata {
		a.metadata[k] = v
	}
	return f.user(a), nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.accounts[id]; !ok {
		return identity.ErrUserNotFound
	}
	delete(f.accounts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.email == email && a.password == password {
			s := identity.Session{ID: uuid.NewString(), UserID: a.id, ExpiresAt: time.Now().Add(time.Hour)}
			s.Token = s.ID
			f.sessions[s.Token] = s
			return &s, nil
		}
	}
	return nil, identity.ErrInvalidCredentials
}

func (f *fakeIdentity) SignOut(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *fakeIdentity) GetSession(_ context.Context, token string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return nil, identity.ErrSessionNotFound
	}
	return &s, nil
}

func (f *fakeIdentity) RefreshSession(ctx context.Context, token string) (*identity.Session, error) {
	current, err := f.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	next := identity.Session{ID: uuid.NewString(), UserID: current.UserID, ExpiresAt: time.Now().Add(time.Hour)}
	next.Token = next.ID
	f.sessions[next.Token] = next
	return &next, nil
}

func (f *fakeIdentity) LookupEmailByUsername(_ context.Context, username string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if strings.EqualFold(a.metadata[identity.MetaUsername], username) {
			return a.email, nil
		}
	}
	return "", identity.ErrUserNotFound
}

func (f *fakeIdentity) GetUserByEmail(_ context.Context, email string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if strings.EqualFold(a.email, email) {
			return f.user(a), nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (f *fakeIdentity) sessionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}
