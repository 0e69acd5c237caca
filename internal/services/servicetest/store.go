// Package servicetest provides in-memory implementations of the service store
// interfaces for tests.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sponsorlink/backend/internal/events"
	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/repositories"
)

// DB is the shared in-memory state behind every store of this package.
type DB struct {
	mu sync.Mutex

	nextID      int64
	users       map[int64]*models.User
	userRoles   map[int64][]string
	brands      map[int64]*models.Brand
	influencers map[int64]*models.Influencer
	campaigns   map[int64]*models.Campaign
	adRequests  map[int64]*models.AdRequest
	audit       []models.AuditLog

	// knownRoles mirrors the seeded roles table.
	knownRoles map[string]bool
}

func NewDB() *DB {
	return &DB{
		users:       map[int64]*models.User{},
		userRoles:   map[int64][]string{},
		brands:      map[int64]*models.Brand{},
		influencers: map[int64]*models.Influencer{},
		campaigns:   map[int64]*models.Campaign{},
		adRequests:  map[int64]*models.AdRequest{},
		knownRoles: map[string]bool{
			models.RoleBrand:      true,
			models.RoleInfluencer: true,
			models.RoleAdmin:      true,
		},
	}
}

func (db *DB) id() int64 {
	db.nextID++
	return db.nextID
}

// DropRole removes a role from the seeded set, like a missing roles row.
func (db *DB) DropRole(name string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.knownRoles, name)
}

// AddUser inserts a user without any role or profile.
func (db *DB) AddUser(username, email, passwordHash string) *models.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &models.User{ID: db.id(), Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	db.users[u.ID] = u
	cp := *u
	return &cp
}

func (db *DB) AssignRole(userID int64, role string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.userRoles[userID] = append(db.userRoles[userID], role)
}

// AddBrand creates a brand profile for userID.
func (db *DB) AddBrand(userID int64, name string) *models.Brand {
	db.mu.Lock()
	defer db.mu.Unlock()
	b := &models.Brand{ID: db.id(), UserID: userID, Name: name, CreatedAt: time.Now()}
	db.brands[b.ID] = b
	cp := *b
	return &cp
}

// AddInfluencer creates an influencer profile for userID.
func (db *DB) AddInfluencer(userID int64, name, niche string, handle *string) *models.Influencer {
	db.mu.Lock()
	defer db.mu.Unlock()
	i := &models.Influencer{ID: db.id(), UserID: userID, Name: name, Niche: niche, ChannelHandle: handle, CreatedAt: time.Now()}
	db.influencers[i.ID] = i
	cp := *i
	return &cp
}

// AdRequest returns a copy of a stored ad request.
func (db *DB) AdRequest(id int64) (models.AdRequest, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	a, ok := db.adRequests[id]
	if !ok {
		return models.AdRequest{}, false
	}
	return *a, true
}

func (db *DB) Influencer(id int64) (models.Influencer, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	i, ok := db.influencers[id]
	if !ok {
		return models.Influencer{}, false
	}
	return *i, true
}

// UserCount is the number of user rows.
func (db *DB) UserCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users)
}

// AuditActions lists the recorded audit actions in insertion order.
func (db *DB) AuditActions() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]string, 0, len(db.audit))
	for _, e := range db.audit {
		out = append(out, e.Action)
	}
	return out
}

// Users implements services.UserStore.
type Users struct{ db *DB }

func (db *DB) Users() *Users { return &Users{db: db} }

func (s *Users) Register(_ context.Context, p repositories.RegisterParams) (*models.User, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == p.Username {
			return nil, repositories.ErrUsernameExists
		}
		if u.Email == p.Email {
			return nil, repositories.ErrEmailExists
		}
	}
	if !db.knownRoles[p.RoleName] {
		return nil, repositories.ErrRoleNotFound
	}

	u := &models.User{ID: db.id(), Username: p.Username, Email: p.Email, PasswordHash: p.PasswordHash, CreatedAt: time.Now()}
	db.users[u.ID] = u
	if p.Brand != nil {
		b := *p.Brand
		b.ID, b.UserID, b.CreatedAt = db.id(), u.ID, time.Now()
		db.brands[b.ID] = &b
		p.Brand.ID, p.Brand.UserID = b.ID, u.ID
	}
	if p.Influencer != nil {
		i := *p.Influencer
		i.ID, i.UserID, i.CreatedAt = db.id(), u.ID, time.Now()
		db.influencers[i.ID] = &i
		p.Influencer.ID, p.Influencer.UserID = i.ID, u.ID
	}
	db.userRoles[u.ID] = append(db.userRoles[u.ID], p.RoleName)

	cp := *u
	return &cp, nil
}

func (s *Users) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Users) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.GetByUsername(ctx, username)
	return err == nil, nil
}

func (s *Users) EmailExists(_ context.Context, email string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Users) Count(context.Context) (int, error) {
	return s.db.UserCount(), nil
}

// Roles implements services.RoleStore.
type Roles struct{ db *DB }

func (db *DB) Roles() *Roles { return &Roles{db: db} }

func (s *Roles) ListForUser(_ context.Context, userID int64) ([]string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return append([]string(nil), s.db.userRoles[userID]...), nil
}

// Brands implements services.BrandStore.
type Brands struct{ db *DB }

func (db *DB) Brands() *Brands { return &Brands{db: db} }

func (s *Brands) GetByID(_ context.Context, id int64) (*models.Brand, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	b, ok := s.db.brands[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *Brands) GetByUserID(_ context.Context, userID int64) (*models.Brand, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, b := range s.db.brands {
		if b.UserID == userID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Brands) SetFlagged(_ context.Context, id int64, flagged bool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	b, ok := s.db.brands[id]
	if !ok {
		return repositories.ErrNotFound
	}
	b.IsFlagged = flagged
	return nil
}

func (s *Brands) CountFlagged(context.Context) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	n := 0
	for _, b := range s.db.brands {
		if b.IsFlagged {
			n++
		}
	}
	return n, nil
}

// Influencers implements services.InfluencerStore.
type Influencers struct{ db *DB }

func (db *DB) Influencers() *Influencers { return &Influencers{db: db} }

func (s *Influencers) GetByID(_ context.Context, id int64) (*models.Influencer, error) {
	i, ok := s.db.Influencer(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &i, nil
}

func (s *Influencers) GetByUserID(_ context.Context, userID int64) (*models.Influencer, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, i := range s.db.influencers {
		if i.UserID == userID {
			cp := *i
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Influencers) ListWithChannel(context.Context) ([]models.Influencer, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Influencer
	for _, i := range s.db.influencers {
		if i.ChannelHandle != nil && *i.ChannelHandle != "" && !i.IsFlagged {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (s *Influencers) UpdateReach(_ context.Context, id int64, reach, avgViews *int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i, ok := s.db.influencers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	i.Reach, i.AvgViews, i.ReachUpdatedAt = reach, avgViews, &now
	return nil
}

func (s *Influencers) SetFlagged(_ context.Context, id int64, flagged bool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i, ok := s.db.influencers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	i.IsFlagged = flagged
	return nil
}

func (s *Influencers) CountFlagged(context.Context) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	n := 0
	for _, i := range s.db.influencers {
		if i.IsFlagged {
			n++
		}
	}
	return n, nil
}

// Campaigns implements services.CampaignStore.
type Campaigns struct{ db *DB }

func (db *DB) Campaigns() *Campaigns { return &Campaigns{db: db} }

func (s *Campaigns) Create(_ context.Context, c *models.Campaign) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	now := time.Now()
	c.ID, c.CreatedAt, c.UpdatedAt = s.db.id(), now, now
	cp := *c
	s.db.campaigns[c.ID] = &cp
	return nil
}

func (s *Campaigns) GetByID(_ context.Context, id int64) (*models.Campaign, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.campaigns[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Campaigns) Update(_ context.Context, c *models.Campaign) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.campaigns[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	cp := *c
	s.db.campaigns[c.ID] = &cp
	return nil
}

func (s *Campaigns) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.campaigns[id]; !ok {
		return repositories.ErrNotFound
	}
	for arID, a := range s.db.adRequests {
		if a.CampaignID == id {
			delete(s.db.adRequests, arID)
		}
	}
	delete(s.db.campaigns, id)
	return nil
}

func (s *Campaigns) List(_ context.Context, f repositories.CampaignFilter) ([]models.CampaignWithBrand, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.CampaignWithBrand
	for _, c := range s.db.campaigns {
		b := s.db.brands[c.BrandID]
		if f.BrandID != nil && c.BrandID != *f.BrandID {
			continue
		}
		if f.Niche != nil && c.Niche != *f.Niche {
			continue
		}
		if f.PublicOnly && (c.IsPrivate || (b != nil && b.IsFlagged)) {
			continue
		}
		row := models.CampaignWithBrand{Campaign: *c}
		if b != nil {
			row.BrandName = b.Name
		}
		out = append(out, row)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return page(out, f.Limit, f.Offset), nil
}

func (s *Campaigns) CountByVisibility(context.Context) (public, private int, err error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.campaigns {
		if c.IsPrivate {
			private++
		} else {
			public++
		}
	}
	return public, private, nil
}

// AdRequests implements services.AdRequestStore.
type AdRequests struct{ db *DB }

func (db *DB) AdRequests() *AdRequests { return &AdRequests{db: db} }

func (s *AdRequests) Create(_ context.Context, a *models.AdRequest) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if a.Status == "" {
		a.Status = models.AdRequestStatusPending
	}
	now := time.Now()
	a.ID, a.CreatedAt, a.UpdatedAt = s.db.id(), now, now
	cp := *a
	s.db.adRequests[a.ID] = &cp
	return nil
}

func (s *AdRequests) GetByIDWithCampaign(_ context.Context, id int64) (*models.AdRequestWithCampaign, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.adRequests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	row := s.db.withCampaign(a)
	return &row, nil
}

func (s *AdRequests) UpdateStatus(_ context.Context, id int64, status string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.adRequests[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Status, a.UpdatedAt = status, time.Now()
	return nil
}

func (s *AdRequests) UpdatePaymentAmount(_ context.Context, id int64, amount float64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.adRequests[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.PaymentAmount, a.UpdatedAt = amount, time.Now()
	return nil
}

func (s *AdRequests) List(_ context.Context, f repositories.AdRequestFilter) ([]models.AdRequestWithCampaign, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.AdRequestWithCampaign
	for _, a := range s.db.adRequests {
		row := s.db.withCampaign(a)
		if f.BrandID != nil && row.BrandID != *f.BrandID {
			continue
		}
		if f.InfluencerID != nil && a.InfluencerID != *f.InfluencerID {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return page(out, f.Limit, f.Offset), nil
}

func (db *DB) withCampaign(a *models.AdRequest) models.AdRequestWithCampaign {
	row := models.AdRequestWithCampaign{AdRequest: *a}
	if c, ok := db.campaigns[a.CampaignID]; ok {
		row.CampaignName = c.Name
		row.BrandID = c.BrandID
	}
	return row
}

// Audit implements services.AuditStore.
type Audit struct{ db *DB }

func (db *DB) Audit() *Audit { return &Audit{db: db} }

func (s *Audit) Log(_ context.Context, entry models.AuditLog) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	entry.ID, entry.CreatedAt = s.db.id(), time.Now()
	s.db.audit = append(s.db.audit, entry)
	return nil
}

func (s *Audit) List(_ context.Context, f repositories.AuditFilter) ([]models.AuditLog, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.AuditLog
	for i := len(s.db.audit) - 1; i >= 0; i-- {
		e := s.db.audit[i]
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.EntityID != nil && (e.EntityID == nil || *e.EntityID != *f.EntityID) {
			continue
		}
		if f.ActorUserID != nil && (e.ActorUserID == nil || *e.ActorUserID != *f.ActorUserID) {
			continue
		}
		out = append(out, e)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	return page(out, limit, f.Offset), nil
}

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	Events []events.Event
}

func (p *Publisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, e)
	return nil
}

// Published returns a copy of the recorded events.
func (p *Publisher) Published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.Events...)
}

func page[T any](rows []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
