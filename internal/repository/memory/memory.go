// Package memory is an in-process implementation of the storage contracts.
// It mirrors the SQL repositories' visibility and ordering semantics and
// backs the service and handler tests; nothing here survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/policy"
	"github.com/openleadr/openleadr-go/internal/repository"
	"github.com/openleadr/openleadr-go/internal/service"
)

type credRow struct {
	clientID   string
	userID     string
	secretHash string
}

// Store holds every entity table behind one mutex.
type Store struct {
	mu sync.RWMutex

	programs  map[string]domain.Program
	bindings  map[string]map[string]struct{} // program id -> bound ven ids
	events    map[string]domain.Event
	reports   map[string]domain.Report
	vens      map[string]domain.Ven
	resources map[string]domain.Resource
	users     map[string]domain.User
	creds     map[string]credRow

	seq int
}

// NewStore builds an empty in-memory store.
func NewStore() *Store {
	return &Store{
		programs:  map[string]domain.Program{},
		bindings:  map[string]map[string]struct{}{},
		events:    map[string]domain.Event{},
		reports:   map[string]domain.Report{},
		vens:      map[string]domain.Ven{},
		resources: map[string]domain.Resource{},
		users:     map[string]domain.User{},
		creds:     map[string]credRow{},
	}
}

// Stores exposes the store through the service contracts.
func (s *Store) Stores() service.Stores {
	return service.Stores{
		Programs:    &programTable{s},
		Events:      &eventTable{s},
		Reports:     &reportTable{s},
		Vens:        &venTable{s},
		Resources:   &resourceTable{s},
		Users:       &userTable{s},
		Credentials: &credentialTable{s},
	}
}

// nextID returns a monotonically increasing id so that id ordering breaks
// creation-time ties the same way the SQL layer's UUIDv7 ids do.
func (s *Store) nextID() string {
	s.seq++
	return fmt.Sprintf("obj-%08d", s.seq)
}

func paginate[T any](items []T, page domain.Pagination) []T {
	if page.Skip >= int64(len(items)) {
		return []T{}
	}
	items = items[page.Skip:]
	if int64(len(items)) > page.Limit {
		items = items[:page.Limit]
	}
	return items
}

func (s *Store) programVisible(p domain.Program, vis policy.Visibility) bool {
	if vis.All {
		return true
	}
	if p.BusinessID == nil {
		if vis.IncludeNullBusiness {
			return true
		}
	} else {
		for _, id := range vis.BusinessIDs {
			if id == *p.BusinessID {
				return true
			}
		}
	}
	bound := s.bindings[p.ID]
	for _, venID := range vis.BoundVenIDs {
		if _, ok := bound[venID]; ok {
			return true
		}
	}
	return false
}

func (s *Store) reportVisible(r domain.Report, vis policy.Visibility) bool {
	if vis.All {
		return true
	}
	if p, ok := s.programs[r.ProgramID]; ok && p.BusinessID != nil {
		for _, id := range vis.BusinessIDs {
			if id == *p.BusinessID {
				return true
			}
		}
	}
	for _, venID := range vis.VenIDs {
		if v, ok := s.vens[venID]; ok && v.VenName == r.ClientName {
			return true
		}
	}
	return false
}

func venVisible(v domain.Ven, vis policy.Visibility) bool {
	if vis.All {
		return true
	}
	for _, id := range vis.VenIDs {
		if id == v.ID {
			return true
		}
	}
	return false
}

// --- programs ---

type programTable struct{ s *Store }

func (t *programTable) List(_ context.Context, vis policy.Visibility, filter *domain.TargetFilter, page domain.Pagination) ([]domain.Program, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := []domain.Program{}
	for _, p := range t.s.programs {
		if t.s.programVisible(p, vis) && filter.Matches(p.Targets) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedDateTime.Equal(out[j].CreatedDateTime) {
			return out[i].CreatedDateTime.After(out[j].CreatedDateTime)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, page), nil
}

func (t *programTable) Get(_ context.Context, vis policy.Visibility, id string) (*domain.Program, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	p, ok := t.s.programs[id]
	if !ok || !t.s.programVisible(p, vis) {
		return nil, errors.NotFound()
	}
	return &p, nil
}

func (t *programTable) Create(_ context.Context, content domain.ProgramContent, boundVenIDs []string) (*domain.Program, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	now := time.Now().UTC()
	p := domain.Program{
		ID:                   t.s.nextID(),
		CreatedDateTime:      now,
		ModificationDateTime: now,
		ProgramContent:       content,
	}
	t.s.programs[p.ID] = p
	t.s.setBindings(p.ID, boundVenIDs)
	return &p, nil
}

func (t *programTable) Update(_ context.Context, id string, content domain.ProgramContent, boundVenIDs []string) (*domain.Program, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	p, ok := t.s.programs[id]
	if !ok {
		return nil, errors.NotFound()
	}
	p.ProgramContent = content
	p.ModificationDateTime = time.Now().UTC()
	t.s.programs[id] = p
	t.s.setBindings(id, boundVenIDs)
	return &p, nil
}

func (t *programTable) Delete(_ context.Context, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.programs[id]; !ok {
		return errors.NotFound()
	}
	delete(t.s.programs, id)
	delete(t.s.bindings, id)
	for eid, e := range t.s.events {
		if e.ProgramID == id {
			delete(t.s.events, eid)
		}
	}
	for rid, r := range t.s.reports {
		if r.ProgramID == id {
			delete(t.s.reports, rid)
		}
	}
	return nil
}

func (s *Store) setBindings(programID string, venIDs []string) {
	set := map[string]struct{}{}
	for _, id := range venIDs {
		set[id] = struct{}{}
	}
	s.bindings[programID] = set
}

// --- events ---

type eventTable struct{ s *Store }

func (t *eventTable) List(_ context.Context, vis policy.Visibility, filter repository.EventFilter, page domain.Pagination) ([]domain.Event, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := []domain.Event{}
	for _, e := range t.s.events {
		p, ok := t.s.programs[e.ProgramID]
		if !ok || !t.s.programVisible(p, vis) {
			continue
		}
		if filter.ProgramID != "" && e.ProgramID != filter.ProgramID {
			continue
		}
		if !filter.Target.Matches(e.Targets) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Priority, out[j].Priority
		switch {
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		case pi != nil && pj != nil && *pi != *pj:
			return *pi < *pj
		}
		if !out[i].CreatedDateTime.Equal(out[j].CreatedDateTime) {
			return out[i].CreatedDateTime.After(out[j].CreatedDateTime)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, page), nil
}

func (t *eventTable) Get(_ context.Context, vis policy.Visibility, id string) (*domain.Event, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	e, ok := t.s.events[id]
	if !ok {
		return nil, errors.NotFound()
	}
	p, ok := t.s.programs[e.ProgramID]
	if !ok || !t.s.programVisible(p, vis) {
		return nil, errors.NotFound()
	}
	return &e, nil
}

func (t *eventTable) Create(_ context.Context, content domain.EventContent) (*domain.Event, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.programs[content.ProgramID]; !ok {
		return nil, errors.Unprocessable("referenced object does not exist")
	}
	now := time.Now().UTC()
	e := domain.Event{
		ID:                   t.s.nextID(),
		CreatedDateTime:      now,
		ModificationDateTime: now,
		EventContent:         content,
	}
	t.s.events[e.ID] = e
	return &e, nil
}

func (t *eventTable) Update(_ context.Context, id string, content domain.EventContent) (*domain.Event, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	e, ok := t.s.events[id]
	if !ok {
		return nil, errors.NotFound()
	}
	e.EventContent = content
	e.ModificationDateTime = time.Now().UTC()
	t.s.events[id] = e
	return &e, nil
}

func (t *eventTable) Delete(_ context.Context, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.events[id]; !ok {
		return errors.NotFound()
	}
	delete(t.s.events, id)
	for rid, r := range t.s.reports {
		if r.EventID != nil && *r.EventID == id {
			delete(t.s.reports, rid)
		}
	}
	return nil
}

// --- reports ---

type reportTable struct{ s *Store }

func (t *reportTable) List(_ context.Context, vis policy.Visibility, filter repository.ReportFilter, page domain.Pagination) ([]domain.Report, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := []domain.Report{}
	for _, r := range t.s.reports {
		if !t.s.reportVisible(r, vis) {
			continue
		}
		if filter.ProgramID != "" && r.ProgramID != filter.ProgramID {
			continue
		}
		if filter.EventID != "" && (r.EventID == nil || *r.EventID != filter.EventID) {
			continue
		}
		if filter.ClientName != "" && r.ClientName != filter.ClientName {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedDateTime.Equal(out[j].CreatedDateTime) {
			return out[i].CreatedDateTime.After(out[j].CreatedDateTime)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, page), nil
}

func (t *reportTable) Get(_ context.Context, vis policy.Visibility, id string) (*domain.Report, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	r, ok := t.s.reports[id]
	if !ok || !t.s.reportVisible(r, vis) {
		return nil, errors.NotFound()
	}
	return &r, nil
}

func (t *reportTable) Create(_ context.Context, content domain.ReportContent) (*domain.Report, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.programs[content.ProgramID]; !ok {
		return nil, errors.Unprocessable("referenced object does not exist")
	}
	now := time.Now().UTC()
	r := domain.Report{
		ID:                   t.s.nextID(),
		CreatedDateTime:      now,
		ModificationDateTime: now,
		ReportContent:        content,
	}
	t.s.reports[r.ID] = r
	return &r, nil
}

func (t *reportTable) Update(_ context.Context, id string, content domain.ReportContent) (*domain.Report, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	r, ok := t.s.reports[id]
	if !ok {
		return nil, errors.NotFound()
	}
	r.ReportContent = content
	r.ModificationDateTime = time.Now().UTC()
	t.s.reports[id] = r
	return &r, nil
}

func (t *reportTable) Delete(_ context.Context, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.reports[id]; !ok {
		return errors.NotFound()
	}
	delete(t.s.reports, id)
	return nil
}

// --- vens ---

type venTable struct{ s *Store }

func (t *venTable) List(_ context.Context, vis policy.Visibility, filter repository.VenFilter, page domain.Pagination) ([]domain.Ven, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := []domain.Ven{}
	for _, v := range t.s.vens {
		if !venVisible(v, vis) {
			continue
		}
		if filter.VenName != "" && v.VenName != filter.VenName {
			continue
		}
		if !filter.Target.Matches(v.Targets) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedDateTime.Equal(out[j].CreatedDateTime) {
			return out[i].CreatedDateTime.After(out[j].CreatedDateTime)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, page), nil
}

func (t *venTable) Get(_ context.Context, vis policy.Visibility, id string) (*domain.Ven, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	v, ok := t.s.vens[id]
	if !ok || !venVisible(v, vis) {
		return nil, errors.NotFound()
	}
	return &v, nil
}

func (t *venTable) Create(_ context.Context, content domain.VenContent) (*domain.Ven, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for _, existing := range t.s.vens {
		if existing.VenName == content.VenName {
			return nil, errors.Conflict("object already exists")
		}
	}
	now := time.Now().UTC()
	v := domain.Ven{
		ID:                   t.s.nextID(),
		CreatedDateTime:      now,
		ModificationDateTime: now,
		VenContent:           content,
	}
	t.s.vens[v.ID] = v
	return &v, nil
}

func (t *venTable) Update(_ context.Context, id string, content domain.VenContent) (*domain.Ven, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	v, ok := t.s.vens[id]
	if !ok {
		return nil, errors.NotFound()
	}
	for _, existing := range t.s.vens {
		if existing.ID != id && existing.VenName == content.VenName {
			return nil, errors.Conflict("object already exists")
		}
	}
	v.VenContent = content
	v.ModificationDateTime = time.Now().UTC()
	t.s.vens[id] = v
	return &v, nil
}

func (t *venTable) Delete(_ context.Context, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.vens[id]; !ok {
		return errors.NotFound()
	}
	delete(t.s.vens, id)
	for rid, r := range t.s.resources {
		if r.VenID == id {
			delete(t.s.resources, rid)
		}
	}
	for _, bound := range t.s.bindings {
		delete(bound, id)
	}
	return nil
}

func (t *venTable) NamesByIDs(_ context.Context, ids []string) ([]string, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	var names []string
	for _, id := range ids {
		if v, ok := t.s.vens[id]; ok {
			names = append(names, v.VenName)
		}
	}
	return names, nil
}

func (t *venTable) IDsByNames(_ context.Context, names []string) (ids []string, missing []string, err error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	byName := map[string]string{}
	for _, v := range t.s.vens {
		byName[v.VenName] = v.ID
	}
	for _, name := range names {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
		} else {
			missing = append(missing, name)
		}
	}
	return ids, missing, nil
}

// --- resources ---

type resourceTable struct{ s *Store }

func (t *resourceTable) List(_ context.Context, venID string, filter repository.ResourceFilter, page domain.Pagination) ([]domain.Resource, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := []domain.Resource{}
	for _, r := range t.s.resources {
		if r.VenID != venID {
			continue
		}
		if filter.ResourceName != "" && r.ResourceName != filter.ResourceName {
			continue
		}
		if !filter.Target.Matches(r.Targets) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedDateTime.Equal(out[j].CreatedDateTime) {
			return out[i].CreatedDateTime.Before(out[j].CreatedDateTime)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, page), nil
}

func (t *resourceTable) Get(_ context.Context, venID, id string) (*domain.Resource, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	r, ok := t.s.resources[id]
	if !ok || r.VenID != venID {
		return nil, errors.NotFound()
	}
	return &r, nil
}

func (t *resourceTable) Create(_ context.Context, venID string, content domain.ResourceContent) (*domain.Resource, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.vens[venID]; !ok {
		return nil, errors.Unprocessable("referenced object does not exist")
	}
	now := time.Now().UTC()
	r := domain.Resource{
		ID:                   t.s.nextID(),
		VenID:                venID,
		CreatedDateTime:      now,
		ModificationDateTime: now,
		ResourceContent:      content,
	}
	t.s.resources[r.ID] = r
	return &r, nil
}

func (t *resourceTable) Update(_ context.Context, venID, id string, content domain.ResourceContent) (*domain.Resource, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	r, ok := t.s.resources[id]
	if !ok || r.VenID != venID {
		return nil, errors.NotFound()
	}
	r.ResourceContent = content
	r.ModificationDateTime = time.Now().UTC()
	t.s.resources[id] = r
	return &r, nil
}

func (t *resourceTable) Delete(_ context.Context, venID, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	r, ok := t.s.resources[id]
	if !ok || r.VenID != venID {
		return errors.NotFound()
	}
	delete(t.s.resources, id)
	return nil
}

// --- users and credentials ---

type userTable struct{ s *Store }

func (t *userTable) clientIDs(userID string) []string {
	var ids []string
	for _, c := range t.s.creds {
		if c.userID == userID {
			ids = append(ids, c.clientID)
		}
	}
	sort.Strings(ids)
	return ids
}

func (t *userTable) List(_ context.Context, page domain.Pagination) ([]domain.User, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := []domain.User{}
	for _, u := range t.s.users {
		u.ClientIDs = t.clientIDs(u.ID)
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedDateTime.Equal(out[j].CreatedDateTime) {
			return out[i].CreatedDateTime.After(out[j].CreatedDateTime)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, page), nil
}

func (t *userTable) Get(_ context.Context, id string) (*domain.User, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	u, ok := t.s.users[id]
	if !ok {
		return nil, errors.NotFound()
	}
	u.ClientIDs = t.clientIDs(id)
	return &u, nil
}

func (t *userTable) Create(_ context.Context, content domain.UserContent) (*domain.User, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	now := time.Now().UTC()
	u := domain.User{
		ID:                   t.s.nextID(),
		CreatedDateTime:      now,
		ModificationDateTime: now,
		UserContent:          content,
	}
	t.s.users[u.ID] = u
	return &u, nil
}

func (t *userTable) Update(_ context.Context, id string, content domain.UserContent) (*domain.User, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	u, ok := t.s.users[id]
	if !ok {
		return nil, errors.NotFound()
	}
	u.UserContent = content
	u.ModificationDateTime = time.Now().UTC()
	t.s.users[id] = u
	u.ClientIDs = t.clientIDs(id)
	return &u, nil
}

func (t *userTable) Delete(_ context.Context, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.users[id]; !ok {
		return errors.NotFound()
	}
	delete(t.s.users, id)
	for cid, c := range t.s.creds {
		if c.userID == id {
			delete(t.s.creds, cid)
		}
	}
	return nil
}

type credentialTable struct{ s *Store }

func (t *credentialTable) Add(_ context.Context, userID, clientID, secretHash string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, exists := t.s.creds[clientID]; exists {
		return errors.Conflict("object already exists")
	}
	if _, ok := t.s.users[userID]; !ok {
		return errors.Unprocessable("referenced object does not exist")
	}
	t.s.creds[clientID] = credRow{clientID: clientID, userID: userID, secretHash: secretHash}
	return nil
}

func (t *credentialTable) Delete(_ context.Context, userID, clientID string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	c, ok := t.s.creds[clientID]
	if !ok || c.userID != userID {
		return errors.NotFound()
	}
	delete(t.s.creds, clientID)
	return nil
}

// CredentialByClientID serves the token issuer's lookup contract.
func (s *Store) CredentialByClientID(_ context.Context, clientID string) (*domain.Credential, *domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.creds[clientID]
	if !ok {
		return nil, nil, errors.NotFound()
	}
	u, ok := s.users[c.userID]
	if !ok {
		return nil, nil, errors.NotFound()
	}
	return &domain.Credential{ClientID: c.clientID, UserID: c.userID, SecretHash: c.secretHash}, &u, nil
}
