package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/isdelr/salesdash-be/internal/models"
	"github.com/isdelr/salesdash-be/internal/repositories/users"
)

// fakeRepo is an in-memory users.Repository that counts calls.
type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.User
	calls  map[string]int

	// err, when set, is returned by every method.
	err error
	// createErr, when set, is returned by Create only.
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]*models.User{}, calls: map[string]int{}}
}

func (f *fakeRepo) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRepo) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRepo) hit(name string) error {
	f.calls[name]++
	return f.err
}

func (f *fakeRepo) Create(_ context.Context, u *models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("Create"); err != nil {
		return 0, err
	}
	if f.createErr != nil {
		return 0, f.createErr
	}
	for _, r := range f.rows {
		if !r.IsActive {
			continue
		}
		if r.Username == u.Username {
			return 0, users.ErrDuplicateUsername
		}
		if r.Email == u.Email {
			return 0, users.ErrDuplicateEmail
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.rows[u.ID] = &cp
	return 1, nil
}

func (f *fakeRepo) findWhere(match func(*models.User) bool) (*models.User, error) {
	for _, r := range f.rows {
		if r.IsActive && match(r) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("FindByID"); err != nil {
		return nil, err
	}
	return f.findWhere(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("FindByUsername"); err != nil {
		return nil, err
	}
	return f.findWhere(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("FindByEmail"); err != nil {
		return nil, err
	}
	return f.findWhere(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ExistsByUsername"); err != nil {
		return false, err
	}
	_, err := f.findWhere(func(u *models.User) bool { return u.Username == username })
	return err == nil, nil
}

func (f *fakeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ExistsByEmail"); err != nil {
		return false, err
	}
	_, err := f.findWhere(func(u *models.User) bool { return u.Email == email })
	return err == nil, nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListActive"); err != nil {
		return nil, err
	}
	var out []models.User
	for id := f.nextID; id > 0; id-- {
		if r, ok := f.rows[id]; ok && r.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) update(name string, id int64, apply func(*models.User)) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit(name); err != nil {
		return 0, err
	}
	r, ok := f.rows[id]
	if !ok || !r.IsActive {
		return 0, nil
	}
	apply(r)
	return 1, nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id int64, hash string, at time.Time) (int64, error) {
	return f.update("UpdatePassword", id, func(u *models.User) { u.PasswordHash = hash; u.UpdatedAt = at })
}

func (f *fakeRepo) UpdateProfile(_ context.Context, id int64, companyName, email string, at time.Time) (int64, error) {
	return f.update("UpdateProfile", id, func(u *models.User) {
		u.CompanyName = companyName
		u.Email = email
		u.UpdatedAt = at
	})
}

func (f *fakeRepo) Deactivate(_ context.Context, id int64, at time.Time) (int64, error) {
	return f.update("Deactivate", id, func(u *models.User) { u.IsActive = false; u.UpdatedAt = at })
}

// fakeEvents records CreateEvent calls.
type fakeEvents struct {
	mu    sync.Mutex
	types []string
	err   error
}

func (e *fakeEvents) CreateEvent(_ context.Context, eventType, _, _ string, _ *int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, eventType)
	return e.err
}

func (e *fakeEvents) recorded() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.types...)
}

type failingIssuer struct{}

func (failingIssuer) Issue(string, int64) (string, error) {
	return "", errors.New("signing failed")
}

func (failingIssuer) TTL() time.Duration { return time.Hour }
