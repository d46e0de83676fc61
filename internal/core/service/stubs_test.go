package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
)

// memUserStore is an in-memory ports.UserStore. InTx serializes callbacks
// with a mutex, mirroring the advisory lock the Postgres store takes.
type memUserStore struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*domain.User)}
}

// seed inserts a user directly, bypassing validation.
func (s *memUserStore) seed(username string, isAdmin, isActive bool) *domain.User {
	s.seq++
	u := &domain.User{
		ID:        s.seq,
		Username:  username,
		Email:     username + "@example.com",
		IsAdmin:   isAdmin,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	return cloneUser(u)
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (s *memUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memUserStore) List(_ context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *memUserStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *memUserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.seq++
	clone := cloneUser(user)
	clone.ID = s.seq
	s.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (s *memUserStore) SetAdmin(_ context.Context, id int64, isAdmin bool) error {
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}

func (s *memUserStore) SetActive(_ context.Context, id int64, isActive bool) error {
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = isActive
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memUserStore) CountActiveAdmins(_ context.Context, excludeID int64) (int64, error) {
	var n int64
	for _, u := range s.users {
		if u.IsAdmin && u.IsActive && u.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (s *memUserStore) InTx(ctx context.Context, fn func(ctx context.Context, tx ports.UserTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, s)
}

// memSessionStore is an in-memory ports.SessionStore without expiry; the
// real expiring store has its own tests.
type memSessionStore struct {
	sessions map[string]*domain.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *memSessionStore) Create(_ context.Context, user *domain.User) (*domain.Session, error) {
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *memSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, domain.ErrNotAuthenticated
}

func (s *memSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

// memProductRepo is an in-memory ports.ProductRepository. failNames makes
// Create fail for specific product names, to exercise partial-success
// paths.
type memProductRepo struct {
	seq       int64
	products  map[string]*domain.Product
	failNames map[string]bool
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*domain.Product), failNames: make(map[string]bool)}
}

func (r *memProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if r.failNames[product.Name] {
		return nil, &domain.ProcessingError{Op: "insert product", Err: context.DeadlineExceeded}
	}
	r.seq++
	clone := *product
	clone.ID = fmt.Sprintf("%024x", r.seq)
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := r.products[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *memProductRepo) List(_ context.Context, filter ports.ProductFilter) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

// memImageStore records saves and removals.
type memImageStore struct {
	saved   map[string][]byte
	removed []string
	failAll bool
}

func newMemImageStore() *memImageStore {
	return &memImageStore{saved: make(map[string][]byte)}
}

func (s *memImageStore) Save(_ context.Context, name string, r io.Reader) error {
	if s.failAll {
		return &domain.ProcessingError{Op: "save image", Err: io.ErrClosedPipe}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.saved[name] = data
	return nil
}

func (s *memImageStore) Remove(_ context.Context, name string) error {
	s.removed = append(s.removed, name)
	delete(s.saved, name)
	return nil
}

// memCategoryCache is an in-memory ports.CategoryCache that counts hits
// and invalidations.
type memCategoryCache struct {
	values      []string
	present     bool
	hits        int
	sets        int
	invalidated int
}

func (c *memCategoryCache) Get(_ context.Context) ([]string, bool, error) {
	if c.present {
		c.hits++
		return append([]string(nil), c.values...), true, nil
	}
	return nil, false, nil
}

func (c *memCategoryCache) Set(_ context.Context, categories []string) error {
	c.values = append([]string(nil), categories...)
	c.present = true
	c.sets++
	return nil
}

func (c *memCategoryCache) Invalidate(_ context.Context) error {
	c.values = nil
	c.present = false
	c.invalidated++
	return nil
}
