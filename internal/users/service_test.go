package users_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"backoffice/internal/users"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*users.User
	byID   map[int64]*users.User
}

func newMemStore() *memStore {
	return &memStore{byName: map[string]*users.User{}, byID: map[int64]*users.User{}}
}

func (m *memStore) Create(_ context.Context, name, role, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[name]; ok {
		return errors.New("duplicate name")
	}
	m.nextID++
	u := &users.User{ID: m.nextID, Name: name, Role: role, PasswordHash: passwordHash}
	m.byName[name] = u
	m.byID[u.ID] = u
	return nil
}

func (m *memStore) GetByName(_ context.Context, name string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[name]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) List(context.Context) ([]users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []users.User
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.byID[id]; ok {
			res = append(res, users.User{ID: u.ID, Name: u.Name, Role: u.Role})
		}
	}
	return res, nil
}

func (m *memStore) HasRole(_ context.Context, id int64, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	return ok && u.Role == role, nil
}

func TestCreateHashesPassword(t *testing.T) {
	store := newMemStore()
	svc := users.NewService(store)
	ctx := context.Background()

	if err := svc.Create(ctx, "alice", "s3cret", "Agent"); err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := store.GetByName(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.PasswordHash == "s3cret" {
		t.Fatal("password stored in plaintext")
	}
	if !users.CheckPassword(u.PasswordHash, "s3cret") {
		t.Fatal("stored hash does not verify")
	}
}

func TestAuthenticate(t *testing.T) {
	store := newMemStore()
	svc := users.NewService(store)
	ctx := context.Background()

	if err := svc.Create(ctx, "alice", "s3cret", "Agent"); err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := svc.Authenticate(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.Name != "alice" || u.Role != "Agent" {
		t.Errorf("user = %+v", u)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, users.ErrBadCredentials) {
		t.Errorf("wrong password err = %v, want ErrBadCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "s3cret"); !errors.Is(err, users.ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}
}

func TestIsAgent(t *testing.T) {
	store := newMemStore()
	svc := users.NewService(store)
	ctx := context.Background()

	if err := svc.Create(ctx, "boss", "pw", "Admin"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := svc.Create(ctx, "field", "pw", "Agent"); err != nil {
		t.Fatalf("create agent: %v", err)
	}

	if ok, _ := svc.IsAgent(ctx, 1); ok {
		t.Error("admin reported as agent")
	}
	if ok, _ := svc.IsAgent(ctx, 2); !ok {
		t.Error("agent not recognized")
	}
	if ok, _ := svc.IsAgent(ctx, 99); ok {
		t.Error("unknown id reported as agent")
	}
}
