package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"sikre/internal/domain/entity"
	domainerrors "sikre/internal/domain/errors"
	"sikre/internal/domain/repository"
	"sikre/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryStore is the shared in-memory backing for all fake repositories. One
// mutex guards everything so concurrent tests observe consistent state.
type memoryStore struct {
	mu sync.Mutex

	users      map[uuid.UUID]*entity.User
	auths      map[uuid.UUID]*entity.Authentication
	items      map[uuid.UUID]*entity.Item
	services   map[uuid.UUID]*entity.Service
	categories map[uuid.UUID]*entity.Category
	groups     map[uuid.UUID]*entity.Group

	itemPrincipals    map[uuid.UUID]map[uuid.UUID]bool
	servicePrincipals map[uuid.UUID]map[uuid.UUID]bool
	groupMembers      map[uuid.UUID]map[uuid.UUID]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:             make(map[uuid.UUID]*entity.User),
		auths:             make(map[uuid.UUID]*entity.Authentication),
		items:             make(map[uuid.UUID]*entity.Item),
		services:          make(map[uuid.UUID]*entity.Service),
		categories:        make(map[uuid.UUID]*entity.Category),
		groups:            make(map[uuid.UUID]*entity.Group),
		itemPrincipals:    make(map[uuid.UUID]map[uuid.UUID]bool),
		servicePrincipals: make(map[uuid.UUID]map[uuid.UUID]bool),
		groupMembers:      make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

type fakeUserRepo struct{ store *memoryStore }

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user

	return &clone, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Username == username {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Username == username {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email != nil && *user.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Username == user.Username {
			return domainerrors.ErrConflict.WrapMessage("username or email already taken")
		}
		if user.Email != nil && existing.Email != nil && *existing.Email == *user.Email {
			return domainerrors.ErrConflict.WrapMessage("username or email already taken")
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	clone := *user
	r.store.users[user.ID] = &clone

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	clone := *user
	r.store.users[user.ID] = &clone

	return nil
}

type fakeAuthRepo struct{ store *memoryStore }

func (r *fakeAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.auths {
		if existing.Provider == auth.Provider && existing.ProviderUserID == auth.ProviderUserID {
			return domainerrors.ErrConflict.WrapMessage("authentication method already linked")
		}
	}

	if auth.ID == uuid.Nil {
		auth.ID = uuid.New()
	}
	clone := *auth
	r.store.auths[auth.ID] = &clone

	return nil
}

func (r *fakeAuthRepo) FindAuthentication(_ context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, auth := range r.store.auths {
		if auth.Provider == provider && auth.ProviderUserID == providerUserID {
			clone := *auth

			return &clone, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

func (r *fakeAuthRepo) ListAuthenticationsByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Authentication, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var auths []*entity.Authentication
	for _, auth := range r.store.auths {
		if auth.UserID == userID {
			clone := *auth
			auths = append(auths, &clone)
		}
	}

	return auths, nil
}

type fakeItemRepo struct{ store *memoryStore }

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.items[id]
	if !ok {
		return nil, repository.ErrItemNotFound
	}
	clone := *item

	return &clone, nil
}

func (r *fakeItemRepo) ListAllowedByUser(_ context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]*entity.Item, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var items []*entity.Item
	for id, item := range r.store.items {
		if !r.store.itemPrincipals[id][userID] {
			continue
		}
		if categoryID != nil && (item.CategoryID == nil || *item.CategoryID != *categoryID) {
			continue
		}
		clone := *item
		items = append(items, &clone)
	}

	return items, nil
}

func (r *fakeItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	clone := *item
	r.store.items[item.ID] = &clone

	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.items[item.ID]; !ok {
		return repository.ErrItemNotFound
	}
	clone := *item
	r.store.items[item.ID] = &clone

	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.items[id]; !ok {
		return repository.ErrItemNotFound
	}
	delete(r.store.items, id)
	delete(r.store.itemPrincipals, id)

	return nil
}

func (r *fakeItemRepo) IsPrincipalAllowed(_ context.Context, itemID, userID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.itemPrincipals[itemID][userID], nil
}

func (r *fakeItemRepo) GrantPrincipal(_ context.Context, itemID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.itemPrincipals[itemID] == nil {
		r.store.itemPrincipals[itemID] = make(map[uuid.UUID]bool)
	}
	r.store.itemPrincipals[itemID][userID] = true

	return nil
}

func (r *fakeItemRepo) RevokePrincipal(_ context.Context, itemID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.itemPrincipals[itemID], userID)

	return nil
}

type fakeServiceRepo struct{ store *memoryStore }

func (r *fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	svc, ok := r.store.services[id]
	if !ok {
		return nil, repository.ErrServiceNotFound
	}
	clone := *svc

	return &clone, nil
}

func (r *fakeServiceRepo) ListAllowedByItem(_ context.Context, itemID, userID uuid.UUID) ([]*entity.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var services []*entity.Service
	for id, svc := range r.store.services {
		if svc.ItemID != itemID || !r.store.servicePrincipals[id][userID] {
			continue
		}
		clone := *svc
		services = append(services, &clone)
	}

	return services, nil
}

func (r *fakeServiceRepo) Create(_ context.Context, svc *entity.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	clone := *svc
	r.store.services[svc.ID] = &clone

	return nil
}

func (r *fakeServiceRepo) Update(_ context.Context, svc *entity.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.services[svc.ID]; !ok {
		return repository.ErrServiceNotFound
	}
	clone := *svc
	r.store.services[svc.ID] = &clone

	return nil
}

func (r *fakeServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.services[id]; !ok {
		return repository.ErrServiceNotFound
	}
	delete(r.store.services, id)
	delete(r.store.servicePrincipals, id)

	return nil
}

func (r *fakeServiceRepo) IsPrincipalAllowed(_ context.Context, serviceID, userID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.servicePrincipals[serviceID][userID], nil
}

func (r *fakeServiceRepo) GrantPrincipal(_ context.Context, serviceID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.servicePrincipals[serviceID] == nil {
		r.store.servicePrincipals[serviceID] = make(map[uuid.UUID]bool)
	}
	r.store.servicePrincipals[serviceID][userID] = true

	return nil
}

func (r *fakeServiceRepo) RevokePrincipal(_ context.Context, serviceID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.servicePrincipals[serviceID], userID)

	return nil
}

type fakeCategoryRepo struct{ store *memoryStore }

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	category, ok := r.store.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	clone := *category

	return &clone, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.categories {
		if existing.Name == category.Name {
			return domainerrors.ErrConflict.WrapMessage("category name already taken")
		}
	}

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	clone := *category
	r.store.categories[category.ID] = &clone

	return nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var categories []*entity.Category
	for _, category := range r.store.categories {
		clone := *category
		categories = append(categories, &clone)
	}

	return categories, nil
}

type fakeGroupRepo struct{ store *memoryStore }

func (r *fakeGroupRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Group, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	group, ok := r.store.groups[id]
	if !ok {
		return nil, repository.ErrGroupNotFound
	}
	clone := *group

	return &clone, nil
}

func (r *fakeGroupRepo) FindByName(_ context.Context, name string) (*entity.Group, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, group := range r.store.groups {
		if group.Name == name {
			clone := *group

			return &clone, nil
		}
	}

	return nil, repository.ErrGroupNotFound
}

func (r *fakeGroupRepo) Create(_ context.Context, group *entity.Group) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.groups {
		if existing.Name == group.Name {
			return domainerrors.ErrConflict.WrapMessage("group name already taken")
		}
	}

	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	clone := *group
	r.store.groups[group.ID] = &clone

	return nil
}

func (r *fakeGroupRepo) AddMember(_ context.Context, groupID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.groupMembers[groupID] == nil {
		r.store.groupMembers[groupID] = make(map[uuid.UUID]bool)
	}
	r.store.groupMembers[groupID][userID] = true

	return nil
}

func (r *fakeGroupRepo) RemoveMember(_ context.Context, groupID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.groupMembers[groupID], userID)

	return nil
}

func (r *fakeGroupRepo) ListMembers(_ context.Context, groupID uuid.UUID) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var members []*entity.User
	for userID := range r.store.groupMembers[groupID] {
		if user, ok := r.store.users[userID]; ok {
			clone := *user
			members = append(members, &clone)
		}
	}

	return members, nil
}

// fakeTxManager serializes transactions against the shared store and rolls
// the store back when the function fails, mirroring real transaction
// semantics. The fakes enforce the same uniqueness rules as the real schema,
// which is what the conflict-recovery paths exercise.
type fakeTxManager struct {
	store *memoryStore
	txMu  sync.Mutex

	// userRepo, when set, replaces the factory's user repository inside the
	// transaction. Used to simulate lookups racing concurrent inserts.
	userRepo repository.UserRepository
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snapshot := m.store.snapshot()
	if err := fn(&fakeRepoFactory{store: m.store, userRepo: m.userRepo}); err != nil {
		m.store.restore(snapshot)

		return err
	}

	return nil
}

type storeSnapshot struct {
	users      map[uuid.UUID]*entity.User
	auths      map[uuid.UUID]*entity.Authentication
	items      map[uuid.UUID]*entity.Item
	services   map[uuid.UUID]*entity.Service
	categories map[uuid.UUID]*entity.Category
	groups     map[uuid.UUID]*entity.Group

	itemPrincipals    map[uuid.UUID]map[uuid.UUID]bool
	servicePrincipals map[uuid.UUID]map[uuid.UUID]bool
	groupMembers      map[uuid.UUID]map[uuid.UUID]bool
}

func (s *memoryStore) snapshot() *storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &storeSnapshot{
		users:             copyMap(s.users),
		auths:             copyMap(s.auths),
		items:             copyMap(s.items),
		services:          copyMap(s.services),
		categories:        copyMap(s.categories),
		groups:            copyMap(s.groups),
		itemPrincipals:    copyPrincipals(s.itemPrincipals),
		servicePrincipals: copyPrincipals(s.servicePrincipals),
		groupMembers:      copyPrincipals(s.groupMembers),
	}
}

func (s *memoryStore) restore(snap *storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snap.users
	s.auths = snap.auths
	s.items = snap.items
	s.services = snap.services
	s.categories = snap.categories
	s.groups = snap.groups
	s.itemPrincipals = snap.itemPrincipals
	s.servicePrincipals = snap.servicePrincipals
	s.groupMembers = snap.groupMembers
}

func copyMap[V any](src map[uuid.UUID]V) map[uuid.UUID]V {
	dst := make(map[uuid.UUID]V, len(src))
	for k, v := range src {
		dst[k] = v
	}

	return dst
}

func copyPrincipals(src map[uuid.UUID]map[uuid.UUID]bool) map[uuid.UUID]map[uuid.UUID]bool {
	dst := make(map[uuid.UUID]map[uuid.UUID]bool, len(src))
	for k, members := range src {
		inner := make(map[uuid.UUID]bool, len(members))
		for id, ok := range members {
			inner[id] = ok
		}
		dst[k] = inner
	}

	return dst
}

type fakeRepoFactory struct {
	store    *memoryStore
	userRepo repository.UserRepository
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository {
	if f.userRepo != nil {
		return f.userRepo
	}

	return &fakeUserRepo{store: f.store}
}

func (f *fakeRepoFactory) AuthRepo() repository.AuthRepository { return &fakeAuthRepo{store: f.store} }

func (f *fakeRepoFactory) ItemRepo() repository.ItemRepository { return &fakeItemRepo{store: f.store} }

func (f *fakeRepoFactory) ServiceRepo() repository.ServiceRepository {
	return &fakeServiceRepo{store: f.store}
}

func (f *fakeRepoFactory) GroupRepo() repository.GroupRepository {
	return &fakeGroupRepo{store: f.store}
}

// fakeExchanger returns a fixed identity claim, or an error.
type fakeExchanger struct {
	provider entity.ProviderType
	identity *entity.ExternalIdentity
	err      error
}

func (f *fakeExchanger) Exchange(_ context.Context, _ service.ExchangeInput) (*entity.ExternalIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	clone := *f.identity

	return &clone, nil
}

func (f *fakeExchanger) Provider() entity.ProviderType {
	return f.provider
}

var errProviderDown = errors.New("provider unreachable")
