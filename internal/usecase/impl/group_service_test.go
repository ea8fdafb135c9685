package impl

import (
	"context"
	"testing"

	domainerrors "sikre/internal/domain/errors"
	"sikre/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroupService(store *memoryStore) usecase.GroupUsecase {
	return NewGroupService(GroupServiceParams{
		GroupRepo: &fakeGroupRepo{store: store},
		UserRepo:  &fakeUserRepo{store: store},
		Logger:    testLogger(),
	})
}

func TestGroupMembership_AddListRemove(t *testing.T) {
	store := newMemoryStore()
	svc := newTestGroupService(store)
	member := seedUser(store, "member")

	group, err := svc.CreateGroup(context.Background(), &usecase.CreateGroupInput{Name: "ops"})
	require.NoError(t, err)

	require.NoError(t, svc.AddMember(context.Background(), &usecase.GroupMemberInput{
		GroupID: group.ID,
		UserID:  member.ID,
	}))

	members, err := svc.ListMembers(context.Background(), group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, member.ID, members[0].ID)

	require.NoError(t, svc.RemoveMember(context.Background(), &usecase.GroupMemberInput{
		GroupID: group.ID,
		UserID:  member.ID,
	}))

	members, err = svc.ListMembers(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestAddMember_UnknownGroupOrUser(t *testing.T) {
	store := newMemoryStore()
	svc := newTestGroupService(store)
	member := seedUser(store, "member")

	err := svc.AddMember(context.Background(), &usecase.GroupMemberInput{
		GroupID: uuid.New(),
		UserID:  member.ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	group, err := svc.CreateGroup(context.Background(), &usecase.CreateGroupInput{Name: "ops"})
	require.NoError(t, err)

	err = svc.AddMember(context.Background(), &usecase.GroupMemberInput{
		GroupID: group.ID,
		UserID:  uuid.New(),
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestCreateGroup_DuplicateNameConflict(t *testing.T) {
	store := newMemoryStore()
	svc := newTestGroupService(store)

	_, err := svc.CreateGroup(context.Background(), &usecase.CreateGroupInput{Name: "ops"})
	require.NoError(t, err)

	_, err = svc.CreateGroup(context.Background(), &usecase.CreateGroupInput{Name: "ops"})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}
