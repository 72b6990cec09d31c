package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"team-hub/domain"
	"team-hub/errors"
)

func TestWorkspaceRepository_Create_OwnerIsMember(t *testing.T) {
	req := require.New(t)
	repo := NewWorkspaceRepository(testDB(t))

	ws, err := repo.CreateWorkspace("engineering", "alice")
	req.NoError(err)
	req.NotEmpty(ws.ID)

	members, err := repo.Members(ws.ID)
	req.NoError(err)
	req.Equal([]domain.UserID{"alice"}, members)

	workspaces, err := repo.WorkspacesForUser("alice")
	req.NoError(err)
	req.Equal([]domain.WorkspaceID{ws.ID}, workspaces)
}

func TestWorkspaceRepository_AddAndRemoveMember(t *testing.T) {
	req := require.New(t)
	repo := NewWorkspaceRepository(testDB(t))
	ws, err := repo.CreateWorkspace("engineering", "alice")
	req.NoError(err)

	req.NoError(repo.AddMember(ws.ID, "bob"))
	members, err := repo.Members(ws.ID)
	req.NoError(err)
	req.Len(members, 2)

	req.NoError(repo.RemoveMember(ws.ID, "bob"))
	members, err = repo.Members(ws.ID)
	req.NoError(err)
	req.Equal([]domain.UserID{"alice"}, members)

	workspaces, err := repo.WorkspacesForUser("bob")
	req.NoError(err)
	req.Empty(workspaces)
}

func TestWorkspaceRepository_AddMember_UnknownWorkspace(t *testing.T) {
	req := require.New(t)
	repo := NewWorkspaceRepository(testDB(t))

	err := repo.AddMember("nowhere", "bob")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestWorkspaceRepository_Update(t *testing.T) {
	req := require.New(t)
	repo := NewWorkspaceRepository(testDB(t))
	ws, err := repo.CreateWorkspace("engineering", "alice")
	req.NoError(err)

	ws.Name = "platform"
	req.NoError(repo.UpdateWorkspace(ws))

	got, err := repo.GetWorkspace(ws.ID)
	req.NoError(err)
	req.Equal("platform", got.Name)
}

func TestWorkspaceRepository_Delete_CleansMembershipEdges(t *testing.T) {
	req := require.New(t)
	repo := NewWorkspaceRepository(testDB(t))
	ws, err := repo.CreateWorkspace("engineering", "alice")
	req.NoError(err)
	req.NoError(repo.AddMember(ws.ID, "bob"))

	req.NoError(repo.DeleteWorkspace(ws.ID))

	_, err = repo.GetWorkspace(ws.ID)
	req.ErrorIs(err, errors.ErrNotFound)
	workspaces, err := repo.WorkspacesForUser("bob")
	req.NoError(err)
	req.Empty(workspaces)
}

func TestWorkspaceRepository_Channels(t *testing.T) {
	req := require.New(t)
	repo := NewWorkspaceRepository(testDB(t))
	ws, err := repo.CreateWorkspace("engineering", "alice")
	req.NoError(err)

	channel, err := repo.CreateChannel(ws.ID, "general")
	req.NoError(err)
	req.Equal(ws.ID, channel.WorkspaceID)

	got, err := repo.GetChannel(channel.ID)
	req.NoError(err)
	req.Equal("general", got.Name)

	req.NoError(repo.DeleteChannel(channel.ID))
	_, err = repo.GetChannel(channel.ID)
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestWorkspaceRepository_CreateChannel_UnknownWorkspace(t *testing.T) {
	req := require.New(t)
	repo := NewWorkspaceRepository(testDB(t))

	_, err := repo.CreateChannel("nowhere", "general")
	req.ErrorIs(err, errors.ErrNotFound)
}
