package services

import (
	"team-hub/contract"
	"team-hub/domain"
	"team-hub/domain/event"
	"team-hub/repositories"
)

type IWorkspaceService interface {
	Create(name string, owner domain.UserID) (domain.Workspace, error)
	Rename(id domain.WorkspaceID, name string) (domain.Workspace, error)
	Remove(id domain.WorkspaceID) error

	AddMember(cmd domain.MembershipCommand) error
	RemoveMember(cmd domain.MembershipCommand) error
	WorkspacesForUser(user domain.UserID) ([]domain.WorkspaceID, error)
	Members(ws domain.WorkspaceID) ([]domain.UserID, error)

	CreateChannel(ws domain.WorkspaceID, name string) (domain.Channel, error)
	RemoveChannel(id domain.ChannelID) error
}

type WorkspaceService struct {
	workspaces repositories.IWorkspaceRepository
	bus        contract.EventBus
}

func NewWorkspaceService(workspaces repositories.IWorkspaceRepository, bus contract.EventBus) IWorkspaceService {
	return &WorkspaceService{workspaces: workspaces, bus: bus}
}

func (s *WorkspaceService) Create(name string, owner domain.UserID) (domain.Workspace, error) {
	ws, err := s.workspaces.CreateWorkspace(name, owner)
	if err != nil {
		return domain.Workspace{}, err
	}
	s.bus.Publish(event.WorkspaceCreated{Workspace: ws})
	return ws, nil
}

func (s *WorkspaceService) Rename(id domain.WorkspaceID, name string) (domain.Workspace, error) {
	ws, err := s.workspaces.GetWorkspace(id)
	if err != nil {
		return domain.Workspace{}, err
	}
	ws.Name = name
	if err := s.workspaces.UpdateWorkspace(ws); err != nil {
		return domain.Workspace{}, err
	}
	s.bus.Publish(event.WorkspaceUpdated{Workspace: ws})
	return ws, nil
}

func (s *WorkspaceService) Remove(id domain.WorkspaceID) error {
	ws, err := s.workspaces.GetWorkspace(id)
	if err != nil {
		return err
	}
	if err := s.workspaces.DeleteWorkspace(id); err != nil {
		return err
	}
	s.bus.Publish(event.WorkspaceRemoved{Workspace: ws})
	return nil
}

// AddMember updates the durable membership only. Connections already
// registered keep their registration-time workspace sets; the new
// membership shows up in the registry at the user's next connect.
func (s *WorkspaceService) AddMember(cmd domain.MembershipCommand) error {
	if err := s.workspaces.AddMember(cmd.WorkspaceID, cmd.UserID); err != nil {
		return err
	}
	s.bus.Publish(event.WorkspaceMemberAdded{
		WorkspaceID: cmd.WorkspaceID,
		UserID:      cmd.UserID,
		ActorID:     cmd.ActorID,
	})
	return nil
}

func (s *WorkspaceService) RemoveMember(cmd domain.MembershipCommand) error {
	if err := s.workspaces.RemoveMember(cmd.WorkspaceID, cmd.UserID); err != nil {
		return err
	}
	s.bus.Publish(event.WorkspaceMemberRemoved{
		WorkspaceID: cmd.WorkspaceID,
		UserID:      cmd.UserID,
		ActorID:     cmd.ActorID,
	})
	return nil
}

func (s *WorkspaceService) WorkspacesForUser(user domain.UserID) ([]domain.WorkspaceID, error) {
	return s.workspaces.WorkspacesForUser(user)
}

func (s *WorkspaceService) Members(ws domain.WorkspaceID) ([]domain.UserID, error) {
	return s.workspaces.Members(ws)
}

func (s *WorkspaceService) CreateChannel(ws domain.WorkspaceID, name string) (domain.Channel, error) {
	channel, err := s.workspaces.CreateChannel(ws, name)
	if err != nil {
		return domain.Channel{}, err
	}
	s.bus.Publish(event.ChannelCreated{Channel: channel})
	return channel, nil
}

func (s *WorkspaceService) RemoveChannel(id domain.ChannelID) error {
	channel, err := s.workspaces.GetChannel(id)
	if err != nil {
		return err
	}
	if err := s.workspaces.DeleteChannel(id); err != nil {
		return err
	}
	s.bus.Publish(event.ChannelRemoved{Channel: channel})
	return nil
}
