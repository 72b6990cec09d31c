package domain

import "time"

type Workspace struct {
	ID        WorkspaceID `json:"id"`
	Name      string      `json:"name"`
	OwnerID   UserID      `json:"owner_id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type Channel struct {
	ID          ChannelID   `json:"id"`
	WorkspaceID WorkspaceID `json:"workspace_id"`
	Name        string      `json:"name"`
	CreatedAt   time.Time   `json:"created_at"`
}
