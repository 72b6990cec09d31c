// Package domain contains the core concepts of the collaboration system.
// No runtime, network, or UI logic should be added here.
package domain

// Durable identities. Connections are ephemeral and live in the gateway;
// everything here survives a reconnect.
type (
	UserID      string
	WorkspaceID string
	ChannelID   string
)
