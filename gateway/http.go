package gateway

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"team-hub/auth"
	"team-hub/domain"
	apperrors "team-hub/errors"
	"team-hub/services"
)

// HTTPHandlers serves the REST surface around the websocket: account
// lifecycle plus a couple of authenticated reads.
type HTTPHandlers struct {
	log           *slog.Logger
	authenticator *auth.Authenticator
	accounts      services.IAuthService
	workspaces    services.IWorkspaceService
	notifications services.INotificationService
}

func NewHTTPHandlers(
	log *slog.Logger,
	authenticator *auth.Authenticator,
	accounts services.IAuthService,
	workspaces services.IWorkspaceService,
	notifications services.INotificationService,
) *HTTPHandlers {
	return &HTTPHandlers{
		log:           log,
		authenticator: authenticator,
		accounts:      accounts,
		workspaces:    workspaces,
		notifications: notifications,
	}
}

// Mount attaches every HTTP route to the echo instance.
func (h *HTTPHandlers) Mount(e *echo.Echo) {
	e.POST("/register", h.register)
	e.POST("/login", h.login)

	authed := e.Group("", h.requireSession)
	authed.POST("/logout", h.logout)
	authed.GET("/workspaces", h.listWorkspaces)
	authed.POST("/workspaces", h.createWorkspace)
	authed.PUT("/workspaces/:id", h.renameWorkspace)
	authed.DELETE("/workspaces/:id", h.removeWorkspace)
	authed.POST("/workspaces/:id/members", h.addMember)
	authed.DELETE("/workspaces/:id/members/:user", h.removeMember)
	authed.POST("/workspaces/:id/channels", h.createChannel)
	authed.DELETE("/workspaces/:id/channels/:channel", h.removeChannel)
	authed.GET("/notifications", h.listNotifications)
}

const sessionKey = "session"

// requireSession runs the same admission check as the websocket
// handshake and stores the session on the request context.
func (h *HTTPHandlers) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := h.authenticator.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, Ack{Success: false, Error: "unauthenticated"})
		}
		c.Set(sessionKey, session)
		return next(c)
	}
}

func (h *HTTPHandlers) register(c echo.Context) error {
	var req auth.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failAck("invalid body"))
	}
	if err := auth.ValidateRegister(req); err != nil {
		return c.JSON(http.StatusBadRequest, failAck(err.Error()))
	}

	token, err := h.accounts.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			return c.JSON(http.StatusConflict, failAck(err.Error()))
		}
		h.log.Error(fmt.Sprintf("Register failed: %v", err))
		return c.JSON(http.StatusInternalServerError, failAck("registration failed"))
	}
	return c.JSON(http.StatusCreated, okAck(map[string]string{"token": string(token)}))
}

func (h *HTTPHandlers) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failAck("invalid body"))
	}
	if err := auth.ValidateLogin(req); err != nil {
		return c.JSON(http.StatusBadRequest, failAck(err.Error()))
	}

	token, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, failAck(apperrors.ErrInvalidCredentials.Error()))
	}
	return c.JSON(http.StatusOK, okAck(map[string]string{"token": string(token)}))
}

func (h *HTTPHandlers) logout(c echo.Context) error {
	token, err := auth.ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, failAck("unauthenticated"))
	}
	if err := h.accounts.Logout(token); err != nil {
		h.log.Warn(fmt.Sprintf("Logout failed: %v", err))
		return c.JSON(http.StatusInternalServerError, failAck("logout failed"))
	}
	return c.JSON(http.StatusOK, okAck(nil))
}

func (h *HTTPHandlers) listWorkspaces(c echo.Context) error {
	session := c.Get(sessionKey).(domain.Session)
	ids, err := h.workspaces.WorkspacesForUser(session.UserID)
	if err != nil {
		h.log.Error(fmt.Sprintf("Workspace listing failed: %v", err), "user_id", session.UserID)
		return c.JSON(http.StatusInternalServerError, failAck("listing failed"))
	}
	return c.JSON(http.StatusOK, okAck(map[string]any{"workspace_ids": ids}))
}

func (h *HTTPHandlers) createWorkspace(c echo.Context) error {
	session := c.Get(sessionKey).(domain.Session)
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, failAck("invalid body"))
	}

	ws, err := h.workspaces.Create(req.Name, session.UserID)
	if err != nil {
		h.log.Error(fmt.Sprintf("Workspace creation failed: %v", err), "user_id", session.UserID)
		return c.JSON(http.StatusInternalServerError, failAck("creation failed"))
	}
	return c.JSON(http.StatusCreated, okAck(ws))
}

func (h *HTTPHandlers) renameWorkspace(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, failAck("invalid body"))
	}

	ws, err := h.workspaces.Rename(domain.WorkspaceID(c.Param("id")), req.Name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.JSON(http.StatusNotFound, failAck(err.Error()))
		}
		h.log.Error(fmt.Sprintf("Workspace rename failed: %v", err), "workspace_id", c.Param("id"))
		return c.JSON(http.StatusInternalServerError, failAck("rename failed"))
	}
	return c.JSON(http.StatusOK, okAck(ws))
}

func (h *HTTPHandlers) removeWorkspace(c echo.Context) error {
	err := h.workspaces.Remove(domain.WorkspaceID(c.Param("id")))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.JSON(http.StatusNotFound, failAck(err.Error()))
		}
		h.log.Error(fmt.Sprintf("Workspace removal failed: %v", err), "workspace_id", c.Param("id"))
		return c.JSON(http.StatusInternalServerError, failAck("removal failed"))
	}
	return c.JSON(http.StatusOK, okAck(nil))
}

func (h *HTTPHandlers) addMember(c echo.Context) error {
	session := c.Get(sessionKey).(domain.Session)
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return c.JSON(http.StatusBadRequest, failAck("invalid body"))
	}

	err := h.workspaces.AddMember(domain.MembershipCommand{
		WorkspaceID: domain.WorkspaceID(c.Param("id")),
		UserID:      domain.UserID(req.UserID),
		ActorID:     session.UserID,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.JSON(http.StatusNotFound, failAck(err.Error()))
		}
		h.log.Error(fmt.Sprintf("Member addition failed: %v", err), "workspace_id", c.Param("id"))
		return c.JSON(http.StatusInternalServerError, failAck("member addition failed"))
	}
	return c.JSON(http.StatusOK, okAck(nil))
}

func (h *HTTPHandlers) removeMember(c echo.Context) error {
	session := c.Get(sessionKey).(domain.Session)

	err := h.workspaces.RemoveMember(domain.MembershipCommand{
		WorkspaceID: domain.WorkspaceID(c.Param("id")),
		UserID:      domain.UserID(c.Param("user")),
		ActorID:     session.UserID,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.JSON(http.StatusNotFound, failAck(err.Error()))
		}
		h.log.Error(fmt.Sprintf("Member removal failed: %v", err), "workspace_id", c.Param("id"))
		return c.JSON(http.StatusInternalServerError, failAck("member removal failed"))
	}
	return c.JSON(http.StatusOK, okAck(nil))
}

func (h *HTTPHandlers) createChannel(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, failAck("invalid body"))
	}

	channel, err := h.workspaces.CreateChannel(domain.WorkspaceID(c.Param("id")), req.Name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.JSON(http.StatusNotFound, failAck(err.Error()))
		}
		h.log.Error(fmt.Sprintf("Channel creation failed: %v", err), "workspace_id", c.Param("id"))
		return c.JSON(http.StatusInternalServerError, failAck("channel creation failed"))
	}
	return c.JSON(http.StatusCreated, okAck(channel))
}

func (h *HTTPHandlers) removeChannel(c echo.Context) error {
	err := h.workspaces.RemoveChannel(domain.ChannelID(c.Param("channel")))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.JSON(http.StatusNotFound, failAck(err.Error()))
		}
		h.log.Error(fmt.Sprintf("Channel removal failed: %v", err), "channel_id", c.Param("channel"))
		return c.JSON(http.StatusInternalServerError, failAck("channel removal failed"))
	}
	return c.JSON(http.StatusOK, okAck(nil))
}

func (h *HTTPHandlers) listNotifications(c echo.Context) error {
	session := c.Get(sessionKey).(domain.Session)
	notifications, err := h.notifications.ListForUser(session.UserID)
	if err != nil {
		h.log.Error(fmt.Sprintf("Notification listing failed: %v", err), "user_id", session.UserID)
		return c.JSON(http.StatusInternalServerError, failAck("listing failed"))
	}
	return c.JSON(http.StatusOK, okAck(map[string]any{"notifications": notifications}))
}
