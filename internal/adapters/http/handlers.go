package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

type handlers struct {
	deps Deps
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type createRoomRequest struct {
	RoomName string `json:"room_name" binding:"required"`
}

func bindError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	u, err := h.deps.Users.Create(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	log.Info().Str("module", "adapters.http").Str("user", string(u.ID)).Msg("user registered")
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing username/email or password", "error": domain.Reason(bindError(err))})
		return
	}
	u, err := h.deps.Users.Authenticate(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials", "error": domain.Reason(err)})
			return
		}
		writeError(c, err)
		return
	}
	token, err := h.deps.Tokens.Issue(u.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	// Browsers cannot set headers on a websocket upgrade; the cookie session
	// carries the token there.
	sess := sessions.Default(c)
	sess.Set(sessionTokenKey, token)
	if err := sess.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *handlers) logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Status(http.StatusNoContent)
}

func (h *handlers) profile(c *gin.Context, ident domain.Identity) {
	u, err := h.deps.Users.Get(c.Request.Context(), ident.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found", "error": domain.Reason(err)})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *handlers) createRoom(c *gin.Context, ident domain.Identity) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Room name is required", "error": domain.Reason(bindError(err))})
		return
	}
	room, err := h.deps.Rooms.Create(c.Request.Context(), domain.RoomName(req.RoomName), ident.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *handlers) joinRoom(c *gin.Context, _ domain.Identity) {
	room, err := h.deps.Rooms.Get(c.Request.Context(), domain.RoomID(c.Param("room_id")))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Room not found", "error": domain.Reason(err)})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *handlers) ownedRooms(c *gin.Context, ident domain.Identity) {
	rooms, err := h.deps.Rooms.ListByOwner(c.Request.Context(), ident.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *handlers) allRooms(c *gin.Context, _ domain.Identity) {
	rooms, err := h.deps.Rooms.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// presence lists rooms that currently have live members. It is independent
// of the persisted room list above.
func (h *handlers) presence(c *gin.Context, _ domain.Identity) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.deps.Orch.Presence()})
}

func (h *handlers) iceServers(c *gin.Context) {
	servers := h.deps.ICEServers
	if servers == nil {
		servers = []webrtc.ICEServer{}
	}
	c.JSON(http.StatusOK, gin.H{"ice_servers": servers})
}
