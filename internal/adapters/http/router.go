package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/auth"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/dkeye/Huddle/internal/store"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const (
	sessionName     = "HuddleSessions"
	sessionTokenKey = "token"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Orch       *orch.Orchestrator
	Signal     *signal.SignalWSController
	Users      store.Users
	Rooms      store.Rooms
	Tokens     *auth.Tokens
	ICEServers []webrtc.ICEServer
}

func SetupRouter(ctx context.Context, cfg *config.Config, d Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	sessStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessStore.Options(sessions.Options{Path: "/", MaxAge: int(cfg.TokenTTL.Seconds()), HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, sessStore))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &handlers{deps: d}
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "connections": d.Orch.Registry.Count()})
	})
	api.GET("/ice-servers", h.iceServers)

	authAPI := api.Group("/auth")
	authAPI.POST("/register", h.register)
	authAPI.POST("/login", h.login)
	authAPI.POST("/logout", h.logout)

	api.GET("/test/profile", h.authed(h.profile))

	rooms := api.Group("/rooms")
	rooms.POST("/create", h.authed(h.createRoom))
	rooms.GET("/join/:room_id", h.authed(h.joinRoom))
	rooms.GET("/", h.authed(h.ownedRooms))
	rooms.GET("/all", h.authed(h.allRooms))

	api.GET("/presence", h.authed(h.presence))

	api.GET("/ws", func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			if v, ok := sessions.Default(c).Get(sessionTokenKey).(string); ok {
				token = v
			}
		}
		log.Debug().Str("module", "adapters.http").Bool("with_token", token != "").Msg("ws signal endpoint hit")
		d.Signal.HandleSignal(ctx, c, token)
	})

	return r
}
