package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fathima-sithara/chat-realtime/internal/store"
	"github.com/fathima-sithara/chat-realtime/internal/ws"
)

type Server struct {
	gw store.Gateway
}

// New assembles the fiber app: the websocket upgrade route plus the
// small operational surface (health, metrics, channel reads).
func New(wsSrv *ws.Server, gw store.Gateway) *fiber.App {
	app := fiber.New()
	app.Use(logger.New())
	s := &Server{gw: gw}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")
	v1.Get("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	v1.Get("/ws", websocket.New(wsSrv.Handle()))

	v1.Get("/channels/:channel_id", s.getChannel)

	return app
}

func (s *Server) getChannel(c *fiber.Ctx) error {
	channel, err := s.gw.GetChannelWithMembers(c.Context(), c.Params("channel_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"status": "success", "data": channel})
}
