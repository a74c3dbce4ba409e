// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mockagent

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/MarcusDavidG/AI-agent/internal/agent"
	"github.com/MarcusDavidG/AI-agent/internal/config"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// InputPlaceholder in a reply is replaced by the submitted input.
const InputPlaceholder = "{input}"

// maxBodyBytes bounds a request body.
const maxBodyBytes = 1 << 20

// Config controls the mock agent server.
type Config struct {
	// Path of the request endpoint (default: /api/agent/request)
	Path string

	// Reply is the canned answer. InputPlaceholder is substituted.
	Reply string

	// Delay before answering, to exercise the loading states.
	Delay time.Duration

	// APIKey, when set, must be presented in APIKeyHeader.
	APIKey       string
	APIKeyHeader string

	// RequestsPerMinute per client IP. 0 disables the limiter.
	RequestsPerMinute int

	// LogOutput receives one access log line per request. Nil discards.
	LogOutput io.Writer
}

// DefaultConfig returns a server answering instantly with the default
// canned reply.
func DefaultConfig() Config {
	def := config.Default()
	return Config{
		Path:         def.Agent.Path,
		Reply:        def.UI.MockReply,
		APIKeyHeader: def.Agent.APIKeyHeader,
		LogOutput:    os.Stdout,
	}
}

// ConfigFromApp mirrors an agentchat configuration so the client and the
// mock agree on path, key and reply.
func ConfigFromApp(cfg *config.Config) Config {
	c := DefaultConfig()
	c.Path = cfg.Agent.Path
	c.Reply = cfg.UI.MockReply
	c.Delay = cfg.MockDelay()
	c.APIKey = cfg.Agent.APIKey
	c.APIKeyHeader = cfg.Agent.APIKeyHeader
	return c
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Path == "" {
		c.Path = def.Path
	}
	if c.Reply == "" {
		c.Reply = def.Reply
	}
	if c.APIKeyHeader == "" {
		c.APIKeyHeader = def.APIKeyHeader
	}
	if c.LogOutput == nil {
		c.LogOutput = io.Discard
	}
	return c
}

// =============================================================================
// APP
// =============================================================================

// New builds the fiber app serving the agent endpoint and /health.
func New(cfg Config) *fiber.App {
	cfg = cfg.withDefaults()

	app := fiber.New(fiber.Config{
		AppName:               "agentchat mock agent",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		IdleTimeout:           30 * time.Second,
		BodyLimit:             maxBodyBytes,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		Output:     cfg.LogOutput,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	var handlers []fiber.Handler
	if cfg.RequestsPerMinute > 0 {
		handlers = append(handlers, RateLimit(cfg.RequestsPerMinute, time.Minute))
	}
	if cfg.APIKey != "" {
		handlers = append(handlers, APIKey(cfg.APIKeyHeader, cfg.APIKey))
	}
	handlers = append(handlers, replyHandler(cfg))
	app.Post(cfg.Path, handlers...)

	return app
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// APIKey rejects requests that do not carry key in header.
func APIKey(header, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(header)
		if got == "" || got != key {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid api key"})
		}
		return c.Next()
	}
}

// RateLimit allows max requests per window and client IP.
func RateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		},
	})
}

// =============================================================================
// HANDLER
// =============================================================================

func replyHandler(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req agent.Request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if strings.TrimSpace(req.Input) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "input is required"})
		}

		if cfg.Delay > 0 {
			time.Sleep(cfg.Delay)
		}

		reply := strings.ReplaceAll(cfg.Reply, InputPlaceholder, req.Input)
		return c.JSON(agent.NewEnvelope(req.Input, reply))
	}
}
