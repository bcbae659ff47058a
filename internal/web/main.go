package web

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/site"
	accesslog "github.com/clay-auth/clay-auth/internal/logger/adapter/fiber"
	"github.com/clay-auth/clay-auth/internal/web/handler"
	"github.com/clay-auth/clay-auth/internal/web/handler/auth/strategy"
	"github.com/clay-auth/clay-auth/internal/web/handler/login"
	"github.com/clay-auth/clay-auth/internal/web/handler/logout"
	"github.com/clay-auth/clay-auth/internal/web/handler/user"
	sitemw "github.com/clay-auth/clay-auth/internal/web/middleware/site"
	"github.com/clay-auth/clay-auth/internal/web/responses"
)

const staticPath = "/static"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the configured port.
func (s *Service) Start() error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(":" + strconv.Itoa(s.cfg.Webserver.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	go s.WaitShutdown()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Handlers are mounted once per site path, in this order.
func Handlers() []handler.Service {
	return []handler.Service{
		&login.Service{},
		&logout.Service{},
		&strategy.Service{},
		&user.Service{},
	}
}

// New creates the web service serving the sites of resolver.
func New(cfg *config.Config, deps *handler.Deps, resolver *site.Resolver) (*Service, error) {
	if cfg == nil || deps == nil || resolver == nil {
		return nil, handler.ErrNilDeps
	}

	templateEngine := html.NewFileSystem(assetDir(templatesDir), templatesExt)

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New(devTemplateDir, templatesExt)
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize:        8192,
			AppName:               cfg.Title,
			CaseSensitive:         true,
			Prefork:               false,
			Immutable:             true,
			Views:                 templateEngine,
			ErrorHandler:          responses.ErrorHandler,
			DisableStartupMessage: !cfg.DevMode,
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: cfg.Webserver.CheckAliveURI,
		LocalsFields:  map[string]string{"site": sitemw.LocalSlug},
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(encryptcookie.New(encryptcookie.Config{Key: cookieKey(cfg.Session.Secret)}))

	app.Get(cfg.Webserver.CheckAliveURI, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get(cfg.Webserver.MetricsURI, adaptor.HTTPHandler(promhttp.Handler()))

	// serve embedded static files
	app.Use(staticPath,
		filesystem.New(
			filesystem.Config{
				Root:   assetDir(staticDir),
				Browse: cfg.Webserver.BrowseStatic,
			},
		),
	)

	siteResolver := sitemw.New(resolver)
	app.Use(func(c *fiber.Ctx) error {
		if isInfraPath(cfg, c.Path()) {
			return c.Next()
		}

		return siteResolver(c)
	})

	app.Use(deps.Auth.Deserialize, deps.Auth.Protect)

	for _, prefix := range resolver.RoutePrefixes() {
		router := app.Group(prefix)

		for _, h := range Handlers() {
			if err := h.Init(router, prefix, deps); err != nil {
				return nil, fmt.Errorf("failed to mount handlers at %q: %w", prefix, err)
			}
		}

		log.Debug().Str("prefix", prefix).Msg("auth routes mounted")
	}

	return service, nil
}

func isInfraPath(cfg *config.Config, path string) bool {
	return path == cfg.Webserver.CheckAliveURI ||
		path == cfg.Webserver.MetricsURI ||
		strings.HasPrefix(path, staticPath+"/")
}

// cookieKey derives the 32 byte cookie encryption key from the session secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))

	return base64.StdEncoding.EncodeToString(sum[:])
}
