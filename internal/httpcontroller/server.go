// Package httpcontroller serves the FoundBox web UI and JSON API with echo.
package httpcontroller

import (
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/foundbox/foundbox/internal/capture"
	"github.com/foundbox/foundbox/internal/conf"
	"github.com/foundbox/foundbox/internal/labels"
	"github.com/foundbox/foundbox/internal/logging"
	"github.com/foundbox/foundbox/internal/store"
)

//go:embed templates/*.html
var templateFiles embed.FS

// gameSessionTTL is how long an untouched game session survives before the
// cache evicts it.
const gameSessionTTL = 30 * time.Minute

// Controller manages the web routes and their shared dependencies.
type Controller struct {
	Echo      *echo.Echo
	Settings  *conf.Settings
	Store     *store.Store
	Labels    labels.Table
	Predictor capture.Predictor // nil when the model could not be loaded

	gameSessions *cache.Cache
	logger       *slog.Logger
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithPredictor attaches the classifier. Passing nil leaves classification
// disabled; every page stays usable.
func WithPredictor(p capture.Predictor) Option {
	return func(c *Controller) {
		c.Predictor = p
	}
}

// New creates the controller and registers all routes.
func New(settings *conf.Settings, st *store.Store, table labels.Table, opts ...Option) (*Controller, error) {
	c := &Controller{
		Echo:         echo.New(),
		Settings:     settings,
		Store:        st,
		Labels:       table,
		gameSessions: cache.New(gameSessionTTL, 10*time.Minute),
		logger:       logging.ForService("http"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Echo.HideBanner = true
	c.Echo.Use(middleware.Recover())
	if settings.Server.Debug {
		c.Echo.Use(middleware.Logger())
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	c.Echo.Renderer = &templateRenderer{templates: tmpl}

	c.initRoutes()
	return c, nil
}

// Start runs the server until it fails or is shut down.
func (c *Controller) Start() error {
	c.logger.Info("starting web server", "address", c.Settings.Server.Address)
	return c.Echo.Start(c.Settings.Server.Address)
}

func (c *Controller) initRoutes() {
	// Pages
	c.Echo.GET("/", c.capturePage)
	c.Echo.GET("/records", c.recordsPage)
	c.Echo.GET("/search", c.searchPage)
	c.Echo.GET("/game", c.gamePage)
	c.Echo.POST("/records/:id/collect", c.collectForm)

	// Saved photos
	c.Echo.Static("/images", c.Settings.Store.ImageDir)

	// JSON API
	api := c.Echo.Group("/api/v1")
	api.POST("/classify", c.classifyUpload)
	api.GET("/items", c.listItems)
	api.POST("/items", c.saveItem)
	api.DELETE("/items/:id", c.deleteItem)
	api.GET("/search", c.searchItems)
	api.POST("/game", c.startGame)
	api.GET("/game/:id", c.gameState)
	api.POST("/game/:id/guess", c.gameGuess)
	api.POST("/game/:id/advance", c.gameAdvance)
	api.POST("/game/:id/restart", c.gameRestart)
}

// templateRenderer adapts html/template to echo's Renderer interface.
type templateRenderer struct {
	templates *template.Template
}

func (t *templateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

// errorResponse is the uniform JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(ctx echo.Context, code int, msg string) error {
	return ctx.JSON(code, errorResponse{Error: msg})
}

// newWorkflow builds a capture workflow bound to the controller's
// dependencies for one request.
func (c *Controller) newWorkflow() *capture.Workflow {
	return capture.New(c.Labels, c.Predictor, c.Store, c.Settings.Store.ImageDir, c.Settings.Today())
}

// internalError logs err and returns a generic 500 so internals stay out of
// responses.
func (c *Controller) internalError(ctx echo.Context, err error) error {
	c.logger.Error("request failed", "path", ctx.Path(), "error", err)
	return jsonError(ctx, http.StatusInternalServerError, "internal error")
}
