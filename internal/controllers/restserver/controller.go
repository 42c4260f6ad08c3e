package restserver

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"sync"

	"github.com/chrissnell/ecadweather/internal/chart"
	"github.com/chrissnell/ecadweather/internal/log"
	"github.com/chrissnell/ecadweather/internal/stations"
	"github.com/chrissnell/ecadweather/internal/storage"
	"github.com/chrissnell/ecadweather/pkg/config"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	Repo       storage.Repository
	Catalog    *stations.Catalog
	Chart      *chart.Renderer
	templates  *htmltemplate.Template
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, repo storage.Repository, catalog *stations.Catalog, logger *zap.SugaredLogger) (*Controller, error) {
	if repo == nil {
		return nil, fmt.Errorf("REST server requires a station repository")
	}
	if catalog == nil {
		catalog = stations.NewCatalog(nil)
	}

	rc := cfg.RESTServer

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("rest.listen-addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = config.DefaultListenAddr
	}

	// Set default HTTP port if not specified
	if rc.Port == 0 {
		logger.Infof("rest.port not provided; defaulting to %d", config.DefaultHTTPPort)
		rc.Port = config.DefaultHTTPPort
	}

	if rc.PageTitle == "" {
		rc.PageTitle = config.DefaultPageTitle
	}

	tmpl, err := htmltemplate.ParseFS(GetAssets(), "index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("error parsing REST server templates: %v", err)
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		Repo:       repo,
		Catalog:    catalog,
		Chart:      chart.NewRenderer(cfg.Chart.Width, cfg.Chart.Height),
		templates:  tmpl,
		logger:     logger,
	}

	// Create handlers
	ctrl.handlers = NewHandlers(ctrl)

	// Set up router
	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(log.GetZapLogger())),
		handlers.PrintRecoveryStack(true),
	)(router)

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Infof("Starting REST server controller on %s (storage: %s, %d stations)...", c.Server.Addr, c.Repo.Name(), c.Catalog.Len())
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(c.requestLogMiddleware)

	router.HandleFunc("/api/v1/annual/{station}/{year}", c.handlers.GetAnnual).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/{station}/{date}", c.handlers.GetStationDate).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/{station}", c.handlers.GetStation).Methods(http.MethodGet)
	router.HandleFunc("/visualization/{station}/{year}", c.handlers.GetVisualization).Methods(http.MethodGet)

	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)
	router.HandleFunc("/", c.handlers.ServeIndexTemplate).Methods(http.MethodGet)

	return router
}
