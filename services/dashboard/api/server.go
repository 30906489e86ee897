package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var log = logger.GetOrCreate("api")

const shutdownTimeout = 5 * time.Second

// ArgsWebServer defines the web server arguments. Replayer, History and Gatherer are optional.
type ArgsWebServer struct {
	ServiceKeyApi  string
	AuthUsername   string
	AuthPassword   string
	ListenAddress  string
	StaticDir      string
	Dashboard      Dashboard
	Events         EventSource
	Replayer       Replayer
	History        ReadingHistory
	Gatherer       prometheus.Gatherer
	GeneralHandler func(http.Handler) http.Handler
}

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	dashboard      Dashboard
	events         EventSource
	replayer       Replayer
	history        ReadingHistory
	gatherer       prometheus.Gatherer
	serviceKey     string
	username       string
	password       string
	listenAddr     string
	staticDir      string
	tokenSecret    []byte
	timeProvider   func() time.Time
	generalHandler func(http.Handler) http.Handler

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeChan chan struct{}
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Dashboard) {
		return nil, ErrNilDashboard
	}
	if check.IfNil(args.Events) {
		return nil, ErrNilEventSource
	}
	if args.GeneralHandler == nil {
		return nil, ErrNilHTTPHandler
	}
	if len(args.ServiceKeyApi) == 0 {
		return nil, ErrEmptyServiceKey
	}

	tokenSecret, err := newTokenSecret(args.ServiceKeyApi)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		dashboard:      args.Dashboard,
		events:         args.Events,
		serviceKey:     args.ServiceKeyApi,
		username:       args.AuthUsername,
		password:       args.AuthPassword,
		listenAddr:     args.ListenAddress,
		staticDir:      args.StaticDir,
		tokenSecret:    tokenSecret,
		timeProvider:   time.Now,
		generalHandler: args.GeneralHandler,
		closeChan:      make(chan struct{}),
	}
	if !check.IfNil(args.Replayer) {
		s.replayer = args.Replayer
	}
	if !check.IfNil(args.History) {
		s.history = args.History
	}
	if args.Gatherer != nil {
		s.gatherer = args.Gatherer
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	if s.gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := s.router.Group("/api")

	// diagnostic session collaborator
	collaborator := api.Group("/")
	collaborator.Use(s.authAPIKey())
	{
		collaborator.POST("/readings", s.handleReadings)
		collaborator.POST("/session/connection", s.handleSetConnection)
		collaborator.POST("/session/vehicle", s.handleSetVehicle)
		collaborator.POST("/session/trouble-codes", s.handleSetTroubleCodes)
		collaborator.POST("/session/readiness-tests", s.handleSetReadinessTests)
		collaborator.POST("/session/parameters", s.handleSetParameters)
	}

	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("/")
	protected.Use(s.authJWT())
	{
		protected.GET("/session", s.handleGetSession)
		protected.GET("/session/connection", s.handleGetConnection)
		protected.GET("/session/trouble-codes", s.handleGetTroubleCodes)
		protected.POST("/session/trouble-codes/clear", s.handleClearTroubleCodes)
		protected.GET("/session/readiness-tests", s.handleGetReadinessTests)
		protected.GET("/session/parameters", s.handleGetParameters)
		protected.GET("/session/unit-preferences", s.handleGetUnitPreferences)
		protected.POST("/session/unit-preferences", s.handleSetUnitPreferences)

		protected.GET("/cards", s.handleGetCards)
		protected.DELETE("/cards", s.handleClearCards)
		protected.POST("/cards/:name/freeze", s.handleFreezeCard)
		protected.POST("/cards/:name/expand", s.handleExpandCard)
		protected.POST("/view/pause", s.handlePause)

		protected.GET("/metrics", s.handleGetMetrics)
		protected.GET("/metrics/:name/history", s.handleGetMetricHistory)

		protected.GET("/graphs", s.handleGetGraphs)
		protected.GET("/graphs/:target", s.handleGetGraph)
		protected.POST("/graphs/:target/track", s.handleTrack)
		protected.DELETE("/graphs/:target", s.handleUntrack)

		protected.POST("/custom-metrics/validate", s.handleValidateCustomMetric)
		protected.POST("/custom-metrics", s.handleSubmitCustomMetric)

		protected.GET("/replay", s.handleGetReplay)
		protected.POST("/replay", s.handleStartReplay)

		protected.GET("/events", s.handleEvents)
	}

	if s.staticDir != "" {
		log.Info("serving static files", "dir", s.staticDir)
		s.router.Static("/static", path.Join(s.staticDir, "static"))
		s.router.StaticFile("/favicon.ico", path.Join(s.staticDir, "favicon.ico"))

		s.router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "api route not found"})
				return
			}
			c.File(path.Join(s.staticDir, "index.html"))
		})
	}
}

// Start listens and serves connections
func (s *server) Start() error {
	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return err
	}
	s.listenAddr = ln.Addr().String()

	s.httpServer = &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.generalHandler(s.router),
		ReadHeaderTimeout: shutdownTimeout,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		errServe := s.httpServer.Serve(ln)
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			log.Error("http server failed", "error", errServe)
		}
	}()

	return nil
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close ends the event streams and gracefully stops the server
func (s *server) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeChan)
	})

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		err := s.httpServer.Shutdown(ctx)
		if err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

// IsInterfaceNil returns true if there is no value under the interface
func (s *server) IsInterfaceNil() bool {
	return s == nil
}
