package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"milk-admin/src/inventory"
	"milk-admin/src/logger"
	"milk-admin/src/models"
	"milk-admin/src/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// ISyncTrigger is the part of the sync loop the API exposes.
type ISyncTrigger interface {
	Refresh(ctx context.Context) error
	Status() models.MSyncStatus
}

// -----------------------------------------------------------------------------
// FastAPIServer
// -----------------------------------------------------------------------------

type FastAPIServer struct {
	Config    *models.MConfig
	Logger    *logger.Logger
	Services  *services.Services
	Inventory *inventory.InventoryManager
	Sync      ISyncTrigger // nil when sync is disabled

	engine     *gin.Engine
	handler    http.Handler
	httpServer *http.Server

	// WebSocket clients
	clients    map[*subscriber]struct{}
	broadcast  chan models.MStateUpdate
	register   chan *subscriber
	unregister chan *subscriber
	subscribe  chan subscribeRequest
	done       chan struct{}
	stopOnce   sync.Once

	// Latest message per stream, replayed to new clients
	latest     map[string]models.MStateUpdate
	stateMutex sync.RWMutex
	connCount  int

	forwarders sync.WaitGroup
	unsubs     []func()
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewFastAPIServer(
	cfg *models.MConfig,
	svc *services.Services,
	inv *inventory.InventoryManager,
	syncer ISyncTrigger,
	log *logger.Logger,
) *FastAPIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.NewLogger(cfg, "FastAPIServer")
	}

	s := &FastAPIServer{
		Config:    cfg,
		Logger:    log,
		Services:  svc,
		Inventory: inv,
		Sync:      syncer,
		engine:    gin.New(),
		clients:   make(map[*subscriber]struct{}),
		// Buffered so bursts of signal updates do not stall publishers
		broadcast:  make(chan models.MStateUpdate, 256),
		register:   make(chan *subscriber),
		unregister: make(chan *subscriber),
		subscribe:  make(chan subscribeRequest),
		done:       make(chan struct{}),
		latest:     make(map[string]models.MStateUpdate),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://127.0.0.1:*", "http://localhost:*"}
	}
	s.handler = cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
	}).Handler(s.engine)

	return s
}

// Handler is the CORS-wrapped router.
func (s *FastAPIServer) Handler() http.Handler {
	return s.handler
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *FastAPIServer) setupRoutes() {
	api := s.engine.Group("/api")

	api.GET("/health", s.getHealth)
	api.GET("/inventory", s.getInventory)
	api.GET("/stock-summary", s.getStockSummary)
	api.GET("/earnings-summary", s.getEarningsSummary)
	api.GET("/dashboard", s.getDashboard)
	api.GET("/analytics", s.getAnalytics)
	api.GET("/sync", s.getSyncStatus)
	api.POST("/sync", s.postSync)

	cows := api.Group("/cows")
	cows.GET("", s.listCows)
	cows.POST("", s.createCow)
	cows.GET("/:id", s.getCow)
	cows.PUT("/:id", s.updateCow)
	cows.DELETE("/:id", s.deleteCow)
	cows.POST("/:id/archive", s.archiveCow)
	cows.PUT("/:id/health", s.updateCowHealth)
	cows.GET("/:id/eligibility", s.cowEligibility)
	cows.GET("/:id/production", s.cowProduction)
	cows.GET("/:id/average", s.cowAverage)

	members := api.Group("/members")
	members.GET("", s.listMembers)
	members.POST("", s.createMember)
	members.GET("/:id", s.getMember)
	members.PUT("/:id", s.updateMember)
	members.DELETE("/:id", s.deleteMember)
	members.GET("/:id/production", s.memberProduction)

	customers := api.Group("/customers")
	customers.GET("", s.listCustomers)
	customers.POST("", s.createCustomer)
	customers.PUT("/:id", s.updateCustomer)
	customers.DELETE("/:id", s.deleteCustomer)

	api.GET("/milk-in", s.listMilkIn)
	api.POST("/milk-in", s.addMilkIn)
	api.DELETE("/milk-in/:id", s.deleteMilkIn)

	api.GET("/milk-out", s.listMilkOut)
	api.POST("/milk-out", s.sellMilk)
	api.DELETE("/milk-out/:id", s.deleteMilkOut)

	api.GET("/milk-spoilt", s.listSpoilage)
	api.POST("/milk-spoilt", s.recordSpoilage)
	api.DELETE("/milk-spoilt/:id", s.deleteSpoilage)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

func (s *FastAPIServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Run starts the hub and the signal forwarders without listening. Start calls
// it; tests use it with Handler.
func (s *FastAPIServer) Run() {
	go s.handleWebsockets()
	if s.Inventory != nil {
		s.forwardSignals()
	}
}

// Start serves HTTP until Stop is called.
func (s *FastAPIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	s.Run()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = s.httpServer.Shutdown(ctx)
		}
		for _, unsub := range s.unsubs {
			unsub()
		}
		s.forwarders.Wait()
		close(s.done)
		s.Logger.Info("Server stopped")
	})
	return err
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *FastAPIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := s.connCount
	s.stateMutex.RUnlock()

	resp := gin.H{
		"status":      "ok",
		"connections": connections,
		"initialized": s.Inventory.IsInitialized(),
	}
	if s.Sync != nil {
		st := s.Sync.Status()
		resp["last_sync"] = st.LastSync
		if st.LastError != "" {
			resp["status"] = "degraded"
			resp["last_error"] = st.LastError
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *FastAPIServer) getInventory(c *gin.Context) {
	c.JSON(http.StatusOK, s.Inventory.Inventory())
}

func (s *FastAPIServer) getStockSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.Inventory.StockSummary())
}

func (s *FastAPIServer) getEarningsSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.Inventory.Earnings())
}

func (s *FastAPIServer) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, s.Services.Dashboard.Snapshot(c.Request.Context()))
}

func (s *FastAPIServer) getAnalytics(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	a, err := s.Services.Dashboard.Analytics(c.Request.Context(), date)
	respond(c, http.StatusOK, a, err)
}

func (s *FastAPIServer) getSyncStatus(c *gin.Context) {
	if s.Sync == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Sync is disabled", "kind": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, s.Sync.Status())
}

func (s *FastAPIServer) postSync(c *gin.Context) {
	if s.Sync == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Sync is disabled", "kind": "unavailable"})
		return
	}
	err := s.Sync.Refresh(c.Request.Context())
	respond(c, http.StatusOK, s.Sync.Status(), err)
}
