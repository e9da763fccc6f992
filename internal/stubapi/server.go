// Package stubapi is a small order-management and hosted-payment API used in
// development and tests. It speaks the same JSON as the real collaborators.
package stubapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/orders"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/payments"
)

type Options struct {
	PublicURL    string // base of the hosted payment page URLs
	APIKey       string // when set, payment calls must send it as bearer token
	RequireToken bool   // when set, order calls must carry a bearer token
	Now          func() time.Time
	Logger       *slog.Logger
}

// Faults makes the next calls fail with the given status. Zero disables.
type Faults struct {
	OrderStatus   int
	SessionStatus int
	VerifyStatus  int
}

type Server struct {
	repo   *Repo
	opts   Options
	logger *slog.Logger

	mu     sync.Mutex
	faults Faults
	counts map[string]int
}

func New(db *gorm.DB, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.PublicURL = strings.TrimRight(opts.PublicURL, "/")
	return &Server{
		repo:   NewRepo(db, opts.Now),
		opts:   opts,
		logger: opts.Logger,
		counts: map[string]int{},
	}
}

func (s *Server) Repo() *Repo { return s.repo }

func (s *Server) SetFaults(f Faults) {
	s.mu.Lock()
	s.faults = f
	s.mu.Unlock()
}

// Calls reports how many times a route was hit, keyed by "METHOD /path".
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[route]
}

func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.count)

	r.POST("/orders", s.createOrder)
	r.GET("/orders/:id", s.getOrder)

	pay := r.Group("/payments", s.requireAPIKey)
	pay.POST("/create-checkout-session", s.createSession)
	pay.GET("/verify-session", s.verifySession)
	pay.POST("/sessions/:id/complete", s.completeSession)
	return r
}

func (s *Server) count(c *gin.Context) {
	s.mu.Lock()
	s.counts[c.Request.Method+" "+c.FullPath()]++
	s.mu.Unlock()
	c.Next()
}

func (s *Server) fault(pick func(Faults) int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pick(s.faults)
}

func (s *Server) requireAPIKey(c *gin.Context) {
	if s.opts.APIKey != "" && bearer(c) != s.opts.APIKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid api key"})
		return
	}
	c.Next()
}

func (s *Server) createOrder(c *gin.Context) {
	if st := s.fault(func(f Faults) int { return f.OrderStatus }); st != 0 {
		c.JSON(st, gin.H{"message": "injected failure"})
		return
	}
	token := bearer(c)
	if s.opts.RequireToken && token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized, no token"})
		return
	}

	var sub orders.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order body"})
		return
	}
	if len(sub.OrderItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no order items"})
		return
	}
	if sub.PaymentMethod != orders.PaymentCash && sub.PaymentMethod != orders.PaymentCard {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown payment method"})
		return
	}

	o, err := s.repo.CreateOrder(c.Request.Context(), sub, token)
	if err != nil {
		s.internal(c, "create order", err)
		return
	}
	s.logger.InfoContext(c.Request.Context(), "stub order created", "order_id", o.ID, "order_number", o.OrderNumber)
	c.JSON(http.StatusCreated, o)
}

func (s *Server) getOrder(c *gin.Context) {
	token := bearer(c)
	if s.opts.RequireToken && token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized, no token"})
		return
	}
	o, owner, err := s.repo.GetOrder(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	if err != nil {
		s.internal(c, "get order", err)
		return
	}
	if s.opts.RequireToken && owner != token {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your order"})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) createSession(c *gin.Context) {
	if st := s.fault(func(f Faults) int { return f.SessionStatus }); st != 0 {
		c.JSON(st, gin.H{"message": "injected failure"})
		return
	}
	var req payments.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid session request"})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "amount must be positive"})
		return
	}

	row, err := s.repo.CreateSession(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": "order is not payable"})
		return
	case err != nil:
		s.internal(c, "create session", err)
		return
	}
	c.JSON(http.StatusOK, payments.Session{ID: row.ID, URL: s.opts.PublicURL + "/pay/" + row.ID})
}

func (s *Server) verifySession(c *gin.Context) {
	if st := s.fault(func(f Faults) int { return f.VerifyStatus }); st != 0 {
		c.JSON(st, gin.H{"message": "injected failure"})
		return
	}
	row, err := s.repo.GetSession(c.Request.Context(), c.Query("session_id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "session not found"})
		return
	}
	if err != nil {
		s.internal(c, "verify session", err)
		return
	}
	c.JSON(http.StatusOK, row.toStatus())
}

// completeSession plays the shopper paying on the hosted page. It answers
// with the success URL the provider would redirect to.
func (s *Server) completeSession(c *gin.Context) {
	row, err := s.repo.CompleteSession(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "session not found"})
		return
	case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"message": "session is not payable"})
		return
	case err != nil:
		s.internal(c, "complete session", err)
		return
	}
	redirect := strings.ReplaceAll(row.SuccessURL, "{CHECKOUT_SESSION_ID}", row.ID)
	c.JSON(http.StatusOK, gin.H{"status": row.toStatus(), "redirectUrl": redirect})
}

func (s *Server) internal(c *gin.Context, op string, err error) {
	s.logger.ErrorContext(c.Request.Context(), "stub api failure", "op", op, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(tok)
	}
	return ""
}
