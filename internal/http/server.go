package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fingenius/internal/auth"
	"fingenius/internal/cache"
	"fingenius/internal/core"
	applog "fingenius/internal/log"
	"fingenius/internal/middleware/ratelimit"
	"fingenius/internal/middleware/security"
	"fingenius/internal/middleware/trace"
	"fingenius/internal/services"
	appweb "fingenius/web"
)

// Store is everything the handlers need from the storage layer.
type Store interface {
	CreateUser(ctx context.Context, u core.User) (core.User, error)
	UserByID(ctx context.Context, id int64) (core.User, error)
	UserByUsername(ctx context.Context, username string) (core.User, error)
	UserByEmail(ctx context.Context, email string) (core.User, error)

	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error

	CreateIncome(ctx context.Context, in core.Income) (core.Income, error)
	ListIncomes(ctx context.Context, userID int64) ([]core.Income, error)
	DeleteIncome(ctx context.Context, userID, id int64) error

	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
	GoalByID(ctx context.Context, userID, id int64) (core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, userID, id int64) error

	CreateInvestment(ctx context.Context, inv core.Investment) (core.Investment, error)
	ListInvestments(ctx context.Context, userID int64) ([]core.Investment, error)
	InvestmentByID(ctx context.Context, userID, id int64) (core.Investment, error)
	UpdateInvestment(ctx context.Context, inv core.Investment) error
	DeleteInvestment(ctx context.Context, userID, id int64) error

	ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)
	UpsertBudget(ctx context.Context, userID int64, category string, amountCents int64) error
	SeedDefaultBudgets(ctx context.Context, userID int64) error
}

// Options tunes server behaviour from config.
type Options struct {
	// Requests per minute per IP on the login and register endpoints.
	LoginRateLimit int
	// BcryptCost for password hashing; 0 means the library default.
	BcryptCost int
}

type Server struct {
	http.Server
	store      Store
	tokens     *auth.TokenIssuer
	summaries  *services.SummaryService
	templates  *template.Template
	bcryptCost int

	loginLimiter *ratelimit.Limiter
	cacheManager *cache.Manager
	detector     *security.Detector
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, store Store, tokens *auth.TokenIssuer, summaries *services.SummaryService, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		store:      store,
		tokens:     tokens,
		summaries:  summaries,
		bcryptCost: opts.BcryptCost,
		loginLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.LoginRateLimit,
		}),
		cacheManager: cache.NewManager(),
		detector:     security.NewDetector(),
	}

	s.cacheManager.Register(summaries.Cache())
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Credential endpoints, rate limited per IP
	limited := s.loginLimiter.Middleware(s.detector.ExtractClientIP, nil)
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.Handle("POST /login", limited(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("GET /register", s.handleRegisterPage)
	mux.Handle("POST /register", limited(http.HandlerFunc(s.handleRegister)))
	mux.HandleFunc("GET /logout", s.handleLogout)

	// HTML pages
	mux.HandleFunc("GET /{$}", s.requirePage(s.handleDashboard))
	mux.HandleFunc("GET /expenses", s.requirePage(s.handleExpensesPage))
	mux.HandleFunc("POST /expenses", s.requirePage(s.handleExpenseForm))
	mux.HandleFunc("POST /expenses/{id}/delete", s.requirePage(s.handleExpenseDeleteForm))
	mux.HandleFunc("GET /income", s.requirePage(s.handleIncomePage))
	mux.HandleFunc("POST /income", s.requirePage(s.handleIncomeForm))
	mux.HandleFunc("POST /income/{id}/delete", s.requirePage(s.handleIncomeDeleteForm))
	mux.HandleFunc("GET /goals", s.requirePage(s.handleGoalsPage))
	mux.HandleFunc("POST /goals", s.requirePage(s.handleGoalForm))
	mux.HandleFunc("POST /goals/{id}", s.requirePage(s.handleGoalUpdateForm))
	mux.HandleFunc("POST /goals/{id}/delete", s.requirePage(s.handleGoalDeleteForm))
	mux.HandleFunc("GET /investments", s.requirePage(s.handleInvestmentsPage))
	mux.HandleFunc("POST /investments", s.requirePage(s.handleInvestmentForm))
	mux.HandleFunc("POST /investments/{id}", s.requirePage(s.handleInvestmentUpdateForm))
	mux.HandleFunc("POST /investments/{id}/delete", s.requirePage(s.handleInvestmentDeleteForm))
	mux.HandleFunc("GET /budget", s.requirePage(s.handleBudgetPage))
	mux.HandleFunc("POST /budget", s.requirePage(s.handleBudgetForm))
	mux.HandleFunc("GET /suggestions", s.requirePage(s.handleSuggestionsPage))

	// JSON API
	mux.HandleFunc("GET /api/expenses", s.requireAPI(s.apiListExpenses))
	mux.HandleFunc("POST /api/expenses", s.requireAPI(s.apiCreateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.requireAPI(s.apiDeleteExpense))
	mux.HandleFunc("GET /api/incomes", s.requireAPI(s.apiListIncomes))
	mux.HandleFunc("POST /api/incomes", s.requireAPI(s.apiCreateIncome))
	mux.HandleFunc("DELETE /api/incomes/{id}", s.requireAPI(s.apiDeleteIncome))
	mux.HandleFunc("GET /api/goals", s.requireAPI(s.apiListGoals))
	mux.HandleFunc("POST /api/goals", s.requireAPI(s.apiCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.requireAPI(s.apiUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.requireAPI(s.apiDeleteGoal))
	mux.HandleFunc("GET /api/investments", s.requireAPI(s.apiListInvestments))
	mux.HandleFunc("POST /api/investments", s.requireAPI(s.apiCreateInvestment))
	mux.HandleFunc("PUT /api/investments/{id}", s.requireAPI(s.apiUpdateInvestment))
	mux.HandleFunc("DELETE /api/investments/{id}", s.requireAPI(s.apiDeleteInvestment))
	mux.HandleFunc("GET /api/budget", s.requireAPI(s.apiGetBudget))
	mux.HandleFunc("POST /api/budget", s.requireAPI(s.apiUpsertBudget))
	mux.HandleFunc("GET /api/summary", s.requireAPI(s.apiSummary))
	mux.HandleFunc("GET /api/suggestions", s.requireAPI(s.apiSuggestions))

	// Outer middleware: request tracing, security headers, context logger,
	// probe detection. Tracing runs first so the request ID is available to
	// everything below it.
	httpLogger := applog.New(applog.Config{Component: applog.ComponentHTTP})
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP, httpLogger)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	requestLogger := applog.Middleware(httpLogger)
	requestID := applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})

	handler := s.detector.Middleware(mux)
	handler = requestID(handler)
	handler = requestLogger(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.loginLimiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
