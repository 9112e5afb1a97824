package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"goclinic/internal/api/auth"
	"goclinic/internal/api/customer"
	"goclinic/internal/api/payment"
	"goclinic/internal/api/professional"
	"goclinic/internal/api/schedule"
	"goclinic/internal/api/user"
	"goclinic/internal/pkg/cache"
	"goclinic/internal/pkg/middleware"
)

// Handlers agrupa os Handlers já inicializados por injeção de dependências.
type Handlers struct {
	Auth         *auth.Handler
	Schedule     *schedule.Handler
	User         *user.Handler
	Professional *professional.Handler
	Customer     *customer.Handler
	Payment      *payment.Handler
}

// NewRouter configura e retorna o roteador HTTP principal.
//
// Usamos o ServeMux padrão do net/http para roteamento. Todas as rotas /v1
// passam pelo middleware de autenticação (token + guard de papel); /auth e
// /ping são públicas. O rate limiter envolve tudo.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, rateLimit int, ratePeriod time.Duration) http.Handler {
	mux := http.NewServeMux()

	// --- 1. Rotas públicas ---
	mux.HandleFunc("/ping", PingHandler)
	mux.HandleFunc("/auth", h.Auth.AuthenticateHandler)
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// --- 2. Rotas protegidas (v1) ---
	authMw := middleware.NewAuthMiddleware(tokenSvc)

	protect := func(next http.HandlerFunc) http.Handler {
		return authMw(next)
	}

	// Agendamentos
	mux.Handle("/v1/schedules", protect(h.Schedule.CollectionHandler))
	mux.Handle("/v1/schedules/", protect(h.Schedule.ItemHandler))

	// Contas da equipe (o guard exige SUPERADMIN ou OWNER nesta família)
	mux.Handle("/v1/users", protect(h.User.CollectionHandler))
	mux.Handle("/v1/users/", protect(h.User.ItemHandler))

	// Profissionais
	mux.Handle("/v1/professionals", protect(h.Professional.CollectionHandler))
	mux.Handle("/v1/professionals/", protect(h.Professional.ItemHandler))

	// Clientes
	mux.Handle("/v1/customers", protect(h.Customer.CollectionHandler))
	mux.Handle("/v1/customers/", protect(h.Customer.ItemHandler))

	// Pagamentos
	mux.Handle("/v1/payments", protect(h.Payment.CollectionHandler))
	mux.Handle("/v1/payments/", protect(h.Payment.ItemHandler))

	// --- 3. Middlewares globais ---
	return middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
