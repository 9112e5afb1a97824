package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"goclinic/config"
	"goclinic/internal/pkg/cache"
	"goclinic/internal/pkg/database"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"goclinic/internal/api/auth"
	"goclinic/internal/api/customer"
	"goclinic/internal/api/payment"
	"goclinic/internal/api/professional"
	"goclinic/internal/api/router"
	"goclinic/internal/api/schedule"
	"goclinic/internal/api/user"
	"goclinic/internal/repository/customerrepo"
	"goclinic/internal/repository/paymentrepo"
	"goclinic/internal/repository/professionalrepo"
	"goclinic/internal/repository/schedulerepo"
	"goclinic/internal/repository/userrepo"
	"goclinic/internal/service/authservice"
	"goclinic/internal/service/customerservice"
	"goclinic/internal/service/paymentservice"
	"goclinic/internal/service/professionalservice"
	"goclinic/internal/service/scheduleservice"
	"goclinic/internal/service/userservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço GoClinic...")

	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não for encontrado, avisamos mas continuamos:
		// as variáveis essenciais podem estar no ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	appLog.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	appLog.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Repository -> Service -> Handler)
	// O repositório é construído uma vez aqui e passado por referência:
	// nenhuma camada faz lookup global de conexão.

	// Agendamentos (o núcleo: disponibilidade + orquestração)
	scheduleRepo := schedulerepo.NewScheduleRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, appLog)
	scheduleSvc := scheduleservice.NewService(scheduleRepo, appLog)
	scheduleHandler := schedule.NewHandler(scheduleSvc, appLog)
	appLog.Debug("Módulo de Agendamentos inicializado.", nil)

	// Contas da equipe
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)
	userSvc := userservice.NewService(userRepo, cfg.OwnerEmail, appLog)
	userHandler := user.NewHandler(userSvc, appLog)
	appLog.Debug("Módulo de Usuários inicializado.", nil)

	// Autenticação
	authSvc := authservice.NewService(userRepo, tokenSvc, appLog)
	authHandler := auth.NewHandler(authSvc, appLog)
	appLog.Debug("Módulo de Autenticação inicializado.", nil)

	// Profissionais
	professionalRepo := professionalrepo.NewProfessionalRepository(db, cfg.DBTimeout, appLog)
	professionalSvc := professionalservice.NewService(professionalRepo, appLog)
	professionalHandler := professional.NewHandler(professionalSvc, appLog)
	appLog.Debug("Módulo de Profissionais inicializado.", nil)

	// Clientes
	customerRepo := customerrepo.NewCustomerRepository(db, cfg.DBTimeout, appLog)
	customerSvc := customerservice.NewService(customerRepo, appLog)
	customerHandler := customer.NewHandler(customerSvc, appLog)
	appLog.Debug("Módulo de Clientes inicializado.", nil)

	// Pagamentos
	paymentRepo := paymentrepo.NewPaymentRepository(db, cfg.DBTimeout, appLog)
	paymentSvc := paymentservice.NewService(paymentRepo, appLog)
	paymentHandler := payment.NewHandler(paymentSvc, appLog)
	appLog.Debug("Módulo de Pagamentos inicializado.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(router.Handlers{
		Auth:         authHandler,
		Schedule:     scheduleHandler,
		User:         userHandler,
		Professional: professionalHandler,
		Customer:     customerHandler,
		Payment:      paymentHandler,
	}, tokenSvc, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor GoClinic ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
