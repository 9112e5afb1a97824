package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// AuthService define o contrato que o Handler espera da camada de Serviço.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (domain.AuthData, error)
}

// Handler lida com o endpoint de login.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de autenticação.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// AuthenticateHandler lida com POST /auth.
// @Summary Autentica um usuário da equipe
// @Description Verifica e-mail e senha e devolve o token de acesso.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body domain.Credentials true "E-mail e senha"
// @Success 200 {object} domain.AuthData "Login realizado"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /auth [post]
func (h *Handler) AuthenticateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var credentials domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		h.writeError(w, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."))
		return
	}

	authData, err := h.Service.Authenticate(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(authData); err != nil {
		h.Logger.Error("Falha ao codificar JSON de resposta", err)
	}
}

// writeError envia a resposta de erro padronizada.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}
