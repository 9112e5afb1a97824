package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// UserService define o contrato que o Handler espera da camada de Serviço.
type UserService interface {
	GetUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	CreateUser(ctx context.Context, input domain.UserInput) (domain.User, error)
	UpdateUser(ctx context.Context, input domain.UserInput) (domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de contas da equipe.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// CollectionHandler lida com GET (listagem) e POST (criação) em /v1/users.
// @Summary Lista ou cria contas da equipe
// @Description Administração de contas: exige papel SUPERADMIN ou OWNER.
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {array} domain.User "Contas da equipe"
// @Success 201 {object} domain.User "Conta criada"
// @Failure 401 {object} domain.ErrorResponse "Erro de autenticação"
// @Security ApiKeyAuth
// @Router /users [get]
func (h *Handler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		users, err := h.Service.GetUsers(r.Context())
		if err == nil && users == nil {
			users = []domain.User{}
		}
		h.handleServiceResponse(w, r, users, err, http.StatusOK)
	case http.MethodPost:
		var input domain.UserInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
			return
		}
		created, err := h.Service.CreateUser(r.Context(), input)
		h.handleServiceResponse(w, r, created, err, http.StatusCreated)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// ItemHandler lida com GET, PUT e DELETE em /v1/users/{id}.
func (h *Handler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/users/")

	switch r.Method {
	case http.MethodGet:
		user, err := h.Service.GetUserByID(r.Context(), id)
		h.handleServiceResponse(w, r, user, err, http.StatusOK)
	case http.MethodPut:
		var input domain.UserInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
			return
		}
		input.ID = id
		updated, err := h.Service.UpdateUser(r.Context(), input)
		h.handleServiceResponse(w, r, updated, err, http.StatusOK)
	case http.MethodDelete:
		err := h.Service.DeleteUser(r.Context(), id)
		h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}
