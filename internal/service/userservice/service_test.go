package userservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/service/userservice"
)

const ownerEmail = "dono@clinica.com"

// MockUserRepository é uma implementação mock da interface UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(repo *MockUserRepository) *userservice.Service {
	return userservice.NewService(repo, ownerEmail, logger.NewLogger("error"))
}

// TestCreateUser_Success testa a criação de conta com hash de senha.
func TestCreateUser_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestService(mockRepo)

	input := domain.UserInput{
		Name:     "Ana Recepção",
		Email:    "ana@clinica.com",
		Password: "senha-forte",
		Role:     domain.RoleAdmin,
	}

	var saved domain.User
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.User)
		}).
		Return(domain.User{ID: uuid.New().String(), Name: input.Name, Email: input.Email, Role: input.Role}, nil)

	created, err := svc.CreateUser(context.Background(), input)

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	// A senha nunca pode chegar ao repositório em texto puro
	assert.NotEqual(t, input.Password, saved.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte(input.Password)))
	mockRepo.AssertExpectations(t)
}

// TestCreateUser_Fail_DuplicateEmail testa a propagação do conflito de e-mail duplicado.
func TestCreateUser_Fail_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestService(mockRepo)

	input := domain.UserInput{
		Name:     "Ana Recepção",
		Email:    "ana@clinica.com",
		Password: "senha-forte",
		Role:     domain.RoleAdmin,
	}

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.User")).
		Return(domain.User{}, apperror.NewConflictError("Já existe uma conta com este e-mail."))

	_, err := svc.CreateUser(context.Background(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
}

// TestCreateUser_Fail_Validation testa os caminhos de validação do payload.
func TestCreateUser_Fail_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestService(mockRepo)

	cases := []domain.UserInput{
		{Name: "", Email: "ana@clinica.com", Password: "x", Role: domain.RoleAdmin},
		{Name: "Ana", Email: "sem-arroba", Password: "x", Role: domain.RoleAdmin},
		{Name: "Ana", Email: "ana@clinica.com", Password: "", Role: domain.RoleAdmin},
		{Name: "Ana", Email: "ana@clinica.com", Password: "x", Role: domain.Role("ROOT")},
	}

	for _, input := range cases {
		_, err := svc.CreateUser(context.Background(), input)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestUpdateUser_Fail_DemoteOwner testa o invariante do dono: a conta do
// dono não pode ter o papel rebaixado, não importa quem pede.
func TestUpdateUser_Fail_DemoteOwner(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestService(mockRepo)

	input := domain.UserInput{
		ID:    uuid.New().String(),
		Name:  "Dono",
		Email: ownerEmail,
		Role:  domain.RoleAdmin, // Tentativa de rebaixamento
	}

	_, err := svc.UpdateUser(context.Background(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestUpdateUser_Success_EmptyPasswordKeepsHash testa que senha vazia na
// atualização preserva o hash atual.
func TestUpdateUser_Success_EmptyPasswordKeepsHash(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestService(mockRepo)

	id := uuid.New().String()
	currentHash := "$2a$10$hash-atual"
	current := domain.User{ID: id, Name: "Ana", Email: "ana@clinica.com", PasswordHash: currentHash, Role: domain.RoleAdmin}

	input := domain.UserInput{
		ID:       id,
		Name:     "Ana Atualizada",
		Email:    "ana@clinica.com",
		Password: "",
		Role:     domain.RoleAdmin,
	}

	mockRepo.On("FindByID", mock.Anything, id).Return(current, nil)

	var updated domain.User
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.User)
		}).
		Return(current, nil)

	_, err := svc.UpdateUser(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, currentHash, updated.PasswordHash)
	mockRepo.AssertExpectations(t)
}

// TestDeleteUser_Fail_OwnerAccount testa o invariante do dono: a conta do
// dono nunca pode ser excluída.
func TestDeleteUser_Fail_OwnerAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).
		Return(domain.User{ID: id, Email: ownerEmail, Role: domain.RoleOwner}, nil)

	err := svc.DeleteUser(context.Background(), id)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestDeleteUser_Success testa a exclusão de uma conta comum.
func TestDeleteUser_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newTestService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).
		Return(domain.User{ID: id, Email: "ana@clinica.com", Role: domain.RoleAdmin}, nil)
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	err := svc.DeleteUser(context.Background(), id)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
