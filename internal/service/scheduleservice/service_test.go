package scheduleservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/service/scheduleservice"
)

// MockScheduleRepository é uma implementação mock da interface ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindByProfessional(ctx context.Context, professionalID string) ([]domain.Schedule, error) {
	args := m.Called(ctx, professionalID)
	return args.Get(0).([]domain.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) FindByProfessionalAndPeriod(ctx context.Context, professionalID string, start, end time.Time) ([]domain.Schedule, error) {
	args := m.Called(ctx, professionalID, start, end)
	return args.Get(0).([]domain.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) Save(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error) {
	args := m.Called(ctx, schedule)
	return args.Get(0).(domain.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) Update(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error) {
	args := m.Called(ctx, schedule)
	return args.Get(0).(domain.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// newTestService monta o serviço com o mock e um logger silencioso.
func newTestService(repo *MockScheduleRepository) *scheduleservice.Service {
	return scheduleservice.NewService(repo, logger.NewLogger("error"))
}

// hourSlot retorna um agendamento de teste no intervalo [startHour, endHour)
// de um dia fixo, para o profissional informado.
func hourSlot(professionalID string, startHour, endHour int) domain.Schedule {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return domain.Schedule{
		ID:             uuid.New().String(),
		Title:          "Consulta",
		Price:          150.0,
		StartTime:      day.Add(time.Duration(startHour) * time.Hour),
		EndTime:        day.Add(time.Duration(endHour) * time.Hour),
		ProfessionalID: professionalID,
		CustomerID:     uuid.New().String(),
	}
}

// --- IsAvailable (o predicado de disponibilidade) ---

// TestIsAvailable_EmptyAgenda testa que uma agenda vazia aceita qualquer intervalo.
func TestIsAvailable_EmptyAgenda(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	slot := hourSlot(professionalID, 9, 10)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{}, nil)

	available, err := svc.IsAvailable(context.Background(), professionalID, slot.StartTime, slot.EndTime, "")

	assert.NoError(t, err)
	assert.True(t, available)
	mockRepo.AssertExpectations(t)
}

// TestIsAvailable_ContainedInterval testa que um intervalo totalmente contido
// em outro é detectado como conflito.
func TestIsAvailable_ContainedInterval(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	existing := hourSlot(professionalID, 9, 12)
	candidate := hourSlot(professionalID, 10, 11)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{existing}, nil)

	available, err := svc.IsAvailable(context.Background(), professionalID, candidate.StartTime, candidate.EndTime, "")

	assert.NoError(t, err)
	assert.False(t, available)
	mockRepo.AssertExpectations(t)
}

// TestIsAvailable_OverlapAtStart testa conflito quando o novo intervalo
// invade o início de um agendamento existente.
func TestIsAvailable_OverlapAtStart(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	existing := hourSlot(professionalID, 10, 12)
	candidate := hourSlot(professionalID, 9, 11)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{existing}, nil)

	available, err := svc.IsAvailable(context.Background(), professionalID, candidate.StartTime, candidate.EndTime, "")

	assert.NoError(t, err)
	assert.False(t, available)
}

// TestIsAvailable_OverlapAtEnd testa conflito quando o novo intervalo
// invade o fim de um agendamento existente.
func TestIsAvailable_OverlapAtEnd(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	existing := hourSlot(professionalID, 9, 11)
	candidate := hourSlot(professionalID, 10, 12)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{existing}, nil)

	available, err := svc.IsAvailable(context.Background(), professionalID, candidate.StartTime, candidate.EndTime, "")

	assert.NoError(t, err)
	assert.False(t, available)
}

// TestIsAvailable_IdenticalInterval testa que um intervalo idêntico a um
// agendamento existente conflita.
func TestIsAvailable_IdenticalInterval(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	existing := hourSlot(professionalID, 9, 10)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{existing}, nil)

	available, err := svc.IsAvailable(context.Background(), professionalID, existing.StartTime, existing.EndTime, "")

	assert.NoError(t, err)
	assert.False(t, available)
}

// TestIsAvailable_TouchingBoundaries testa a semântica fechada-aberta:
// intervalos encostados (fim == início) NÃO conflitam, nas duas direções.
func TestIsAvailable_TouchingBoundaries(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	existing := hourSlot(professionalID, 10, 11)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{existing}, nil)

	// Novo agendamento termina exatamente quando o existente começa.
	before := hourSlot(professionalID, 9, 10)
	available, err := svc.IsAvailable(context.Background(), professionalID, before.StartTime, before.EndTime, "")
	assert.NoError(t, err)
	assert.True(t, available)

	// Novo agendamento começa exatamente quando o existente termina.
	after := hourSlot(professionalID, 11, 12)
	available, err = svc.IsAvailable(context.Background(), professionalID, after.StartTime, after.EndTime, "")
	assert.NoError(t, err)
	assert.True(t, available)
}

// TestIsAvailable_SelfExclusion testa que o agendamento identificado por
// excludeID não conflita consigo mesmo (caso de edição).
func TestIsAvailable_SelfExclusion(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	existing := hourSlot(professionalID, 9, 10)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{existing}, nil)

	// Sem exclusão o mesmo intervalo conflita; com exclusão, não.
	available, err := svc.IsAvailable(context.Background(), professionalID, existing.StartTime, existing.EndTime, existing.ID)

	assert.NoError(t, err)
	assert.True(t, available)
}

// TestIsAvailable_InvalidInterval testa que início >= fim é erro de validação,
// não um "indisponível" silencioso.
func TestIsAvailable_InvalidInterval(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	day := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	// Início depois do fim
	available, err := svc.IsAvailable(context.Background(), professionalID, day.Add(time.Hour), day, "")
	assert.Error(t, err)
	assert.False(t, available)
	assert.IsType(t, &apperror.ValidationError{}, err)

	// Início igual ao fim (intervalo vazio)
	available, err = svc.IsAvailable(context.Background(), professionalID, day, day, "")
	assert.Error(t, err)
	assert.False(t, available)
	assert.IsType(t, &apperror.ValidationError{}, err)

	// O repositório nunca deve ser consultado com entrada inválida
	mockRepo.AssertNotCalled(t, "FindByProfessional", mock.Anything, mock.Anything)
}

// TestIsAvailable_ReadOnly testa que a checagem de disponibilidade nunca grava nada.
func TestIsAvailable_ReadOnly(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	slot := hourSlot(professionalID, 9, 10)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{}, nil)

	// Duas chamadas consecutivas devem produzir o mesmo resultado
	first, err := svc.IsAvailable(context.Background(), professionalID, slot.StartTime, slot.EndTime, "")
	assert.NoError(t, err)
	second, err := svc.IsAvailable(context.Background(), professionalID, slot.StartTime, slot.EndTime, "")
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestIsAvailable_RepositoryError testa a propagação de falha do repositório.
func TestIsAvailable_RepositoryError(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	slot := hourSlot(professionalID, 9, 10)
	repoError := errors.New("falha de conexão com o DB")

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{}, repoError)

	available, err := svc.IsAvailable(context.Background(), professionalID, slot.StartTime, slot.EndTime, "")

	assert.Error(t, err)
	assert.False(t, available)
}

// --- CreateSchedule ---

// TestCreateSchedule_Success testa a criação quando o horário está livre.
func TestCreateSchedule_Success(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	slot := hourSlot(professionalID, 9, 10)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{}, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.Schedule")).
		Return(slot, nil)

	created, err := svc.CreateSchedule(context.Background(), slot)

	assert.NoError(t, err)
	assert.Equal(t, slot.ID, created.ID)
	mockRepo.AssertExpectations(t)
}

// TestCreateSchedule_Fail_Unavailable testa que o conflito de horário
// impede a gravação e retorna o erro de indisponibilidade.
func TestCreateSchedule_Fail_Unavailable(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	existing := hourSlot(professionalID, 9, 11)
	candidate := hourSlot(professionalID, 10, 12)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{existing}, nil)

	_, err := svc.CreateSchedule(context.Background(), candidate)

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnavailableError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateSchedule_Fail_RaceLostAtConstraint testa a corrida: o pré-teste
// passa, mas outra transação ganha o horário e o constraint do DB recusa a
// gravação. O erro que chega ao chamador é o mesmo de indisponibilidade.
func TestCreateSchedule_Fail_RaceLostAtConstraint(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	slot := hourSlot(professionalID, 9, 10)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{}, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.Schedule")).
		Return(domain.Schedule{}, apperror.NewUnavailableError("O horário solicitado já está ocupado para este profissional."))

	_, err := svc.CreateSchedule(context.Background(), slot)

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnavailableError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestCreateSchedule_Fail_Validation testa os caminhos de validação de entrada.
func TestCreateSchedule_Fail_Validation(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()

	// Título vazio
	noTitle := hourSlot(professionalID, 9, 10)
	noTitle.Title = "  "
	_, err := svc.CreateSchedule(context.Background(), noTitle)
	assert.IsType(t, &apperror.ValidationError{}, err)

	// Preço negativo
	negativePrice := hourSlot(professionalID, 9, 10)
	negativePrice.Price = -10
	_, err = svc.CreateSchedule(context.Background(), negativePrice)
	assert.IsType(t, &apperror.ValidationError{}, err)

	// IDs que não são UUIDs
	badProfessional := hourSlot("nao-e-uuid", 9, 10)
	_, err = svc.CreateSchedule(context.Background(), badProfessional)
	assert.IsType(t, &apperror.ValidationError{}, err)

	badCustomer := hourSlot(professionalID, 9, 10)
	badCustomer.CustomerID = "nao-e-uuid"
	_, err = svc.CreateSchedule(context.Background(), badCustomer)
	assert.IsType(t, &apperror.ValidationError{}, err)

	// Intervalo invertido
	inverted := hourSlot(professionalID, 10, 9)
	_, err = svc.CreateSchedule(context.Background(), inverted)
	assert.IsType(t, &apperror.ValidationError{}, err)

	// Nada deve chegar ao repositório
	mockRepo.AssertNotCalled(t, "FindByProfessional", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- UpdateSchedule ---

// TestUpdateSchedule_Success testa a edição com auto-exclusão: manter o mesmo
// horário do próprio agendamento não é conflito.
func TestUpdateSchedule_Success_SameSlot(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	existing := hourSlot(professionalID, 9, 10)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{existing}, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("domain.Schedule")).
		Return(existing, nil)

	updated, err := svc.UpdateSchedule(context.Background(), existing)

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	mockRepo.AssertExpectations(t)
}

// TestUpdateSchedule_Fail_ConflictWithOther testa que a edição ainda detecta
// conflito com OUTROS agendamentos do profissional.
func TestUpdateSchedule_Fail_ConflictWithOther(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	editing := hourSlot(professionalID, 9, 10)
	other := hourSlot(professionalID, 11, 12)

	mockRepo.On("FindByProfessional", mock.Anything, professionalID).
		Return([]domain.Schedule{editing, other}, nil)

	// Mover o agendamento editado para cima do outro
	moved := editing
	moved.StartTime = other.StartTime
	moved.EndTime = other.EndTime

	_, err := svc.UpdateSchedule(context.Background(), moved)

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnavailableError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestUpdateSchedule_Fail_InvalidID testa a rejeição de ID malformado.
func TestUpdateSchedule_Fail_InvalidID(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	schedule := hourSlot(uuid.New().String(), 9, 10)
	schedule.ID = "nao-e-uuid"

	_, err := svc.UpdateSchedule(context.Background(), schedule)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- DeleteSchedule ---

// TestDeleteSchedule_Success testa a exclusão incondicional (liberar horário
// não exige checagem de disponibilidade).
func TestDeleteSchedule_Success(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	err := svc.DeleteSchedule(context.Background(), id)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "FindByProfessional", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

// TestDeleteSchedule_Fail_NotFound testa a propagação do erro de inexistência.
func TestDeleteSchedule_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("Delete", mock.Anything, id).
		Return(apperror.NewNotFoundError("Agendamento não encontrado."))

	err := svc.DeleteSchedule(context.Background(), id)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

// TestDeleteSchedule_Fail_InvalidID testa a rejeição de ID malformado.
func TestDeleteSchedule_Fail_InvalidID(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	err := svc.DeleteSchedule(context.Background(), "nao-e-uuid")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// --- GetSchedulesByProfessionalAndDate ---

// TestGetSchedulesByProfessionalAndDate_Success testa a listagem diária:
// a janela consultada deve ser [dia, dia+24h).
func TestGetSchedulesByProfessionalAndDate_Success(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	professionalID := uuid.New().String()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	expected := []domain.Schedule{hourSlot(professionalID, 9, 10)}

	mockRepo.On("FindByProfessionalAndPeriod", mock.Anything, professionalID, day, day.AddDate(0, 0, 1)).
		Return(expected, nil)

	schedules, err := svc.GetSchedulesByProfessionalAndDate(context.Background(), professionalID, "2026-03-10")

	assert.NoError(t, err)
	assert.Len(t, schedules, 1)
	mockRepo.AssertExpectations(t)
}

// TestGetSchedulesByProfessionalAndDate_Fail_BadInput testa data malformada
// e ID de profissional inválido.
func TestGetSchedulesByProfessionalAndDate_Fail_BadInput(t *testing.T) {
	mockRepo := new(MockScheduleRepository)
	svc := newTestService(mockRepo)

	_, err := svc.GetSchedulesByProfessionalAndDate(context.Background(), "nao-e-uuid", "2026-03-10")
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.GetSchedulesByProfessionalAndDate(context.Background(), uuid.New().String(), "10/03/2026")
	assert.IsType(t, &apperror.ValidationError{}, err)

	mockRepo.AssertNotCalled(t, "FindByProfessionalAndPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
