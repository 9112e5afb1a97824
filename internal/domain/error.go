package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"409"`
	Category string `json:"category" example:"SCHEDULE_UNAVAILABLE"`
	Message  string `json:"message" example:"O horário solicitado não está disponível."`
}
