package service

import "fmt"

// BusinessError - ошибка бизнес-логики с кодом. Слой handlers
// переводит код в HTTP-статус, сообщение уходит клиенту как есть.
type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewTaskNotFound(id int64) *BusinessError {
	return NewBusinessError("NOT_FOUND",
		fmt.Sprintf("Task %d not found", id),
		ToDetail("resource", "task"),
		ToDetail("id", id),
	)
}

func NewUsernameTaken() *BusinessError {
	return NewBusinessError("USERNAME_TAKEN", "Username already taken",
		ToDetail("field", "username"))
}

func NewEmailTaken() *BusinessError {
	return NewBusinessError("EMAIL_TAKEN", "Email already registered",
		ToDetail("field", "email"))
}

// одно сообщение для неизвестного пользователя и неверного пароля,
// чтобы не раскрывать, какая из причин сработала
func NewInvalidCredentials() *BusinessError {
	return NewBusinessError("INVALID_CREDENTIALS", "Invalid username or password")
}

func NewInvalidToken() *BusinessError {
	return NewBusinessError("INVALID_TOKEN", "Invalid token")
}

func NewInvalidTokenFormat() *BusinessError {
	return NewBusinessError("INVALID_TOKEN", "Invalid token format")
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError("VALIDATION_ERROR",
		fmt.Sprintf("Invalid value for field '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}
