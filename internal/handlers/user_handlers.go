package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskmanager/internal/handlers/dto"
	"taskmanager/internal/logger"

	"go.uber.org/zap"
)

type UserHandler struct {
	UserService UserService
}

func NewUserHandler(userService UserService) UserHandler {
	return UserHandler{
		UserService: userService,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnprocessableEntity, "неверное тело запроса: "+err.Error())
		return
	}

	if request.Username == nil || request.Email == nil || request.Password == nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("error", "missing_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnprocessableEntity, "поля username, email и password обязательны")
		return
	}

	logger.Info("HTTP: Вызов сервиса регистрации")

	user, err := h.UserService.Register(r.Context(), *request.Username, *request.Email, *request.Password)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "register"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Пользователь зарегистрирован",
		zap.Int64("user_id", user.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	// пароль в ответ не попадает: UserResponse его не содержит
	responseWithBody(w, http.StatusCreated, dto.FromUser(user))
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnprocessableEntity, "неверное тело запроса: "+err.Error())
		return
	}

	if request.Username == nil || request.Password == nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("error", "missing_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnprocessableEntity, "поля username и password обязательны")
		return
	}

	logger.Info("HTTP: Вызов сервиса входа")

	token, userID, err := h.UserService.Login(r.Context(), *request.Username, *request.Password)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "login"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Пользователь вошёл",
		zap.Int64("user_id", userID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.TokenResponse{Token: token, UserID: userID})
}
