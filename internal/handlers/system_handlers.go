package handlers

import (
	"net/http"

	"taskmanager/internal/logger"
)

const APITitle = "Task Manager API"
const APIVersion = "0.1.0"

type SystemHandler struct{}

func NewSystemHandler() SystemHandler {
	return SystemHandler{}
}

func (h *SystemHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Status")

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("version", APIVersion),
		toPayload("title", APITitle),
	)
}
