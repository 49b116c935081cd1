package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"buddhaday-notify/internal/apperror"
	"buddhaday-notify/internal/logger"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// respondWithError writes err as {"error":{"type":..,"message":..}} with the
// status mapped from its kind.
func respondWithError(ctx context.Context, w http.ResponseWriter, err error) {
	ae := apperror.From(err)
	status := ae.Status()

	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "[http] request failed",
		append(logger.LogWithTrace(ctx), slog.String("type", ae.Code()), slog.Any("error", ae))...)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Type: ae.Code(), Message: ae.Error()}})
}
