package httpserver

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/dmitrijs2005/cloudygo/internal/server/auth"
	"github.com/dmitrijs2005/cloudygo/internal/server/weather"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type WeatherService interface {
	Lookup(ctx context.Context, city, userID string) (*weather.Report, error)
	Record(ctx context.Context, city, userID string) (*weather.Report, error)
}

type WeatherRequest struct {
	City string `json:"city" validate:"required"`
}

type WeatherResponse struct {
	Response
	Data *weather.Report `json:"data"`
}

type weatherHandlers struct {
	weather  WeatherService
	log      logging.Logger
	validate *validator.Validate
}

// lookup serves anonymous and signed-in visitors alike; a signed-in lookup is
// also added to history.
func (h *weatherHandlers) lookup(w http.ResponseWriter, r *http.Request) {
	const op = "httpserver.weather.lookup"
	log := h.log.With("op", op)

	city := r.URL.Query().Get("city")
	if city == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("City parameter is required"))
		return
	}

	var userID string
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		userID = claims.SubjectID
	}

	report, err := h.weather.Lookup(r.Context(), city, userID)
	if err != nil {
		fail(w, r, log, op, err)
		return
	}

	render.JSON(w, r, WeatherResponse{Response: OK(""), Data: report})
}

func (h *weatherHandlers) record(w http.ResponseWriter, r *http.Request) {
	const op = "httpserver.weather.record"
	log := h.log.With("op", op)

	var req WeatherRequest
	if !decode(w, r, log, h.validate, &req) {
		return
	}

	claims, _ := auth.ClaimsFromContext(r.Context())

	report, err := h.weather.Record(r.Context(), req.City, claims.SubjectID)
	if err != nil {
		fail(w, r, log, op, err)
		return
	}

	render.JSON(w, r, WeatherResponse{Response: OK(""), Data: report})
}
