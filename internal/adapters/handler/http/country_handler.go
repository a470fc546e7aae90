package http

import (
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
	"github.com/vncsmyrnk/countryvotes/internal/core/ports"
)

type CountryHandler struct {
	service ports.CountryService
	logger  *slog.Logger
}

func NewCountryHandler(service ports.CountryService, logger *slog.Logger) *CountryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CountryHandler{
		service: service,
		logger:  logger,
	}
}

// ListCountries godoc
// @Summary      Lists every known country, sorted by name
// @Tags         countries
// @Produce      json
// @Success      200
// @Failure      503
// @Router       /countries [get]
func (h *CountryHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.ListCountries(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse[domain.CountrySummary]{Data: countries})
}
