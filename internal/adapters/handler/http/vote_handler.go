package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/countryvotes/internal/core/domain"
	"github.com/vncsmyrnk/countryvotes/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
	logger  *slog.Logger
}

func NewVoteHandler(service ports.VoteService, logger *slog.Logger) *VoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoteHandler{
		service: service,
		logger:  logger,
	}
}

// maxVoteBodyBytes caps POST /votes payloads.
const maxVoteBodyBytes = 1 << 20

type voteRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Country string `json:"country"`
}

// SubmitVote godoc
// @Summary      Casts a vote for a country
// @Description  One vote per email. The country is a 3-letter ISO code.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      409
// @Router       /votes [post]
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxVoteBodyBytes)

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := domain.VoteInput{
		Name:        req.Name,
		Email:       req.Email,
		CountryCode: req.Country,
	}

	if err := h.service.SubmitVote(r.Context(), input); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Vote submitted successfully"})
}

// TopCountries godoc
// @Summary      Lists the ten most voted countries
// @Tags         votes
// @Produce      json
// @Success      200
// @Router       /votes/top [get]
func (h *VoteHandler) TopCountries(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.service.GetTopCountries(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse[domain.RankedCountry]{Data: ranked})
}

// SearchCountries godoc
// @Summary      Searches voted countries by name, capital, region or subregion
// @Tags         votes
// @Produce      json
// @Param        q  query  string  false  "search text"
// @Success      200
// @Router       /votes/search [get]
func (h *VoteHandler) SearchCountries(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.service.SearchCountries(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse[domain.RankedCountry]{Data: ranked})
}
