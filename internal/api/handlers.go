package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/fightsim/internal/aggregator"
	"github.com/yourusername/fightsim/internal/export"
	"github.com/yourusername/fightsim/internal/model"
	"github.com/yourusername/fightsim/internal/odds"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 1000
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ParticipantModel describes one participant's layer of the live model.
type ParticipantModel struct {
	Name           string        `json:"name"`
	WinProbability float64       `json:"win_probability"`
	FairOdds       odds.American `json:"fair_odds,omitempty"`
	KO             float64       `json:"ko_given_win"`
	Decision       float64       `json:"decision_given_win"`
	Rounds         []float64     `json:"ko_round_distribution"`
}

// ModelResponse is the live model with fair prices attached.
type ModelResponse struct {
	TotalRounds     int                 `json:"total_rounds"`
	DrawEnabled     bool                `json:"draw_enabled"`
	DrawProbability float64             `json:"draw_probability"`
	DrawFairOdds    odds.American       `json:"draw_fair_odds,omitempty"`
	Participants    [2]ParticipantModel `json:"participants"`
}

// MethodOddsRequest quotes how one participant wins.
type MethodOddsRequest struct {
	KO       odds.American `json:"ko"`
	Decision odds.American `json:"decision"`
}

// ModelRequest replaces the live model from market odds.
type ModelRequest struct {
	Names        [2]string            `json:"names"`
	Moneyline    [2]odds.American     `json:"moneyline"`
	Method       [2]MethodOddsRequest `json:"method"`
	DrawEnabled  bool                 `json:"draw_enabled"`
	DrawOdds     odds.American        `json:"draw_odds"`
	RoundWeights [2][]float64         `json:"round_weights"`
	TotalRounds  int                  `json:"total_rounds"`
}

func (r ModelRequest) toInput() model.Input {
	return model.Input{
		Names:     r.Names,
		Moneyline: r.Moneyline,
		Method: [2]model.MethodOdds{
			{KO: r.Method[0].KO, Decision: r.Method[0].Decision},
			{KO: r.Method[1].KO, Decision: r.Method[1].Decision},
		},
		DrawEnabled:  r.DrawEnabled,
		DrawOdds:     r.DrawOdds,
		RoundWeights: r.RoundWeights,
		TotalRounds:  r.TotalRounds,
	}
}

// ReseedRequest is the optional body of a reseed call. A missing seed picks
// one from the clock.
type ReseedRequest struct {
	Seed int64 `json:"seed"`
}

// ReseedResponse reports the seed now in use.
type ReseedResponse struct {
	Seed int64 `json:"seed"`
}

func (s *Server) snapshot() aggregator.RunningStats {
	if s.cfg.SnapshotCacheTTL > 0 {
		if cached, found := s.cache.Get(snapshotCacheKey); found {
			return cached.(aggregator.RunningStats)
		}
	}
	stats := s.session.Snapshot()
	if s.cfg.SnapshotCacheTTL > 0 {
		s.cache.Set(snapshotCacheKey, stats, s.cfg.SnapshotCacheTTL)
	}
	return stats
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleRecentTrials(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	writeJSON(w, http.StatusOK, s.session.Recent(limit))
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, describeModel(s.session.Model()))
}

func describeModel(m *model.OutcomeModel) ModelResponse {
	resp := ModelResponse{
		TotalRounds:     m.TotalRounds(),
		DrawEnabled:     m.DrawEnabled(),
		DrawProbability: m.WinProbability(model.Draw),
		DrawFairOdds:    fairOdds(m.WinProbability(model.Draw)),
	}
	for i, who := range model.Participants {
		resp.Participants[i] = ParticipantModel{
			Name:           m.Name(who),
			WinProbability: m.WinProbability(who),
			FairOdds:       fairOdds(m.WinProbability(who)),
			KO:             m.MethodProbability(who, model.MethodKO),
			Decision:       m.MethodProbability(who, model.MethodDecision),
			Rounds:         m.RoundDistribution(who),
		}
	}
	return resp
}

// fairOdds returns zero for certain or impossible outcomes, which have no price.
func fairOdds(p float64) odds.American {
	quote, err := odds.FromProbability(p)
	if err != nil {
		return 0
	}
	return quote
}

func (s *Server) handleUpdateModel(w http.ResponseWriter, r *http.Request) {
	var req ModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	m, err := model.FromOdds(req.toInput())
	if err != nil {
		writeError(w, statusForModelError(err), err.Error())
		return
	}
	if err := s.session.UpdateModel(m); err != nil {
		writeError(w, statusForModelError(err), err.Error())
		return
	}
	s.cache.Delete(snapshotCacheKey)

	s.logger.WithField("names", m.Name(model.ParticipantA)+" vs "+m.Name(model.ParticipantB)).Info("Model updated via API")
	writeJSON(w, http.StatusOK, describeModel(m))
}

func statusForModelError(err error) int {
	var invalidOdds *odds.InvalidOddsError
	var degenerate *odds.DegenerateOddsError
	var invalidDist *model.InvalidDistributionError
	var modelErr *model.ProbabilityModelError
	switch {
	case errors.As(err, &invalidOdds), errors.As(err, &degenerate),
		errors.As(err, &invalidDist), errors.As(err, &modelErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	s.cache.Delete(snapshotCacheKey)
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleReseed(w http.ResponseWriter, r *http.Request) {
	var req ReseedRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	writeJSON(w, http.StatusOK, ReseedResponse{Seed: s.session.Reseed(req.Seed)})
}

func (s *Server) handleExportTrials(w http.ResponseWriter, r *http.Request) {
	if !s.session.RetainsTrials() {
		writeError(w, http.StatusConflict, "trial retention is disabled; only the summary can be exported")
		return
	}

	m := s.session.Model()
	names := [2]string{m.Name(model.ParticipantA), m.Name(model.ParticipantB)}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.TrialsFile+`"`)
	if err := export.WriteTrials(w, s.session.Trials(), names); err != nil {
		s.logger.WithError(err).Error("Trials export failed")
	}
}

func (s *Server) handleExportSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.SummaryFile+`"`)
	if err := export.WriteSummary(w, s.session.Snapshot()); err != nil {
		s.logger.WithError(err).Error("Summary export failed")
	}
}

func (s *Server) handleStreamStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
