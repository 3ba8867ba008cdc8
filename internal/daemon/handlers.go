package daemon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/pipeline"
)

type summaryPayload struct {
	TotalPrincipal  float64      `json:"total_principal"`
	TotalMaturity   float64      `json:"total_maturity"`
	TotalInterest   float64      `json:"total_interest"`
	ProgressPercent float64      `json:"progress_percent"`
	ROIPercent      model.Number `json:"roi_percent"`
}

type categoryPayload struct {
	Category  model.Category `json:"category"`
	Principal float64        `json:"principal"`
	Maturity  float64        `json:"maturity"`
	Interest  float64        `json:"interest"`
}

type maturityPayload struct {
	Name           string         `json:"name"`
	Category       model.Category `json:"category"`
	Amount         float64        `json:"amount"`
	MaturityAmount float64        `json:"maturity_amount"`
	EndDate        model.Date     `json:"end_date"`
}

type overviewPayload struct {
	MonthlyIncome     float64      `json:"monthly_income"`
	PassiveIncome     float64      `json:"passive_income"`
	MonthlyExpenses   float64      `json:"monthly_expenses"`
	EssentialExpenses float64      `json:"essential_expenses"`
	MonthlySurplus    float64      `json:"monthly_surplus"`
	SavingsRatePct    model.Number `json:"savings_rate_percent"`
	ProgressPct       model.Number `json:"progress_percent"`
	FireNumber        model.Number `json:"fire_number"`
}

type projectionPayload struct {
	YearsToRetirement int             `json:"years_to_retirement"`
	ProjectedAmount   model.Number    `json:"projected_amount"`
	GoalReached       bool            `json:"goal_reached"`
	YearlyBalances    []model.Number  `json:"yearly_balances"`
	MonthlyBalances   []model.Number  `json:"monthly_balances"`
	Overview          overviewPayload `json:"overview"`
}

// writeJSON encodes v before touching the response, so an encoding failure
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(map[string]string{"error": "encoding response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// withReport serves 503 until the first successful refresh.
func (s *Service) withReport(w http.ResponseWriter, fn func(*pipeline.LoadResult, pipeline.Report)) {
	data, report, ok := s.current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no snapshot yet")
		return
	}
	fn(data, report)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Status())
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.withReport(w, func(_ *pipeline.LoadResult, r pipeline.Report) {
		writeJSON(w, http.StatusOK, summaryPayload{
			TotalPrincipal:  r.Summary.TotalPrincipal,
			TotalMaturity:   r.Summary.TotalMaturity,
			TotalInterest:   r.Summary.TotalInterest,
			ProgressPercent: r.Summary.ProgressPercent,
			ROIPercent:      model.Number(r.Summary.ROIPercent),
		})
	})
}

func (s *Service) handleCategories(w http.ResponseWriter, _ *http.Request) {
	s.withReport(w, func(_ *pipeline.LoadResult, r pipeline.Report) {
		entries := r.Categories.Entries()
		out := make([]categoryPayload, 0, len(entries))
		for _, e := range entries {
			out = append(out, categoryPayload{
				Category:  e.Category,
				Principal: e.Totals.Principal,
				Maturity:  e.Totals.Maturity,
				Interest:  e.Totals.Interest(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	})
}

func (s *Service) handleMaturities(w http.ResponseWriter, req *http.Request) {
	horizon, err := parseHorizon(req, s.cfg.HorizonMonths)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withReport(w, func(data *pipeline.LoadResult, _ pipeline.Report) {
		upcoming := pipeline.ComputeUpcomingMaturities(data.Records, model.DateOf(s.now()), horizon)
		out := make([]maturityPayload, 0, len(upcoming))
		for _, rec := range upcoming {
			out = append(out, maturityPayload{
				Name:           rec.Name,
				Category:       rec.Category,
				Amount:         rec.Amount,
				MaturityAmount: rec.MaturityAmount,
				EndDate:        rec.EndDate,
			})
		}
		writeJSON(w, http.StatusOK, out)
	})
}

func (s *Service) handleDistribution(w http.ResponseWriter, _ *http.Request) {
	s.withReport(w, func(_ *pipeline.LoadResult, r pipeline.Report) {
		writeJSON(w, http.StatusOK, r.Distribution)
	})
}

func (s *Service) handleProjection(w http.ResponseWriter, _ *http.Request) {
	s.withReport(w, func(_ *pipeline.LoadResult, r pipeline.Report) {
		o := r.Overview
		writeJSON(w, http.StatusOK, projectionPayload{
			YearsToRetirement: r.Projection.YearsToRetirement,
			ProjectedAmount:   model.Number(r.Projection.ProjectedAmount),
			GoalReached:       r.Projection.GoalReached(),
			YearlyBalances:    model.Numbers(r.Projection.YearlySamples()),
			MonthlyBalances:   model.Numbers(r.Projection.MonthlyBalances),
			Overview: overviewPayload{
				MonthlyIncome:     o.MonthlyIncome,
				PassiveIncome:     o.PassiveIncome,
				MonthlyExpenses:   o.MonthlyExpenses,
				EssentialExpenses: o.EssentialExpenses,
				MonthlySurplus:    o.MonthlySurplus,
				SavingsRatePct:    model.Number(o.SavingsRatePct),
				ProgressPct:       model.Number(o.ProgressPct),
				FireNumber:        model.Number(o.FireNumber),
			},
		})
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.subscribe(ch)
	defer s.unsubscribe(id)

	writeSSE(w, Event{Type: "snapshot", Timestamp: time.Now(), Snapshot: s.Status().Summary})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
