package dto

import (
	"github.com/antelcha/itsm-playground/internal/repository"
	"github.com/antelcha/itsm-playground/internal/service"
)

// OverviewResponse response.
type OverviewResponse struct {
	TotalTickets  int64 `json:"total_tickets"`
	OpenTickets   int64 `json:"open_tickets"`
	ClosedTickets int64 `json:"closed_tickets"`
}

// LabelCountResponse is one rollup slice.
type LabelCountResponse struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// MetricsResponse response.
type MetricsResponse struct {
	TicketsByStatus   []LabelCountResponse `json:"tickets_by_status"`
	TicketsByPriority []LabelCountResponse `json:"tickets_by_priority"`
	TicketsByCategory []LabelCountResponse `json:"tickets_by_category"`
}

// NewOverviewResponse maps the rollup.
func NewOverviewResponse(o *repository.Overview) OverviewResponse {
	return OverviewResponse{
		TotalTickets:  o.Total,
		OpenTickets:   o.Open,
		ClosedTickets: o.Closed,
	}
}

// NewMetricsResponse maps the rollups.
func NewMetricsResponse(m *service.DashboardMetrics) MetricsResponse {
	return MetricsResponse{
		TicketsByStatus:   labelCounts(m.ByStatus),
		TicketsByPriority: labelCounts(m.ByPriority),
		TicketsByCategory: labelCounts(m.ByCategory),
	}
}

func labelCounts(entries []repository.LabelCount) []LabelCountResponse {
	result := make([]LabelCountResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, LabelCountResponse{Label: entry.Label, Count: entry.Count})
	}
	return result
}
