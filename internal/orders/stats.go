package orders

import (
	"github.com/shopspring/decimal"

	"github.com/alluringfresh/alluring-backend/pkg/enums"
)

// BuildStats assembles the dashboard summary from raw aggregates. Every
// known status appears in the output even when its count is zero.
func BuildStats(counts map[enums.OrderStatus]int64, completedRevenue decimal.Decimal) StatsDTO {
	statuses := enums.OrderStatuses()
	statusCounts := make([]StatusCountDTO, 0, len(statuses))

	var total int64
	for _, status := range statuses {
		count := counts[status]
		total += count
		statusCounts = append(statusCounts, StatusCountDTO{
			Status: status,
			Count:  count,
		})
	}

	return StatsDTO{
		TotalOrders:      total,
		StatusCounts:     statusCounts,
		CompletedRevenue: completedRevenue,
	}
}
