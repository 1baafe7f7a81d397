package inventory

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Allocation is one planned deduction from one batch
type Allocation struct {
	BatchID     uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
}

// AllocationPlan is the complete outcome of planning an outbound movement.
// It is computed before any mutation so the write path only applies it.
type AllocationPlan struct {
	Allocations    []Allocation
	TotalAllocated decimal.Decimal
	TotalCost      decimal.Decimal
}

// SortFEFO orders batches first-expired-first-out: ascending expiry date,
// batches without an expiry date last, creation time as the tiebreak.
func SortFEFO(batches []StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		ie, je := batches[i].ExpiryDate, batches[j].ExpiryDate
		if ie == nil && je == nil {
			return batches[i].CreatedAt.Before(batches[j].CreatedAt)
		}
		if ie == nil {
			return false
		}
		if je == nil {
			return true
		}
		if ie.Equal(*je) {
			return batches[i].CreatedAt.Before(batches[j].CreatedAt)
		}
		return ie.Before(*je)
	})
}

// TotalAvailable sums the consumable quantity across batches
func TotalAvailable(batches []StockBatch) decimal.Decimal {
	total := decimal.Zero
	for i := range batches {
		if batches[i].IsConsumable() {
			total = total.Add(batches[i].CurrentQuantity)
		}
	}
	return total
}

// Allocate greedily plans a deduction of the requested quantity across the
// given batches in their current order (callers sort with SortFEFO first).
// It is a pure function: no batch is mutated. When the consumable total is
// below the request it fails with INSUFFICIENT_STOCK reporting available
// versus requested.
func Allocate(batches []StockBatch, quantity decimal.Decimal) (*AllocationPlan, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	available := TotalAvailable(batches)
	if available.LessThan(quantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock: available %s, requested %s", available, quantity))
	}

	plan := &AllocationPlan{
		TotalAllocated: decimal.Zero,
		TotalCost:      decimal.Zero,
	}
	remaining := quantity

	for i := range batches {
		if remaining.IsZero() {
			break
		}
		b := &batches[i]
		if !b.IsConsumable() {
			continue
		}

		take := decimal.Min(b.CurrentQuantity, remaining)
		plan.Allocations = append(plan.Allocations, Allocation{
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			Quantity:    take,
		})
		plan.TotalAllocated = plan.TotalAllocated.Add(take)
		plan.TotalCost = plan.TotalCost.Add(take.Mul(b.PurchasePrice))
		remaining = remaining.Sub(take)
	}

	return plan, nil
}
