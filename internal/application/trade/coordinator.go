package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// exhaustionRatio is the fraction of the credit limit below which a
// CreditNearlyExhaustedEvent is raised.
var exhaustionRatio = decimal.NewFromFloat(0.1)

// loadActiveProducts loads the referenced products, failing when one is
// missing or inactive.
func loadActiveProducts(ctx context.Context, repos TransactionalRepositories, storeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	if len(ids) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document must carry at least one item")
	}

	products, err := repos.ProductRepo().FindByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %s not found", id))
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Product %s is inactive and cannot be traded", product.SKU))
		}
	}
	return byID, nil
}

// collectProductEvents drains pending domain events from the given
// products into the event list.
func collectProductEvents(events *[]shared.DomainEvent, products []*catalog.Product) {
	for _, product := range products {
		if product == nil {
			continue
		}
		*events = append(*events, product.GetDomainEvents()...)
		product.ClearDomainEvents()
	}
}

// accountEvents derives the partner events raised by an applied account
// movement.
func accountEvents(storeID, ownerID uuid.UUID, ownerType partner.OwnerType, ownerName string, account *partner.CreditAccount, movement partner.AccountMovement) []shared.DomainEvent {
	var events []shared.DomainEvent
	if movement.CreditUsed.IsPositive() {
		events = append(events,
			partner.NewCreditChargedEvent(storeID, ownerID, ownerType, ownerName, movement.CreditUsed, account.NetBalance()))
	}
	if account.SupportsCredit() && account.CreditLimit.IsPositive() {
		threshold := account.CreditLimit.Mul(exhaustionRatio)
		if account.AvailableCredit().LessThanOrEqual(threshold) {
			events = append(events,
				partner.NewCreditNearlyExhaustedEvent(storeID, ownerID, ownerType, ownerName, account))
		}
	}
	return events
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
