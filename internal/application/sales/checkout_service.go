package sales

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/cart"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// CheckoutService converts a session cart into a committed sale. The ledger
// commit is the only place stock is decremented for storefront purchases;
// the cart itself never touches the database.
type CheckoutService struct {
	carts     cart.Store
	ledger    sales.Ledger
	logger    *zap.Logger
	publisher shared.EventPublisher
}

// SetEventPublisher sets the publisher that receives sale events after
// a successful commit
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(carts cart.Store, ledger sales.Ledger, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		carts:  carts,
		ledger: ledger,
		logger: logger,
	}
}

// Checkout builds a sale from the user's cart at the snapshotted prices and
// commits it atomically. On success the cart is cleared. On any failure the
// cart is left untouched so the user can adjust and retry.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*SaleResponse, error) {
	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	sale, err := sales.NewSale(userID, sales.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return nil, err
	}
	sale.SetNotes(req.Notes)

	for _, entry := range c.Entries {
		unitPrice := valueobject.NewMoneyUSD(entry.UnitPrice)
		if err := sale.AddItem(entry.ProductID, entry.ProductName, unitPrice, entry.Quantity); err != nil {
			return nil, err
		}
	}

	if err := sale.Finalize(); err != nil {
		return nil, err
	}

	if err := s.ledger.Commit(ctx, sale); err != nil {
		return nil, err
	}

	if err := shared.PublishEvents(ctx, s.publisher, sale); err != nil {
		s.logger.Warn("failed to publish sale events",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err),
		)
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		// The sale is committed; a stale cart is an inconvenience, not a
		// failure. It will be overwritten on next use or expire.
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("user_id", userID.String()),
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("checkout committed",
		zap.String("user_id", userID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.Int("items", len(sale.Items)),
	)

	return ToSaleResponse(sale), nil
}
