package sales

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// POSService handles in-person sales entered by staff and read access to
// the sale ledger. Unlike checkout, POS sales take prices from the live
// catalog at entry time.
type POSService struct {
	ledger      sales.Ledger
	productRepo catalog.ProductRepository
	logger      *zap.Logger
	publisher   shared.EventPublisher
}

// SetEventPublisher sets the publisher that receives sale events after
// a successful commit
func (s *POSService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// NewPOSService creates a new POSService
func NewPOSService(ledger sales.Ledger, productRepo catalog.ProductRepository, logger *zap.Logger) *POSService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &POSService{
		ledger:      ledger,
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateSale records an in-person sale. The sale is attributed to the
// customer when one is given, otherwise to the cashier entering it.
func (s *POSService) CreateSale(ctx context.Context, cashierID uuid.UUID, req CreatePOSSaleRequest) (*SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.ErrEmptyCart
	}

	ownerID := cashierID
	if req.CustomerID != nil {
		ownerID = *req.CustomerID
	}

	sale, err := sales.NewSale(ownerID, sales.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return nil, err
	}
	sale.SetNotes(req.Notes)

	for _, item := range req.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsSellable() {
			return nil, shared.ErrOutOfStock
		}
		if product.Stock < item.Quantity {
			return nil, shared.ErrInsufficientStock
		}

		unitPrice := valueobject.NewMoneyUSD(product.Price)
		if err := sale.AddItem(product.ID, product.Name, unitPrice, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := sale.Finalize(); err != nil {
		return nil, err
	}

	// Stock is re-verified under row locks inside the commit
	if err := s.ledger.Commit(ctx, sale); err != nil {
		return nil, err
	}

	if err := shared.PublishEvents(ctx, s.publisher, sale); err != nil {
		s.logger.Warn("failed to publish sale events",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("pos sale committed",
		zap.String("cashier_id", cashierID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("total", sale.Total.StringFixed(2)),
	)

	return ToSaleResponse(sale), nil
}

// Get retrieves one sale. Staff can read any sale; other users only their
// own.
func (s *POSService) Get(ctx context.Context, requesterID uuid.UUID, requesterRole identity.Role, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.ledger.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if !identity.Can(requesterRole, identity.ActionViewAllSales) && sale.UserID != requesterID {
		return nil, shared.ErrForbidden
	}

	return ToSaleResponse(sale), nil
}

// List retrieves all sales, staff only
func (s *POSService) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	result, err := s.ledger.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledger.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return toSaleResponses(result), total, nil
}

// ListByUser retrieves the order history of one user
func (s *POSService) ListByUser(ctx context.Context, userID uuid.UUID, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	result, err := s.ledger.FindByUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledger.CountByUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return toSaleResponses(result), total, nil
}

func (s *POSService) toDomainFilter(filter SaleListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = ""

	if filter.Page > 0 && filter.PageSize > 0 {
		domainFilter.Page = filter.Page
		domainFilter.PageSize = filter.PageSize
	}
	if filter.PaymentMethod != "" {
		domainFilter.Filters["payment_method"] = filter.PaymentMethod
	}
	if filter.From != nil {
		domainFilter.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["to"] = *filter.To
	}

	return domainFilter
}

func toSaleResponses(result []sales.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(result))
	for i := range result {
		responses[i] = *ToSaleResponse(&result[i])
	}
	return responses
}
