package cmd

import (
	"log/slog"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"

	"gorm.io/gorm"
)

// Infrastructure is the set of optional adapters handed to the composition root.
// Nil members disable the concern: no event publishing, no attempt limiting or
// no metrics.
type Infrastructure struct {
	Publisher ports.EventPublisher
	Limiter   ports.AttemptLimiter
	Metrics   ports.VerificationMetrics
	Logger    *slog.Logger
}

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	issuer     services.DeliveryTokenIssuer
	verifier   services.DeliveryTokenVerifier
	limiter    ports.AttemptLimiter
	metrics    ports.VerificationMetrics
	clock      commands.Clock
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, infra Infrastructure) (CompositionRoot, error) {
	signer, err := services.NewTokenSigner([]byte(cfg.DeliveryTokenSecret))
	if err != nil {
		return CompositionRoot{}, err
	}
	issuer, err := services.NewDeliveryTokenIssuer(signer, cfg.DeliveryTokenTTL)
	if err != nil {
		return CompositionRoot{}, err
	}
	verifier, err := services.NewDeliveryTokenVerifier(signer, cfg.DeliveryTokenTTL)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, infra.Publisher, infra.Logger),
		issuer:     issuer,
		verifier:   verifier,
		limiter:    infra.Limiter,
		metrics:    infra.Metrics,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) checkoutUoWFactory() commands.CheckoutUoWFactory {
	return FuncCheckoutUoWFactory(func() commands.CheckoutUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) originUoWFactory() commands.OriginUoWFactory {
	return FuncOriginUoWFactory(func() commands.OriginUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.checkoutUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateRateOrderCommandHandler() commands.RateOrderCommandHandler {
	return commands.NewRateOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateAdvanceOrderStatusCommandHandler() commands.AdvanceOrderStatusCommandHandler {
	return commands.NewAdvanceOrderStatusCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateIssueDeliveryTokenCommandHandler() commands.IssueDeliveryTokenCommandHandler {
	return commands.NewIssueDeliveryTokenCommandHandler(c.orderUoWFactory(), c.issuer, c.metrics, c.clock)
}

func (c *CompositionRoot) CreateVerifyDeliveryTokenCommandHandler() commands.VerifyDeliveryTokenCommandHandler {
	return commands.NewVerifyDeliveryTokenCommandHandler(c.orderUoWFactory(), c.verifier, c.limiter, c.metrics, c.clock)
}

func (c *CompositionRoot) CreateExpireDeliveryTokensCommandHandler() commands.ExpireDeliveryTokensCommandHandler {
	return commands.NewExpireDeliveryTokensCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCreateOriginOrderCommandHandler() commands.CreateOriginOrderCommandHandler {
	return commands.NewCreateOriginOrderCommandHandler(c.originUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateAdvanceMilestoneCommandHandler() commands.AdvanceMilestoneCommandHandler {
	return commands.NewAdvanceMilestoneCommandHandler(c.originUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateIssueOriginTokenCommandHandler() commands.IssueOriginTokenCommandHandler {
	return commands.NewIssueOriginTokenCommandHandler(c.originUoWFactory(), c.issuer, c.metrics, c.clock)
}

func (c *CompositionRoot) CreateRedeemOriginDeliveryCommandHandler() commands.RedeemOriginDeliveryCommandHandler {
	return commands.NewRedeemOriginDeliveryCommandHandler(c.originUoWFactory(), c.verifier, c.limiter, c.metrics, c.clock)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOriginOrderQueryHandler() queries.GetOriginOrderQueryHandler {
	return queries.NewGetOriginOrderQueryHandler(c.gormDB)
}

// HTTPHandlers wires every use case the HTTP server exposes.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		CancelOrder:        c.CreateCancelOrderCommandHandler(),
		RateOrder:          c.CreateRateOrderCommandHandler(),
		AdvanceOrderStatus: c.CreateAdvanceOrderStatusCommandHandler(),
		IssueDeliveryToken: c.CreateIssueDeliveryTokenCommandHandler(),
		VerifyDelivery:     c.CreateVerifyDeliveryTokenCommandHandler(),
		CreateOriginOrder:  c.CreateCreateOriginOrderCommandHandler(),
		AdvanceMilestone:   c.CreateAdvanceMilestoneCommandHandler(),
		IssueOriginToken:   c.CreateIssueOriginTokenCommandHandler(),
		RedeemOrigin:       c.CreateRedeemOriginDeliveryCommandHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		ListOrders:         c.CreateListOrdersQueryHandler(),
		GetOriginOrder:     c.CreateGetOriginOrderQueryHandler(),
	}
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCheckoutUoWFactory func() commands.CheckoutUoW

func (f FuncCheckoutUoWFactory) Create() commands.CheckoutUoW {
	return f()
}

type FuncOriginUoWFactory func() commands.OriginUoW

func (f FuncOriginUoWFactory) Create() commands.OriginUoW {
	return f()
}
