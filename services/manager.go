package services

import (
	"coffeeshop_server/broker"
	"coffeeshop_server/database"
	"coffeeshop_server/repository"
	"coffeeshop_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService   *AuthService
	UserService   *UserService
	TableService  *TableService
	MenuService   *MenuService
	OrderService  *OrderService
	EmailService  *EmailService
	CacheService  *CacheService
	EventService  *EventService
	HealthService *HealthService
}

// NewServiceManager wires the repositories into the services. publisher may
// be nil, in which case order events are not published.
func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, publisher *broker.Publisher) *ServiceManager {
	userRepository := repository.NewUserRepository(db, logger)
	tableRepository := repository.NewTableRepository(db, logger)
	categoryRepository := repository.NewCategoryRepository(db, logger)
	menuItemRepository := repository.NewMenuItemRepository(db, logger)
	orderRepository := repository.NewOrderRepository(db, logger, cfg)

	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)

	// Keep the interfaces nil rather than holding a typed nil pointer
	var eventPublisher EventPublisher
	var brokerProbe BrokerProbe
	if publisher != nil {
		eventPublisher = publisher
		brokerProbe = publisher
	}
	eventService := NewEventService(logger, eventPublisher)

	return &ServiceManager{
		AuthService:   NewAuthService(logger, cfg, userRepository, cacheService),
		UserService:   NewUserService(logger, cfg, userRepository, cacheService, emailService),
		TableService:  NewTableService(logger, tableRepository),
		MenuService:   NewMenuService(logger, categoryRepository, menuItemRepository, cacheService),
		OrderService:  NewOrderService(logger, cfg, orderRepository, menuItemRepository, eventService),
		EmailService:  emailService,
		CacheService:  cacheService,
		EventService:  eventService,
		HealthService: NewHealthService(logger, db, cacheService, brokerProbe),
	}
}
