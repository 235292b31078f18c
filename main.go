// File: casaluna/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casaluna/config"
	appcron "casaluna/cron"
	"casaluna/database"
	reservationRepo "casaluna/database/repository/reservation"
	"casaluna/handlers"
	"casaluna/middleware"
	"casaluna/models"
	"casaluna/routes"
	"casaluna/services/availability"
	"casaluna/services/notification"
	"casaluna/services/payment"
	"casaluna/services/reservation"
	"casaluna/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitHoldCache()
	stripe.Key = config.AppConfig.StripeKey

	// Stores: Mongo is the durable primary, Redis the mirror the ledger
	// falls back to when the primary is unreachable.
	primary := reservationRepo.NewMongoReservationStore()
	secondary := reservationRepo.NewRedisReservationStore(utils.GetCacheClient())
	ledger := reservationRepo.NewRankedRepository(primary, secondary)

	// Availability engine.
	fetchTimeout := time.Duration(config.AppConfig.FeedFetchTimeout) * time.Second
	fetcher := availability.NewFetcher(fetchTimeout)
	index := availability.NewIndex(fetcher, ledger, utils.GetCacheClient(), config.FeedSources())
	holds := availability.NewHoldStore(utils.GetHoldCacheClient())
	availabilitySvc := &availability.DefaultService{Index: index, Holds: holds}
	publisher := &availability.Publisher{
		Index:        index,
		PropertyName: config.AppConfig.PropertyName,
	}
	feedPoller := availability.StartPoller(index, config.AppConfig.FeedPollMinutes)

	// Notifications ride the asynq queue; the worker is the delivery
	// boundary.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	notifier := &notification.DefaultService{
		Queue:          queueClient,
		OwnerEmail:     config.AppConfig.OwnerEmail,
		PreArrivalLead: time.Duration(config.AppConfig.PreArrivalLeadHours) * time.Hour,
	}
	noticeWorker := appcron.InitNoticeWorker()

	// Reservation ledger service.
	reservationSvc := &reservation.DefaultService{
		Repo:         ledger,
		Availability: availabilitySvc,
		Holds:        holds,
		Pricing:      config.LoadPricing(),
		Notifier:     notifier,
		MaxGuests:    config.AppConfig.MaxGuests,
	}

	// Payment gateways and the reconciler driving the state machine.
	stripeGW := &payment.StripeGateway{
		WebhookSecret: config.AppConfig.StripeWebhookSecret,
		PropertyName:  config.AppConfig.PropertyName,
		SuccessURL:    config.AppConfig.PublicBaseURL + "/booking/success?reference={CHECKOUT_SESSION_ID}",
		CancelURL:     config.AppConfig.PublicBaseURL + "/booking/cancelled",
	}
	paypalClient, err := payment.NewPayPalClient(
		config.AppConfig.PayPalClientID,
		config.AppConfig.PayPalSecret,
		config.AppConfig.PayPalLive,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize paypal client: %v", err)
	}
	paypalGW := &payment.PayPalGateway{
		Client:    paypalClient,
		BrandName: config.AppConfig.PropertyName,
		ReturnURL: config.AppConfig.PublicBaseURL + "/booking/success",
		CancelURL: config.AppConfig.PublicBaseURL + "/booking/cancelled",
	}
	gatewayMap := map[models.ProviderKind]payment.Gateway{
		models.ProviderStripe: stripeGW,
		models.ProviderPayPal: paypalGW,
	}
	checkoutSvc := &payment.DefaultCheckoutService{
		Reservations: reservationSvc,
		Gateways:     gatewayMap,
	}
	reconciler := &payment.DefaultReconciler{
		Repo:         ledger,
		Gateways:     gatewayMap,
		Availability: availabilitySvc,
		Holds:        holds,
		Notifier:     notifier,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilitySvc, reservationSvc),
		Reservation:  handlers.NewReservationHandler(checkoutSvc, reservationSvc),
		Payment:      handlers.NewPaymentHandler(stripeGW, paypalGW, reconciler),
		Calendar:     handlers.NewCalendarHandler(publisher),
		Admin:        handlers.NewAdminHandler(reservationSvc),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	feedPoller.Stop()
	noticeWorker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
