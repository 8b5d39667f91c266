package main

import (
	"context"

	"github.com/julienschmidt/httprouter"

	"bookly/internal/appconfig"
	"bookly/internal/appointments"
	"bookly/internal/auth"
	"bookly/internal/health"
	"bookly/internal/watch"
	"bookly/pkg/app"
	"bookly/pkg/config"
	"bookly/pkg/contracts"
	dbmongo "bookly/pkg/db/mongo"
	"bookly/pkg/events"
	"bookly/pkg/kafka"
	kafka_config "bookly/pkg/kafka/config"
	"bookly/pkg/model"
	"bookly/pkg/validation"
)

const ServiceName = "bookly"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Bookly service")
	cfg.SetMongo()
	cfg.SetIdentity()
	defer cfg.GracefulShutdown()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	appointmentRepo := appointments.NewMongoRepository(db)
	holdRepo := appointments.NewMongoHoldRepository(db)
	configRepo := appconfig.NewMongoRepository(db)

	ctx := context.Background()
	if err := appointmentRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create appointment indexes", "error", err)
	}
	if err := holdRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create slot hold indexes", "error", err)
	}

	serverApp := app.NewApplication()

	kafkaCfg := kafka_config.Load()
	publisher := initPublisher(cfg, kafkaCfg, serverApp)
	validate := validation.New()

	configService := appconfig.NewService(configRepo, publisher, validate, &model.Config{
		SlotDurationMin: cfg.DefaultSlotDurationMin,
		StartTime:       cfg.DefaultStartTime,
		EndTime:         cfg.DefaultEndTime,
		BlockedSlots:    []string{},
	}, cfg.Log)

	appointmentService := appointments.NewService(
		appointmentRepo,
		holdRepo,
		dbmongo.NewTransactionManager(cfg.Client.Mongo),
		configService,
		publisher,
		validate,
		cfg.Log,
	)

	hub := watch.NewHub(appointmentRepo, cfg.Log)
	startConsumer(cfg, kafkaCfg, serverApp, hub)

	appointmentHandler := appointments.NewHandler(appointmentService, hub, cfg.Log)
	configHandler := appconfig.NewHandler(configService, cfg.Log)
	authHandler := auth.NewHandler(cfg.Client.Identity, cfg.Log)
	healthHandler := health.NewHandler(cfg.Client.Mongo, cfg.Log)

	serverApp.SetApp(cfg, app.Routes{
		Health: healthHandler,
		Public: []contracts.Handler{appointmentHandler, authHandler},
		Watch:  []contracts.Handler{watchRoutes{appointmentHandler}},
		Admin:  []contracts.Handler{adminRoutes{appointmentHandler}, configHandler},
	})
	serverApp.Run()
}

// watchRoutes and adminRoutes select the non-default route sets of the
// appointment handler for their surfaces.
type watchRoutes struct {
	h *appointments.Handler
}

func (w watchRoutes) RegisterRoutes(router *httprouter.Router) {
	w.h.RegisterWatchRoutes(router)
}

type adminRoutes struct {
	h *appointments.Handler
}

func (a adminRoutes) RegisterRoutes(router *httprouter.Router) {
	a.h.RegisterAdminRoutes(router)
}

// initPublisher wires the change event producer. With Kafka disabled the
// services run without notifications and watchers only get their initial
// snapshot.
func initPublisher(cfg *config.Config, kafkaCfg *kafka_config.Config, serverApp *app.Application) events.Publisher {
	if !kafkaCfg.Enabled {
		cfg.Log.Warn("Kafka disabled, change notifications are off")
		return nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, kafka_config.TopicAppointments)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Kafka producer initialized", "topic", kafka_config.TopicAppointments)
	return events.NewKafkaPublisher(producer, ServiceName)
}

func startConsumer(cfg *config.Config, kafkaCfg *kafka_config.Config, serverApp *app.Application, hub *watch.Hub) {
	if !kafkaCfg.Enabled {
		return
	}

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafka_config.TopicAppointments,
		ServiceName+"-watch",
		watch.ChangeHandler(hub, cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	consumerCtx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
			cfg.Log.Error("Kafka consumer stopped", "error", err)
		}
	}()
	serverApp.OnShutdown(func() {
		cancel()
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	})

	cfg.Log.Info("Kafka consumer started", "topic", kafka_config.TopicAppointments)
}
