package bootstrap

import (
	"context"
	"log"

	"notedeck-be/internal/config"
	"notedeck-be/internal/controller"
	"notedeck-be/internal/handler"
	"notedeck-be/internal/pkg/logger"
	"notedeck-be/internal/pkg/mailer"
	"notedeck-be/internal/repository/unitofwork"
	"notedeck-be/internal/service"
	"notedeck-be/internal/websocket"
	"notedeck-be/pkg/llm/factory"
	"notedeck-be/pkg/transcription/assemblyai"

	pktNats "notedeck-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NotebookController      controller.INotebookController
	NoteController          controller.INoteController
	ThreadController        controller.IThreadController
	PresenceController      controller.IPresenceController
	DrawingController       controller.IDrawingController
	TranscriptionController controller.ITranscriptionController
	AiController            controller.IAiController

	// Background services, run from main.go
	ConsumerService service.IConsumerService

	// Realtime surface
	SyncHandler  *handler.SyncHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// In-process event bus for cache invalidations
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// LLM provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Speech-to-text provider
	transcriptionProvider := assemblyai.NewClient(cfg.Keys.AssemblyAi, cfg.Sync.TranscriptionRetries)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(cfg.Keys.InvalidationTopic, pubSub)
	consumerService := service.NewInvalidationConsumer(
		pubSub,
		cfg.Keys.InvalidationTopic,
		wsHub,
		wsLogger,
	)

	syncManager := service.NewSyncManager(uowFactory, publisherService, cfg.Sync.WriteWindow)

	notebookService := service.NewNotebookService(uowFactory, publisherService)
	noteService := service.NewNoteService(
		uowFactory,
		notebookService,
		syncManager,
		emailService,
		natsPub,
		sysLogger,
	)
	threadService := service.NewThreadService(
		uowFactory,
		publisherService,
		syncManager,
		llmProvider,
		sysLogger,
	)
	presenceService := service.NewPresenceService(uowFactory, publisherService, sysLogger)
	drawingService := service.NewDrawingService(uowFactory, publisherService, sysLogger)
	transcriptionService := service.NewTranscriptionService(
		uowFactory,
		transcriptionProvider,
		natsPub,
		sysLogger,
	)
	aiService := service.NewAiService(llmProvider, sysLogger)

	// Realtime handler, also the NATS event relay worker
	syncHandler := handler.NewSyncHandler(wsHub, natsSub, wsLogger)
	if natsSub != nil {
		go syncHandler.Start()
	}

	return &Container{
		NotebookController:      controller.NewNotebookController(notebookService),
		NoteController:          controller.NewNoteController(noteService),
		ThreadController:        controller.NewThreadController(threadService),
		PresenceController:      controller.NewPresenceController(presenceService),
		DrawingController:       controller.NewDrawingController(drawingService),
		TranscriptionController: controller.NewTranscriptionController(transcriptionService),
		AiController:            controller.NewAiController(aiService),

		ConsumerService: consumerService,

		SyncHandler:  syncHandler,
		WebSocketHub: wsHub,
	}
}
