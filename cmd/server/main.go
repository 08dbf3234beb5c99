package main

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"depo-backend/internal/config"
	"depo-backend/internal/database"
	"depo-backend/internal/inventory"
	"depo-backend/internal/logger"
	"depo-backend/internal/reports"
	"depo-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 10 * time.Second

func main() {
	boot := logger.Default()

	cfg, err := config.Load()
	if err != nil {
		boot.Fatalw("Yapılandırma yüklenemedi", "error", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		boot.Fatalw("Logger oluşturulamadı", "error", err)
	}
	defer log.Sync()

	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatalw("Depolama açılamadı", "driver", cfg.StorageDriver, "error", err)
	}
	defer store.Close()

	inventorySvc := inventory.NewService(store, inventory.Options{
		Location: cfg.Location(),
		Logger:   log,
	})
	reportSvc := reports.NewService(store, reports.Options{
		Location:           cfg.Location(),
		BreakdownLocations: cfg.BreakdownLocations,
		TopProductsLimit:   cfg.TopProductsLimit,
		Logger:             log,
	})

	app := newApp(cfg, log, inventorySvc, reportSvc)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Server kapatılıyor...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Errorw("Server düzgün kapatılamadı", "error", err)
		}
	}()

	log.Infow("Server çalışıyor", "port", cfg.HTTPPort, "driver", cfg.StorageDriver)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Errorw("Server durdu", "error", err)
	}
}

func openStore(cfg *config.Config, log *logger.Logger) (storage.Store, error) {
	if cfg.StorageDriver == config.DriverPostgres {
		db, err := database.Open(cfg.DatabaseDSN, log)
		if err != nil {
			return nil, err
		}
		return storage.NewGormStore(db), nil
	}
	return storage.NewFileStore(cfg.DataDir, log)
}

func newApp(cfg *config.Config, log *logger.Logger, inv *inventory.Service, rep *reports.Service) *fiber.App {
	httpLog := log.WithComponent("http")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *fiber.Error
			if errors.As(err, &e) {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			httpLog.Errorw("Beklenmeyen hata", "method", c.Method(), "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	api := app.Group("/api")

	// Ürünler ve stok
	api.Get("/urunler", inventory.ListProductsHandler(inv))
	api.Get("/urunler/xlsx", inventory.ExportProductsHandler(inv))
	api.Post("/urun-ekle", inventory.AddProductHandler(inv))
	api.Post("/stok-guncelle", inventory.IncreaseStockHandler(inv))
	api.Get("/stok-hareketleri", inventory.ListMovementsHandler(inv))

	// Transferler
	api.Post("/transfer-olustur", inventory.CreateTransferHandler(inv))
	api.Get("/transferler", inventory.ListTransfersHandler(inv))
	api.Get("/transferler/:transferId", inventory.GetTransferHandler(inv))

	// Raporlar
	raporlar := api.Group("/raporlar")
	raporlar.Get("/genel", reports.OverviewHandler(rep))
	raporlar.Get("/konumlar", reports.LocationTotalsHandler(rep))
	raporlar.Get("/kategoriler", reports.CategoryTotalsHandler(rep))
	raporlar.Get("/en-cok-gonderilenler", reports.TopProductsHandler(rep))
	raporlar.Get("/konum-urunleri", reports.LocationBreakdownHandler(rep))
	raporlar.Get("/service-hizi", reports.ServiceSpeedHandler(rep))
	raporlar.Get("/retro-analiz", reports.RetroAnalysisHandler(rep))
	raporlar.Get("/retro-analiz/xlsx", reports.RetroAnalysisExportHandler(rep))

	return app
}
