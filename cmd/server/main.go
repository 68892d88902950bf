package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/agrodesk/farm-manager/internal/audit"
	"github.com/agrodesk/farm-manager/internal/config"
	"github.com/agrodesk/farm-manager/internal/database"
	"github.com/agrodesk/farm-manager/internal/handler"
	"github.com/agrodesk/farm-manager/internal/repository"
	"github.com/agrodesk/farm-manager/internal/router"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	rlCfg := config.LoadRateLimitConfig()

	go audit.StartConsumer()

	users := repository.NewUserRepo(db)
	farms := repository.NewFarmRepo(db)
	animals := repository.NewAnimalRepo(db)
	employees := repository.NewEmployeeRepo(db)
	records := repository.NewHealthRecordRepo(db)
	settings := repository.NewSettingRepo(db)
	contacts := repository.NewContactRepo(db)
	logs := repository.NewLogRepo(db)
	reports := repository.NewReportRepo(db)

	authH := handler.NewAuthHandler(cfg, users, logs)
	farmH := handler.NewFarmHandler(farms, logs)
	animalH := handler.NewAnimalHandler(animals, farms, logs)
	employeeH := handler.NewEmployeeHandler(employees, farms, logs)
	recordH := handler.NewHealthRecordHandler(records, animals)
	contactH := handler.NewContactHandler(contacts)
	adminUserH := handler.NewAdminUserHandler(users, logs)
	adminContactH := handler.NewAdminContactHandler(contacts, logs)
	adminSettingH := handler.NewAdminSettingHandler(settings, logs)
	adminLogH := handler.NewAdminLogHandler(logs)
	adminReportH := handler.NewAdminReportHandler(reports, rdb)

	e := echo.New()
	e.HideBanner = true

	router.RegisterPublic(e, contactH)
	router.RegisterAuth(e, authH, users, rlCfg, rdb)
	router.RegisterOwner(e, cfg.JWTSecret, users, farmH, animalH, employeeH, recordH)
	router.RegisterAdmin(e, cfg.JWTSecret, users, adminUserH, adminContactH, adminSettingH, adminLogH, adminReportH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
