package main

import (
	"log"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/mail"
	infraRepo "app/internal/infra/repository"
	"app/internal/payment"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
)

func main() {
	// .envはローカル開発用。無くても環境変数があれば動く。
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Module{},
		&model.UserModule{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderLineItem{},
		&model.AuditLog{},
		&model.DiaryEntry{},
		&model.MealPlan{},
		&model.CleaningTask{},
		&model.Habit{},
		&model.HabitLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	moduleRepo := infraRepo.NewModuleGormRepository(gormDB)
	entitlementRepo := infraRepo.NewEntitlementGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	diaryRepo := infraRepo.NewDiaryGormRepository(gormDB)
	mealPlanRepo := infraRepo.NewMealPlanGormRepository(gormDB)
	cleaningRepo := infraRepo.NewCleaningTaskGormRepository(gormDB)
	habitRepo := infraRepo.NewHabitGormRepository(gormDB)
	habitLogRepo := infraRepo.NewHabitLogGormRepository(gormDB)

	//外部サービス
	mailer := mail.NewLogMailer(cfg.MailFrom)
	intents := payment.NewStaticIntentClient()

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer)
	moduleUC := usecase.NewModuleUsecase(moduleRepo, entitlementRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, moduleRepo, entitlementRepo)
	checkoutUC := usecase.NewCheckoutUsecase(
		orderRepo, orderItemRepo, entitlementRepo,
		cartRepo, cartItemRepo, moduleRepo, userRepo,
		intents, mailer, cfg.PaymentCurrency,
	)
	webhookUC := usecase.NewWebhookUsecase(
		orderRepo, orderItemRepo, entitlementRepo, moduleRepo, userRepo, mailer,
		usecase.RetryPolicy{
			MaxAttempts: cfg.WebhookLookupAttempts,
			Delay:       cfg.WebhookLookupDelay,
		},
	)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	diaryUC := usecase.NewDiaryUsecase(diaryRepo)
	mealPlanUC := usecase.NewMealPlanUsecase(mealPlanRepo, entitlementRepo)
	cleaningUC := usecase.NewCleaningUsecase(cleaningRepo, entitlementRepo)
	habitUC := usecase.NewHabitUsecase(habitRepo, habitLogRepo, entitlementRepo)

	//Handler生成 → サーバー起動
	h := server.Handlers{
		Auth:     handler.NewAuthHandler(registerUC, loginUC),
		Module:   handler.NewModuleHandler(moduleUC),
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Webhook:  handler.NewWebhookHandler(webhookUC, cfg.PaymentWebhookSecret),
		Order:    handler.NewOrderHandler(orderUC),
		Diary:    handler.NewDiaryHandler(diaryUC),
		MealPlan: handler.NewMealPlanHandler(mealPlanUC),
		Cleaning: handler.NewCleaningHandler(cleaningUC),
		Habit:    handler.NewHabitHandler(habitUC),
	}

	if err := server.Start(cfg, h); err != nil {
		log.Fatalf("server: %v", err)
	}
}
