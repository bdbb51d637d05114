package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// 全ハンドラの束。mainでDIして渡す。
type Handlers struct {
	Auth     *handler.AuthHandler
	Module   *handler.ModuleHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Webhook  *handler.WebhookHandler
	Order    *handler.OrderHandler
	Diary    *handler.DiaryHandler
	MealPlan *handler.MealPlanHandler
	Cleaning *handler.CleaningHandler
	Habit    *handler.HabitHandler
}

// New はechoを組み立ててルートを登録する。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	h.Auth.RegisterRoutes(e)
	h.Module.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.Webhook.RegisterRoutes(e)
	h.Order.RegisterRoutes(e, cfg)
	h.Diary.RegisterRoutes(e, cfg)
	h.MealPlan.RegisterRoutes(e, cfg)
	h.Cleaning.RegisterRoutes(e, cfg)
	h.Habit.RegisterRoutes(e, cfg)

	return e
}

func Start(cfg config.Config, h Handlers) error {
	e := New(cfg, h)
	return e.Start(":" + cfg.Port)
}
