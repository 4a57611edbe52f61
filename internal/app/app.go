package app

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskbot/internal/bot"
	"taskbot/internal/config"
	"taskbot/internal/session"
	"taskbot/internal/storage"
	"taskbot/internal/telegram"
)

// Run wires the application together and blocks until the process is
// stopped.
func Run(configPath string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Ошибка конфигурации: ", err)
	}

	store := storage.NewStore(cfg.Storage.DataFile)
	engine := bot.NewEngine(store, session.NewManager())

	tg, err := telegram.New(cfg.Telegram.Token, engine)
	if err != nil {
		log.Fatal("Ошибка подключения к Telegram: ", err)
	}

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)

	if cfg.Telegram.Mode == config.ModeWebhook {
		if err := tg.RegisterWebhook(cfg.Telegram.WebhookURL); err != nil {
			log.Fatal("Ошибка установки вебхука: ", err)
		}
		router.POST("/telegram/webhook", tg.WebhookHandler())
		log.Printf("🤖 Бот запущен (webhook), сервер на %s", listenAddr)
		if err := router.Run(listenAddr); err != nil {
			log.Fatal("Ошибка запуска сервера: ", err)
		}
		return
	}

	go func() {
		if err := router.Run(listenAddr); err != nil {
			log.Fatal("Ошибка запуска сервера: ", err)
		}
	}()
	log.Printf("🤖 Бот запущен (polling), сервер на %s", listenAddr)
	tg.RunPolling()
}
