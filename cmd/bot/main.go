package main

import (
	"flag"

	"github.com/joho/godotenv"

	"taskbot/internal/app"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	// .env is a convenience for local runs; its absence is fine.
	_ = godotenv.Load()

	app.Run(*configPath)
}
