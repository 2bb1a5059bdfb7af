package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env необязателен: в контейнере всё приходит через окружение
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "officehours_bot",
		Usage: "Telegram-бот записи на консультации",
		Commands: []*cli.Command{
			runCommand(),
			migrateCommand(),
			versionCommand(),
			googleAuthCommand(),
			weekPreviewCommand(),
		},
		DefaultCommand: "run",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("officehours_bot: %v", err)
	}
}
