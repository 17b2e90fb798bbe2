package main

import (
	"log"

	"github.com/joho/godotenv"

	"fogstudy/internal/config"
	"fogstudy/internal/study"
	"fogstudy/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	s, err := study.Load(appConfig.Data)
	if err != nil {
		log.Fatalf("Failed to load study data from %s: %v", appConfig.Data.Dir, err)
	}

	app := ui.NewApp(s, ui.Config{
		Port:       appConfig.Server.Port,
		SampleSeed: appConfig.Server.SampleSeed,
		Style:      appConfig.Chart,
	})

	log.Fatal(app.Start())
}
