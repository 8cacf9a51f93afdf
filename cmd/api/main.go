package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/riolentius/hideki-store-backend/internal/app"
)

func main() {
	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		if err := a.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := a.Run(); err != nil {
		log.Fatal(err)
	}
}
