package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"example.com/tripplanner/bootstrap"
	"example.com/tripplanner/config"
	"example.com/tripplanner/log"
	"example.com/tripplanner/reqctx"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	log.Init()

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info(context.Background(), "Program terminated externally. Exiting...")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}

	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(context.Background(), "Setup failed: %v", err)
	}

	fmt.Println("Trip Planner: ask about flights, hotels, restaurants, and attractions. Ctrl+C to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		userText := scanner.Text()
		if userText == "" {
			continue
		}

		cycleCtx := reqctx.WithRequestID(ctx, reqctx.NewRequestID())
		answer, err := app.Session.RunCycle(cycleCtx, userText)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			log.Errorf(cycleCtx, "Cycle failed: %v", err)
			fmt.Println("Something went wrong handling that request. Please try again.")
			continue
		}

		fmt.Println(answer)
	}

	if err := scanner.Err(); err != nil {
		log.Errorf(ctx, "Input error: %v", err)
	}
}
