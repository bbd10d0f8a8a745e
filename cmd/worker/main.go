package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"backoffice/internal/config"
	"backoffice/internal/leads"
	"backoffice/internal/queue"
	"backoffice/internal/store"
)

// Worker consumes lead events from the queue and materializes agent
// notifications.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "backoffice:events")
	}

	leadSvc := leads.NewService(leads.NewRepository(db.Client), nil, nil)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		switch msg.Type {
		case leads.EventAssigned:
			var evt leads.AssignedEvent
			if err := json.Unmarshal(msg.Body, &evt); err != nil {
				log.Printf("decode %s failed: %v", msg.Type, err)
				continue
			}
			if err := leadSvc.RecordAssignment(ctx, evt); err != nil {
				log.Printf("record assignment %s failed: %v", evt.BatchID, err)
				continue
			}
			log.Printf("notified agent %d: %d lead(s) in batch %s", evt.AgentID, len(evt.LeadIDs), evt.BatchID)

		case leads.EventImported:
			var evt leads.ImportedEvent
			if err := json.Unmarshal(msg.Body, &evt); err != nil {
				log.Printf("decode %s failed: %v", msg.Type, err)
				continue
			}
			log.Printf("import batch %s: %d lead(s)", evt.BatchID, evt.Count)

		default:
			log.Printf("skipping message type %q", msg.Type)
		}
	}

	log.Println("worker stopped")
}
