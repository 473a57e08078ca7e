// Worker consumes queued email from Kafka and delivers it through Mailpit.
// Set KAFKA_BROKERS, EMAIL_KAFKA_TOPIC, KAFKA_GROUP_ID, and MAILPIT_URL.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"clinic-portal/backend/internal/config"
	"clinic-portal/backend/internal/email"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}
	if cfg.MailpitURL == "" {
		log.Fatal("worker: MAILPIT_URL is required")
	}

	topic := cfg.EmailKafkaTopic
	if topic == "" {
		topic = "portal-email"
	}
	groupID := cfg.KafkaGroupID
	if groupID == "" {
		groupID = "portal-email-worker"
	}

	client := email.NewMailpitClient(cfg.MailpitURL, cfg.SenderEmail, cfg.SenderName)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	log.Printf("worker: consuming from %s (group %s), delivering via %s", topic, groupID, cfg.MailpitURL)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("worker: stopped")
				return
			}
			log.Printf("worker: kafka read error: %v", err)
			continue
		}

		var m email.Message
		if err := json.Unmarshal(msg.Value, &m); err != nil {
			log.Printf("worker: bad message at offset %d: %v", msg.Offset, err)
			continue
		}

		sendCtx, sendCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := client.Send(sendCtx, m); err != nil {
			log.Printf("worker: delivery failed for %s: %v", m.To, err)
		}
		sendCancel()
	}
}
