// Package kafka provides topic bootstrap and broker readiness-probing for the app
package kafka

import (
	"context"
	"errors"
	"log"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// InitTopic creates the lifecycle-events topic, retrying until the broker
// accepts the request or the context is canceled.
func InitTopic(ctx context.Context, brokerAddr string, delay time.Duration, topic string) {
	client := &kafkago.Client{
		Addr:    kafkago.TCP(brokerAddr),
		Timeout: 10 * time.Second,
	}

	req := kafkago.CreateTopicsRequest{
		Topics: []kafkago.TopicConfig{{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}},
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Topic creation canceled")
			return
		default:
		}

		resp, err := client.CreateTopics(ctx, &req)
		if err != nil {
			log.Printf("Failed to run topic creation request: %v\nWait %v before next try...", err, delay)
			time.Sleep(delay)
			continue
		}

		if topicErr := resp.Errors[topic]; topicErr == nil || errors.Is(topicErr, kafkago.TopicAlreadyExists) {
			log.Printf("Topic %q is ready!", topic)
			return
		} else {
			log.Printf("Topic %q creation error: %v\nWait %v before next try...", topic, topicErr, delay)
			time.Sleep(delay)
		}
	}
}

// WaitKafkaReady blocks until the broker accepts a TCP dial - the events
// container usually comes up later than the app does.
func WaitKafkaReady(brokerAddr string, delay time.Duration) {
	for {
		conn, err := kafkago.Dial("tcp", brokerAddr)
		if err == nil {
			if errConn := conn.Close(); errConn != nil {
				log.Println("Failed to close connection after probing Kafka readiness:", errConn)
			}
			break
		}
		log.Printf("Kafka not ready, retrying in %v...", delay)
		time.Sleep(delay)
	}
	log.Println("Kafka is ready!")
}
