package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"tbs/src/types"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

func GetKafkaProducerConfig(clientId string) kafka.ConfigMap {
	return kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	}
}

// KafkaConsumer subscribes to a topic and feeds every message body to the
// handler on a background goroutine.
func KafkaConsumer(groupId string, topic string, handler types.Handler) {
	cfg := kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"group.id":          groupId,
		"auto.offset.reset": "smallest",
		"retry.backoff.ms":  100,
	}
	consumer, err := kafka.NewConsumer(&cfg)
	if err != nil {
		log.Printf("Error on consumer: %s\n", err.Error())
		return
	}
	if err := consumer.SubscribeTopics([]string{topic}, nil); err != nil {
		log.Printf("Error subscribing to topic [%s]: %s\n", topic, err.Error())
		return
	}
	go func() {
		log.Printf("[%s] waiting for messages...\n", topic)
		run := true
		for run {
			ev := consumer.Poll(100)
			switch e := ev.(type) {
			case *kafka.Message:
				handler(string(e.Value))
			case kafka.Error:
				fmt.Fprintf(os.Stderr, "%% Error: %v\n", e)
				run = false
			default:
			}
		}
		consumer.Close()
	}()
}

func KafkaProduceMessage(clientId string, topic string, payload *types.JSONB) error {
	cfg := GetKafkaProducerConfig(clientId)
	p, err := kafka.NewProducer(&cfg)
	if err != nil {
		log.Printf("Error on producer: %s\n", err.Error())
		return err
	}
	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error processing payload: %s\n", err.Error())
		return err
	}
	err = p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, nil)
	if err != nil {
		log.Printf("Error sending data to queue: %s\n", err.Error())
		return err
	}
	return nil
}

func KafkaCreateTopics(topics ...string) ([]kafka.TopicResult, error) {
	a, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
	})
	if err != nil {
		log.Printf("Error on AdminClient: %s\n", err.Error())
		return nil, err
	}
	topicsDef := []kafka.TopicSpecification{}
	for _, topic := range topics {
		topicsDef = append(topicsDef, kafka.TopicSpecification{
			Topic:         topic,
			NumPartitions: 10,
		})
	}
	result, err := a.CreateTopics(context.Background(), topicsDef)
	if err != nil {
		log.Printf("Error creating topics: %s\n", err.Error())
		return nil, err
	}
	return result, nil
}
