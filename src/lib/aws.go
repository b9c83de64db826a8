package lib

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awsched "github.com/aws/aws-sdk-go-v2/service/scheduler"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

func awsGetSdkClient() (*aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Error loading default config: %s\n", err.Error())
		return nil, err
	}
	return &cfg, nil
}

func AWSGetSchedulerClient() *awsched.Client {
	cfg, err := awsGetSdkClient()
	if err != nil {
		log.Printf("Failed to initialize Scheduler client: %s\n", err.Error())
		return nil
	}
	client := awsched.NewFromConfig(*cfg)
	return client
}
func AWSGetSQSClient() *sqs.Client {
	cfg, err := awsGetSdkClient()
	if err != nil {
		log.Printf("Failed to initialize SQS client: %s\n", err.Error())
		return nil
	}
	client := sqs.NewFromConfig(*cfg)
	return client
}
func AWSGetSNSClient() *sns.Client {
	cfg, err := awsGetSdkClient()
	if err != nil {
		log.Printf("Failed to initialize SNS client: %s\n", err.Error())
		return nil
	}
	client := sns.NewFromConfig(*cfg)
	return client
}
func AWSGetSecretsManagerClient() *secretsmanager.Client {
	cfg, err := awsGetSdkClient()
	if err != nil {
		log.Printf("Failed to initialize SecretsManager client: %s\n", err.Error())
		return nil
	}
	client := secretsmanager.NewFromConfig(*cfg)
	return client
}

// GetTopicArn expands a bare topic name to its SNS ARN using the configured
// region and account id.
func GetTopicArn(topic string) string {
	region := os.Getenv("AWS_REGION")
	member := os.Getenv("AWS_MEMBER_ID")
	return fmt.Sprintf("arn:aws:sns:%s:%s:%s", region, member, topic)
}

// SecretsGetValue reads a plain-text secret from Secrets Manager.
func SecretsGetValue(name string) (*string, error) {
	client := AWSGetSecretsManagerClient()
	out, err := client.GetSecretValue(context.TODO(), &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		log.Printf("Error retrieving secret [%s]: %s\n", name, err.Error())
		return nil, err
	}
	return out.SecretString, nil
}

func SQSProduceMessage(queue string, body string) error {
	client := AWSGetSQSClient()
	qurl, err := client.GetQueueUrl(context.TODO(), &sqs.GetQueueUrlInput{
		QueueName: aws.String(queue),
	})
	if err != nil {
		log.Printf("Failed to retrieve queue URL for %s: %s\n", queue, err.Error())
		return err
	}
	out, err := client.SendMessage(context.Background(), &sqs.SendMessageInput{
		QueueUrl:    qurl.QueueUrl,
		MessageBody: aws.String(body),
	})
	if err != nil {
		log.Printf("Could not send message to queue: %s\n", err.Error())
		return err
	}
	log.Printf("Message sent to queue: %s\n", *out.MessageId)
	return nil
}

func SQSDeleteMessage(c *sqs.Client, qurl *string, msg *sqsTypes.Message) {
	_, err := c.DeleteMessage(context.TODO(), &sqs.DeleteMessageInput{
		QueueUrl:      qurl,
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		log.Printf("Error deleting message from queue: %s\n", err.Error())
		return
	}
}

func SNSPublishMessage(topic string, message string) error {
	client := AWSGetSNSClient()
	out, err := client.Publish(context.Background(), &sns.PublishInput{
		TopicArn: aws.String(GetTopicArn(topic)),
		Message:  aws.String(message),
	})
	if err != nil {
		log.Printf("Error publishing to topic [%s]: %s\n", topic, err.Error())
		return err
	}
	log.Printf("Published message to topic [%s]: %s\n", topic, *out.MessageId)
	return nil
}
