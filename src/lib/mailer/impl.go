package mailer

import (
	"encoding/json"
	"fmt"
	"os"
	"tbs/src/lib"
	awslib "tbs/src/lib/aws"
	"tbs/src/types"
	"tbs/src/utils"
)

// NewMailerMessage queues an email for async delivery. Local environments
// publish to Kafka, deployed environments go through SQS.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	apiEnv := os.Getenv("API_ENV")
	emailBody := &types.JSONB{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"reply-to":  input.ReplyTo,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
	}
	if apiEnv == "local" {
		if err := lib.KafkaProduceMessage("emails", utils.WithSuffix(emailQueue), emailBody); err != nil {
			return fmt.Errorf("error sending message to queue: %s", err.Error())
		}
		return nil
	}
	body, err := json.Marshal(&emailBody)
	if err != nil {
		return err
	}
	if err := lib.SQSProduceMessage(utils.WithSuffix(emailQueue), string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}

// SendQueuedMail delivers a payload produced by NewMailerMessage. Consumers
// feed it raw queue messages. Local environments relay through SMTP, deployed
// environments go out via SES.
func SendQueuedMail(payload string) error {
	var body map[string]any
	if err := json.Unmarshal([]byte(payload), &body); err != nil {
		return err
	}
	input := &lib.SendMailInput{}
	if v, ok := body["from"].(string); ok {
		input.From = v
	}
	if v, ok := body["from-name"].(string); ok {
		input.FromName = v
	}
	if v, ok := body["reply-to"].(string); ok {
		input.ReplyTo = v
	}
	if v, ok := body["subject"].(string); ok {
		input.Subject = v
	}
	if v, ok := body["body"].(string); ok {
		input.Body = v
	}
	if v, ok := body["html"].(bool); ok {
		input.Html = v
	}
	if to, ok := body["to"].([]any); ok {
		for _, t := range to {
			if s, ok := t.(string); ok {
				input.To = append(input.To, s)
			}
		}
	}
	if os.Getenv("API_ENV") == "local" {
		return lib.SendMail(input)
	}
	for _, to := range input.To {
		if err := awslib.SESSendEmail(input.From, to, input.Subject, input.Body); err != nil {
			return err
		}
	}
	return nil
}
