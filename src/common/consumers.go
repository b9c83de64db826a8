package common

import (
	"fmt"
	"log"
	"os"
	"tbs/src/lib"
	"tbs/src/lib/mailer"
	"tbs/src/types"
	"tbs/src/utils"

	awslib "tbs/src/lib/aws"

	"github.com/tidwall/gjson"
)

func emailQueueHandler(payload string) {
	if !gjson.Valid(payload) {
		log.Println("[Emails]: Received invalid json body. Aborting")
		return
	}
	if err := mailer.SendQueuedMail(payload); err != nil {
		log.Printf("[Emails]: Error delivering queued mail: %s\n", err.Error())
	}
}

func balanceDueHandler(payload string) {
	if !gjson.Valid(payload) {
		log.Println("[BalanceDueReminders]: Received invalid json body. Aborting")
		return
	}
	id := gjson.Get(payload, "id").Uint()
	due := gjson.Get(payload, "due").Float()
	email := gjson.Get(payload, "email").String()
	log.Printf("[BalanceDueReminders]: booking=%d due=%.2f", id, due)

	booking, err := GetBooking(uint(id))
	if err != nil {
		log.Printf("[BalanceDueReminders]: %s\n", err.Error())
		return
	}
	if booking.PaymentStatus != types.PAYMENT_PAID || booking.DueAmount <= 0 {
		return
	}
	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("Balance due for your %s booking", booking.Trip.Title),
		From:     senderFrom,
		FromName: "noreply",
		To:       []string{email},
		Body: fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Your departure is coming up. The remaining balance of %s %.2f is due before the trip starts.</p>`,
			booking.Name,
			booking.Currency,
			booking.DueAmount,
		),
		Html: true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[BalanceDueReminders]: Error queueing reminder: %s\n", err.Error())
	}
}

func settledEventHandler(payload string) {
	if !gjson.Valid(payload) {
		log.Println("[BookingsSettled]: Received invalid json body. Aborting")
		return
	}
	id := gjson.Get(payload, "id").Uint()
	txnid := gjson.Get(payload, "txnid").String()
	log.Printf("[BookingsSettled]: booking=%d txnid=%s", id, txnid)
}

// SQSConsumers starts the queue listeners for deployed environments.
func SQSConsumers() {
	dlq := awslib.NewSQSConsumer(utils.WithSuffix("DLQ"), func(payload string) {
		log.Println("DLQ: message received")
	})
	dlq.Listen()
	emailQueue := os.Getenv("EMAIL_QUEUE")
	emails := awslib.NewSQSConsumer(utils.WithSuffix(emailQueue), emailQueueHandler)
	emails.Listen()
	reminders := awslib.NewSQSConsumer(utils.WithSuffix("BalanceDueReminders"), balanceDueHandler)
	reminders.Listen()
	settled := awslib.NewSQSConsumer(utils.WithSuffix("BookingsSettled"), settledEventHandler)
	settled.Listen()
}

// KafkaConsumers starts the local equivalents of the queue listeners.
func KafkaConsumers() {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	lib.KafkaConsumer("emails-group", utils.WithSuffix(emailQueue), emailQueueHandler)
	lib.KafkaConsumer("reminders-group", utils.WithSuffix("BalanceDueReminders"), balanceDueHandler)
	lib.KafkaConsumer("bookings-group", utils.WithSuffix("BookingsSettled"), settledEventHandler)
}
