package boot

import (
	"log"
	"os"
	"tbs/src/common"
	"tbs/src/config"
	"tbs/src/db"
	"tbs/src/lib"
	"tbs/src/models"
	"tbs/src/types"
	"tbs/src/utils"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Trip{},
		&models.PricingVariant{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.Booking{},
		&models.PaymentAttempt{},
		&models.CallbackLog{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// SeedLocalTrips inserts a sample trip on the first boot of a local
// environment so the pricing endpoints have something to serve. The
// slug is derived from the title on insert.
func SeedLocalTrips() {
	if config.API_ENV != string(types.Local) {
		return
	}
	gdb := db.GetDb()
	var count int64
	if err := gdb.Model(&models.Trip{}).Count(&count).Error; err != nil {
		log.Printf("Error counting trips: %s\n", err.Error())
		return
	}
	if count > 0 {
		return
	}
	trip := models.Trip{
		Title:    "Spiti Valley Circuit",
		About:    "8 days across the cold desert",
		Currency: "INR",
		Active:   true,
		Variants: []models.PricingVariant{
			{Sharing: "double", Transport: "bus", UnitPrice: 18500},
			{Sharing: "triple", Transport: "bus", UnitPrice: 17000},
		},
	}
	if _, err := common.CreateTrip(&trip); err != nil {
		log.Printf("Error seeding trips: %s\n", err.Error())
		return
	}
	log.Printf("Seeded trip [%s]\n", trip.Slug)
}

// InitGateway resolves the gateway salt from Secrets Manager when
// deployed. Local environments read everything from the env file.
func InitGateway() {
	if config.API_ENV == string(types.Local) {
		return
	}
	secretName := os.Getenv("PAYU_SALT_SECRET_NAME")
	if secretName == "" {
		return
	}
	salt, err := lib.SecretsGetValue(secretName)
	if err != nil {
		log.Printf("Error resolving gateway salt: %s\n", err.Error())
		return
	}
	if salt != nil {
		os.Setenv("PAYU_MERCHANT_SALT", *salt)
	}
}

func InitBroker() {
	if config.API_ENV == string(types.Local) {
		emailQueue := os.Getenv("EMAIL_QUEUE")
		go lib.KafkaCreateTopics(
			utils.WithSuffix(emailQueue),
			utils.WithSuffix("BalanceDueReminders"),
			utils.WithSuffix("BookingsSettled"),
		)
		common.KafkaConsumers()
		return
	}
	common.SQSConsumers()
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(func() {
		common.SweepStalePendingBookings(24 * time.Hour)
	}, 1*time.Hour)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	log.Printf("Job ID: %s\n", *id)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}
