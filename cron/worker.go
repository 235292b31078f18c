package cron

import (
	"context"
	"encoding/json"
	"log"

	"casaluna/config"
	"casaluna/models"
	"casaluna/services/tasks"
	"casaluna/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitNoticeWorker runs the async notice worker in the background. The
// worker is the delivery boundary: it logs the trigger payloads that an
// external mailer consumes. A failed handler is retried by asynq.
func InitNoticeWorker() *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeGuestConfirmation, handleGuestNotice("guest confirmation"))
	mux.HandleFunc(tasks.TypeGuestCancellation, handleGuestNotice("guest cancellation"))
	mux.HandleFunc(tasks.TypePreArrival, handleGuestNotice("pre-arrival notice"))
	mux.HandleFunc(tasks.TypeOwnerAlert, handleOwnerNotice)

	go func() {
		log.Println("[NoticeWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[NoticeWorker] worker stopped: %v", err)
		}
	}()
	return srv
}

func handleGuestNotice(kind string) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var notice models.GuestNotice
		if err := json.Unmarshal(t.Payload(), &notice); err != nil {
			return err
		}
		utils.GetLogger().Info("dispatching "+kind,
			zap.String("reservationID", notice.ReservationID),
			zap.String("guestEmail", notice.GuestEmail),
			zap.Time("checkIn", notice.CheckIn))
		return nil
	}
}

func handleOwnerNotice(ctx context.Context, t *asynq.Task) error {
	var notice models.OwnerNotice
	if err := json.Unmarshal(t.Payload(), &notice); err != nil {
		return err
	}
	utils.GetLogger().Info("dispatching owner alert",
		zap.String("reservationID", notice.ReservationID),
		zap.String("event", notice.Event),
		zap.String("guestName", notice.GuestName))
	return nil
}
