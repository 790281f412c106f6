// Package main (in api-subfolder) provides launch of the whole application except the auditor
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/UnendingLoop/ImageVault/internal/kafka"
	"github.com/UnendingLoop/ImageVault/internal/mwlogger"
	"github.com/UnendingLoop/ImageVault/internal/repository"
	"github.com/UnendingLoop/ImageVault/internal/repository/imgbadger"
	"github.com/UnendingLoop/ImageVault/internal/service"
	"github.com/UnendingLoop/ImageVault/internal/storage"
	"github.com/UnendingLoop/ImageVault/internal/transport"
	"github.com/UnendingLoop/ImageVault/internal/worker"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/ginext"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	if err := zlog.SetLevel("info"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// открываем базу метаданных
	store := repository.OpenWithRetries(appConfig, 5, 10*time.Second)
	repo := repository.NewBadgerImageRepo(store)

	// подключиться к хранилищу блобов
	strg := storage.NewImgStorage(appConfig, 10*time.Second)

	// ждем пока кафка раздуплится
	broker := appConfig.GetString("KAFKA_BROKER")
	kafka.WaitKafkaReady(broker, 10*time.Second)
	// создаем топик и подключаемся как продюсер
	topic := appConfig.GetString("KAFKA_TOPIC")
	kafka.InitTopic(ctx, broker, 10*time.Second, topic)
	pub := wbfkafka.NewProducer([]string{broker}, topic)

	// создаем экземпляр сервиса
	svcConfig := service.Config{
		MaxImageSize: int64(envInt(appConfig, "MAX_IMAGE_SIZE", 10<<20)),
		URLTTL:       envInt(appConfig, "URL_TTL", 3600),
	}
	var svc ImageAPIService = service.NewImageService(svcConfig, repo, pub, strg)
	// cоздаем экземпляр хендлера HTTP
	handlers := transport.NewImageHandler(svc)
	// сетапим сервер
	mode := appConfig.GetString("GIN_MODE")
	engine := ginext.New(mode)

	engine.GET("/ping", handlers.SimplePinger)
	engine.POST("/images", handlers.Upload)       // загрузка нового изображения
	engine.GET("/images", handlers.ListImages)    // список с фильтрами и пагинацией
	engine.GET("/images/:id", handlers.GetImage)  // метаданные + presigned-ссылка
	engine.DELETE("/images/:id", handlers.Delete) // удаление пары блоб+метаданные

	srv := &http.Server{
		Addr:    ":" + appConfig.GetString("APP_PORT"),
		Handler: mwlogger.NewMWLogger(engine),
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// запускаем аудитора консистентности в том же процессе - бэйджер
	// однопроцессный, отдельному бинарю базу не открыть
	queue := make(chan kafkago.Message)
	groupID := appConfig.GetString("KAFKA_GROUPID")
	cons := wbfkafka.NewConsumer([]string{broker}, topic, groupID)
	cons.StartConsuming(ctx, queue, retry.Strategy{
		Attempts: 5,
		Delay:    2 * time.Second,
		Backoff:  1.5,
	})
	go worker.NewAuditorInstance(strg, repo, queue, cons).StartAuditor(ctx)

	// ждем отмены контекста для запуска грейсфул закрытия базы и кафки
	<-ctx.Done()

	shutdown(pub, cons, store)
	log.Println("Exiting app...")
}

func envInt(appConfig *config.Config, key string, def int) int {
	raw := appConfig.GetString(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Incorrect value %q for %s. Using default value %d...", raw, key, def)
		return def
	}
	return val
}

func shutdown(pub *wbfkafka.Producer, cons *wbfkafka.Consumer, store *imgbadger.BadgerRepo) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	// Closing Kafka connections:
	if err := pub.Close(); err != nil {
		log.Println("Failed to close Kafka-producer:", err)
	}
	if err := cons.Close(); err != nil {
		log.Println("Failed to close Kafka-consumer:", err)
	}
	log.Println("Kafka connections closed.")

	// Closing metadata DB
	if err := store.Close(); err != nil {
		log.Println("Failed to close metadata DB correctly:", err)
		return
	}
	log.Println("Metadata DB closed")
}
