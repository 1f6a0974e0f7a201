// Package main 是应用程序的入口点。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chatmsg-go/internal/config"
	"chatmsg-go/internal/model"
	"chatmsg-go/internal/repository"
	"chatmsg-go/internal/service"
	"chatmsg-go/pkg/database"
	"chatmsg-go/pkg/kafka"
	"chatmsg-go/pkg/log"
	"chatmsg-go/pkg/metrics"
	"chatmsg-go/pkg/pubsub"
	"chatmsg-go/pkg/store"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. 初始化配置
	config.Init(*configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化事件发布器
	publisher, closePublisher, err := newPublisher(context.Background(), cfg.Events)
	if err != nil {
		log.Fatal("事件发布器初始化失败", err)
	}
	defer closePublisher()

	// 4. 初始化存储、Repository 与 Service (依赖注入)
	messageStore := store.NewKeyed[model.ChatMessage]()
	chatMessageRepo := repository.NewChatMessageRepository(messageStore)
	chatMessageService := service.NewChatMessageService(chatMessageRepo, publisher, cfg.Store.MaxRecords)

	m := metrics.New()
	m.RegisterStoreSize(messageStore.Len)

	// 5. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := newRouter(cfg.Server, chatMessageService, m, messageStore.Len)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP 服务器关闭失败", err)
		return
	}
	log.Info("服务已优雅关闭")
}

// newPublisher 根据 events.driver 构造事件发布器，返回的 close 函数用于停机时释放连接。
func newPublisher(ctx context.Context, cfg config.EventsConfig) (service.EventPublisher, func(), error) {
	switch cfg.Driver {
	case "redis":
		rdb, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("记录变更事件将发布到 Redis 频道 '%s'", cfg.Redis.Channel)
		return pubsub.NewRedisPublisher(rdb, cfg.Redis.Channel), func() { _ = rdb.Close() }, nil
	case "kafka":
		producer := kafka.NewProducer(cfg.Kafka)
		return producer, func() {
			if err := producer.Close(); err != nil {
				log.Error("关闭 Kafka 生产者失败", err)
			}
		}, nil
	default:
		log.Info("未启用记录变更事件发布")
		return service.NopPublisher{}, func() {}, nil
	}
}
