package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"project_chat_server/internal/config"
	dao "project_chat_server/internal/dao/mysql"
	myredis "project_chat_server/internal/dao/redis"
	"project_chat_server/internal/gateway/websocket"
	"project_chat_server/internal/handler"
	"project_chat_server/internal/https_server"
	"project_chat_server/internal/infrastructure/logger"
	"project_chat_server/internal/infrastructure/mq"
	"project_chat_server/internal/service"
	"project_chat_server/pkg/constants"
	"project_chat_server/pkg/util/jwt"
	"project_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化参数校验翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("校验翻译器初始化失败", zap.Error(err))
	}

	// 4. 初始化数据库
	dao.Init()
	zap.L().Info("数据库初始化成功")

	// 5. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 6. 初始化 JWT 与雪花 ID
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)

	// 7. 初始化事件代理（kafka / channel）
	mq.Init()

	// 8. 初始化 Service 层（依赖注入）
	service.InitServices(dao.Repos, myredis.GetCacheService(), mq.GetBroker())
	zap.L().Info("Service 层初始化成功")

	// 9. 后台回收过期的输入状态行
	// 读取正确性不依赖此任务，只防止存量堆积
	go func() {
		ticker := time.NewTicker(constants.TYPING_SWEEP_INTERVAL)
		defer ticker.Stop()
		for range ticker.C {
			if removed, err := service.Svc.Presence.SweepExpiredTyping(); err == nil && removed > 0 {
				zap.L().Info("回收过期输入状态", zap.Int64("rows", removed))
			}
		}
	}()

	// 10. 初始化 WebSocket 推送网关
	// 连接建立/断开顺带上报在线状态
	websocket.Init(mq.GetBroker(), func(userId string, online bool) {
		if err := service.Svc.Presence.SetOnline(userId, online); err != nil {
			zap.L().Error("上报在线状态失败", zap.Error(err))
		}
	})
	zap.L().Info("推送网关初始化成功")

	// 11. 初始化 HTTP 服务器并启动
	handlers := handler.NewHandlers(service.Svc)
	engine := https_server.Init(handlers)

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("服务启动成功",
		zap.String("host", conf.MainConfig.Host), zap.Int("port", conf.MainConfig.Port))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	mq.Close()
	zap.L().Info("服务器已关闭")
}
