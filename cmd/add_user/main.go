// add_user 从命令行创建账号，主要用于初始化运营账号
//
//	go run ./cmd/add_user -email ops@example.com -name 运营 -password 'xxxxxxxx'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/greatson79/test1-lms-sub000/config"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/internal/repository"
	"github.com/greatson79/test1-lms-sub000/pkg/database"
	applogger "github.com/greatson79/test1-lms-sub000/pkg/logger"
)

func main() {
	email := flag.String("email", "", "登录邮箱")
	name := flag.String("name", "", "显示名称")
	password := flag.String("password", "", "初始密码（至少 8 位）")
	role := flag.String("role", model.RoleOperator, "角色: learner | instructor | operator")
	cfgPath := flag.String("config", os.Getenv("LMS_CONFIG"), "配置文件路径")
	flag.Parse()

	if *email == "" || *name == "" || len(*password) < 8 || !model.IsValidRole(*role) {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := repository.NewRepository(db)
	if _, err := repo.User.GetByEmail(ctx, *email); err == nil {
		logger.Fatal("邮箱已被注册", zap.String("email", *email))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Fatal("查询用户失败", zap.Error(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("密码哈希失败", zap.Error(err))
	}

	user := &model.User{
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         *role,
		Status:       model.UserStatusActive,
	}
	if err := repo.User.Create(ctx, user); err != nil {
		logger.Fatal("创建用户失败", zap.Error(err))
	}

	logger.Info("账号已创建",
		zap.String("user_id", user.UserID),
		zap.String("email", user.Email),
		zap.String("role", user.Role),
	)
}
