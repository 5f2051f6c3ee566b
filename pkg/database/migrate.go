package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationsDir = "migrations"
	// MigrationsTable 迁移版本表，避开 golang-migrate 默认的 schema_migrations
	MigrationsTable = "lms_schema_migrations"
)

// RunMigrations 执行 LMS 表结构迁移
// 自动检测当前版本并应用所有未执行的迁移；dirty 状态直接报错，需人工修复后再启动
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	versions, err := migrationVersions(migrationsFS)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("读取迁移版本失败: %w", err)
	}
	if dirty {
		return fmt.Errorf("数据库迁移处于 dirty 状态 (version=%d)，请手动修复 %s", version, MigrationsTable)
	}

	logger.Info("数据库迁移完成",
		zap.Uint("version", version),
		zap.String("latest", versions[len(versions)-1]),
		zap.Int("files", len(versions)))
	return nil
}

// migrationVersions 校验迁移文件成对出现（up/down），返回排序后的版本号
func migrationVersions(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("读取迁移目录失败: %w", err)
	}

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		version, _, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("迁移文件名不合法: %s", name)
		}
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[version] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[version] = true
		default:
			return nil, fmt.Errorf("迁移文件名不合法: %s", name)
		}
	}

	versions := make([]string, 0, len(ups))
	for v := range ups {
		if !downs[v] {
			return nil, fmt.Errorf("迁移 %s 缺少 down 文件", v)
		}
		versions = append(versions, v)
	}
	for v := range downs {
		if !ups[v] {
			return nil, fmt.Errorf("迁移 %s 缺少 up 文件", v)
		}
	}
	if len(versions) == 0 {
		return nil, errors.New("未找到迁移文件")
	}
	sort.Strings(versions)
	return versions, nil
}
