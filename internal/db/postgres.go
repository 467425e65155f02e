package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	types "github.com/yungbote/talentgrid-backend/internal/domain"
	"github.com/yungbote/talentgrid-backend/internal/platform/envutil"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.String("POSTGRES_HOST", "localhost")
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "talentgrid")
	sslMode := envutil.String("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, name, sslMode)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},

		&types.Review{},
		&types.Goal{},
		&types.CompetencyScore{},

		&types.CalibrationSession{},
		&types.CalibrationSessionReview{},
		&types.CalibrationParticipant{},
		&types.CalibrationAdjustment{},

		&types.AuditLogEntry{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// The append-only tables keep their guarantee at the database level:
	// application roles get no UPDATE or DELETE grant on them.
	appRole := envutil.String("POSTGRES_APP_ROLE", "")
	if appRole != "" {
		for _, table := range []string{"calibration_adjustment", "audit_log"} {
			stmt := fmt.Sprintf(`REVOKE UPDATE, DELETE ON %q FROM %q;`, table, appRole)
			if err := s.db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("revoke update/delete on %s: %w", table, err)
			}
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
