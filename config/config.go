package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/plutov/paypal/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gatherly/api/internal/models"
	"github.com/gatherly/api/internal/payments"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"gatherly"`

	JWTSecret string `env:"JWT_SECRET"`

	PayPalClientID string `env:"PAYPAL_CLIENT_ID"`
	PayPalSecret   string `env:"PAYPAL_SECRET"`
	PayPalLive     bool   `env:"PAYPAL_LIVE" envDefault:"false"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"./uploads"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}
	return cfg, nil
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.Role{}, &models.User{}, &models.Event{}, &models.Registration{})
	if err != nil {
		return nil, err
	}

	seedRoles(db)

	return db, nil
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: models.RoleStaff},
		{Name: models.RoleNonStaff},
	}

	for _, role := range roles {
		var existingRole models.Role
		result := db.Where("name = ?", role.Name).First(&existingRole)
		if result.Error != nil {
			db.Create(&role)
		}
	}
}

func InitPayPal(cfg *Config) (payments.Provider, error) {
	apiBase := paypal.APIBaseSandBox
	if cfg.PayPalLive {
		apiBase = paypal.APIBaseLive
	}
	return payments.NewPayPalProvider(cfg.PayPalClientID, cfg.PayPalSecret, apiBase)
}
