package config

import (
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-backoffice/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "backoffice_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase fills in the reference data a fresh install needs: the role
// set, the room categories, and one back-office user.
func SeedDatabase() {
	desiredRoles := []models.Role{
		{Name: "owner", Description: "System owner with full access"},
		{Name: "manager", Description: "Manager with elevated access"},
		{Name: "receptionist", Description: "Front desk operations"},
	}
	for i := range desiredRoles {
		role := desiredRoles[i]
		var existing models.Role
		err := DB.Where("LOWER(name) = ?", strings.ToLower(role.Name)).First(&existing).Error
		if err == nil && existing.ID != 0 {
			continue
		}
		if err := DB.Create(&role).Error; err != nil {
			slog.Warn("failed to seed role", "role", role.Name, "error", err)
		}
	}

	var catCount int64
	DB.Model(&models.RoomCategory{}).Count(&catCount)
	if catCount == 0 {
		categories := []models.RoomCategory{
			{Name: "Standard", Description: "Standard Room", Price: 100, MaxGuests: 2},
			{Name: "Superior", Description: "Superior Room", Price: 150, MaxGuests: 3},
			{Name: "Deluxe", Description: "Deluxe Room", Price: 220, MaxGuests: 4},
			{Name: "Suite", Description: "Suite", Price: 400, MaxGuests: 5},
		}
		if err := DB.Create(&categories).Error; err != nil {
			slog.Warn("failed to seed room categories", "error", err)
		} else {
			slog.Info("room categories seeded")
		}
	}

	var userCount int64
	DB.Model(&models.User{}).Count(&userCount)
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("SEED_ADMIN_PASSWORD", "changeme123")), bcrypt.DefaultCost)
		if err != nil {
			slog.Warn("failed to hash seed user password", "error", err)
			return
		}
		var owner models.Role
		var roleID *uint
		if err := DB.Where("name = ?", "owner").First(&owner).Error; err == nil {
			roleID = &owner.ID
		}
		user := models.User{
			FullName: "Back Office Admin",
			Email:    envOrDefault("SEED_ADMIN_EMAIL", "admin@hotel.local"),
			Password: string(hash),
			RoleID:   roleID,
		}
		if err := DB.Create(&user).Error; err != nil {
			slog.Warn("failed to seed admin user", "error", err)
		} else {
			slog.Info("admin user seeded", "email", user.Email)
		}
	}
}

// ConnectDatabase opens the MySQL connection, runs migrations in
// parent-to-child order and seeds reference data.
func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}
	DB = db

	if err := MigrateAndSeed(db); err != nil {
		return err
	}
	return nil
}

// MigrateAndSeed is split out so tests can run it against their own
// database handle.
func MigrateAndSeed(db *gorm.DB) error {
	DB = db
	if err := db.AutoMigrate(
		&models.Role{},
		&models.RoomCategory{},
		&models.Hotel{},
		&models.User{},
		&models.Room{},
		&models.Order{},
		&models.Payment{},
		&models.Review{},
	); err != nil {
		return err
	}
	SeedDatabase()
	return nil
}
