package config

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory    = "memory"
	StoreMariaDB   = "mariadb"
	StoreFirestore = "firestore"

	defaultPort         = "8080"
	defaultTimezone     = "Asia/Jakarta"
	defaultLogbookPath  = "data/logbook.log"
	defaultPollInterval = 2 * time.Second
)

type Config struct {
	AppEnv     string
	Port       string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	StoreDriver          string
	StorePollInterval    time.Duration
	FirestoreProject     string
	FirestoreDatabase    string
	FirestoreCredentials string

	AdminPasswordHash string
	RosterFile        string
	LogbookPath       string
	Timezone          string
}

var (
	cfg  *Config
	once sync.Once
)

func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found. Relying on environment variables.")
		}
		cfg = fromEnv()
	})
	return cfg
}

func fromEnv() *Config {
	c := &Config{
		AppEnv:               os.Getenv("APP_ENV"),
		Port:                 os.Getenv("PORT"),
		DBUser:               os.Getenv("DB_USER"),
		DBPassword:           os.Getenv("DB_PASSWORD"),
		DBHost:               os.Getenv("DB_HOST"),
		DBPort:               os.Getenv("DB_PORT"),
		DBName:               os.Getenv("DB_NAME"),
		JWTSecret:            os.Getenv("JWT_SECRET_KEY"),
		StoreDriver:          strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER"))),
		FirestoreProject:     os.Getenv("FIRESTORE_PROJECT"),
		FirestoreDatabase:    os.Getenv("FIRESTORE_DATABASE"),
		FirestoreCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		AdminPasswordHash:    os.Getenv("ADMIN_PASSWORD_HASH"),
		RosterFile:           os.Getenv("ROSTER_FILE"),
		LogbookPath:          os.Getenv("LOGBOOK_PATH"),
		Timezone:             os.Getenv("TZ_NAME"),
	}
	if raw := strings.TrimSpace(os.Getenv("STORE_POLL_INTERVAL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			c.StorePollInterval = d
		} else {
			log.Printf("Warning: STORE_POLL_INTERVAL %q tidak valid: %v", raw, err)
		}
	}
	c.normalize()
	return c
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.Port) == "" {
		c.Port = defaultPort
	}
	switch c.StoreDriver {
	case StoreMariaDB, StoreFirestore, StoreMemory:
	default:
		c.StoreDriver = StoreMemory
	}
	if c.StorePollInterval <= 0 {
		c.StorePollInterval = defaultPollInterval
	}
	if c.FirestoreDatabase == "" {
		c.FirestoreDatabase = "(default)"
	}
	if c.LogbookPath == "" {
		c.LogbookPath = defaultLogbookPath
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
}

// Location memuat zona waktu kerja, jatuh ke UTC bila tidak dikenal.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: zona waktu %q tidak dikenal, memakai UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}
