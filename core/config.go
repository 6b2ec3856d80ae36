package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string
		AppName  string

		SecretKey        string
		WorkDir          string
		DefaultFromEmail mail.Address

		Server   ServerConfig
		Store    StoreConfig
		Database DatabaseConfig

		SendgridAPIKey string
		RollbarToken   string

		Calendar CalendarConfig
		Reminder ReminderConfig
	}

	ServerConfig struct {
		Host               string
		APIAddress         string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	// StoreConfig selects the Reference Store adapter.
	// Backend is one of "postgrest" (hosted Supabase) or "postgres" (self-hosted).
	StoreConfig struct {
		Backend        string
		PostgrestURL   string
		PostgrestToken string
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	CalendarConfig struct {
		ID             string // "primary" unless a dedicated calendar is configured
		CredentialsDir string
	}

	ReminderConfig struct {
		WindowDays int
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Shutsugan")
	conf.SetDefault("secretKey", "x1u$+f0r-l0c4l-d3v-0nly(ch4ng3-m3)")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverApiAddress", ":8000")
	conf.SetDefault("serverDebugHost", "localhost:4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("storeBackend", "postgrest")
	conf.SetDefault("postgrestUrl", "")
	conf.SetDefault("postgrestToken", "")
	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseName", "shutsugan")
	conf.SetDefault("databaseUser", "")
	conf.SetDefault("databasePassword", "")
	conf.SetDefault("databaseAdminUser", "")
	conf.SetDefault("databaseAdminPassword", "")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseDisableTls", true)
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("calendarId", "primary")
	conf.SetDefault("calendarCredentialsDir", "")
	conf.SetDefault("reminderWindowDays", 7)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	wd := getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:            conf.GetBool("debug"),
		TestMode:         testMode,
		Env:              env,
		Build:            conf.GetString("build"),
		AppName:          conf.GetString("appName"),
		SecretKey:        conf.GetString("secretKey"),
		WorkDir:          wd,
		DefaultFromEmail: mail.Address{Address: conf.GetString("defaultFromEmail")},
		Server: ServerConfig{
			Host:               conf.GetString("serverHost"),
			APIAddress:         conf.GetString("serverApiAddress"),
			DebugHost:          conf.GetString("serverDebugHost"),
			ShutdownTimeout:    conf.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		},
		Store: StoreConfig{
			Backend:        conf.GetString("storeBackend"),
			PostgrestURL:   conf.GetString("postgrestUrl"),
			PostgrestToken: conf.GetString("postgrestToken"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Name:          conf.GetString("databaseName"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			DisableTLS:    conf.GetBool("databaseDisableTls"),
		},
		SendgridAPIKey: conf.GetString("sendgridApiKey"),
		RollbarToken:   conf.GetString("rollbarToken"),
		Calendar: CalendarConfig{
			ID:             conf.GetString("calendarId"),
			CredentialsDir: conf.GetString("calendarCredentialsDir"),
		},
		Reminder: ReminderConfig{
			WindowDays: conf.GetInt("reminderWindowDays"),
		},
	}
}

func getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd: %v", err)
	}
	return wd
}
