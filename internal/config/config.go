// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address" env:"SERVER_ADDRESS"`

	// DatabaseDSN holds the database connection string. When empty the DSN
	// is assembled from Database.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_URL"`

	// Database holds discrete connection fields and pool sizing.
	Database Database `json:"database" envPrefix:"DB_"`

	// Clarifai holds the face-detection service credentials.
	Clarifai Clarifai `json:"clarifai" envPrefix:"CLARIFAI_"`

	// CORSAllowedOrigins lists origins allowed to call the API from a browser.
	CORSAllowedOrigins []string `json:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// StaticDir, when set, is served as a single-page app for unmatched GET routes.
	StaticDir string `json:"static_dir" env:"STATIC_DIR"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `json:"tls_cert_file" env:"TLS_CERT_FILE"`
	TLSKeyFile  string `json:"tls_key_file" env:"TLS_KEY_FILE"`

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// OrphanSweepInterval is how often dangling login rows are removed. Zero disables the sweeper.
	OrphanSweepInterval time.Duration `json:"-" env:"ORPHAN_SWEEP_INTERVAL"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Database contains discrete PostgreSQL connection parameters.
type Database struct {
	Host     string `json:"host" env:"HOST"`
	Port     string `json:"port" env:"PORT"`
	User     string `json:"user" env:"USER"`
	Password string `json:"password" env:"PASSWORD"`
	Name     string `json:"name" env:"NAME"`
	SSLMode  string `json:"sslmode" env:"SSLMODE"`

	MaxOpenConns int `json:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns int `json:"max_idle_conns" env:"MAX_IDLE_CONNS"`
}

// Clarifai contains the credentials of the face-detection model.
type Clarifai struct {
	PAT     string `json:"pat" env:"PAT"`
	UserID  string `json:"user_id" env:"USER_ID"`
	AppID   string `json:"app_id" env:"APP_ID"`
	ModelID string `json:"model_id" env:"MODEL_ID"`
	BaseURL string `json:"base_url" env:"BASE_URL"`
}

// Parse reads os.Args and the process environment. It returns a validated
// Options value or an error describing every missing setting.
func Parse() (*Options, error) {
	return Load(os.Args[1:], env.ToMap(os.Environ()))
}

// Load builds Options from the given arguments and environment. Flags are
// applied first, then the JSON config file, then environment variables.
func Load(args []string, environ map[string]string) (*Options, error) {
	options := defaults()

	fs := flag.NewFlagSet("smartbrain", flag.ContinueOnError)
	fs.StringVar(&options.Address, "a", options.Address, "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.StaticDir, "static", "", "directory with the front-end build")
	fs.StringVar(&options.LogLevel, "l", options.LogLevel, "log level")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := environ["CONFIG"]; configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := env.ParseWithOptions(options, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	// Hosting platforms usually hand out a bare port.
	if environ["SERVER_ADDRESS"] == "" && environ["PORT"] != "" {
		options.Address = ":" + environ["PORT"]
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

func defaults() *Options {
	return &Options{
		Address: ":3000",
		Database: Database{
			Port:         "5432",
			SSLMode:      "require",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Clarifai: Clarifai{
			ModelID: "face-detection",
			BaseURL: "https://api.clarifai.com",
		},
		LogLevel:            "info",
		OrphanSweepInterval: time.Hour,
	}
}

// Validate reports every required setting that is missing.
func (o *Options) Validate() error {
	var errs []error

	if o.DatabaseDSN == "" {
		if o.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required when DATABASE_URL is not set"))
		}
		if o.Database.User == "" {
			errs = append(errs, errors.New("DB_USER is required when DATABASE_URL is not set"))
		}
		if o.Database.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required when DATABASE_URL is not set"))
		}
	}
	if o.Clarifai.PAT == "" {
		errs = append(errs, errors.New("CLARIFAI_PAT is required"))
	}
	if o.Clarifai.UserID == "" {
		errs = append(errs, errors.New("CLARIFAI_USER_ID is required"))
	}
	if o.Clarifai.AppID == "" {
		errs = append(errs, errors.New("CLARIFAI_APP_ID is required"))
	}
	if o.Clarifai.ModelID == "" {
		errs = append(errs, errors.New("CLARIFAI_MODEL_ID must not be empty"))
	}
	if (o.TLSCertFile == "") != (o.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	if o.OrphanSweepInterval < 0 {
		errs = append(errs, errors.New("ORPHAN_SWEEP_INTERVAL must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (o *Options) DSN() string {
	if o.DatabaseDSN != "" {
		return o.DatabaseDSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(o.Database.User, o.Database.Password),
		Host:     net.JoinHostPort(o.Database.Host, o.Database.Port),
		Path:     "/" + o.Database.Name,
		RawQuery: url.Values{"sslmode": {o.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

// TLSEnabled reports whether the server should listen with HTTPS.
func (o *Options) TLSEnabled() bool {
	return o.TLSCertFile != "" && o.TLSKeyFile != ""
}
