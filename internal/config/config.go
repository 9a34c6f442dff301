package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the tracking service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the HTTP server (API, health checks and metrics).
// - Interval: The duration between position fetches, also the length of one animation run.
// - NoAnimate: Snap the marker to the newest sample instead of animating.
// - SatelliteID: The NORAD id of the tracked satellite.
// - Observer: The observer location as DMS, "lat,lng" or a free-form address.
// - Radius: The search radius in degrees for the satellites-above listing.
// - Ephemeris: The position provider settings.
// - Geocoder: The address lookup settings.
// - Database: Configuration settings for the optional PostgreSQL sample store.
type Config struct {
	Env           string          `mapstructure:"env"`
	Port          int             `mapstructure:"port"`
	Interval      time.Duration   `mapstructure:"interval"`
	NoAnimate     bool            `mapstructure:"no_animate"`
	FrameInterval time.Duration   `mapstructure:"frame_interval"`
	Padding       float64         `mapstructure:"padding"`
	SatelliteID   int             `mapstructure:"satellite_id"`
	Observer      string          `mapstructure:"observer"`
	Radius        int             `mapstructure:"radius"`
	Retention     time.Duration   `mapstructure:"retention"`
	Ephemeris     EphemerisConfig `mapstructure:"ephemeris"`
	Geocoder      GeocoderConfig  `mapstructure:"geocoder"`
	Database      PostgresConfig  `mapstructure:"postgres"`
}

// EphemerisConfig selects and configures the position provider.
type EphemerisConfig struct {
	Type        string        `mapstructure:"type"`        // api or sgp4
	BaseURL     string        `mapstructure:"base_url"`    // tracking API base URL
	RateLimit   int           `mapstructure:"rate_limit"`  // tracking API requests per second
	TLELine1    string        `mapstructure:"tle_line1"`   // first TLE line for sgp4
	TLELine2    string        `mapstructure:"tle_line2"`   // second TLE line for sgp4
	SampleCount int           `mapstructure:"samples"`     // samples per fetch
	SampleStep  time.Duration `mapstructure:"sample_step"` // spacing of sgp4 samples
}

// GeocoderConfig selects the provider used when the observer is an address.
type GeocoderConfig struct {
	Type      string `mapstructure:"type"`       // none, google or nominatim
	APIKey    string `mapstructure:"api_key"`    // required for google
	Region    string `mapstructure:"region"`     // google ccTLD region bias
	RateLimit int    `mapstructure:"rate_limit"` // google requests per second
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
// An empty Host disables persistence.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"db_name"`  // Name is the name of the database.
}

// MustLoad loads the configuration from .env, SKYTRACK_* environment variables
// and the optional YAML file named by SKYTRACK_CONFIG_FILE, and returns a Config struct.
func MustLoad() *Config {
	_ = godotenv.Load()

	vpr := viper.New()
	vpr.SetEnvPrefix("skytrack")
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()
	setDefaults(vpr)

	_ = vpr.BindEnv("postgres.host", "DB_HOST")
	_ = vpr.BindEnv("postgres.port", "DB_PORT")
	_ = vpr.BindEnv("postgres.user", "DB_USERNAME")
	_ = vpr.BindEnv("postgres.password", "DB_PASSWORD")
	_ = vpr.BindEnv("postgres.db_name", "DB_NAME")

	if file := os.Getenv("SKYTRACK_CONFIG_FILE"); file != "" {
		vpr.SetConfigFile(file)
		if err := vpr.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	interval, err := time.ParseDuration(vpr.GetString("interval"))
	if err != nil || interval <= 0 {
		panic("failed to parse interval from configuration")
	}

	frameInterval, err := time.ParseDuration(vpr.GetString("frame_interval"))
	if err != nil {
		panic("failed to parse frame interval from configuration")
	}

	retention, err := time.ParseDuration(vpr.GetString("retention"))
	if err != nil {
		panic("failed to parse retention from configuration")
	}

	sampleStep, err := time.ParseDuration(vpr.GetString("ephemeris.sample_step"))
	if err != nil {
		panic("failed to parse sample step from configuration")
	}

	port, err := strconv.Atoi(vpr.GetString("port"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	satelliteID, err := strconv.Atoi(vpr.GetString("satellite_id"))
	if err != nil {
		panic("failed to parse satellite id from configuration, must be an integer")
	}

	radius, err := strconv.Atoi(vpr.GetString("radius"))
	if err != nil {
		panic("failed to parse search radius from configuration, must be an integer")
	}

	noAnimate, err := strconv.ParseBool(vpr.GetString("no_animate"))
	if err != nil {
		panic("failed to parse no_animate from configuration, must be a boolean")
	}

	padding, err := strconv.ParseFloat(vpr.GetString("padding"), 64)
	if err != nil {
		panic("failed to parse indicator padding from configuration")
	}

	return &Config{
		Env:           vpr.GetString("env"),
		Port:          port,
		Interval:      interval,
		NoAnimate:     noAnimate,
		FrameInterval: frameInterval,
		Padding:       padding,
		SatelliteID:   satelliteID,
		Observer:      vpr.GetString("observer"),
		Radius:        radius,
		Retention:     retention,
		Ephemeris: EphemerisConfig{
			Type:        vpr.GetString("ephemeris.type"),
			BaseURL:     vpr.GetString("ephemeris.base_url"),
			RateLimit:   vpr.GetInt("ephemeris.rate_limit"),
			TLELine1:    vpr.GetString("ephemeris.tle_line1"),
			TLELine2:    vpr.GetString("ephemeris.tle_line2"),
			SampleCount: vpr.GetInt("ephemeris.samples"),
			SampleStep:  sampleStep,
		},
		Geocoder: GeocoderConfig{
			Type:      vpr.GetString("geocoder.type"),
			APIKey:    vpr.GetString("geocoder.api_key"),
			Region:    vpr.GetString("geocoder.region"),
			RateLimit: vpr.GetInt("geocoder.rate_limit"),
		},
		Database: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Name:     vpr.GetString("postgres.db_name"),
		},
	}
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault("env", "production")
	vpr.SetDefault("port", "8080")
	vpr.SetDefault("interval", "2m")
	vpr.SetDefault("no_animate", "false")
	vpr.SetDefault("frame_interval", "16ms")
	vpr.SetDefault("padding", "40")
	vpr.SetDefault("satellite_id", "25544")
	vpr.SetDefault("observer", `40°38'57.3"N 73°53'42.8"W`)
	vpr.SetDefault("radius", "15")
	vpr.SetDefault("retention", "24h")
	vpr.SetDefault("ephemeris.type", "api")
	vpr.SetDefault("ephemeris.base_url", "")
	vpr.SetDefault("ephemeris.rate_limit", 1)
	vpr.SetDefault("ephemeris.tle_line1", "")
	vpr.SetDefault("ephemeris.tle_line2", "")
	vpr.SetDefault("ephemeris.samples", 120)
	vpr.SetDefault("ephemeris.sample_step", "1s")
	vpr.SetDefault("geocoder.type", "none")
	vpr.SetDefault("geocoder.api_key", "")
	vpr.SetDefault("geocoder.region", "")
	vpr.SetDefault("geocoder.rate_limit", 10)
	vpr.SetDefault("postgres.port", "5432")
}
