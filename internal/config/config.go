// Package config resolves server settings from flags, MURMUR_* environment variables and .env
// files, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Addr          string
	DBDriver      string
	DSN           string
	SessionSecret string
	SecureCookies bool
	RateLimit     int

	MediaBackend string
	S3           S3
	AvatarSize   int
}

type S3 struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	PublicURL       string
}

// RegisterFlags adds every setting to fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("addr", ":3000", "address the API listens on")
	fs.String("db-driver", "postgres", "database driver (postgres, sqlite)")
	fs.String("dsn", "", "database connection string")
	fs.String("session-secret", "", "key used to sign session cookies")
	fs.Bool("secure-cookies", false, "mark session cookies Secure")
	fs.Int("rate-limit", 120, "requests per minute per client and endpoint (0 disables)")
	fs.String("media-backend", "inline", "where profile images are stored (inline, s3)")
	fs.String("s3-account-id", "", "R2 account id")
	fs.String("s3-access-key-id", "", "R2 access key id")
	fs.String("s3-access-key-secret", "", "R2 access key secret")
	fs.String("s3-bucket", "", "bucket for profile images")
	fs.String("s3-public-url", "", "public URL format for stored objects, with one %s for the key")
	fs.Int("avatar-size", 256, "edge length avatars are cropped to before upload (0 keeps originals)")
}

// InitEnv loads .env files and binds MURMUR_* environment variables.
func InitEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
	bindEnv()
}

func bindEnv() {
	viper.SetEnvPrefix("murmur")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Load reads the settings bound to cmd's flags.
func Load(cmd *cobra.Command) (*Config, error) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:          viper.GetString("addr"),
		DBDriver:      viper.GetString("db-driver"),
		DSN:           viper.GetString("dsn"),
		SessionSecret: viper.GetString("session-secret"),
		SecureCookies: viper.GetBool("secure-cookies"),
		RateLimit:     viper.GetInt("rate-limit"),
		MediaBackend:  viper.GetString("media-backend"),
		S3: S3{
			AccountID:       viper.GetString("s3-account-id"),
			AccessKeyID:     viper.GetString("s3-access-key-id"),
			AccessKeySecret: viper.GetString("s3-access-key-secret"),
			Bucket:          viper.GetString("s3-bucket"),
			PublicURL:       viper.GetString("s3-public-url"),
		},
		AvatarSize: viper.GetInt("avatar-size"),
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid db-driver %q (expected postgres or sqlite)", c.DBDriver)
	}
	if c.DSN == "" {
		return fmt.Errorf("dsn is required")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate-limit must not be negative")
	}

	switch c.MediaBackend {
	case "inline":
	case "s3":
		if c.S3.AccountID == "" || c.S3.Bucket == "" || c.S3.PublicURL == "" {
			return fmt.Errorf("s3 media backend needs s3-account-id, s3-bucket and s3-public-url")
		}
		if !strings.Contains(c.S3.PublicURL, "%s") {
			return fmt.Errorf("s3-public-url must contain %%s for the object key")
		}
	default:
		return fmt.Errorf("invalid media-backend %q (expected inline or s3)", c.MediaBackend)
	}
	return nil
}

// RequireSessionSecret checks the cookie signing key. Only serve needs one.
func (c *Config) RequireSessionSecret() error {
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("session-secret must be at least 32 bytes")
	}
	return nil
}
