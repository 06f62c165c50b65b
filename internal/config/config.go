package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	apperrors "github.com/vytor/ninebynine/internal/errors"
	"github.com/vytor/ninebynine/internal/retry"
)

type Config struct {
	APIURL          string        `env:"OGS_API_URL" envDefault:"https://online-go.com/api/v1" validate:"required,url"`
	UserAgent       string        `env:"OGS_USER_AGENT" envDefault:"ninebynine/1.0 (+https://github.com/vytor/ninebynine)" validate:"required"`
	HTTPTimeout     time.Duration `env:"OGS_HTTP_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	PageSize        int           `env:"OGS_PAGE_SIZE" envDefault:"10" validate:"min=1,max=100"`
	Pagination      string        `env:"OGS_PAGINATION" envDefault:"index" validate:"oneof=index cursor"`
	PageRetryPolicy string        `env:"PAGE_RETRY_POLICY" envDefault:"unbounded" validate:"required"`
	SGFRetryPolicy  string        `env:"SGF_RETRY_POLICY" envDefault:"none" validate:"required"`
	RetryMinDelay   time.Duration `env:"RETRY_MIN_DELAY" envDefault:"5s" validate:"gte=0"`
	RetryMaxDelay   time.Duration `env:"RETRY_MAX_DELAY" envDefault:"10s" validate:"gtefield=RetryMinDelay"`
	RequestMinDelay time.Duration `env:"REQUEST_MIN_DELAY" envDefault:"500ms" validate:"gte=0"`
	RequestMaxDelay time.Duration `env:"REQUEST_MAX_DELAY" envDefault:"1s" validate:"gtefield=RequestMinDelay"`
	FromPage        int           `env:"FROM_PAGE" envDefault:"1" validate:"min=1"`
	ToPage          int           `env:"TO_PAGE" validate:"omitempty,gtefield=FromPage"`
	SGFConcurrency  int           `env:"SGF_CONCURRENCY" envDefault:"1" validate:"min=1,max=16"`
	SGFCachePath    string        `env:"SGF_CACHE_PATH"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"WARN" validate:"oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
	NoColor         bool          `env:"NO_COLOR"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing.
func Load() (*Config, error) {
	// Ignore error so the tool still runs when .env is absent.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// PagePolicy returns the retry policy for games list pages.
func (c *Config) PagePolicy() (retry.Policy, error) {
	return c.policy(c.PageRetryPolicy)
}

// SGFPolicy returns the retry policy for SGF downloads.
func (c *Config) SGFPolicy() (retry.Policy, error) {
	return c.policy(c.SGFRetryPolicy)
}

// RequestPace returns the pause kept between consecutive OGS requests.
func (c *Config) RequestPace() retry.Pace {
	return retry.Pace{MinDelay: c.RequestMinDelay, MaxDelay: c.RequestMaxDelay}
}

func (c *Config) policy(raw string) (retry.Policy, error) {
	p, err := retry.ParsePolicy(raw)
	if err != nil {
		return retry.Policy{}, err
	}
	p.MinDelay = c.RetryMinDelay
	p.MaxDelay = c.RetryMaxDelay
	return p, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report failures by the environment key the user actually sets.
	v.RegisterTagNameFunc(envName)
	return v
}

func envName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("env"), ",", 2)[0]
	if name == "" {
		return f.Name
	}
	return name
}

// envNameOf maps a Config field name, as used in cross-field tags, to its key.
func envNameOf(field string) string {
	f, ok := reflect.TypeOf(Config{}).FieldByName(field)
	if !ok {
		return field
	}
	return envName(f)
}

// Validate checks field ranges and that both retry policies parse.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
		} else {
			msgs = append(msgs, err.Error())
		}
		return apperrors.NewValidationError("configuration", "validation failed: "+strings.Join(msgs, "; "))
	}

	if _, err := retry.ParsePolicy(c.PageRetryPolicy); err != nil {
		return apperrors.NewValidationError("configuration", "validation failed: PAGE_RETRY_POLICY "+err.Error())
	}
	if _, err := retry.ParsePolicy(c.SGFRetryPolicy); err != nil {
		return apperrors.NewValidationError("configuration", "validation failed: SGF_RETRY_POLICY "+err.Error())
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be an absolute URL, got %q", fe.Field(), fe.Value())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s, got %v", fe.Field(), envNameOf(fe.Param()), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
