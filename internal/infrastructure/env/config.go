package env

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"quickapply/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

const (
	BackendOpenAI    = "openai"
	BackendLangchain = "langchain"
)

// Config is everything a run needs, resolved from the environment and
// optionally overridden by CLI flags before Validate is called.
type Config struct {
	APIKey         string  `validate:"required"`
	BaseURL        string  `validate:"required,url"`
	Model          string  `validate:"required"`
	Backend        string  `validate:"oneof=openai langchain"`
	MaxTokens      int     `validate:"gt=0"`
	Temperature    float32 `validate:"gte=0,lte=2"`
	PersonaEnabled bool

	SearchURL string `validate:"required,url"`
	Username  string
	Password  string

	Headless       bool
	SlowMotion     time.Duration `validate:"gte=0"`
	DefaultTimeout time.Duration `validate:"gt=0"`
	UserAgents     []string
	MaxSteps       int `validate:"gt=0"`

	CookiePath  string `validate:"required"`
	SnapshotDir string
	LogDir      string `validate:"required"`
	LogLevel    string `validate:"oneof=debug info warn error"`
}

func LoadConfig(e *EnvService) Config {
	return Config{
		APIKey:         e.Get("DEEPSEEK_API_KEY"),
		BaseURL:        e.GetString("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		Model:          e.GetString("GENERATION_MODEL", "deepseek-chat"),
		Backend:        strings.ToLower(e.GetString("GENERATION_BACKEND", BackendOpenAI)),
		MaxTokens:      e.GetInt("GENERATION_MAX_TOKENS", 150),
		Temperature:    float32(e.GetFloat("GENERATION_TEMPERATURE", 1.3)),
		PersonaEnabled: e.GetBool("PERSONA_ENABLED", true),

		SearchURL: e.Get("URL_JOBS"),
		Username:  e.Get("LINKEDIN_USERNAME"),
		Password:  e.Get("LINKEDIN_PASSWORD"),

		Headless:       e.GetBool("BROWSER_HEADLESS", true),
		SlowMotion:     e.GetDuration("BROWSER_SLOW_MO", 50*time.Millisecond),
		DefaultTimeout: e.GetDuration("BROWSER_DEFAULT_TIMEOUT", 30*time.Second),
		UserAgents:     e.GetList("BROWSER_USER_AGENTS"),
		MaxSteps:       e.GetInt("WIZARD_MAX_STEPS", entity.DefaultMaxSteps),

		CookiePath:  e.GetString("COOKIE_PATH", "cookies.json"),
		SnapshotDir: e.GetString("SNAPSHOT_DIR", "log/snapshots"),
		LogDir:      e.GetString("LOG_DIR", "log"),
		LogLevel:    strings.ToLower(e.GetString("LOG_LEVEL", "info")),
	}
}

// Validate reports every invalid field at once, wrapped in
// entity.ErrFatalConfig.
func (c Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", entity.ErrFatalConfig, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", entity.ErrFatalConfig, strings.Join(problems, ", "))
}

// HasCredentials reports whether an interactive login can be attempted.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}
