package environment

import (
	"os"
	"path/filepath"

	env "github.com/Netflix/go-env"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

const DotenvFileName = ".env"

// Environment holds service configuration loaded from the OS or defaults.
// Values are resolved once at startup and injected into constructors;
// nothing reads ambient state after that.
type Environment struct {
	PhotosFolder string `env:"PHOTOS_FOLDER,default=images"`
	MailRelayURL string `env:"MAIL_RELAY_URL,default=http://localhost:4100/api/mail"`
	HostIP       string `env:"HOST_IP,default=127.0.0.1"`
	Port         string `env:"PORT,default=5000"`
	ReportsDir   string `env:"REPORTS_DIR"`
	Extras       env.EnvSet
}

// loadDotenv seeds the process environment from a .env file in the working
// directory, if one exists. Existing variables are never overridden.
func loadDotenv(fs afero.Fs, pwd string) error {
	dotenvFile := filepath.Join(pwd, DotenvFileName)
	exists, err := afero.Exists(fs, dotenvFile)
	if err != nil || !exists {
		return err
	}

	data, err := afero.ReadFile(fs, dotenvFile)
	if err != nil {
		return err
	}

	values, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return err
	}

	for key, value := range values {
		if _, set := os.LookupEnv(key); !set {
			if setErr := os.Setenv(key, value); setErr != nil {
				return setErr
			}
		}
	}

	return nil
}

// NewEnvironment initializes and returns a new Environment based on provided or default settings.
func NewEnvironment(fs afero.Fs, environ *Environment) (*Environment, error) {
	if environ != nil {
		// An explicit environment takes priority over ambient variables.
		reportsDir := environ.ReportsDir
		if reportsDir == "" {
			reportsDir = filepath.Join(xdg.CacheHome, "photofind", "reports")
		}

		return &Environment{
			PhotosFolder: environ.PhotosFolder,
			MailRelayURL: environ.MailRelayURL,
			HostIP:       environ.HostIP,
			Port:         environ.Port,
			ReportsDir:   reportsDir,
		}, nil
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}
	if dotenvErr := loadDotenv(fs, pwd); dotenvErr != nil {
		return nil, dotenvErr
	}

	environment := &Environment{}
	extras, err := env.UnmarshalFromEnviron(environment)
	if err != nil {
		return nil, err
	}
	environment.Extras = extras

	if environment.ReportsDir == "" {
		environment.ReportsDir = filepath.Join(xdg.CacheHome, "photofind", "reports")
	}

	return environment, nil
}

// ListenAddr returns the host:port the API server binds to.
func (e *Environment) ListenAddr() string {
	return e.HostIP + ":" + e.Port
}
