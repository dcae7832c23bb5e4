package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Zippopotam    Zippopotam    `mapstructure:",squash"`
	Deals         Deals         `mapstructure:",squash"`
	DealStatsSync DealStatsSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Enabled  bool   `mapstructure:"database_enabled"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Zippopotam struct {
	BaseURL        string `mapstructure:"zippopotam_base_url"`
	Country        string `mapstructure:"zippopotam_country"`
	TimeoutSeconds int    `mapstructure:"zippopotam_timeout_seconds"`
}

type Deals struct {
	ExpirationDays      int     `mapstructure:"deal_expiration_days"`
	ReportKillThreshold int     `mapstructure:"deal_report_kill_threshold"`
	DefaultRadiusMiles  float64 `mapstructure:"deal_default_radius_miles"`
}

type DealStatsSync struct {
	CronSchedule string `mapstructure:"deal_stats_sync_cron"`
	Enabled      bool   `mapstructure:"deal_stats_sync_enabled"`
}

// ExpirationWindow retorna a janela de validade de uma oferta como duração
func (d Deals) ExpirationWindow() time.Duration {
	return time.Duration(d.ExpirationDays) * 24 * time.Hour
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 5001)

	viper.SetDefault("DATABASE_ENABLED", false) // Por padrão o repositório em memória é usado
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/nicmap")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("ZIPPOPOTAM_BASE_URL", "https://api.zippopotam.us")
	viper.SetDefault("ZIPPOPOTAM_COUNTRY", "us")
	viper.SetDefault("ZIPPOPOTAM_TIMEOUT_SECONDS", 30)

	// Regras de moderação da comunidade
	viper.SetDefault("DEAL_EXPIRATION_DAYS", 30)      // Ofertas expiram em 30 dias
	viper.SetDefault("DEAL_REPORT_KILL_THRESHOLD", 2) // 2 denúncias removem a oferta das listagens
	viper.SetDefault("DEAL_DEFAULT_RADIUS_MILES", 30)

	viper.SetDefault("DEAL_STATS_SYNC_CRON", "0 * * * *") // A cada hora
	viper.SetDefault("DEAL_STATS_SYNC_ENABLED", true)     // Snapshot é somente leitura

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
