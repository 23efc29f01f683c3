package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/solmint-labs/solmint/common"
	"github.com/solmint-labs/solmint/pkg/logger"
	"github.com/solmint-labs/solmint/pkg/logger/slogx"
	"github.com/solmint-labs/solmint/pkg/middleware/requestcontext"
	"github.com/solmint-labs/solmint/pkg/middleware/requestlogger"
	"github.com/solmint-labs/solmint/pkg/pinning"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		Network: common.NetworkMainnet,
		HTTPServer: HTTPServer{
			Port: 8080,
		},
		Fees: Fees{
			Base:   0.01,
			Option: 0.1,
		},
	}
)

type Config struct {
	Logger     logger.Config  `mapstructure:"logger"`
	Network    common.Network `mapstructure:"network"`
	HTTPServer HTTPServer     `mapstructure:"http_server"`
	RPC        RPC            `mapstructure:"rpc"`
	Fees       Fees           `mapstructure:"fees"`
	Pinning    pinning.Config `mapstructure:"pinning"`
	Wallet     Wallet         `mapstructure:"wallet"`
}

type HTTPServer struct {
	Port      int                               `mapstructure:"port"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
}

type RPC struct {
	// Endpoint is the primary RPC node. Defaults to the network's
	// public endpoint when empty.
	Endpoint string `mapstructure:"endpoint"`

	// BackupEndpoints are tried in order when the primary is down.
	BackupEndpoints []string `mapstructure:"backup_endpoints"`
}

type Fees struct {
	// Receiver is the service fee wallet address. Fee collection is
	// disabled when empty.
	Receiver string `mapstructure:"receiver"`

	// Base fee in SOL charged for every token creation.
	Base float64 `mapstructure:"base"`

	// Option fee in SOL charged per enabled premium option.
	Option float64 `mapstructure:"option"`
}

type Wallet struct {
	// KeypairPath points to a Solana CLI JSON keypair file.
	KeypairPath string `mapstructure:"keypair_path"`

	// PrivateKey is a base58-encoded private key. Takes precedence
	// over KeypairPath.
	PrivateKey string `mapstructure:"private_key"`
}

// BindPFlag binds a command-line flag to a configuration key.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Failed to bind flag to configuration", slogx.String("key", key), slogx.Error(err))
	}
}

// Parse reads the configuration from the given file (or the default
// search paths when empty), environment variables and bound flags.
// Subsequent calls return the already parsed configuration.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))
	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
		logger.InfoContext(ctx, "loaded config successfully")
	})

	return *config
}

// Load returns the parsed configuration.
func Load() Config {
	return Parse("")
}
