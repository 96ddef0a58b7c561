package config

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	pipelinedomain "github.com/smallbiznis/salesdw/internal/pipeline/domain"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PipelineConfig controls what a pipeline run does and where it reads from.
type PipelineConfig struct {
	Phases                    []string      `mapstructure:"phases"`
	ExpectedStatuses          []string      `mapstructure:"expected_statuses"`
	BatchSize                 int           `mapstructure:"batch_size"`
	ProgressInterval          int           `mapstructure:"progress_interval"`
	ScheduleInterval          time.Duration `mapstructure:"schedule_interval"`
	RunTimeout                time.Duration `mapstructure:"run_timeout"`
	RejectNonPositiveQuantity bool          `mapstructure:"reject_non_positive_quantity"`
	Sources                   SourcesConfig `mapstructure:"sources"`
}

type SourcesConfig struct {
	CustomersCSV       string        `mapstructure:"customers_csv"`
	OrderDetailsCSV    string        `mapstructure:"order_details_csv"`
	ProductsAPIURL     string        `mapstructure:"products_api_url"`
	ProductsAPITimeout time.Duration `mapstructure:"products_api_timeout"`
	ProductCount       int           `mapstructure:"product_count"`
	OrderCount         int           `mapstructure:"order_count"`
	OrderYear          int           `mapstructure:"order_year"`
	Seed               int64         `mapstructure:"seed"`
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Phases:           []string{"extract", "status", "calendar", "customer", "product", "facts"},
		ExpectedStatuses: []string{"Pending", "Shipped", "Delivered", "Cancelled"},
		BatchSize:        500,
		ProgressInterval: 50,
		ScheduleInterval: 24 * time.Hour,
		RunTimeout:       30 * time.Minute,
		Sources: SourcesConfig{
			CustomersCSV:       "data/customers.csv",
			OrderDetailsCSV:    "data/order_details.csv",
			ProductsAPITimeout: 10 * time.Second,
			ProductCount:       50,
			OrderCount:         100,
			OrderYear:          2024,
			Seed:               42,
		},
	}
}

type PipelineConfigHolder struct {
	current atomic.Value // holds PipelineConfig
}

// NewStaticPipelineConfigHolder returns a holder that never reloads.
func NewStaticPipelineConfigHolder(cfg PipelineConfig) *PipelineConfigHolder {
	holder := &PipelineConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// NewPipelineConfigHolder loads pipeline.yml and keeps watching it for changes.
func NewPipelineConfigHolder(appCfg Config, log *zap.Logger) (*PipelineConfigHolder, error) {
	v := viper.New()

	if appCfg.PipelineConfigPath != "" {
		v.SetConfigFile(appCfg.PipelineConfigPath)
	} else {
		v.SetConfigName("pipeline")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/salesdw")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SALESDW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setPipelineDefaults(v, DefaultPipelineConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Info("pipeline config file not found, using defaults")
	}

	var cfg PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validatePipelineConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticPipelineConfigHolder(cfg)

	if v.ConfigFileUsed() != "" {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated PipelineConfig
			if err := v.Unmarshal(&updated); err != nil {
				log.Warn("pipeline config reload failed", zap.Error(err))
				return
			}
			if err := validatePipelineConfig(updated); err != nil {
				log.Warn("invalid pipeline config ignored", zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("pipeline config reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

func (h *PipelineConfigHolder) Get() PipelineConfig {
	return h.current.Load().(PipelineConfig)
}

func setPipelineDefaults(v *viper.Viper, d PipelineConfig) {
	v.SetDefault("phases", d.Phases)
	v.SetDefault("expected_statuses", d.ExpectedStatuses)
	v.SetDefault("batch_size", d.BatchSize)
	v.SetDefault("progress_interval", d.ProgressInterval)
	v.SetDefault("schedule_interval", d.ScheduleInterval)
	v.SetDefault("run_timeout", d.RunTimeout)
	v.SetDefault("reject_non_positive_quantity", d.RejectNonPositiveQuantity)
	v.SetDefault("sources.customers_csv", d.Sources.CustomersCSV)
	v.SetDefault("sources.order_details_csv", d.Sources.OrderDetailsCSV)
	v.SetDefault("sources.products_api_url", d.Sources.ProductsAPIURL)
	v.SetDefault("sources.products_api_timeout", d.Sources.ProductsAPITimeout)
	v.SetDefault("sources.product_count", d.Sources.ProductCount)
	v.SetDefault("sources.order_count", d.Sources.OrderCount)
	v.SetDefault("sources.order_year", d.Sources.OrderYear)
	v.SetDefault("sources.seed", d.Sources.Seed)
}

func validatePipelineConfig(cfg PipelineConfig) error {
	if len(cfg.Phases) == 0 {
		return errors.New("phases cannot be empty")
	}
	if _, err := pipelinedomain.ParsePhases(cfg.Phases); err != nil {
		return err
	}
	if len(cfg.ExpectedStatuses) == 0 {
		return errors.New("expected_statuses cannot be empty")
	}
	if cfg.BatchSize <= 0 {
		return errors.New("batch_size must be positive")
	}
	if cfg.ScheduleInterval <= 0 {
		return errors.New("schedule_interval must be positive")
	}
	return nil
}
