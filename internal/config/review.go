package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ReviewPolicy holds the tunable defaults of the review workflow.
// Batch and comment bounds are fixed in code and intentionally absent here.
type ReviewPolicy struct {
	Queue   QueuePolicy   `mapstructure:"queue"`
	Listing ListingPolicy `mapstructure:"listing"`
	Export  ExportPolicy  `mapstructure:"export"`
}

type QueuePolicy struct {
	DefaultLimit int `mapstructure:"defaultLimit" validate:"gte=1,lte=100"`
}

type ListingPolicy struct {
	DefaultLimit int `mapstructure:"defaultLimit" validate:"gte=1,lte=100"`
}

type ExportPolicy struct {
	DateLayout string `mapstructure:"dateLayout" validate:"required"`
}

type reviewFile struct {
	Review ReviewPolicy `mapstructure:"review"`
}

func DefaultReviewPolicy() ReviewPolicy {
	return ReviewPolicy{
		Queue:   QueuePolicy{DefaultLimit: 25},
		Listing: ListingPolicy{DefaultLimit: 10},
		Export:  ExportPolicy{DateLayout: "2006-01-02"},
	}
}

var validate = validator.New()

type ReviewPolicyHolder struct {
	current atomic.Value // holds ReviewPolicy
}

// NewStaticReviewPolicyHolder returns a holder that never reloads.
func NewStaticReviewPolicyHolder(policy ReviewPolicy) *ReviewPolicyHolder {
	holder := &ReviewPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func NewReviewPolicyHolder(cfg Config) (*ReviewPolicyHolder, error) {
	v := newReviewViper(cfg.ReviewConfigPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read review config: %w", err)
		}
	}

	policy, err := decodeReviewPolicy(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticReviewPolicyHolder(policy)

	if v.ConfigFileUsed() != "" {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeReviewPolicy(v)
			if err != nil {
				zap.L().Warn("review config reload ignored", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			zap.L().Info("review config reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

func (h *ReviewPolicyHolder) Get() ReviewPolicy {
	if h == nil {
		return DefaultReviewPolicy()
	}
	policy, ok := h.current.Load().(ReviewPolicy)
	if !ok {
		return DefaultReviewPolicy()
	}
	return policy
}

func newReviewViper(path string) *viper.Viper {
	v := viper.New()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("review")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/ideabox")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("IDEABOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReviewPolicy()
	v.SetDefault("review.queue.defaultLimit", defaults.Queue.DefaultLimit)
	v.SetDefault("review.listing.defaultLimit", defaults.Listing.DefaultLimit)
	v.SetDefault("review.export.dateLayout", defaults.Export.DateLayout)
	return v
}

func decodeReviewPolicy(v *viper.Viper) (ReviewPolicy, error) {
	var file reviewFile
	if err := v.Unmarshal(&file); err != nil {
		return ReviewPolicy{}, fmt.Errorf("decode review config: %w", err)
	}
	if err := validate.Struct(file.Review); err != nil {
		return ReviewPolicy{}, fmt.Errorf("review config validation failed: %w", err)
	}
	return file.Review, nil
}
