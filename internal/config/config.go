package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the application configuration.
type Config struct {
	BaseURL        string        `yaml:"base_url" validate:"omitempty,url"`
	APIKey         string        `yaml:"api_key"`
	SendMode       string        `yaml:"send_mode" validate:"oneof=proxy direct"`
	DefaultTimeout time.Duration `yaml:"default_timeout" validate:"gt=0"`
	ProxyURL       string        `yaml:"proxy_url" validate:"omitempty,url"`
	NoProxy        string        `yaml:"no_proxy"`
	UntitledName   string        `yaml:"untitled_name" validate:"required"`
	CacheTTL       time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	BlobAddr       string        `yaml:"blob_addr" validate:"listenAddr"`
	HistoryPath    string        `yaml:"history_path"`
	HistoryLimit   int           `yaml:"history_limit" validate:"gte=0"`
	Editor         string        `yaml:"editor"`
	Theme          string        `yaml:"theme" validate:"omitempty,oneof=mocha latte dark light"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8080",
		SendMode:       "proxy",
		DefaultTimeout: 30 * time.Second,
		UntitledName:   "New Request",
		BlobAddr:       "127.0.0.1:0",
		HistoryLimit:   1000,
		Theme:          "mocha",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("listenAddr", listenAddr)
	return v
}

// listenAddr accepts host:port pairs including port 0.
func listenAddr(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	return err == nil && port != ""
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", yamlName(fe.StructField()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func yamlName(field string) string {
	switch field {
	case "BaseURL":
		return "base_url"
	case "SendMode":
		return "send_mode"
	case "DefaultTimeout":
		return "default_timeout"
	case "ProxyURL":
		return "proxy_url"
	case "UntitledName":
		return "untitled_name"
	case "CacheTTL":
		return "cache_ttl"
	case "BlobAddr":
		return "blob_addr"
	case "HistoryLimit":
		return "history_limit"
	case "Theme":
		return "theme"
	}
	return field
}
