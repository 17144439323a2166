/*
Copyright 2024 Venn Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5001"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"VENN_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"VENN_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"VENN_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"VENN_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"VENN_REDIS_DNS"`
}

// MatcherConfig carries the tunable knobs of the decision engine. The
// observed snapshots disagreed on weights and thresholds, so none of them
// are hard-coded; these defaults reproduce the documented behavior.
type MatcherConfig struct {
	RuleAmountWeight    int    `json:"rule_amount_weight" envconfig:"VENN_MATCHER_RULE_AMOUNT_WEIGHT"`
	RuleKeywordWeight   int    `json:"rule_keyword_weight" envconfig:"VENN_MATCHER_RULE_KEYWORD_WEIGHT"`
	InvoiceAmountWeight int    `json:"invoice_amount_weight" envconfig:"VENN_MATCHER_INVOICE_AMOUNT_WEIGHT"`
	InvoiceVendorWeight int    `json:"invoice_vendor_weight" envconfig:"VENN_MATCHER_INVOICE_VENDOR_WEIGHT"`
	InvoiceDateWeight   int    `json:"invoice_date_weight" envconfig:"VENN_MATCHER_INVOICE_DATE_WEIGHT"`
	AcceptanceThreshold int    `json:"acceptance_threshold" envconfig:"VENN_MATCHER_ACCEPTANCE_THRESHOLD"`
	AmountEpsilon       string `json:"amount_epsilon" envconfig:"VENN_MATCHER_AMOUNT_EPSILON"`
	DateWindowDays      int    `json:"date_window_days" envconfig:"VENN_MATCHER_DATE_WINDOW_DAYS"`
	RuleCacheTTLSeconds int    `json:"rule_cache_ttl_seconds" envconfig:"VENN_MATCHER_RULE_CACHE_TTL_SECONDS"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"VENN_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"VENN_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"VENN_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName     string           `json:"project_name" envconfig:"VENN_PROJECT_NAME"`
	EnableTelemetry bool             `json:"enable_telemetry" envconfig:"VENN_ENABLE_TELEMETRY"`
	Server          ServerConfig     `json:"server"`
	DataSource      DataSourceConfig `json:"data_source"`
	Redis           RedisConfig      `json:"redis"`
	Matcher         MatcherConfig    `json:"matcher"`
	Notification    Notification     `json:"notification"`
	RateLimit       RateLimitConfig  `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("venn", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called venn.json with your config ❌")
	}
	return c, nil
}

// MockConfig stores a fully defaulted configuration for tests.
func MockConfig(cnf *Configuration) {
	if err := cnf.validateAndAddDefaults(); err != nil {
		logrus.Error(err)
	}
	ConfigStore.Store(cnf)
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		cnf.ProjectName = "venn"
	}

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	cnf.Matcher.applyDefaults()

	// Trim white spaces from the datasource and redis DNS
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	return nil
}

// applyDefaults fills in the documented engine defaults: a 50/50 split for
// the two rule predicates, 40/30/30 for the invoice predicates, threshold
// 90, strict 0.01 amount epsilon and a 5 calendar day date window.
func (m *MatcherConfig) applyDefaults() {
	if m.RuleAmountWeight == 0 && m.RuleKeywordWeight == 0 {
		m.RuleAmountWeight = 50
		m.RuleKeywordWeight = 50
	}
	if m.InvoiceAmountWeight == 0 && m.InvoiceVendorWeight == 0 && m.InvoiceDateWeight == 0 {
		m.InvoiceAmountWeight = 40
		m.InvoiceVendorWeight = 30
		m.InvoiceDateWeight = 30
	}
	if m.AcceptanceThreshold == 0 {
		m.AcceptanceThreshold = 90
	}
	if m.AmountEpsilon == "" {
		m.AmountEpsilon = "0.01"
	}
	if m.DateWindowDays == 0 {
		m.DateWindowDays = 5
	}
	if m.RuleCacheTTLSeconds == 0 {
		m.RuleCacheTTLSeconds = 60
	}
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
