// Package config defines the data structures related to plan configuration
// and includes functions for loading, validating, and converting the plan.
package config

import (
	"fmt"

	"github.com/previsio/previsio/pkg/constants"
	"github.com/spf13/viper"
)

// MonthLayout is the format expected in plan files and is also the output
// date format.
const MonthLayout = constants.MonthLayout

// Configuration holds all configuration for a previsio run.
type Configuration struct {
	Plan      Plan
	Scenarios []Scenario
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Plan holds the base projection assumptions shared by all scenarios.
type Plan struct {
	Name                 string  `validate:"required"`
	StartMonth           string  `validate:"required"`
	HorizonMonths        int     `validate:"gte=0,lte=120"`
	StartingCash         float64 `validate:"gte=0"`
	VAT                  VATConfig
	Delays               DelayConfig
	CapitalContributions []ContributionSpec `validate:"dive"`
	Assets               []AssetSpec        `validate:"dive"`
	Loans                []LoanSpec         `validate:"dive"`
	RevenueLines         []LineSpec         `validate:"dive"`
	ExpenseLines         []LineSpec         `validate:"dive"`
}

// Scenario overrides parts of the base plan for a what-if variant. Nil
// override fields keep the base plan's value.
type Scenario struct {
	Name         string `validate:"required"`
	Active       bool
	Delays       *DelayConfig
	RevenueLines []LineSpec `validate:"dive"`
	ExpenseLines []LineSpec `validate:"dive"`
}

// VATConfig holds the VAT assumptions.
type VATConfig struct {
	DefaultRate float64 `validate:"gte=0,lte=100"`
}

// DelayConfig holds the payment-delay and stock-rotation assumptions in days.
type DelayConfig struct {
	ClientDays        float64 `validate:"gte=0"`
	SupplierDays      float64 `validate:"gte=0"`
	StockRotationDays float64 `validate:"gte=0"`
}

// ContributionSpec is a dated capital contribution.
type ContributionSpec struct {
	Label  string
	Month  string  `validate:"required"`
	Amount float64 `validate:"gt=0"`
}

// AssetSpec is a fixed-asset purchase as written in the plan file.
type AssetSpec struct {
	ID             string
	Label          string  `validate:"required"`
	Amount         float64 `validate:"gte=0"`
	AcquiredAt     string  `validate:"required"`
	Method         string  `validate:"required,oneof=linear declining none"`
	DurationMonths int     `validate:"gte=0"`
	ResidualValue  float64 `validate:"gte=0"`
}

// LoanSpec is a loan record as written in the plan file.
type LoanSpec struct {
	ID             string
	Label          string  `validate:"required"`
	Principal      float64 `validate:"gt=0"`
	AnnualRate     float64 `validate:"gte=0"`
	DurationMonths int     `validate:"gt=0"`
	GraceMonths    int     `validate:"gte=0"`
	StartMonth     string  `validate:"required"`
	Type           string  `validate:"required,oneof=constantInstallment constantPrincipal"`
}

// LineSpec is one revenue or expense stream as written in the plan file.
// Either Monthly carries one value per projection month or Constant carries
// a single value applied to every month; declaring both is an error.
type LineSpec struct {
	Label    string `validate:"required"`
	Category string `validate:"required"`
	VATRate  *float64
	Monthly  []float64
	Constant float64
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// plan found there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading plan file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode plan into struct, %s", err)
	}

	configuration.ApplyDefaults()

	return &configuration, nil
}

// ApplyDefaults fills unset plan fields with their documented defaults.
func (conf *Configuration) ApplyDefaults() {
	if conf.Plan.HorizonMonths == 0 {
		conf.Plan.HorizonMonths = constants.DefaultHorizonMonths
	}
	if conf.Plan.VAT.DefaultRate == 0 {
		conf.Plan.VAT.DefaultRate = constants.DefaultVATRate
	}
	if conf.Output.Format == "" {
		conf.Output.Format = constants.OutputFormatPretty
	}
}
