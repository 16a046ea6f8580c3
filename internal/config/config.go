// Package config loads the exporter configuration from the environment
// (with .env support) and an optional YAML export spec file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultLargeRowThreshold is the row count at which an object's export is
// routed to a standalone CSV instead of a workbook sheet.
const DefaultLargeRowThreshold = 1_000_000

// defaultStandardFields is the allowlist of standard Salesforce fields kept
// during field resolution. Custom fields are kept by marker instead.
var defaultStandardFields = []string{
	"Id", "Name", "OwnerId", "CreatedDate", "LastModifiedDate", "CreatedById",
	"DeveloperName", "IsActive", "SobjectType",
	"BillingStreet", "BillingCity", "BillingPostalCode", "BillingCountry",
	"ShippingStreet", "ShippingCity", "ShippingPostalCode", "ShippingCountry",
	"Phone", "Email", "Salutation", "AccountId", "Title", "ContractId", "OrderId",
	"EndDate", "EffectiveDate", "ListPrice", "OrderItemNumber", "Product2Id",
	"Quantity", "ServiceDate", "UnitPrice", "TotalPrice", "Status", "StageName",
	"ContractName", "OpportunityId", "OrderNumber", "Type",
	"Pricebook2Id", "RecordTypeId", "StartDate", "ContractTerm", "ExternalId",
	"ProductCode", "Family", "IsStandard", "UseStandardPrice",
}

var defaultObjectNames = []string{
	"RecordType",
	"Account",
	"Contact",
	"User",
	"Work_Order__c",
	"Elevator__c",
	"Property__c",
	"Property_Unit__c",
	"Elevator_Service_Cost__c",
	"Elevator_Document_Check__c",
	"Contract",
	"Opportunity",
	"Product2",
	"Pricebook2",
	"PricebookEntry",
	"OpportunityLineItem",
	"Order",
	"OrderItem",
	"OrderElevatorRelation__c",
	"Service_Fulfillment__c",
	"Elevator_Property__c",
	"OSI_WorkOrder_Item__c",
}

// Config is loaded once at process start and immutable for the run
type Config struct {
	// Salesforce credentials
	SFUsername string
	SFPassword string
	SFToken    string
	SFDomain   string

	// Google Drive settings
	CredentialsFile string
	TokenFile       string
	DriveFolderName string
	UploadEnabled   bool

	// File settings
	LocalFolder   string
	WorkbookName  string
	StatsFileName string
	DBPath        string

	// Export settings
	ObjectNames       []string
	StandardFields    []string
	CustomFieldMarker string
	LargeRowThreshold int
	Workers           int
	MaxRetries        int

	LogLevel string

	standardSet map[string]struct{}
}

// exportSpec is the optional YAML override for what gets exported
type exportSpec struct {
	Objects           []string `yaml:"objects"`
	StandardFields    []string `yaml:"standardFields"`
	CustomFieldMarker string   `yaml:"customFieldMarker"`
}

// Load reads .env (if present), the environment, and the optional export
// spec file named by EXPORT_SPEC_FILE.
func Load() (*Config, error) {
	// A missing .env is fine; explicit env always wins anyway.
	_ = godotenv.Load()

	cfg := &Config{
		SFUsername:        os.Getenv("SF_USERNAME"),
		SFPassword:        os.Getenv("SF_PASSWORD"),
		SFToken:           os.Getenv("SF_TOKEN"),
		SFDomain:          envOr("SF_DOMAIN", "login"),
		CredentialsFile:   envOr("GOOGLE_CREDENTIALS_FILE", "credentials/google.json"),
		TokenFile:         envOr("GOOGLE_TOKEN_FILE", "credentials/token.json"),
		DriveFolderName:   envOr("GOOGLE_DRIVE_FOLDER_NAME", "ELEVENIQ"),
		UploadEnabled:     envBoolOr("DRIVE_UPLOAD_ENABLED", true),
		LocalFolder:       envOr("LOCAL_FOLDER", "files"),
		WorkbookName:      envOr("WORKBOOK_NAME", "all_data.xlsx"),
		StatsFileName:     envOr("LOG_FILE_NAME", "Pipeline_Logs.csv"),
		DBPath:            envOr("DB_PATH", "exporter.db"),
		ObjectNames:       defaultObjectNames,
		StandardFields:    defaultStandardFields,
		CustomFieldMarker: envOr("CUSTOM_FIELD_MARKER", "__c"),
		LargeRowThreshold: envIntOr("EXPORT_LARGE_ROW_THRESHOLD", DefaultLargeRowThreshold),
		Workers:           envIntOr("EXPORT_WORKERS", 4),
		MaxRetries:        envIntOr("EXPORT_MAX_RETRIES", 5),
		LogLevel:          envOr("LOG_LEVEL", "info"),
	}

	if specFile := os.Getenv("EXPORT_SPEC_FILE"); specFile != "" {
		if err := cfg.applySpecFile(specFile); err != nil {
			return nil, err
		}
	}
	if names := os.Getenv("EXPORT_OBJECTS"); names != "" {
		cfg.ObjectNames = splitList(names)
	}

	cfg.standardSet = make(map[string]struct{}, len(cfg.StandardFields))
	for _, f := range cfg.StandardFields {
		cfg.standardSet[f] = struct{}{}
	}

	if len(cfg.ObjectNames) == 0 {
		return nil, fmt.Errorf("no objects configured for export")
	}
	return cfg, nil
}

func (c *Config) applySpecFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read export spec %s: %w", path, err)
	}
	var spec exportSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("failed to parse export spec %s: %w", path, err)
	}
	if len(spec.Objects) > 0 {
		c.ObjectNames = spec.Objects
	}
	if len(spec.StandardFields) > 0 {
		c.StandardFields = spec.StandardFields
	}
	if spec.CustomFieldMarker != "" {
		c.CustomFieldMarker = spec.CustomFieldMarker
	}
	return nil
}

// IsStandardField reports whether the field API name is in the allowlist
func (c *Config) IsStandardField(name string) bool {
	_, ok := c.standardSet[name]
	return ok
}

// WorkbookPath is the local path of the shared workbook artifact
func (c *Config) WorkbookPath() string {
	return filepath.Join(c.LocalFolder, c.WorkbookName)
}

// StatsPath is the local path of the statistics CSV
func (c *Config) StatsPath() string {
	return filepath.Join(c.LocalFolder, c.StatsFileName)
}

// EnsureFolders creates the local output and credential directories
func (c *Config) EnsureFolders() error {
	if err := os.MkdirAll(c.LocalFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create local folder: %w", err)
	}
	if dir := filepath.Dir(c.CredentialsFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create credentials folder: %w", err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolOr(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
