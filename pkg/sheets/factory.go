package sheets

import (
	"context"
	"fmt"
	"os"
)

// Driver identifies a Workbook implementation.
type Driver string

const (
	DriverMemory Driver = "memory" // in-process, lost on exit
	DriverSQLite Driver = "sqlite" // embedded sqlite file
	DriverS3     Driver = "s3"     // one CSV object per worksheet
	DriverGoogle Driver = "gsheets"
)

// Config selects and configures a Workbook.
type Config struct {
	Driver     Driver
	SQLitePath string
	S3         S3Config
	Google     GoogleConfig
}

// ConfigFromEnv reads the store configuration from environment variables.
//
//	SHEETFORM_STORE_DRIVER: memory|sqlite|s3|gsheets (default sqlite)
//	SHEETFORM_SQLITE_PATH: sqlite file (default ./sheetform.db)
//	SHEETFORM_S3_BUCKET, SHEETFORM_S3_PREFIX, SHEETFORM_S3_REGION,
//	SHEETFORM_S3_ENDPOINT, SHEETFORM_S3_ACCESS_KEY, SHEETFORM_S3_SECRET_KEY
//	SHEETFORM_GSHEETS_ID, SHEETFORM_GSHEETS_CREDENTIALS, SHEETFORM_GSHEETS_ENDPOINT
func ConfigFromEnv() Config {
	driver := os.Getenv("SHEETFORM_STORE_DRIVER")
	if driver == "" {
		driver = string(DriverSQLite)
	}
	return Config{
		Driver:     Driver(driver),
		SQLitePath: os.Getenv("SHEETFORM_SQLITE_PATH"),
		S3: S3Config{
			Bucket:          os.Getenv("SHEETFORM_S3_BUCKET"),
			Prefix:          os.Getenv("SHEETFORM_S3_PREFIX"),
			Region:          os.Getenv("SHEETFORM_S3_REGION"),
			Endpoint:        os.Getenv("SHEETFORM_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("SHEETFORM_S3_ACCESS_KEY"),
			SecretAccessKey: os.Getenv("SHEETFORM_S3_SECRET_KEY"),
		},
		Google: GoogleConfig{
			SpreadsheetID:   os.Getenv("SHEETFORM_GSHEETS_ID"),
			CredentialsFile: os.Getenv("SHEETFORM_GSHEETS_CREDENTIALS"),
			Endpoint:        os.Getenv("SHEETFORM_GSHEETS_ENDPOINT"),
		},
	}
}

// Open builds the Workbook selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Workbook, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite, "":
		return NewSQLite(cfg.SQLitePath)
	case DriverS3:
		return OpenS3(ctx, cfg.S3)
	case DriverGoogle:
		return OpenGoogle(ctx, cfg.Google)
	default:
		return nil, fmt.Errorf("sheets: unknown store driver %s", cfg.Driver)
	}
}
