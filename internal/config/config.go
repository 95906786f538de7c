package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	ERPBaseURL        string
	ERPTimeoutSeconds int
	SyncSchedule      string // cron spec for the automatic open-finance sync, empty disables it
	SyncServiceToken  string // bearer token the scheduled sync authenticates with
	SyncCompanyID     string
	SyncUserID        string
	LogLevel          string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// Load .env if present; deployments set the variables directly
	_ = godotenv.Load()

	env := Config{
		Port:              "9446",
		ERPBaseURL:        "http://localhost:8080",
		ERPTimeoutSeconds: 30,
		SyncSchedule:      "",
		LogLevel:          "info",
	}

	if v := os.Getenv("PORT"); len(v) != 0 {
		env.Port = v
	}

	if v := os.Getenv("ERP_BASE_URL"); len(v) != 0 {
		env.ERPBaseURL = v
	}

	if v := os.Getenv("ERP_TIMEOUT_SECONDS"); len(v) != 0 {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			env.ERPTimeoutSeconds = secs
		}
	}

	if v := os.Getenv("SYNC_SCHEDULE"); len(v) != 0 {
		env.SyncSchedule = v
	}

	if v := os.Getenv("SYNC_SERVICE_TOKEN"); len(v) != 0 {
		env.SyncServiceToken = v
	}

	if v := os.Getenv("SYNC_COMPANY_ID"); len(v) != 0 {
		env.SyncCompanyID = v
	}

	if v := os.Getenv("SYNC_USER_ID"); len(v) != 0 {
		env.SyncUserID = v
	}

	if v := os.Getenv("LOG_LEVEL"); len(v) != 0 {
		env.LogLevel = v
	}

	return &env, nil
}
