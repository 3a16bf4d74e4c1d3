package utils

import (
	"log"
	"os"
)

// LoggerConfig controls the output and format of the app logger.
type LoggerConfig struct {
	Format string // "text" or "json"
	Output *os.File
}

// InitLogger builds the shared application logger.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	prefix := "[SpartaJus] "
	if cfg.Format == "json" {
		return log.New(cfg.Output, prefix, log.LstdFlags|log.LUTC)
	}
	return log.New(cfg.Output, prefix, log.LstdFlags|log.Lshortfile|log.LUTC)
}
