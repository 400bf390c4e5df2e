package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `taxihub - taxi booking service

Usage:
  taxihub [flags]

Flags:
  -config string   path to the YAML config file
  -help            show this message

Configuration is read from the YAML file (if given) and from environment
variables; environment variables win. See config/config.go for the full
list of variables and their defaults.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig prints the effective configuration, passwords excluded.
func PrintConfig(cfg *Config) {
	fmt.Printf("server:   port=%s\n", cfg.Server.Port)
	fmt.Printf("database: enabled=%t host=%s port=%s db=%s\n",
		cfg.Database.Enabled, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	fmt.Printf("rabbitmq: enabled=%t host=%s port=%s\n",
		cfg.RabbitMQ.Enabled, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	fmt.Printf("hub:      queue_size=%d max_retries=%d retry_delay=%s\n",
		cfg.Hub.QueueSize, cfg.Hub.MaxRetries, cfg.Hub.RetryDelay)
	fmt.Printf("log:      level=%s\n", cfg.Log.Level)
}
