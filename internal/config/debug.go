package config

import "os"

func IsDebug() bool {
	return os.Getenv("GUATA_DEBUG") == "1"
}
