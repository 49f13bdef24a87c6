package config

import (
	"fmt"
	"os"
)

func Template() string {
	return clientTemplate
}

// WriteTemplate writes the default client config to path.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(clientTemplate), 0o600)
}

const clientTemplate = `# records server, one command per connection
server_addr = "127.0.0.1:8080"
dial_timeout = "5s"
write_timeout = "5s"
read_timeout = "15s"
max_reply_bytes = 65536

# local credential store, one account per line: user;password;role;status
accounts_file = "usuarios.csv"

worker_queue = 8
clear_screen = false

# optional diagnostics endpoint serving /health and /metrics
metrics_addr = ""
log_level = "info"
`
