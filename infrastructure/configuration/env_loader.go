package configuration

import (
	"bufio"
	"os"
	"strings"
)

// LoadEnvFromFile reads KEY=VALUE pairs from the given files (config.env,
// .env) into the process environment. Variables already set in the OS
// environment win; missing files are skipped silently.
func LoadEnvFromFile(paths ...string) {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			applyEnvLine(scanner.Text())
		}
		_ = f.Close()
	}
}

func applyEnvLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	val = strings.Trim(strings.TrimSpace(val), `"'`)
	if _, exists := os.LookupEnv(key); !exists {
		_ = os.Setenv(key, val)
	}
}
