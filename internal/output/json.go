package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// WriteJSON writes results to a JSON file.
func WriteJSON(filename string, results Results, commandLine string) error {
	results.Timestamp = time.Now().Format(time.RFC3339)
	results.MachineInfo.CommandLine = commandLine

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return os.WriteFile(filename, append(data, '\n'), 0o644) //nolint:gosec // report is meant to be shared
}
