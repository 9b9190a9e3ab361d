package pipeline

import (
	"fmt"
	"log/slog"
	"time"
)

// ExecuteCommands applies a sequence of edit commands to an image in order,
// creating each command from the default registry.
func ExecuteCommands(imageData []byte, commandConfigs []CommandConfig) ([]byte, error) {
	start := time.Now()

	slog.Info("starting edit pipeline",
		"command_count", len(commandConfigs),
		"input_size_bytes", len(imageData))

	if len(commandConfigs) == 0 {
		slog.Debug("no commands configured, returning original image")
		return imageData, nil
	}

	currentData := imageData

	for i, config := range commandConfigs {
		commandStart := time.Now()

		slog.Debug("creating command",
			"index", i,
			"command_name", config.Name,
			"params", config.Params)

		command, err := DefaultRegistry.Create(config.Name, config.Params)
		if err != nil {
			slog.Error("failed to create command",
				"index", i,
				"command_name", config.Name,
				"error", err)
			return nil, fmt.Errorf("failed to create command at index %d (%s): %w", i, config.Name, err)
		}

		processedData, err := command.Execute(currentData)
		if err != nil {
			slog.Error("command execution failed",
				"index", i,
				"command_name", config.Name,
				"error", err,
				"input_size_bytes", len(currentData))
			return nil, fmt.Errorf("command %s (index %d) failed: %w", config.Name, i, err)
		}

		slog.Info("command completed",
			"index", i,
			"command_name", config.Name,
			"duration_ms", time.Since(commandStart).Milliseconds(),
			"input_size_bytes", len(currentData),
			"output_size_bytes", len(processedData))

		currentData = processedData
	}

	slog.Info("edit pipeline completed",
		"total_duration_ms", time.Since(start).Milliseconds(),
		"command_count", len(commandConfigs),
		"final_size_bytes", len(currentData))

	return currentData, nil
}
