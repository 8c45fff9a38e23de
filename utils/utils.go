package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var commands = []string{"analyze", "scan", "serve"}

// ParseArguments converts command-line arguments into a map of flags and values
func ParseArguments() map[string]string {
	args := make(map[string]string)

	// First, identify the command
	command := ""
	commandIndex := -1
	for i := 1; i < len(os.Args); i++ {
		for _, c := range commands {
			if os.Args[i] == c {
				command = c
				commandIndex = i
				break
			}
		}
		if command != "" {
			break
		}
	}

	if command != "" {
		args["command"] = command
	}

	// Process all arguments, skipping the command
	for i := 1; i < len(os.Args); i++ {
		if i == commandIndex {
			continue
		}

		arg := os.Args[i]

		// Handle flags with equals sign (--key=value)
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			flagName := strings.TrimPrefix(parts[0], "--")
			args[flagName] = parts[1]
			continue
		}

		// Handle flags without equals sign (--key value)
		if strings.HasPrefix(arg, "--") {
			flagName := strings.TrimPrefix(arg, "--")

			if i+1 >= len(os.Args) || strings.HasPrefix(os.Args[i+1], "--") {
				args[flagName] = "true"
			} else {
				args[flagName] = os.Args[i+1]
				i++
			}
		}
	}

	return args
}

// GetDefaultDatabasePath returns the default path for the database file
func GetDefaultDatabasePath() string {
	exePath, err := os.Executable()
	if err != nil {
		return "analyses.db"
	}

	return filepath.Join(filepath.Dir(exePath), "analyses.db")
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage() {
	fmt.Printf("Usage:\n")
	fmt.Printf("  %s analyze --image=PATH [--cascade=PATH] [--thresholds=PATH] [--debug] [--logfile=PATH]\n", os.Args[0])
	fmt.Printf("  %s scan --folder=PATH [--database=PATH] [--prefix=NAME] [--cascade=PATH] [--thresholds=PATH] [--force] [--debug] [--logfile=PATH]\n", os.Args[0])
	fmt.Printf("  %s serve [--addr=HOST:PORT] [--cascade=PATH] [--thresholds=PATH] [--debug] [--logfile=PATH]\n", os.Args[0])
	fmt.Printf("\nParameters:\n")
	fmt.Printf("  --image       : Path to a single image to analyze (JSON result on stdout)\n")
	fmt.Printf("  --folder      : Path to folder containing images to analyze\n")
	fmt.Printf("  --database    : Path to database file (default: %s)\n", GetDefaultDatabasePath())
	fmt.Printf("  --prefix      : Source prefix stored with scan results\n")
	fmt.Printf("  --cascade     : Path to Haar frontal-face cascade XML (face counts are 0 without it)\n")
	fmt.Printf("  --thresholds  : Path to JSON file overriding tag/vibe thresholds\n")
	fmt.Printf("  --addr        : Listen address for serve (default: :8080)\n")
	fmt.Printf("  --force       : Force rewrite existing entries during scan\n")
	fmt.Printf("  --debug       : Enable debug mode (logs detailed information)\n")
	fmt.Printf("  --logfile     : Specify custom log file path (default: imagetagger.log)\n")
	fmt.Printf("\nExamples:\n")
	fmt.Printf("  %s analyze --image=/path/to/photo.jpg --cascade=haarcascade_frontalface_default.xml\n", os.Args[0])
	fmt.Printf("  %s scan --folder=/path/to/images --prefix=Camera1 --debug\n", os.Args[0])
	fmt.Printf("  %s serve --addr=:8080 --cascade=haarcascade_frontalface_default.xml\n", os.Args[0])
}
