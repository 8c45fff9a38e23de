package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"imagetagger/config"
	"imagetagger/database"
	"imagetagger/imageprocessor"
	"imagetagger/logging"
	"imagetagger/scanner"
	"imagetagger/server"
	"imagetagger/signalhandler"
	"imagetagger/utils"
)

func main() {
	// Set up proper signal handling
	signalhandler.SetupHandler()

	// Set the optimal number of CPUs to use
	runtime.GOMAXPROCS(signalhandler.GetOptimalProcs())

	// Parse command line arguments into a map
	args := utils.ParseArguments()

	command, hasCommand := args["command"]

	// Set default database path
	dbPath := utils.GetDefaultDatabasePath()
	if customDB, ok := args["database"]; ok && customDB != "" {
		dbPath = customDB
	} else if customDB, ok := args["db"]; ok && customDB != "" {
		// Allow --db as an alias for --database
		dbPath = customDB
	}

	// Setup debug logging if enabled
	debugMode := false
	if _, ok := args["debug"]; ok {
		debugMode = true
		logPath := "imagetagger.log"
		if customLogPath, ok := args["logfile"]; ok && customLogPath != "" {
			logPath = customLogPath
		}
		if err := logging.SetupLogger(logPath); err != nil {
			fmt.Printf("Warning: Failed to setup logging: %v\n", err)
		} else {
			fmt.Printf("Debug mode enabled. Logging to: %s\n", logPath)
		}
	}

	// Check if required arguments are missing
	showUsage := !hasCommand

	if hasCommand && command == "scan" && args["folder"] == "" {
		showUsage = true
	}

	if hasCommand && command == "analyze" && args["image"] == "" {
		showUsage = true
	}

	if showUsage {
		utils.PrintUsage()
		os.Exit(1)
	}

	switch command {
	case "analyze":
		handleAnalyzeCommand(args)
	case "scan":
		handleScanCommand(args, dbPath, debugMode)
	case "serve":
		handleServeCommand(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		utils.PrintUsage()
		os.Exit(1)
	}
}

// loadThresholds loads the thresholds file when given, defaults otherwise.
func loadThresholds(args map[string]string) config.Thresholds {
	path, ok := args["thresholds"]
	if !ok || path == "" {
		return config.Default()
	}

	thresholds, err := config.Load(path)
	if err != nil {
		log.Fatalf("Error loading thresholds: %v", err)
	}
	fmt.Printf("Loaded thresholds from: %s\n", path)
	return thresholds
}

func handleAnalyzeCommand(args map[string]string) {
	imagePath := args["image"]
	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		log.Fatalf("Image does not exist: %s", imagePath)
	}

	thresholds := loadThresholds(args)
	faceCounter := imageprocessor.NewFaceCounterOrNil(args["cascade"])

	img, err := imageprocessor.LoadImage(imagePath)
	if err != nil {
		log.Fatalf("Error loading image: %v", err)
	}
	defer img.Close()

	result, err := imageprocessor.AnalyzeImage(img, faceCounter, thresholds)
	if err != nil {
		log.Fatalf("Error analyzing image: %v", err)
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding result: %v", err)
	}
	fmt.Println(string(output))
}

func handleScanCommand(args map[string]string, dbPath string, debugMode bool) {
	folderPath := args["folder"]

	// Verify folder path exists and is accessible
	folderInfo, err := os.Stat(folderPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Fatalf("Folder path does not exist: %s", folderPath)
		} else {
			log.Fatalf("Cannot access folder path: %s (%v)", folderPath, err)
		}
	}
	if !folderInfo.IsDir() {
		log.Fatalf("Path is not a directory: %s", folderPath)
	}

	sourcePrefix := args["prefix"]

	forceRewrite := false
	if _, ok := args["force"]; ok {
		forceRewrite = true
	}

	thresholds := loadThresholds(args)
	faceCounter := imageprocessor.NewFaceCounterOrNil(args["cascade"])

	startTime := time.Now()

	// Initialize database with retry logic
	var db *sql.DB
	const maxRetries = 3
	for i := 0; i < maxRetries; i++ {
		db, err = database.InitDatabase(dbPath)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			log.Printf("Error initializing database (attempt %d/%d): %v - retrying...",
				i+1, maxRetries, err)
			time.Sleep(time.Second * time.Duration(i+1))
		} else {
			log.Fatalf("Error initializing database after %d attempts: %v", maxRetries, err)
		}
	}
	defer db.Close()

	scanOptions := scanner.ScanOptions{
		FolderPath:   folderPath,
		SourcePrefix: sourcePrefix,
		ForceRewrite: forceRewrite,
		DebugMode:    debugMode,
		DbPath:       dbPath,
		MaxWorkers:   signalhandler.GetOptimalProcs(),
		Thresholds:   thresholds,
		FaceCounter:  faceCounter,
	}

	// Run scanner with graceful shutdown handling
	errChan := make(chan error, 1)
	doneChan := make(chan bool, 1)

	go func() {
		err := scanner.ScanAndStoreFolder(db, scanOptions)
		if err != nil {
			errChan <- err
		} else {
			doneChan <- true
		}
	}()

	select {
	case err := <-errChan:
		log.Fatalf("Error scanning folder: %v", err)
	case <-doneChan:
		duration := time.Since(startTime)
		fmt.Printf("\nScan completed successfully!\n")
		fmt.Printf("Total execution time: %v\n", duration)
		fmt.Printf("Database: %s\n", dbPath)

		stats, err := database.GetScanStats(db, sourcePrefix)
		if err == nil && stats != nil {
			fmt.Printf("\nSummary:\n")
			fmt.Printf("- Total images analyzed: %d\n", stats.TotalImages)
			fmt.Printf("- Unique image hashes: %d\n", stats.UniqueHashes)
			fmt.Printf("- Distinct vibes: %d\n", stats.DistinctVibes)
			if stats.TopVibe != "" {
				fmt.Printf("- Most common vibe: %s\n", stats.TopVibe)
			}
		}
	}
}

func handleServeCommand(args map[string]string) {
	addr := ":8080"
	if customAddr, ok := args["addr"]; ok && customAddr != "" {
		addr = customAddr
	}

	thresholds := loadThresholds(args)
	faceCounter := imageprocessor.NewFaceCounterOrNil(args["cascade"])

	handler := server.NewAnalyzeHandler(faceCounter, thresholds)

	fmt.Printf("Serving analysis API on %s\n", addr)
	if err := server.Run(addr, handler); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
