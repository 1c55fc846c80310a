// utils/logger.go
package utils

import (
	"fmt"
	"log"
)

// Global verbose flag
var Verbose = false

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	log.Printf("[INFO] "+format, args...)
}

// LogDebug logs a debug message if verbose mode is enabled
func LogDebug(format string, args ...interface{}) {
	if Verbose {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	log.Printf("[ERROR] "+format, args...)
}

// SetVerbose sets the verbose logging mode
func SetVerbose(v bool) {
	Verbose = v
}

// PrintStartupMessage prints a formatted startup message
func PrintStartupMessage(nodeID string, port int) {
	fmt.Println("---------------------------------------------------")
	fmt.Printf("| Ledger Node Started                              |\n")
	fmt.Printf("| Node ID: %-38s |\n", nodeID)
	fmt.Printf("| Port: %-41d |\n", port)
	fmt.Printf("| Mode: %-41s |\n", fmt.Sprintf("HTTP Server (:%d)", port))
	fmt.Println("---------------------------------------------------")
}
