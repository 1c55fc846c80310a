package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"minichain_go/blockchain"
	"minichain_go/consensus"
	"minichain_go/p2p"
	"minichain_go/utils"

	"github.com/joho/godotenv"
)

// AppConfig holds all startup configuration
type AppConfig struct {
	Port         int
	Verbose      bool
	SeedPeersStr string
}

func getEnvInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	valInt, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s: %s. Using default %d.", key, valStr, defaultValue)
		return defaultValue
	}
	return valInt
}

func loadConfig() *AppConfig {
	config := &AppConfig{}

	// Environment variables provide defaults; CLI flags override them.
	flag.IntVar(&config.Port, "port", getEnvInt("API_PORT", 5000), "Port for the HTTP API")
	flag.BoolVar(&config.Verbose, "verbose", os.Getenv("VERBOSE") == "true" || os.Getenv("VERBOSE") == "1", "Enable detailed logging")
	flag.StringVar(&config.SeedPeersStr, "peers", os.Getenv("SEED_PEERS"), "Comma-separated list of peer addresses to register at startup")
	flag.Parse()

	return config
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	config := loadConfig()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.SetOutput(os.Stdout)
	utils.SetVerbose(config.Verbose)

	chain := blockchain.NewBlockchain()
	utils.LogInfo("Chain initialized with %d blocks at difficulty %d", chain.Length(), chain.Difficulty())

	node := p2p.NewNode(config.Port)
	if config.SeedPeersStr != "" {
		for _, peer := range strings.Split(config.SeedPeersStr, ",") {
			normalized, err := node.RegisterPeer(peer)
			if err != nil {
				utils.LogError("Skipping seed peer %q: %v", peer, err)
				continue
			}
			utils.LogInfo("Registered seed peer %s", normalized)
		}
	}

	resolver := consensus.NewResolver(chain, p2p.NewHTTPChainFetcher())

	server := p2p.NewServer(node, chain, resolver)
	server.SetupRoutes()

	utils.PrintStartupMessage(node.ID, config.Port)

	if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
	utils.LogInfo("Node stopped")
}
