package p2p

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"minichain_go/blockchain"
	"minichain_go/consensus"
	"minichain_go/utils"

	"github.com/gorilla/mux"
)

// Server represents the HTTP server for the ledger node
type Server struct {
	Router   *mux.Router
	Node     *Node
	Chain    *blockchain.Blockchain
	Resolver *consensus.Resolver
}

// NewServer creates a new server instance
func NewServer(node *Node, chain *blockchain.Blockchain, resolver *consensus.Resolver) *Server {
	return &Server{
		Router:   mux.NewRouter(),
		Node:     node,
		Chain:    chain,
		Resolver: resolver,
	}
}

// SetupRoutes configures the API routes
func (s *Server) SetupRoutes() {
	s.Router.HandleFunc("/ping", s.PingHandler).Methods("GET")

	// Ledger endpoints
	s.Router.HandleFunc("/transactions/new", s.NewTransactionHandler).Methods("POST")
	s.Router.HandleFunc("/mine", s.MineHandler).Methods("GET")
	s.Router.HandleFunc("/chain", s.ChainHandler).Methods("GET")
	s.Router.HandleFunc("/mempool", s.MempoolHandler).Methods("GET")

	// Peer management endpoints
	s.Router.HandleFunc("/nodes/register", s.RegisterNodesHandler).Methods("POST")
	s.Router.HandleFunc("/nodes/resolve", s.ResolveHandler).Methods("GET")
	s.Router.HandleFunc("/nodes", s.GetNodesHandler).Methods("GET")
}

// Start runs the HTTP server until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Start(ctx context.Context) error {
	utils.LogInfo("Server starting on port %d", s.Node.Port)

	srv := &http.Server{
		Handler: s.Router,
		Addr:    fmt.Sprintf(":%d", s.Node.Port),
		// Mining at the default difficulty can take a while, so the write
		// timeout is far looser than the read timeout.
		WriteTimeout: 120 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
