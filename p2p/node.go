package p2p

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Node is this process's identity on the network plus the set of peer
// ledgers it knows about. The identity doubles as the reward recipient when
// this node forges a block.
type Node struct {
	ID    string
	Port  int
	peers map[string]struct{}
	mutex sync.RWMutex
}

// NewNode creates a node with a fresh random identifier.
func NewNode(port int) *Node {
	return &Node{
		ID:    strings.ReplaceAll(uuid.New().String(), "-", ""),
		Port:  port,
		peers: make(map[string]struct{}),
	}
}

// RegisterPeer adds a peer ledger's address to the known set. Addresses are
// normalized to host:port, so "http://host:port" and "host:port" register
// the same peer; duplicates are absorbed. The normalized form is returned.
func (n *Node) RegisterPeer(address string) (string, error) {
	normalized, err := normalizePeerAddress(address)
	if err != nil {
		return "", err
	}

	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.peers[normalized] = struct{}{}

	return normalized, nil
}

// Peers returns the registered peer addresses, sorted so that conflict
// resolution visits peers in a deterministic order.
func (n *Node) Peers() []string {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	out := make([]string, 0, len(n.peers))
	for peer := range n.peers {
		out = append(out, peer)
	}
	sort.Strings(out)
	return out
}

// PeerCount returns the number of registered peers.
func (n *Node) PeerCount() int {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return len(n.peers)
}

// normalizePeerAddress reduces a peer address to its host:port form. A bare
// host:port is accepted by treating it as an http URL first.
func normalizePeerAddress(address string) (string, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return "", fmt.Errorf("peer address is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid peer address %q: %w", address, err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("peer address %q has no host", address)
	}

	return parsed.Host, nil
}
