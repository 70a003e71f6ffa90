package nodes

import (
	"sort"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	apperrors "github.com/chainlaunch/rolluplaunch/pkg/errors"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
	"github.com/chainlaunch/rolluplaunch/pkg/nodeconfig"
)

// NodeState is the lifecycle state of a registered rollup node.
type NodeState string

const (
	StateStopped  NodeState = "stopped"
	StateStarting NodeState = "starting"
	StateRunning  NodeState = "running"
	StateError    NodeState = "error"
)

// Node is a rollup node registered with a launcher. Its state only
// changes through Registry methods.
type Node struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ChainID      uint64    `json:"chainId"`
	ArtifactPath string    `json:"artifactPath"`
	State        NodeState `json:"state"`
	RPCPort      int       `json:"rpcPort,omitempty"`
	FeedPort     int       `json:"feedPort,omitempty"`
	LastError    string    `json:"lastError,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Registry tracks rollup nodes and owns all their state transitions.
type Registry struct {
	mu     sync.RWMutex
	nodes  map[string]*Node
	logger *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		nodes:  make(map[string]*Node),
		logger: log,
	}
}

// Register creates a node entry from a persisted node configuration
// artifact. The node starts out stopped.
func (r *Registry) Register(name, artifactPath string) (*Node, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("node name is required", nil)
	}

	artifact, err := nodeconfig.ReadArtifact(artifactPath)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid node configuration artifact", map[string]interface{}{
			"path":  artifactPath,
			"error": err.Error(),
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.nodes {
		if existing.Name == name {
			return nil, apperrors.NewValidationError("node name already in use", map[string]interface{}{
				"name": name,
			})
		}
	}

	now := time.Now().UTC()
	node := &Node{
		ID:           shortuuid.New(),
		Name:         name,
		ChainID:      artifact.Chain.ID,
		ArtifactPath: artifactPath,
		State:        StateStopped,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.nodes[node.ID] = node

	r.logger.Info("Registered node", "id", node.ID, "name", name, "chainId", node.ChainID)
	return r.snapshot(node), nil
}

// Start moves a stopped node through starting into running, allocating
// its ports on the way. A failure during startup leaves the node in the
// error state with the cause recorded.
func (r *Registry) Start(id string) (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, exists := r.nodes[id]
	if !exists {
		return nil, apperrors.NewNotFoundError("node not found", map[string]interface{}{"id": id})
	}
	if node.State == StateRunning || node.State == StateStarting {
		return nil, apperrors.NewValidationError("node is already running", map[string]interface{}{
			"id":    id,
			"state": string(node.State),
		})
	}

	node.State = StateStarting
	node.LastError = ""
	node.UpdatedAt = time.Now().UTC()

	rpcPort, err := allocatePort("rpc")
	if err != nil {
		r.fail(node, err.Error())
		return nil, apperrors.NewInternalError("failed to allocate rpc port", err, nil)
	}
	feedPort, err := allocatePort("feed")
	if err != nil {
		releasePort(rpcPort)
		r.fail(node, err.Error())
		return nil, apperrors.NewInternalError("failed to allocate feed port", err, nil)
	}

	node.RPCPort = rpcPort
	node.FeedPort = feedPort
	node.State = StateRunning
	node.UpdatedAt = time.Now().UTC()

	r.logger.Info("Started node", "id", id, "rpcPort", rpcPort, "feedPort", feedPort)
	return r.snapshot(node), nil
}

// Stop moves a running node back to stopped and releases its ports.
func (r *Registry) Stop(id string) (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, exists := r.nodes[id]
	if !exists {
		return nil, apperrors.NewNotFoundError("node not found", map[string]interface{}{"id": id})
	}
	if node.State != StateRunning {
		return nil, apperrors.NewValidationError("node is not running", map[string]interface{}{
			"id":    id,
			"state": string(node.State),
		})
	}

	if node.RPCPort != 0 {
		releasePort(node.RPCPort)
	}
	if node.FeedPort != 0 {
		releasePort(node.FeedPort)
	}
	node.RPCPort = 0
	node.FeedPort = 0
	node.State = StateStopped
	node.UpdatedAt = time.Now().UTC()

	r.logger.Info("Stopped node", "id", id)
	return r.snapshot(node), nil
}

// Get returns a node by ID.
func (r *Registry) Get(id string) (*Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, exists := r.nodes[id]
	if !exists {
		return nil, apperrors.NewNotFoundError("node not found", map[string]interface{}{"id": id})
	}
	return r.snapshot(node), nil
}

// List returns all registered nodes, newest first.
func (r *Registry) List() []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Node, 0, len(r.nodes))
	for _, node := range r.nodes {
		out = append(out, r.snapshot(node))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// fail records a startup failure. Caller holds the lock.
func (r *Registry) fail(node *Node, message string) {
	node.State = StateError
	node.LastError = message
	node.UpdatedAt = time.Now().UTC()
	r.logger.Error("Node failed to start", "id", node.ID, "error", message)
}

func (r *Registry) snapshot(node *Node) *Node {
	copied := *node
	return &copied
}
