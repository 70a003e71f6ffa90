package nodes

import (
	"fmt"
	"net"
	"sync"
)

// Port ranges for the services one rollup node exposes.
var defaultPortRanges = map[string]portRange{
	"rpc":  {Start: 8449, End: 8549},
	"feed": {Start: 9642, End: 9742},
}

type portRange struct {
	Start int
	End   int
}

var (
	portMutex      sync.Mutex
	allocatedPorts = make(map[int]string)
)

// allocatePort finds a free port in the range for the given service kind.
func allocatePort(kind string) (int, error) {
	portMutex.Lock()
	defer portMutex.Unlock()

	r, exists := defaultPortRanges[kind]
	if !exists {
		return 0, fmt.Errorf("unknown port kind: %s", kind)
	}

	for port := r.Start; port <= r.End; port++ {
		if _, taken := allocatedPorts[port]; taken {
			continue
		}
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		listener.Close()
		allocatedPorts[port] = kind
		return port, nil
	}

	return 0, fmt.Errorf("no free ports in range %d-%d for %s", r.Start, r.End, kind)
}

// releasePort returns an allocated port to the pool.
func releasePort(port int) error {
	portMutex.Lock()
	defer portMutex.Unlock()

	if _, exists := allocatedPorts[port]; !exists {
		return fmt.Errorf("port %d is not allocated", port)
	}
	delete(allocatedPorts, port)
	return nil
}
