package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceLock keeps a deterministic localhost port bound for the
// lifetime of the process so a second instance cannot run a competing
// timer.
type InstanceLock struct {
	listener net.Listener
	address  string
}

// AcquireInstanceLock binds the app's instance port. It fails with
// ErrAlreadyRunning when another process holds it.
func AcquireInstanceLock(appName string) (*InstanceLock, error) {
	address := fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceLock{listener: listener, address: address}, nil
}

// Release frees the lock.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	return lock.listener.Close()
}

// Address returns the bound address.
func (lock *InstanceLock) Address() string {
	if lock == nil {
		return ""
	}
	return lock.address
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
