package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const activateCommand = "activate"

// InstanceGuard holds the single-instance lock and listens for activation
// requests from later launches.
type InstanceGuard struct {
	listener net.Listener
	address  string
	once     sync.Once
}

// AcquireSingleInstance attempts to bind a deterministic localhost port.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// ActivateRunning asks the instance holding the lock to bring itself forward.
func ActivateRunning(appName string) error {
	conn, err := net.DialTimeout("tcp", instanceAddress(appName), time.Second)
	if err != nil {
		return fmt.Errorf("dial running instance: %w", err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, activateCommand); err != nil {
		return fmt.Errorf("send activate: %w", err)
	}
	return nil
}

// Serve handles activation requests until the guard is released. onActivate
// runs on the accept goroutine.
func (guard *InstanceGuard) Serve(onActivate func()) {
	if guard == nil || guard.listener == nil {
		return
	}
	go func() {
		for {
			conn, err := guard.listener.Accept()
			if err != nil {
				return
			}
			if readCommand(conn) == activateCommand && onActivate != nil {
				onActivate()
			}
		}
	}()
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	var err error
	guard.once.Do(func() {
		err = guard.listener.Close()
	})
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func readCommand(conn net.Conn) string {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
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
