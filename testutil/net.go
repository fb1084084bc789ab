/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// WaitPortAndListeningServer waits until port is known and the server is ready to accept TCP connection on the passing
// address.
func WaitPortAndListeningServer(host string, getPort func() int, timeout time.Duration) (int, error) {
	port, err := waitPort(getPort, timeout)
	if err != nil {
		return 0, err
	}
	return port, waitListeningServer("tcp", fmt.Sprintf("%s:%d", host, port), timeout)
}

func waitListeningServer(network string, addr string, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if conn, err := net.DialTimeout(network, addr, time.Second); err == nil {
			return conn.Close()
		}
		select {
		case <-timer.C:
			return errors.New("waiting listening server timed out")
		default:
			time.Sleep(time.Millisecond * 10)
		}
	}
}

func waitPort(getPort func() int, timeout time.Duration) (int, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if port := getPort(); port > 0 {
			return port, nil
		}
		select {
		case <-timer.C:
			return 0, errors.New("waiting for listening port timed out")
		default:
			time.Sleep(time.Millisecond * 10)
		}
	}
}
