package net

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_pixelboard._tcp"

// Advertise announces this host's board server on the local network so join
// mode can find it without typing an address. Close the returned server on
// shutdown.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"pixelboard"})
	if err != nil {
		return nil, fmt.Errorf("mdns service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("mdns server: %w", err)
	}
	return server, nil
}

// FindHost browses for an advertised board host and returns the first
// "ip:port" found within the timeout.
func FindHost(timeout time.Duration) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)

	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			select {
			case found <- fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port):
			default:
			}
		}
	}()

	if err := mdns.Lookup(serviceType, entries); err != nil {
		close(entries)
		return "", fmt.Errorf("mdns lookup: %w", err)
	}
	close(entries)

	select {
	case addr := <-found:
		return addr, nil
	case <-time.After(timeout):
		return "", fmt.Errorf("no board host found within %s", timeout)
	}
}
