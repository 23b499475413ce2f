// ABOUTME: mDNS service discovery for the control endpoint
// ABOUTME: Players advertise _calmtv._tcp and control tools look it up
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	// ServiceType is the DNS-SD service type of the control endpoint
	ServiceType = "_calmtv._tcp"

	defaultLookupTimeout = 3 * time.Second
)

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int

	// Path is the websocket path advertised in the TXT record
	Path string

	// ID is the player instance id advertised in the TXT record
	ID string

	Version string
}

// Manager handles mDNS advertisement
type Manager struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
}

// ServerInfo describes a discovered player
type ServerInfo struct {
	Name    string
	Host    string
	Port    int
	Path    string
	ID      string
	Version string
}

// Addr returns host:port
func (s *ServerInfo) Addr() string {
	return net.JoinHostPort(s.Host, fmt.Sprint(s.Port))
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Advertise advertises this player via mDNS until Stop
func (m *Manager) Advertise() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		txtRecords(m.config),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)", m.config.ServiceName, m.config.Port, ServiceType)

	go func() {
		<-m.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Stop withdraws the advertisement
func (m *Manager) Stop() {
	m.cancel()
}

// Lookup queries the network once for players
func Lookup(timeout time.Duration) ([]*ServerInfo, error) {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}

	entries := make(chan *mdns.ServiceEntry, 16)
	done := make(chan []*ServerInfo)

	go func() {
		var found []*ServerInfo
		seen := make(map[string]bool)
		for entry := range entries {
			info := serverInfo(entry)
			if info == nil || seen[info.Addr()] {
				continue
			}
			seen[info.Addr()] = true
			log.Printf("Discovered player: %s at %s", info.Name, info.Addr())
			found = append(found, info)
		}
		done <- found
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Timeout = timeout
	params.Entries = entries

	err := mdns.Query(params)
	close(entries)
	found := <-done

	if err != nil {
		return found, fmt.Errorf("mdns query failed: %w", err)
	}
	return found, nil
}

func txtRecords(config Config) []string {
	path := config.Path
	if path == "" {
		path = "/calmtv"
	}

	txt := []string{"path=" + path}
	if config.ID != "" {
		txt = append(txt, "id="+config.ID)
	}
	if config.Version != "" {
		txt = append(txt, "version="+config.Version)
	}
	return txt
}

// serverInfo converts a service entry, returning nil for entries of
// other services or without an address
func serverInfo(entry *mdns.ServiceEntry) *ServerInfo {
	if !strings.Contains(entry.Name, ServiceType) {
		return nil
	}

	var host string
	switch {
	case entry.AddrV4 != nil:
		host = entry.AddrV4.String()
	case entry.AddrV6 != nil:
		host = entry.AddrV6.String()
	default:
		return nil
	}

	info := &ServerInfo{
		Name: instanceName(entry.Name),
		Host: host,
		Port: entry.Port,
		Path: "/calmtv",
	}

	for _, field := range entry.InfoFields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "path":
			info.Path = value
		case "id":
			info.ID = value
		case "version":
			info.Version = value
		}
	}

	return info
}

// instanceName strips the service and domain from a full entry name
func instanceName(name string) string {
	if i := strings.Index(name, "."+ServiceType); i >= 0 {
		name = name[:i]
	}
	return strings.ReplaceAll(name, `\ `, " ")
}

// getLocalIPs returns local IP addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
