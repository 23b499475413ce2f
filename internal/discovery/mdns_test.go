// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests TXT records and service entry parsing
package discovery

import (
	"net"
	"testing"

	"github.com/hashicorp/mdns"
)

func TestNewManager(t *testing.T) {
	config := Config{
		ServiceName: "Living Room",
		Port:        8928,
	}

	mgr := NewManager(config)
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	mgr.Stop()
}

func TestTXTRecords(t *testing.T) {
	txt := txtRecords(Config{ID: "abc", Version: "1.0.0"})

	want := []string{"path=/calmtv", "id=abc", "version=1.0.0"}
	if len(txt) != len(want) {
		t.Fatalf("expected %v, got %v", want, txt)
	}
	for i := range want {
		if txt[i] != want[i] {
			t.Errorf("record %d: expected %s, got %s", i, want[i], txt[i])
		}
	}
}

func TestServerInfo(t *testing.T) {
	tests := []struct {
		name  string
		entry *mdns.ServiceEntry
		want  *ServerInfo
	}{
		{
			name: "full entry",
			entry: &mdns.ServiceEntry{
				Name:       `Living\ Room._calmtv._tcp.local.`,
				AddrV4:     net.ParseIP("192.168.1.20"),
				Port:       8928,
				InfoFields: []string{"path=/calmtv", "id=abc", "version=1.0.0"},
			},
			want: &ServerInfo{Name: "Living Room", Host: "192.168.1.20", Port: 8928, Path: "/calmtv", ID: "abc", Version: "1.0.0"},
		},
		{
			name: "no txt",
			entry: &mdns.ServiceEntry{
				Name:   "tv._calmtv._tcp.local.",
				AddrV4: net.ParseIP("10.0.0.5"),
				Port:   9000,
			},
			want: &ServerInfo{Name: "tv", Host: "10.0.0.5", Port: 9000, Path: "/calmtv"},
		},
		{
			name: "other service",
			entry: &mdns.ServiceEntry{
				Name:   "printer._ipp._tcp.local.",
				AddrV4: net.ParseIP("10.0.0.6"),
				Port:   631,
			},
		},
		{
			name: "no address",
			entry: &mdns.ServiceEntry{
				Name: "tv._calmtv._tcp.local.",
				Port: 9000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serverInfo(tt.entry)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected server info, got nil")
			}
			if *got != *tt.want {
				t.Errorf("expected %+v, got %+v", *tt.want, *got)
			}
		})
	}
}

func TestServerInfoAddr(t *testing.T) {
	info := &ServerInfo{Host: "192.168.1.20", Port: 8928}
	if got := info.Addr(); got != "192.168.1.20:8928" {
		t.Errorf("expected 192.168.1.20:8928, got %s", got)
	}
}
