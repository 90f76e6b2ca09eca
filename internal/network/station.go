package network

import (
	"fmt"
	"log"
	"net"
	"os/exec"
	"time"

	"github.com/jgulick48/weather-node/internal/models"
)

type Station interface {
	Active(active bool) error
	Connect(ssid, passphrase string) error
	IsConnected() bool
}

// NewStation returns the station for the configured wireless interface. With
// no interface configured the host's network is managed elsewhere and the
// station reports connected straight away.
func NewStation(config models.WiFiConfig) Station {
	if config.Interface == "" {
		return hostStation{}
	}
	return &linuxStation{
		iface:      config.Interface,
		run:        runCommand,
		interfaces: net.InterfaceByName,
	}
}

// Bootstrap brings the station up and blocks until it is associated. There is
// no timeout.
func Bootstrap(station Station, config models.WiFiConfig) error {
	return bootstrap(station, config, time.Sleep)
}

func bootstrap(station Station, config models.WiFiConfig, sleep func(time.Duration)) error {
	log.Printf("Connecting to WiFi %s", config.SSID)
	if err := station.Active(true); err != nil {
		return fmt.Errorf("activating wireless interface: %w", err)
	}
	if err := station.Connect(config.SSID, config.Passphrase); err != nil {
		return fmt.Errorf("joining %s: %w", config.SSID, err)
	}
	polls := 0
	for !station.IsConnected() {
		polls++
		if polls%10 == 0 {
			log.Printf("Still waiting for association with %s (%v polls)", config.SSID, polls)
		}
		sleep(config.PollInterval.Duration)
	}
	log.Printf("Connected to WiFi %s", config.SSID)
	return nil
}

type hostStation struct{}

func (hostStation) Active(bool) error            { return nil }
func (hostStation) Connect(string, string) error { return nil }
func (hostStation) IsConnected() bool            { return true }

type linuxStation struct {
	iface      string
	run        func(name string, args ...string) error
	interfaces func(name string) (*net.Interface, error)
}

func (s *linuxStation) Active(active bool) error {
	state := "down"
	if active {
		state = "up"
	}
	return s.run("ip", "link", "set", s.iface, state)
}

func (s *linuxStation) Connect(ssid, passphrase string) error {
	args := []string{"device", "wifi", "connect", ssid}
	if passphrase != "" {
		args = append(args, "password", passphrase)
	}
	args = append(args, "ifname", s.iface)
	return s.run("nmcli", args...)
}

// IsConnected reports whether the interface is up and has been given a
// routable address.
func (s *linuxStation) IsConnected() bool {
	iface, err := s.interfaces(s.iface)
	if err != nil || iface.Flags&net.FlagUp == 0 {
		return false
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return false
	}
	return hasUnicastAddress(addrs)
}

func hasUnicastAddress(addrs []net.Addr) bool {
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ipNet.IP.IsGlobalUnicast() {
			return true
		}
	}
	return false
}

func runCommand(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}
