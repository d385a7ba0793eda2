package config

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
)

// LoadResolvConf extracts nameserver addresses from a resolv.conf style
// file and returns them in ip:port form, port 53. Comments, blank lines,
// and directives other than nameserver are ignored, as are nameserver
// values that do not parse as IP addresses.
func LoadResolvConf(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var servers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "nameserver" {
			continue
		}
		ip := net.ParseIP(fields[1])
		if ip == nil {
			continue
		}
		servers = append(servers, net.JoinHostPort(ip.String(), "53"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return servers, nil
}
