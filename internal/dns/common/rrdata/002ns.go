package rrdata

// encodeNSData converts a nameserver hostname to wire format.
func encodeNSData(data string) ([]byte, error) {
	return encodeDomainName(data)
}

// decodeNSData renders an NS payload as the nameserver hostname.
func decodeNSData(data []byte) (string, error) {
	name, _, err := decodeDomainName(data, 0)
	return name, err
}
