package rrdata

// encodeCNAMEData converts a canonical name to wire format.
func encodeCNAMEData(data string) ([]byte, error) {
	return encodeDomainName(data)
}

// decodeCNAMEData renders a CNAME payload as the target name.
func decodeCNAMEData(data []byte) (string, error) {
	name, _, err := decodeDomainName(data, 0)
	return name, err
}
