package rrdata

// encodePTRData converts a pointer target name to wire format.
func encodePTRData(data string) ([]byte, error) {
	return encodeDomainName(data)
}

// decodePTRData renders a PTR payload as the target name.
func decodePTRData(data []byte) (string, error) {
	name, _, err := decodeDomainName(data, 0)
	return name, err
}
