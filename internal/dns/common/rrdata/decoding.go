package rrdata

import (
	"github.com/haukened/rr-dig/internal/dns/domain"
)

// Decode renders a record payload as presentation text based on its type.
// Types without a specific decoder, and payloads a decoder cannot make
// sense of, come back in the RFC 3597 generic form rather than an error:
// display always has something to show.
func Decode(rrType domain.RRType, data []byte) string {
	var (
		text string
		err  error
	)
	switch rrType {
	case domain.RRTypeA: // 1
		text, err = decodeAData(data)
	case domain.RRTypeNS: // 2
		text, err = decodeNSData(data)
	case domain.RRTypeCNAME: // 5
		text, err = decodeCNAMEData(data)
	case domain.RRTypeSOA: // 6
		text, err = decodeSOAData(data)
	case domain.RRTypePTR: // 12
		text, err = decodePTRData(data)
	case domain.RRTypeMX: // 15
		text, err = decodeMXData(data)
	case domain.RRTypeTXT: // 16
		text, err = decodeTXTData(data)
	case domain.RRTypeAAAA: // 28
		text, err = decodeAAAAData(data)
	case domain.RRTypeSRV: // 33
		text, err = decodeSRVData(data)
	case domain.RRTypeCAA: // 257
		text, err = decodeCAAData(data)
	default:
		return unknownRData(data)
	}
	if err != nil {
		return unknownRData(data)
	}
	return text
}
