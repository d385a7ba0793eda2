package domain

import "fmt"

// RCode represents a DNS response code carried in the header flags.
type RCode uint8

// Response codes from RFC 1035 and RFC 2136.
const (
	RCodeNoError  RCode = 0 // no error
	RCodeFormErr  RCode = 1 // format error
	RCodeServFail RCode = 2 // server failure
	RCodeNXDomain RCode = 3 // non-existent domain
	RCodeNotImp   RCode = 4 // not implemented
	RCodeRefused  RCode = 5 // refused by policy
)

// IsError reports whether the response code indicates a failed query.
func (r RCode) IsError() bool {
	return r != RCodeNoError
}

// String returns the textual mnemonic for the response code.
func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case RCodeServFail:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case RCodeNotImp:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	case 6:
		return "YXDOMAIN"
	case 7:
		return "YXRRSET"
	case 8:
		return "NXRRSET"
	case 9:
		return "NOTAUTH"
	case 10:
		return "NOTZONE"
	default:
		return fmt.Sprintf("RCODE%d", uint8(r))
	}
}
