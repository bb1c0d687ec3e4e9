package httpwire

// ParseMethodID converts a request-line method token to a numeric ID.
// Comparison is case-insensitive per spec §3 ("storage is canonical
// upper-case"): every candidate is matched with a single case-folding byte
// compare, dispatched first on token length, so the lookup does not
// allocate.
func ParseMethodID(method []byte) uint8 {
	switch len(method) {
	case 3:
		if eq3(method, 'G', 'E', 'T') {
			return MethodGET
		}
		if eq3(method, 'P', 'U', 'T') {
			return MethodPUT
		}
	case 4:
		if eq4(method, 'P', 'O', 'S', 'T') {
			return MethodPOST
		}
		if eq4(method, 'H', 'E', 'A', 'D') {
			return MethodHEAD
		}
	case 5:
		if eq5(method, 'P', 'A', 'T', 'C', 'H') {
			return MethodPATCH
		}
		if eq5(method, 'T', 'R', 'A', 'C', 'E') {
			return MethodTRACE
		}
	case 6:
		if eq6(method, 'D', 'E', 'L', 'E', 'T', 'E') {
			return MethodDELETE
		}
	case 7:
		if eq7(method, 'O', 'P', 'T', 'I', 'O', 'N', 'S') {
			return MethodOPTIONS
		}
		if eq7(method, 'C', 'O', 'N', 'N', 'E', 'C', 'T') {
			return MethodCONNECT
		}
	}
	return MethodUnknown
}

// eqN compares method against the given upper-case bytes, folding case so
// lower-case and mixed-case input ("get", "Get") still resolve correctly.
func eq3(b []byte, c0, c1, c2 byte) bool {
	return upper(b[0]) == c0 && upper(b[1]) == c1 && upper(b[2]) == c2
}
func eq4(b []byte, c0, c1, c2, c3 byte) bool {
	return upper(b[0]) == c0 && upper(b[1]) == c1 && upper(b[2]) == c2 && upper(b[3]) == c3
}
func eq5(b []byte, c0, c1, c2, c3, c4 byte) bool {
	return eq4(b, c0, c1, c2, c3) && upper(b[4]) == c4
}
func eq6(b []byte, c0, c1, c2, c3, c4, c5 byte) bool {
	return eq5(b, c0, c1, c2, c3, c4) && upper(b[5]) == c5
}
func eq7(b []byte, c0, c1, c2, c3, c4, c5, c6 byte) bool {
	return eq6(b, c0, c1, c2, c3, c4, c5) && upper(b[6]) == c6
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}

// MethodString returns the canonical upper-case string for a method ID.
func MethodString(id uint8) string {
	switch id {
	case MethodGET:
		return methodGETString
	case MethodPOST:
		return methodPOSTString
	case MethodPUT:
		return methodPUTString
	case MethodDELETE:
		return methodDELETEString
	case MethodPATCH:
		return methodPATCHString
	case MethodHEAD:
		return methodHEADString
	case MethodOPTIONS:
		return methodOPTIONSString
	case MethodCONNECT:
		return methodCONNECTString
	case MethodTRACE:
		return methodTRACEString
	default:
		return ""
	}
}

// MethodBytes returns the canonical upper-case bytes for a method ID.
func MethodBytes(id uint8) []byte {
	switch id {
	case MethodGET:
		return methodGETBytes
	case MethodPOST:
		return methodPOSTBytes
	case MethodPUT:
		return methodPUTBytes
	case MethodDELETE:
		return methodDELETEBytes
	case MethodPATCH:
		return methodPATCHBytes
	case MethodHEAD:
		return methodHEADBytes
	case MethodOPTIONS:
		return methodOPTIONSBytes
	case MethodCONNECT:
		return methodCONNECTBytes
	case MethodTRACE:
		return methodTRACEBytes
	default:
		return nil
	}
}

// IsValidMethodID reports whether id is a known, non-sentinel method.
func IsValidMethodID(id uint8) bool {
	return id >= MethodGET && id <= MethodTRACE
}
