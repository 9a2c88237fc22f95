package linecode

func encodeNRZ(bits Bitstream) Signal {
	sig := make(Signal, len(bits))
	for i, b := range bits {
		if b == 1 {
			sig[i] = High
		} else {
			sig[i] = Low
		}
	}
	return sig
}

func decodeNRZ(sig Signal) (Bitstream, error) {
	bits := make(Bitstream, len(sig))
	for i, sym := range sig {
		switch sym.upper() {
		case High:
			bits[i] = 1
		case Low:
			bits[i] = 0
		default:
			return nil, decodeErr(NRZ, ErrInvalidSymbol, i, "want H or L, got "+quote(sym))
		}
	}
	return bits, nil
}

// NRZI starts from a high line level on both ends of the link
const nrziIdle = High

func encodeNRZI(bits Bitstream) Signal {
	sig := make(Signal, len(bits))
	level := nrziIdle
	for i, b := range bits {
		if b == 1 {
			level = level.FlipLevel()
		}
		sig[i] = level
	}
	return sig
}

func decodeNRZI(sig Signal) (Bitstream, error) {
	bits := make(Bitstream, len(sig))
	prev := nrziIdle
	for i, sym := range sig {
		cur := sym.upper()
		if cur != High && cur != Low {
			return nil, decodeErr(NRZI, ErrInvalidSymbol, i, "want H or L, got "+quote(sym))
		}
		if cur != prev {
			bits[i] = 1
		}
		prev = cur
	}
	return bits, nil
}

func quote(sym Symbol) string {
	return "'" + string(rune(sym)) + "'"
}
