package linecode

// Manchester: 0 is a low-to-high transition (01), 1 is high-to-low (10)

func encodeManchester(bits Bitstream) Signal {
	sig := make(Signal, 0, 2*len(bits))
	for _, b := range bits {
		if b == 1 {
			sig = append(sig, One, Zero)
		} else {
			sig = append(sig, Zero, One)
		}
	}
	return sig
}

func decodeManchester(sig Signal) (Bitstream, error) {
	if len(sig)%2 != 0 {
		return nil, decodeErr(Manchester, ErrInvalidLength, -1, "odd signal length")
	}
	bits := make(Bitstream, len(sig)/2)
	for i := 0; i < len(sig); i += 2 {
		a, b := sig[i], sig[i+1]
		switch {
		case a == Zero && b == One:
			bits[i/2] = 0
		case a == One && b == Zero:
			bits[i/2] = 1
		default:
			return nil, decodeErr(Manchester, ErrInvalidSymbol, i,
				"pair "+string([]byte{byte(a), byte(b)})+" is not 01 or 10")
		}
	}
	return bits, nil
}
