package linecode

import "fmt"

// 4B/5B data codewords, indexed by the 4-bit nibble (MSB first)
var codewords4B5B = [16]uint8{
	0b11110, // 0000
	0b01001, // 0001
	0b10100, // 0010
	0b10101, // 0011
	0b01010, // 0100
	0b01011, // 0101
	0b01110, // 0110
	0b01111, // 0111
	0b10010, // 1000
	0b10011, // 1001
	0b10110, // 1010
	0b10111, // 1011
	0b11010, // 1100
	0b11011, // 1101
	0b11100, // 1110
	0b11101, // 1111
}

// reverse lookup, -1 marks codewords outside the data set
var nibbles4B5B = func() [32]int8 {
	var t [32]int8
	for i := range t {
		t[i] = -1
	}
	for nibble, cw := range codewords4B5B {
		t[cw] = int8(nibble)
	}
	return t
}()

// Codeword4B5B returns the 5-bit codeword for a 4-bit nibble
func Codeword4B5B(nibble uint8) uint8 {
	return codewords4B5B[nibble&0x0F]
}

// Nibble4B5B reverse-looks-up a 5-bit codeword
func Nibble4B5B(codeword uint8) (uint8, bool) {
	if codeword > 0x1F {
		return 0, false
	}
	n := nibbles4B5B[codeword]
	if n < 0 {
		return 0, false
	}
	return uint8(n), true
}

func encode4B5B(bits Bitstream) (Signal, error) {
	if len(bits)%4 != 0 {
		return nil, encodeErr(FourBFiveB, ErrInvalidLength, -1,
			fmt.Sprintf("length %d is not a multiple of 4", len(bits)))
	}
	sig := make(Signal, 0, len(bits)/4*5)
	for i := 0; i < len(bits); i += 4 {
		nibble := uint8(bits[i])<<3 | uint8(bits[i+1])<<2 | uint8(bits[i+2])<<1 | uint8(bits[i+3])
		cw := codewords4B5B[nibble]
		for j := 4; j >= 0; j-- {
			if cw>>uint(j)&1 == 1 {
				sig = append(sig, One)
			} else {
				sig = append(sig, Zero)
			}
		}
	}
	return sig, nil
}

func decode4B5B(sig Signal) (Bitstream, error) {
	if len(sig)%5 != 0 {
		return nil, decodeErr(FourBFiveB, ErrInvalidLength, -1,
			fmt.Sprintf("length %d is not a multiple of 5", len(sig)))
	}
	bits := make(Bitstream, 0, len(sig)/5*4)
	for i := 0; i < len(sig); i += 5 {
		var cw uint8
		for j := 0; j < 5; j++ {
			switch sig[i+j] {
			case Zero:
				cw <<= 1
			case One:
				cw = cw<<1 | 1
			default:
				return nil, decodeErr(FourBFiveB, ErrInvalidSymbol, i+j, "want 0 or 1, got "+quote(sig[i+j]))
			}
		}
		nibble, ok := Nibble4B5B(cw)
		if !ok {
			return nil, decodeErr(FourBFiveB, ErrInvalidCodeword, i,
				fmt.Sprintf("%05b has no table entry", cw))
		}
		bits = append(bits, Bit(nibble>>3&1), Bit(nibble>>2&1), Bit(nibble>>1&1), Bit(nibble&1))
	}
	return bits, nil
}
