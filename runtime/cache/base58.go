package cache

// base58Alphabet is the teacher's Bitcoin-style alphabet (no 0/O/I/l
// ambiguity), from core/sdk/secret/base58.go.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// encodeBase58 encodes data to a base58 string. Unlike the teacher's
// EncodeBase58 (fixed to 8-byte secret-ID digests), this accepts any
// length, since a cache key (a truncated BLAKE2b-256 digest) is 16 bytes.
func encodeBase58(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	num := make([]byte, len(data))
	copy(num, data)

	var result []byte
	for anyNonZero(num) {
		var remainder int
		for j := 0; j < len(num); j++ {
			acc := remainder*256 + int(num[j])
			num[j] = byte(acc / 58)
			remainder = acc % 58
		}
		result = append([]byte{base58Alphabet[remainder]}, result...)
	}

	for _, b := range data {
		if b != 0 {
			break
		}
		result = append([]byte{'1'}, result...)
	}

	if len(result) == 0 {
		return "1"
	}
	return string(result)
}

func anyNonZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return true
		}
	}
	return false
}
