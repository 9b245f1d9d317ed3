// Package fingerprint computes the 32-bit rolling checksum that the Stellate
// collector uses to detect changes in variables and response bodies.
//
// The checksum is the classic multiplicative string hash (h = h*31 + b)
// truncated to 32 unsigned bits after every byte. It is fast and stable
// across platforms but it is NOT a cryptographic digest: collisions are easy
// to construct, so never use it for integrity or authentication.
//
// Example:
//
//	h := fingerprint.String(`{"id":1}`)
package fingerprint

// Sum32 returns the checksum of b. An empty input hashes to 0.
func Sum32(b []byte) uint32 {
	var acc uint32
	for _, c := range b {
		// uint32 arithmetic wraps, which is the mod 2^32 truncation we need.
		acc = acc*31 + uint32(c)
	}
	return acc
}

// String returns the checksum of the UTF-8 bytes of s.
func String(s string) uint32 {
	var acc uint32
	for i := 0; i < len(s); i++ {
		acc = acc*31 + uint32(s[i])
	}
	return acc
}
