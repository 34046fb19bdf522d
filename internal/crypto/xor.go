// Package crypto decodes the XOR-chained payload of BMD v12 model files.
package crypto

// XORKey is the 16-byte key BMD v12 payloads are chained against.
var XORKey = [16]byte{
	0xD1, 0x73, 0x52, 0xF6, 0xD2, 0x9A, 0xCB, 0x27,
	0x3E, 0xAF, 0x59, 0x31, 0x37, 0xB3, 0xE7, 0xA2,
}

const chainSeed = 0x5E

// DecryptXOR decodes a BMD v12 payload. The chain value starts at 0x5E and
// follows the ciphertext:
//
//	out[i] = (data[i] ^ XORKey[i&15]) - chain
//	chain  = data[i] + 0x3D
func DecryptXOR(data []byte) []byte {
	out := make([]byte, len(data))
	chain := byte(chainSeed)
	for i, b := range data {
		out[i] = (b ^ XORKey[i&15]) - chain
		chain = b + 0x3D
	}
	return out
}

// EncryptXOR is the inverse of DecryptXOR.
func EncryptXOR(plain []byte) []byte {
	out := make([]byte, len(plain))
	chain := byte(chainSeed)
	for i, p := range plain {
		c := (p + chain) ^ XORKey[i&15]
		out[i] = c
		chain = c + 0x3D
	}
	return out
}
