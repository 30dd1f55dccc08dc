package media

// CRC-32/BZIP2: poly 0x04C11DB7, init 0xFFFFFFFF, no input/output
// reflection, xorout 0xFFFFFFFF. This is the reference algorithm named in
// spec.md §6. Go's standard hash/crc32 package only tables the reflected
// IEEE/Castagnoli/Koopman variants (table built for LSB-first processing);
// BZIP2 needs MSB-first processing with no reflection, which
// crc32.MakeTable cannot produce, so the table is built here directly.
const crc32BZIP2Poly uint32 = 0x04C11DB7

var crc32BZIP2Table = buildCRC32BZIP2Table()

func buildCRC32BZIP2Table() [256]uint32 {
	var table [256]uint32
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ crc32BZIP2Poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// CRC32BZIP2 computes the CRC-32/BZIP2 checksum over length words of
// buffer, treating each word as four little-endian bytes per spec.md §3's
// on-media layout convention.
func CRC32BZIP2(buffer []uint32, length uint32) uint32 {
	crc := uint32(0xFFFFFFFF)
	for i := uint32(0); i < length; i++ {
		w := buffer[i]
		bytes := [4]byte{
			byte(w),
			byte(w >> 8),
			byte(w >> 16),
			byte(w >> 24),
		}
		for _, b := range bytes {
			crc = crc32BZIP2Table[byte(crc>>24)^b] ^ (crc << 8)
		}
	}
	return crc ^ 0xFFFFFFFF
}
