package yaffs

import (
	"bytes"
	"encoding/binary"
)

// candidatePageSizes are tried in ascending order; the first one whose
// spare area matches a known signature wins.
var candidatePageSizes = []int{512, 1024, 2048, 4096, 8192, 16384}

// validSpareSizes is page_size/32 for every candidate page size, the sanity
// set a detected spare size must belong to.
func validSpareSizes() map[int]bool {
	out := make(map[int]bool, len(candidatePageSizes))
	for _, p := range candidatePageSizes {
		out[p/32] = true
	}
	return out
}

type spareSignature struct {
	order     binary.ByteOrder
	eccLayout bool
	prefix    []byte
}

var spareSignatures = []spareSignature{
	{binary.LittleEndian, true, []byte{0x00, 0x10, 0x00, 0x00}},
	{binary.LittleEndian, false, []byte{0xFF, 0xFF, 0x00, 0x10, 0x00, 0x00}},
	{binary.BigEndian, true, []byte{0x00, 0x00, 0x10, 0x00}},
	{binary.BigEndian, false, []byte{0xFF, 0xFF, 0x00, 0x00, 0x10, 0x00}},
}

// MinSampleSize is the minimum sample length required to support detection
// up to the given maximum page size: the page, its page/32 spare, and the
// 6-byte trailer that detectSpareSize expects 4 bytes past the spare.
func MinSampleSize(maxPageSize int) int {
	return maxPageSize + maxPageSize/32 + 4 + 6
}

// DetectGeometry infers page size, spare size, endianness, and ECC layout
// from a raw sample of the image's first bytes, per spec.md §4.2. The
// sample should be at least 10 KiB to support page sizes up to 8 KiB;
// callers supporting 16384-byte pages must supply a larger sample (see
// MinSampleSize).
func DetectGeometry(sample []byte) (*Config, error) {
	for _, pageSize := range candidatePageSizes {
		if pageSize >= len(sample) {
			continue
		}
		spareArea := sample[pageSize:]
		for _, sig := range spareSignatures {
			if bytes.HasPrefix(spareArea, sig.prefix) {
				spareSize, err := detectSpareSize(sample, pageSize, sig.order, sig.eccLayout)
				if err != nil {
					return nil, err
				}
				return &Config{
					Endianness: sig.order,
					PageSize:   pageSize,
					SpareSize:  spareSize,
					ECCLayout:  sig.eccLayout,
				}, nil
			}
		}
	}
	return nil, &DetectionError{Cause: "spare start"}
}

func detectSpareSize(sample []byte, pageSize int, order binary.ByteOrder, eccLayout bool) (int, error) {
	offset := 4
	if !eccLayout {
		offset = 6
	}

	sigStart := pageSize + offset
	if sigStart+4 > len(sample) {
		return 0, &DetectionError{Cause: "spare end"}
	}
	trailer := append(append([]byte{}, sample[sigStart:sigStart+4]...), 0xFF, 0xFF)

	spareArea := sample[pageSize:]
	idx := bytes.Index(spareArea, trailer)
	if idx < 0 {
		return 0, &DetectionError{Cause: "spare end"}
	}
	spareSize := idx - 4
	if spareSize < 0 || !validSpareSizes()[spareSize] {
		return 0, &DetectionError{Cause: "implausible spare size"}
	}
	return spareSize, nil
}
