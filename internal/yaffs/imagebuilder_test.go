package yaffs

import "encoding/binary"

// headerFields describes one synthetic object header for test image
// construction. Zero values map to sane defaults in buildHeaderPage.
type headerFields struct {
	objType      ObjectType
	parentObjID  uint32
	name         string
	ystMode      uint32
	ystUID       uint32
	ystGID       uint32
	fileSizeLow  uint32
	fileSizeHigh uint32
	equivID      uint32
	alias        string
	ystRdev      uint32
}

func putU32(buf []byte, offset int, order binary.ByteOrder, v uint32) {
	order.PutUint32(buf[offset:offset+4], v)
}

func putU16(buf []byte, offset int, order binary.ByteOrder, v uint16) {
	order.PutUint16(buf[offset:offset+2], v)
}

func putCstr(buf []byte, offset, fieldLen int, s string) {
	copy(buf[offset:offset+fieldLen], s)
	buf[offset+len(s)] = 0
}

// buildHeaderPage renders one pageSize-byte header chunk at the fixed
// offsets from spec.md §6, pre-filled with 0xFF (the NAND erased-byte
// convention, also satisfying the 0xFFFFFFFF padding field at offset 264).
func buildHeaderPage(order binary.ByteOrder, pageSize int, h headerFields) []byte {
	page := make([]byte, pageSize)
	for i := range page {
		page[i] = 0xFF
	}

	fileSizeHigh := h.fileSizeHigh
	if fileSizeHigh == 0 {
		fileSizeHigh = 0xFFFFFFFF
	}

	putU32(page, 0, order, uint32(h.objType))
	putU32(page, 4, order, h.parentObjID)
	putU16(page, 8, order, 0xFFFF)
	putCstr(page, 10, maxNameLength+1, h.name)
	putU32(page, 268, order, h.ystMode)
	putU32(page, 272, order, h.ystUID)
	putU32(page, 276, order, h.ystGID)
	putU32(page, 292, order, h.fileSizeLow)
	putU32(page, 296, order, h.equivID)
	putCstr(page, 300, maxAliasLength+1, h.alias)
	putU32(page, 460, order, h.ystRdev)
	putU32(page, 496, order, fileSizeHigh)
	return page
}

// buildSpare renders one spareSize-byte spare area.
func buildSpare(order binary.ByteOrder, spareSize int, ecc bool, chunkID, objID uint32) []byte {
	spare := make([]byte, spareSize)
	for i := range spare {
		spare[i] = 0xFF
	}
	offset := 4
	if !ecc {
		offset = 6
	}
	putU32(spare, offset-4, order, chunkID)
	putU32(spare, offset, order, objID)
	return spare
}

// imageBuilder accumulates chunks (header or data pages, each with its
// spare) to assemble a synthetic YAFFS image byte-for-byte.
type imageBuilder struct {
	cfg *Config
	buf []byte
}

func newImageBuilder(cfg *Config) *imageBuilder {
	return &imageBuilder{cfg: cfg}
}

func (b *imageBuilder) addHeader(objID uint32, h headerFields) {
	page := buildHeaderPage(b.cfg.Endianness, b.cfg.PageSize, h)
	spare := buildSpare(b.cfg.Endianness, b.cfg.SpareSize, b.cfg.ECCLayout, 0, objID)
	b.buf = append(b.buf, page...)
	b.buf = append(b.buf, spare...)
}

func (b *imageBuilder) addFile(objID uint32, h headerFields, data []byte) {
	h.objType = ObjectTypeFile
	h.fileSizeLow = uint32(len(data))
	b.addHeader(objID, h)

	chunkID := uint32(1)
	for off := 0; off < len(data); off += b.cfg.PageSize {
		end := off + b.cfg.PageSize
		if end > len(data) {
			end = len(data)
		}
		page := make([]byte, b.cfg.PageSize)
		for i := range page {
			page[i] = 0xFF
		}
		copy(page, data[off:end])
		spare := buildSpare(b.cfg.Endianness, b.cfg.SpareSize, b.cfg.ECCLayout, chunkID, objID)
		b.buf = append(b.buf, page...)
		b.buf = append(b.buf, spare...)
		chunkID++
	}
}

func (b *imageBuilder) bytes() []byte {
	return b.buf
}
