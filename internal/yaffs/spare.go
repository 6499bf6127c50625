package yaffs

// parseSpare decodes a spare_size-byte slice into a SpareRecord. When ECC
// layout is disabled, two padding bytes (a vestigial CRC slot) precede the
// chunk_id. Trailing bytes in the spare are ignored.
func parseSpare(data []byte, cfg *Config) (SpareRecord, error) {
	r := newByteReader(data, cfg.Endianness)

	if !cfg.ECCLayout {
		if _, err := r.readBytes(2); err != nil {
			return SpareRecord{}, err
		}
	}

	chunkID, err := r.readU32()
	if err != nil {
		return SpareRecord{}, err
	}
	objID, err := r.readU32()
	if err != nil {
		return SpareRecord{}, err
	}

	return SpareRecord{ChunkID: chunkID, ObjID: objID}, nil
}
