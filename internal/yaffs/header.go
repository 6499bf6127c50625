package yaffs

// parseHeader decodes a page-sized buffer into an ObjectRecord, reading
// fields in the fixed-offset order from spec.md §6. Trailing page bytes
// beyond offset 509 are padding and are ignored.
func parseHeader(page []byte, spare SpareRecord, cfg *Config) (*ObjectRecord, error) {
	r := newByteReader(page, cfg.Endianness)

	rawType, err := r.readU32()
	if err != nil {
		return nil, err
	}
	rec := &ObjectRecord{ObjType: ObjectType(rawType), Spare: spare}

	if rec.ParentObjID, err = r.readU32(); err != nil {
		return nil, err
	}
	if _, err = r.readU16(); err != nil { // sum_no_longer_used, unused
		return nil, err
	}
	if rec.Name, err = r.takeCstr(maxNameLength + 1); err != nil {
		return nil, err
	}
	if err := checkPrintable(rec.Name, spare.ObjID); err != nil {
		return nil, err
	}
	if _, err = r.readU32(); err != nil { // 0xFFFFFFFF padding
		return nil, err
	}
	if rec.YSTMode, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.YSTUid, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.YSTGid, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.YSTAtime, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.YSTMtime, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.YSTCtime, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.FileSizeLow, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.EquivID, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.Alias, err = r.takeCstr(maxAliasLength + 1); err != nil {
		return nil, err
	}
	if rec.YSTRdev, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.WinCTime1, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.WinCTime2, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.WinATime1, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.WinATime2, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.WinMTime1, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.WinMTime2, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.InbandShadowedObjID, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.InbandIsShrink, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.FileSizeHigh, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.Reserved, err = r.readU8(); err != nil {
		return nil, err
	}
	if rec.ShadowsObj, err = r.readU32(); err != nil {
		return nil, err
	}
	if rec.IsShrink, err = r.readU32(); err != nil {
		return nil, err
	}

	rec.FileSize = computeFileSize(rec.FileSizeLow, rec.FileSizeHigh)

	return rec, nil
}

// checkPrintable guards against trailing garbage being misread as an
// object record: a name containing any byte outside the printable ASCII
// range aborts parsing entirely, per spec.md §4.4.
func checkPrintable(name []byte, objID uint32) error {
	for _, b := range name {
		if !isPrintableASCII(b) {
			return &CorruptNameError{ObjectID: objID, Name: name}
		}
	}
	return nil
}

// isPrintableASCII matches Python's string.printable: digits, ASCII
// letters, punctuation, and whitespace (space, tab, newline, etc.).
func isPrintableASCII(b byte) bool {
	if b >= 0x20 && b < 0x7f {
		return true
	}
	switch b {
	case '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
