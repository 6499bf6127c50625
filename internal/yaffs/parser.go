package yaffs

// Parser walks an in-memory YAFFS image page-by-page, yielding one
// ObjectRecord per header page plus whatever data pages its declared file
// size consumes. It holds the whole image and is restartable only by
// constructing a new Parser — there is no seek/rewind primitive, matching
// the single-pass, single-threaded model in spec.md §5.
type Parser struct {
	image  []byte
	cfg    *Config
	offset int
}

// NewParser returns a Parser positioned at the start of image.
func NewParser(image []byte, cfg *Config) *Parser {
	return &Parser{image: image, cfg: cfg}
}

func (p *Parser) chunkSize() int {
	return p.cfg.PageSize + p.cfg.SpareSize
}

// Next returns the next ObjectRecord in on-disk order. ok is false (with a
// nil error) once the image is exhausted.
func (p *Parser) Next() (rec *ObjectRecord, ok bool, err error) {
	if p.offset >= len(p.image) {
		return nil, false, nil
	}
	if p.offset+p.chunkSize() > len(p.image) {
		// Trailing partial chunk: treat as end of log, not an error —
		// real images often have slack space at the end of the last block.
		return nil, false, nil
	}

	page, spare, err := p.readChunk()
	if err != nil {
		return nil, false, err
	}

	spareRec, err := parseSpare(spare, p.cfg)
	if err != nil {
		return nil, false, err
	}

	header, err := parseHeader(page, spareRec, p.cfg)
	if err != nil {
		return nil, false, err
	}

	if header.ObjType == ObjectTypeFile && header.FileSize > 0 {
		numChunks := (header.FileSize + uint64(p.cfg.PageSize) - 1) / uint64(p.cfg.PageSize)
		needed := numChunks * uint64(p.chunkSize())
		if needed > uint64(len(p.image)-p.offset) {
			return nil, false, &OversizeFileError{ObjectID: header.ObjID(), Size: header.FileSize}
		}
		if err := p.readFileData(header); err != nil {
			return nil, false, err
		}
	}

	return header, true, nil
}

func (p *Parser) readChunk() (page, spare []byte, err error) {
	page, err = p.sliceAt(p.offset, p.cfg.PageSize)
	if err != nil {
		return nil, nil, err
	}
	spare, err = p.sliceAt(p.offset+p.cfg.PageSize, p.cfg.SpareSize)
	if err != nil {
		return nil, nil, err
	}
	p.offset += p.chunkSize()
	return page, spare, nil
}

func (p *Parser) sliceAt(offset, n int) ([]byte, error) {
	if offset+n > len(p.image) {
		return nil, &UnexpectedEOFError{At: offset, Need: n}
	}
	return p.image[offset : offset+n], nil
}

// readFileData consumes exactly as many data pages as required by
// header.FileSize, appending min(page_size, remaining) bytes from each.
// The capacity is preallocated up front to avoid quadratic copy growth on
// large files.
func (p *Parser) readFileData(header *ObjectRecord) error {
	remaining := header.FileSize
	header.FileData = make([]byte, 0, remaining)

	for remaining > 0 {
		page, _, err := p.readChunk()
		if err != nil {
			return err
		}
		take := uint64(len(page))
		if take > remaining {
			take = remaining
		}
		header.FileData = append(header.FileData, page[:take]...)
		remaining -= take
	}
	return nil
}
