package yaffs

import "golang.org/x/xerrors"

// UnexpectedEOFError is returned by the byte reader when a read would run
// past the end of the image.
type UnexpectedEOFError struct {
	At   int
	Need int
}

func (e *UnexpectedEOFError) Error() string {
	return xerrors.Errorf("unexpected EOF at offset %d: need %d more bytes", e.At, e.Need).Error()
}

// DetectionError is returned by DetectGeometry when geometry/endianness/ECC
// layout cannot be inferred from the sample.
type DetectionError struct {
	Cause string
}

func (e *DetectionError) Error() string {
	return xerrors.Errorf("geometry detection failed: %s", e.Cause).Error()
}

// CorruptNameError is returned by the entry parser when an object name
// contains a non-printable byte, which signals trailing garbage rather than
// a genuine object header.
type CorruptNameError struct {
	ObjectID uint32
	Name     []byte
}

func (e *CorruptNameError) Error() string {
	return xerrors.Errorf("object %d has a non-printable name %q", e.ObjectID, e.Name).Error()
}

// OversizeFileError is returned by the log parser when a declared file size
// exceeds the number of bytes remaining in the image.
type OversizeFileError struct {
	ObjectID uint32
	Size     uint64
}

func (e *OversizeFileError) Error() string {
	return xerrors.Errorf("object %d declares file size %d, which exceeds the remaining image", e.ObjectID, e.Size).Error()
}
