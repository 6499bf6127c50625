package yaffs

import "github.com/sirupsen/logrus"

// logRecord emits a verbose, per-object debug line, grounded in the
// original tool's _print_entry dump: type, id, parent, computed path, and
// the type-specific extra (symlink target or hard-link equivalent).
func logRecord(log logrus.FieldLogger, rec *ObjectRecord, path string) {
	fields := logrus.Fields{
		"obj_id":    rec.ObjID(),
		"parent_id": rec.ParentObjID,
		"type":      rec.ObjType.String(),
		"path":      path,
		"size":      rec.FileSize,
		"mode":      rec.YSTMode,
		"uid":       rec.YSTUid,
		"gid":       rec.YSTGid,
	}
	switch rec.ObjType {
	case ObjectTypeSymlink:
		fields["alias"] = string(rec.Alias)
	case ObjectTypeHardlink:
		fields["equiv_id"] = rec.EquivID
	case ObjectTypeSpecial:
		fields["rdev"] = rec.YSTRdev
	}
	log.WithFields(fields).Debug("parsed object")
}
