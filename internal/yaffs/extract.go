package yaffs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// Counts is the (dirs_created, files_created, links_created) triple
// returned by Extract for reporting, per spec.md §4.6.
type Counts struct {
	Dirs  int
	Files int
	Links int
}

// Extractor builds the obj_id -> record and obj_id -> path maps while
// draining a Parser, then materialises them onto the host filesystem in
// three fixed passes.
type Extractor struct {
	cfg *Config
	log logrus.FieldLogger

	entries map[uint32]*ObjectRecord
	paths   map[uint32]string
	order   []uint32 // emission order, for deterministic directory creation
}

// NewExtractor returns an Extractor for the given geometry. log receives
// per-object warnings (orphan parent, dangling hard link, materialisation
// failures); pass logrus.StandardLogger() for default behaviour.
func NewExtractor(cfg *Config, log logrus.FieldLogger) *Extractor {
	return &Extractor{
		cfg:     cfg,
		log:     log,
		entries: make(map[uint32]*ObjectRecord),
		paths:   make(map[uint32]string),
	}
}

// Parse drains every record from p, building the path table. Parsing errors
// (spec.md §7's fatal "parse errors") abort the whole run.
func (e *Extractor) Parse(p *Parser) (int, error) {
	for {
		rec, ok, err := p.Next()
		if err != nil {
			return len(e.entries), xerrors.Errorf("parsing: %w", err)
		}
		if !ok {
			break
		}
		e.insert(rec)

		if e.cfg.Debug {
			logRecord(e.log, rec, e.paths[rec.ObjID()])
		}
	}
	return len(e.entries), nil
}

func (e *Extractor) insert(rec *ObjectRecord) {
	id := rec.ObjID()
	if _, seen := e.entries[id]; !seen {
		e.order = append(e.order, id)
	}
	e.entries[id] = rec

	if parentPath, ok := e.paths[rec.ParentObjID]; ok {
		e.paths[id] = filepath.Join(parentPath, string(rec.Name))
	} else {
		e.paths[id] = string(rec.Name)
		if rec.ParentObjID != RootObjectID {
			e.log.WithFields(logrus.Fields{
				"obj_id":    id,
				"parent_id": rec.ParentObjID,
				"name":      string(rec.Name),
			}).Warn("orphan parent: treating as top-level name")
		}
	}
}

// Extract materialises every parsed, non-UNKNOWN record under outDir in
// three passes: directories, then files/specials, then links. outDir must
// already exist. Materialisation failures are warnings, never fatal, per
// spec.md §7's propagation policy.
func (e *Extractor) Extract(ctx context.Context, outDir string) (Counts, error) {
	var counts Counts

	if err := ctx.Err(); err != nil {
		return counts, err
	}
	counts.Dirs = e.passDirs(outDir)

	if err := ctx.Err(); err != nil {
		return counts, err
	}
	counts.Files = e.passFilesAndSpecials(outDir)

	if err := ctx.Err(); err != nil {
		return counts, err
	}
	counts.Links = e.passLinks(outDir)

	return counts, nil
}

func (e *Extractor) passDirs(outDir string) int {
	created := 0
	for _, id := range e.order {
		rec := e.entries[id]
		path := e.paths[id]
		if rec.ObjType != ObjectTypeDirectory || path == "" {
			continue
		}
		full := filepath.Join(outDir, path)
		if err := os.MkdirAll(full, 0755); err != nil {
			e.warnf(id, "mkdir", full, err)
			continue
		}
		e.applyModeOwner(id, full, rec)
		created++
	}
	return created
}

func (e *Extractor) passFilesAndSpecials(outDir string) int {
	created := 0
	for _, id := range e.order {
		rec := e.entries[id]
		path := e.paths[id]
		if path == "" {
			continue
		}
		full := filepath.Join(outDir, path)

		switch rec.ObjType {
		case ObjectTypeFile:
			if err := writeFile(full, rec.FileData); err != nil {
				e.warnf(id, "create", full, err)
				continue
			}
			e.applyModeOwner(id, full, rec)
			created++
		case ObjectTypeSpecial:
			if err := unix.Mknod(full, rec.YSTMode, int(rec.YSTRdev)); err != nil {
				e.warnf(id, "mknod", full, err)
				continue
			}
			created++
		}
	}
	return created
}

func (e *Extractor) passLinks(outDir string) int {
	created := 0
	for _, id := range e.order {
		rec := e.entries[id]
		path := e.paths[id]
		if path == "" {
			continue
		}
		full := filepath.Join(outDir, path)

		switch rec.ObjType {
		case ObjectTypeSymlink:
			if len(rec.Alias) == 0 {
				e.log.WithField("obj_id", id).Warn("empty symlink alias: skipping")
				continue
			}
			if err := os.Symlink(string(rec.Alias), full); err != nil {
				e.warnf(id, "symlink", full, err)
				continue
			}
			created++
		case ObjectTypeHardlink:
			targetPath, ok := e.paths[rec.EquivID]
			if !ok {
				e.log.WithFields(logrus.Fields{
					"obj_id":   id,
					"equiv_id": rec.EquivID,
				}).Warn("dangling hard link: skipping")
				continue
			}
			if err := os.Link(filepath.Join(outDir, targetPath), full); err != nil {
				e.warnf(id, "link", full, err)
				continue
			}
			created++
		}
	}
	return created
}

func writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Close()
}

func (e *Extractor) applyModeOwner(id uint32, path string, rec *ObjectRecord) {
	if e.cfg.PreserveMode {
		if err := os.Chmod(path, os.FileMode(rec.YSTMode&0o7777)); err != nil {
			e.warnf(id, "chmod", path, err)
		}
	}
	if e.cfg.PreserveOwner {
		if err := os.Chown(path, int(rec.YSTUid), int(rec.YSTGid)); err != nil {
			e.warnf(id, "chown", path, err)
		}
	}
}

func (e *Extractor) warnf(id uint32, op, path string, err error) {
	e.log.WithFields(logrus.Fields{
		"obj_id": id,
		"op":     op,
		"path":   path,
	}).Warnf("%s failed: %v", op, err)
}
