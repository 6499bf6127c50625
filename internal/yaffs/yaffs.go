// Package yaffs implements a reader and extractor for YAFFS2 (Yet Another
// Flash File System) images: geometry detection, a streaming page/spare
// parser, and a three-pass materialiser that reconstructs the image's
// directory hierarchy on the host filesystem.
package yaffs

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// ExtractImage parses image under cfg and materialises every recovered
// object under outDir, which must already exist. It returns the number of
// objects parsed and the (dirs, files, links) creation counts.
func ExtractImage(ctx context.Context, image []byte, cfg *Config, outDir string, log logrus.FieldLogger) (objCount int, counts Counts, err error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	p := NewParser(image, cfg)
	ex := NewExtractor(cfg, log)

	objCount, err = ex.Parse(p)
	if err != nil {
		return objCount, Counts{}, err
	}

	counts, err = ex.Extract(ctx, outDir)
	if err != nil {
		return objCount, counts, xerrors.Errorf("extracting: %w", err)
	}
	return objCount, counts, nil
}
