// Command yaffshiv extracts the contents of a YAFFS2 image into a
// directory tree on the host filesystem.
package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/devttys0/yaffshiv/internal/yaffs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// sampleSize must cover the largest page size geometry detection tries
// (16384 bytes, per yaffs.DetectGeometry's candidate list) plus its spare
// and trailer bytes, or that candidate can never be reached.
var sampleSize = yaffs.MinSampleSize(16384)

type options struct {
	file         string
	dir          string
	pageSize     int
	spareSize    int
	endianness   string
	noECC        bool
	auto         bool
	ownership    bool
	debug        bool
	preserveMode bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{
		pageSize:     2048,
		spareSize:    64,
		endianness:   "little",
		preserveMode: true,
	}

	cmd := &cobra.Command{
		Use:           "yaffshiv",
		Short:         "Extract a YAFFS2 image into a directory tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "YAFFS input file (required)")
	flags.StringVarP(&opts.dir, "dir", "d", "", "extract YAFFS files to this directory (required, must not exist)")
	flags.IntVarP(&opts.pageSize, "page-size", "p", opts.pageSize, "YAFFS page size")
	flags.IntVarP(&opts.spareSize, "spare-size", "s", opts.spareSize, "YAFFS spare size")
	flags.StringVarP(&opts.endianness, "endianness", "e", opts.endianness, "input file endianness: big|little")
	flags.BoolVarP(&opts.noECC, "no-ecc", "n", false, "don't use the YAFFS ECC oob scheme")
	flags.BoolVarP(&opts.auto, "auto", "a", false, "auto-detect page size, spare size, ECC, and endianness from the image")
	flags.BoolVarP(&opts.ownership, "ownership", "o", false, "preserve original ownership of extracted files")
	flags.BoolVarP(&opts.debug, "debug", "D", false, "enable verbose debug output")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	log := logrus.StandardLogger()
	if opts.debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if opts.file == "" || opts.dir == "" {
		_ = cmd.Usage()
		return fmt.Errorf("both -f/--file and -d/--dir are required")
	}

	data, err := ioutil.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("failed to open file %q: %w", opts.file, err)
	}

	if err := os.Mkdir(opts.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cfg, err := resolveConfig(cmd, opts, data)
	if err != nil {
		return err
	}

	fmt.Println("Parsing YAFFS objects...")
	objCount, counts, err := yaffs.ExtractImage(context.Background(), data, cfg, opts.dir, log)
	if err != nil {
		return err
	}
	fmt.Printf("Parsed %d objects\n", objCount)
	fmt.Printf("Created %d directories, %d files, and %d links.\n", counts.Dirs, counts.Files, counts.Links)

	return nil
}

// resolveConfig builds the geometry/policy Config, applying the CLI
// precedence rule from spec.md §6: when --auto is given, detection runs
// first and then any explicitly-set flags override the detected values.
func resolveConfig(cmd *cobra.Command, opts *options, data []byte) (*yaffs.Config, error) {
	cfg := &yaffs.Config{
		Endianness: binary.LittleEndian,
		PageSize:   opts.pageSize,
		SpareSize:  opts.spareSize,
		ECCLayout:  !opts.noECC,
	}

	if opts.auto {
		n := sampleSize
		if n > len(data) {
			n = len(data)
		}
		detected, err := yaffs.DetectGeometry(data[:n])
		if err != nil {
			return nil, fmt.Errorf("auto-detection failed: %w", err)
		}
		cfg = detected
	}

	flags := cmd.Flags()
	if flags.Changed("page-size") {
		cfg.PageSize = opts.pageSize
	}
	if flags.Changed("spare-size") {
		cfg.SpareSize = opts.spareSize
	}
	if flags.Changed("endianness") {
		order, err := parseEndianness(opts.endianness)
		if err != nil {
			return nil, err
		}
		cfg.Endianness = order
	}
	if flags.Changed("no-ecc") {
		cfg.ECCLayout = !opts.noECC
	}

	cfg.PreserveMode = opts.preserveMode
	cfg.PreserveOwner = opts.ownership
	cfg.Debug = opts.debug

	return cfg, nil
}

func parseEndianness(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "little", "le", "l":
		return binary.LittleEndian, nil
	case "big", "be", "b":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("invalid --endianness %q: must be big|little", s)
	}
}
