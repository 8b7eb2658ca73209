// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// File wraps the pure ParseGAR/ParseSSS/GetResults pipeline with the
// file-access and logging conveniences a CLI wants, mirroring the
// teacher's own File/Options/New/NewBytes/Parse/Close shape. The core
// decode functions above never touch a filesystem or a logger
// themselves (spec.md §5): this type is the thin, stateful layer
// around them.
type File struct {
	Results *Results
	Members map[string][]byte

	data   []byte
	mapped mmap.MMap
	f      *os.File
	opts   *Options
	logger *log.Helper
}

// Options configures a File. There is no persisted configuration and
// no environment variable reads anywhere in this module (spec.md §6);
// every knob lives here.
type Options struct {
	// Logger receives warnings for recoverable situations (a
	// checksum that used the documented -1 tolerance, a duplicate GAR
	// filename). Defaults to a stderr logger filtered at LevelError
	// when nil, so silent by default unless something actually fails.
	Logger log.Logger

	// StrictChecksum rejects the documented checksum-minus-one
	// tolerance (spec.md §4.4) instead of accepting it. Default false.
	StrictChecksum bool

	// MaxMemberSize bounds a single GAR member's declared length
	// fields. Default DefaultMaxMemberSize when zero.
	MaxMemberSize uint32
}

func (o *Options) maxMemberSize() uint32 {
	if o.MaxMemberSize == 0 {
		return DefaultMaxMemberSize
	}
	return o.MaxMemberSize
}

func newHelper(opts *Options) *log.Helper {
	if opts.Logger != nil {
		return log.NewHelper(opts.Logger)
	}
	return log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stderr),
		log.FilterLevel(log.LevelError)))
}

// New instantiates a File by memory-mapping the named GAR container.
func New(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := newFile(opts)
	file.data = data
	file.mapped = data
	file.f = f
	return file, nil
}

// NewBytes instantiates a File from an in-memory buffer.
func NewBytes(data []byte, opts *Options) (*File, error) {
	file := newFile(opts)
	file.data = data
	return file, nil
}

func newFile(opts *Options) *File {
	if opts == nil {
		opts = &Options{}
	}
	return &File{opts: opts, logger: newHelper(opts)}
}

// Close releases the memory mapping (if any) and the underlying file
// handle (if any). It is a no-op for a File built with NewBytes.
func (f *File) Close() error {
	if f.mapped != nil {
		_ = f.mapped.Unmap()
	}
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

// Parse runs the full decode pipeline: GAR-decode, then SSS-decode and
// assemble TestResults.sss, populating Members and Results.
func (f *File) Parse() error {
	members, err := parseGARMembers(f.data, f.opts.maxMemberSize())
	if err != nil {
		return err
	}

	f.Members = make(map[string][]byte, len(members))
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if seen[m.Filename] {
			f.logger.Warnf("duplicate GAR member filename %q, last write wins", m.Filename)
		}
		seen[m.Filename] = true
		f.Members[m.Filename] = m.Plaintext
	}

	sssData, hasSSS := f.Members[sssMemberName]
	images := make(map[string][]byte, len(f.Members))
	for name, plaintext := range f.Members {
		if name != sssMemberName {
			images[name] = plaintext
		}
	}

	results := &Results{Images: images}
	if hasSSS {
		var records []Record
		if f.opts.StrictChecksum {
			records, err = ParseSSSStrict(sssData)
		} else {
			records, err = ParseSSS(sssData)
		}
		if err != nil {
			return err
		}
		for _, rec := range records {
			if rec.ChecksumTolerated {
				f.logger.Debugf("record at checksum %#x used the -1 tolerance", rec.Checksum)
			}
			if rec.Test != nil {
				results.TestResults = append(results.TestResults, assembleTestResultView(*rec.Test))
			}
		}
	}

	f.Results = results
	return nil
}
