// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/spf13/cobra"

	seaward "github.com/dtwood/seaward-super-string-parser"
)

const defaultGarPath = "ApolloDownload.gar"

func prettyPrint(buf []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, buf, "", "\t"); err != nil {
		log.Println("JSON indent error:", err)
		return string(buf)
	}
	return out.String()
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer data.Unmap()

	// Copy out of the mapping before it is unmapped on return.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func newRootCommand() *cobra.Command {
	var (
		wantMembers bool
		wantImages  bool
		strict      bool
		byID        string
	)

	cmd := &cobra.Command{
		Use:   "gardump [gar_file]",
		Short: "Decode a Seaward GAR/SSS appliance test export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultGarPath
			if len(args) == 1 {
				path = args[0]
			}

			log.Printf("processing %s", path)
			data, err := readFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			if wantMembers {
				members, err := seaward.ParseGAR(data)
				if err != nil {
					return fmt.Errorf("decoding GAR container: %w", err)
				}
				names := make([]string, 0, len(members))
				for name := range members {
					names = append(names, name)
				}
				out, _ := json.Marshal(names)
				fmt.Println(prettyPrint(out))
				return nil
			}

			file, err := seaward.NewBytes(data, &seaward.Options{StrictChecksum: strict})
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer file.Close()

			if err := file.Parse(); err != nil {
				return fmt.Errorf("decoding results: %w", err)
			}
			results := file.Results

			if byID != "" {
				out, _ := json.Marshal(results.ByID(byID))
				fmt.Println(prettyPrint(out))
				return nil
			}

			if wantImages {
				names := make([]string, 0, len(results.Images))
				for name := range results.Images {
					names = append(names, seaward.SanitizeFilename(name))
				}
				out, _ := json.Marshal(names)
				fmt.Println(prettyPrint(out))
				return nil
			}

			sorted := append([]seaward.TestResultView(nil), results.TestResults...)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i].TestTime.Before(sorted[j].TestTime)
			})

			out, err := json.Marshal(sorted)
			if err != nil {
				return fmt.Errorf("marshaling results: %w", err)
			}
			fmt.Println(prettyPrint(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&wantMembers, "members", false, "list raw GAR member filenames instead of decoding SSS")
	cmd.Flags().BoolVar(&wantImages, "images", false, "list non-SSS member filenames (typically JPEGs)")
	cmd.Flags().BoolVar(&strict, "strict-checksum", false, "reject the documented checksum -1 tolerance")
	cmd.Flags().StringVar(&byID, "id", "", "filter test results to one device id")

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Println("error:", err)
		os.Exit(1)
	}
}
