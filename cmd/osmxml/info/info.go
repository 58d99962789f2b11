// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package info implements the "info" subcommand: print an OSM XML
// document's header, optionally scanning the whole stream for entity
// counts.
package info

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmxml"
	"m4o.io/osmxml/cmd/osmxml/cli"
	"m4o.io/osmxml/model"
)

var out io.Writer = os.Stdout

type extendedHeader struct {
	model.Header

	NodeCount      int64
	WayCount       int64
	RelationCount  int64
	ChangesetCount int64
}

func init() {
	cli.RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format information as JSON")
	flags.BoolP("extended", "e", false, "provide extended information (scans the whole document)")
}

var infoCmd = &cobra.Command{
	Use:   "info [<OSM XML file>]",
	Short: "Print information about an OpenStreetMap XML document",
	Long:  "Print information about an OpenStreetMap XML document, read from the named file or from stdin.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var f *os.File

		var err error

		if len(args) == 1 {
			f, err = os.Open(args[0])
			if err != nil {
				log.Fatal(err)
			}
		} else {
			f = os.Stdin
		}

		in, err := cli.WrapInputFile(f)
		if err != nil {
			log.Fatal(err)
		}

		flags := cmd.Flags()

		extended, err := flags.GetBool("extended")
		if err != nil {
			log.Fatal(err)
		}

		result := runInfo(in, extended)

		if err := in.Close(); err != nil {
			log.Fatal(err)
		}

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			log.Fatal(err)
		}

		if jsonfmt {
			renderJSON(result, extended)
		} else {
			renderTxt(result, extended)
		}
	},
}

func runInfo(in io.Reader, extended bool) *extendedHeader {
	readTypes := model.ReadNone
	if extended {
		readTypes = model.ReadAll
	}

	p := osmxml.NewParser(osmxml.WithReadTypes(readTypes))

	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go cli.FeedReader(in, input)

	header := <-headerCh
	if header.Err != nil {
		log.Fatal(header.Err)
	}

	info := &extendedHeader{Header: header.Header}

	if !extended {
		for range results {
			// Drain the (empty) output queue; ReadNone means no buffers
			// are ever produced, but the channel must still be closed.
		}

		return info
	}

	for entity := range osmxml.Entities(results) {
		if entity.Error != nil {
			log.Fatal(entity.Error)
		}

		switch entity.Value.(type) {
		case model.Node:
			info.NodeCount++
		case model.Way:
			info.WayCount++
		case model.Relation:
			info.RelationCount++
		case model.Changeset:
			info.ChangesetCount++
		default:
			log.Fatalf("unknown entity type %T", entity.Value)
		}
	}

	return info
}

func renderJSON(info *extendedHeader, extended bool) {
	var v interface{} = info.Header
	if extended {
		v = info
	}

	b, err := json.Marshal(v)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Fprintln(out, string(b))
}

func renderTxt(info *extendedHeader, extended bool) {
	fmt.Fprintf(out, "Version: %s\n", info.Version)
	fmt.Fprintf(out, "Generator: %s\n", info.Generator)

	if info.BoundingBox != nil {
		fmt.Fprintf(out, "BoundingBox: %s\n", info.BoundingBox)
	}

	fmt.Fprintf(out, "HasMultipleObjectVersions: %t\n", info.HasMultipleObjectVersions)

	if extended {
		fmt.Fprintf(out, "NodeCount: %s\n", humanize.Comma(info.NodeCount))
		fmt.Fprintf(out, "WayCount: %s\n", humanize.Comma(info.WayCount))
		fmt.Fprintf(out, "RelationCount: %s\n", humanize.Comma(info.RelationCount))
		fmt.Fprintf(out, "ChangesetCount: %s\n", humanize.Comma(info.ChangesetCount))
	}
}
