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

// Package cli holds the osmxml command tree and the input-handling helpers
// its subcommands share.
package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd is the entry point subcommands register themselves against from
// their init functions.
var RootCmd = &cobra.Command{
	Use:   "osmxml",
	Short: "Inspect and stream OpenStreetMap XML files",
	Long:  "osmxml reads OpenStreetMap XML (.osm/.osmChange) documents and reports on or streams their contents.",
}

// Execute runs the command tree, returning the error cobra accumulated, if
// any.
func Execute() error {
	return RootCmd.Execute()
}
