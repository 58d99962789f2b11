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

package cli

import (
	"fmt"
	"io"
	"os"

	pb "gopkg.in/cheggaaa/pb.v1"
)

// progressReader is an io.ReadCloser with an associated ProgressBar.
// Closing it closes the delegate and clears the terminal's status line.
type progressReader struct {
	r   io.ReadCloser
	bar *pb.ProgressBar
}

// WrapInputFile wraps f with a byte-count progress bar sized to its stat'd
// length. Stdin has no knowable length and is returned unwrapped.
func WrapInputFile(f *os.File) (io.ReadCloser, error) {
	if f == os.Stdin {
		return os.Stdin, nil
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	bar := pb.New(int(fi.Size())).SetUnits(pb.U_BYTES_DEC).SetWidth(79)
	bar.Output = os.Stderr
	bar.Start()

	return progressReader{r: bar.NewProxyReader(f), bar: bar}, nil
}

// Read implements io.Reader by delegation.
func (p progressReader) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

// Close implements io.Closer, clearing the status line before closing the
// delegate.
func (p progressReader) Close() error {
	p.bar.Output = nil
	p.bar.NotPrint = true
	p.bar.Finish()

	fmt.Fprint(os.Stderr, "\033[2K\r")

	return p.r.Close()
}
